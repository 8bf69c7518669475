package city

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/citytemp-api/internal/lib"
	"github.com/FACorreiaa/citytemp-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreateCity(ctx context.Context, params types.CreateCityParams) (*types.CityDetail, error)
	GetCity(ctx context.Context, id uuid.UUID) (*types.CityDetail, error)
	ListCities(ctx context.Context, filter types.CityFilter) ([]types.CityDetail, error)
	UpdateCity(ctx context.Context, id uuid.UUID, params types.UpdateCityParams) (*types.CityDetail, error)
	DeleteCity(ctx context.Context, id uuid.UUID) error
	SearchPublished(ctx context.Context, search string) ([]types.CitySearchRow, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewCityService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func normalizeStatus(status string) (string, error) {
	switch status {
	case "":
		return types.CityStatusPublish, nil
	case types.CityStatusPublish, types.CityStatusDraft:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown city status %q", types.ErrBadRequest, status)
	}
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := lib.SanitizeText(*s)
	return &v
}

func (s *ServiceImpl) CreateCity(ctx context.Context, params types.CreateCityParams) (*types.CityDetail, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "CreateCity")
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateCity"))

	params.Name = lib.SanitizeText(params.Name)
	params.Latitude = lib.SanitizeText(params.Latitude)
	params.Longitude = lib.SanitizeText(params.Longitude)
	if params.Name == "" {
		span.SetStatus(codes.Error, "Name required")
		return nil, fmt.Errorf("%w: city name is required", types.ErrBadRequest)
	}
	status, err := normalizeStatus(params.Status)
	if err != nil {
		return nil, err
	}
	params.Status = status

	id, err := s.repo.SaveCity(ctx, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to create city: %w", err)
	}

	city, err := s.repo.GetCity(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load created city: %w", err)
	}

	l.InfoContext(ctx, "City created", slog.String("city_id", id.String()), slog.String("name", city.Name))
	span.SetAttributes(attribute.String("city.id", id.String()))
	span.SetStatus(codes.Ok, "City created")
	return city, nil
}

func (s *ServiceImpl) GetCity(ctx context.Context, id uuid.UUID) (*types.CityDetail, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetCity", trace.WithAttributes(
		attribute.String("city.id", id.String()),
	))
	defer span.End()

	city, err := s.repo.GetCity(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	span.SetStatus(codes.Ok, "City retrieved")
	return city, nil
}

// ListCities retrieves cities from the database
func (s *ServiceImpl) ListCities(ctx context.Context, filter types.CityFilter) ([]types.CityDetail, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "ListCities")
	defer span.End()

	l := s.logger.With(slog.String("method", "ListCities"))

	if filter.Status != "" {
		if _, err := normalizeStatus(filter.Status); err != nil {
			return nil, err
		}
	}

	cities, err := s.repo.ListCities(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Failed to retrieve cities from repository", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to retrieve cities: %w", err)
	}

	l.DebugContext(ctx, "Successfully retrieved cities", slog.Int("count", len(cities)))
	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	span.SetStatus(codes.Ok, "Cities retrieved successfully")
	return cities, nil
}

// UpdateCity applies a partial update. Coordinates are only touched when present,
// and present values are sanitized like any other text field.
func (s *ServiceImpl) UpdateCity(ctx context.Context, id uuid.UUID, params types.UpdateCityParams) (*types.CityDetail, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "UpdateCity", trace.WithAttributes(
		attribute.String("city.id", id.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateCity"), slog.String("cityID", id.String()))

	params.Name = sanitizePtr(params.Name)
	if params.Name != nil && *params.Name == "" {
		return nil, fmt.Errorf("%w: city name cannot be empty", types.ErrBadRequest)
	}
	params.Latitude = sanitizePtr(params.Latitude)
	params.Longitude = sanitizePtr(params.Longitude)
	if params.Status != nil {
		status, err := normalizeStatus(*params.Status)
		if err != nil {
			return nil, err
		}
		params.Status = &status
	}

	if err := s.repo.UpdateCity(ctx, id, params); err != nil {
		l.ErrorContext(ctx, "Failed to update city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to update city: %w", err)
	}

	city, err := s.repo.GetCity(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to reload city: %w", err)
	}

	l.InfoContext(ctx, "City updated")
	span.SetStatus(codes.Ok, "City updated")
	return city, nil
}

// DeleteCity removes a city. Widgets showing it lose their selection.
func (s *ServiceImpl) DeleteCity(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("CityService").Start(ctx, "DeleteCity", trace.WithAttributes(
		attribute.String("city.id", id.String()),
	))
	defer span.End()

	if err := s.repo.DeleteCity(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete city", slog.String("city_id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return fmt.Errorf("failed to delete city: %w", err)
	}
	s.logger.InfoContext(ctx, "City deleted", slog.String("city_id", id.String()))
	span.SetStatus(codes.Ok, "City deleted")
	return nil
}

// SearchPublished sanitizes the search text and runs the shared city search.
func (s *ServiceImpl) SearchPublished(ctx context.Context, search string) ([]types.CitySearchRow, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "SearchPublished")
	defer span.End()

	search = lib.SanitizeText(search)
	span.SetAttributes(attribute.String("search.query", search))

	rows, err := s.repo.SearchPublished(ctx, search)
	if err != nil {
		s.logger.ErrorContext(ctx, "City search failed", slog.String("search", search), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to search cities: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(rows)))
	span.SetStatus(codes.Ok, "Cities searched")
	return rows, nil
}
