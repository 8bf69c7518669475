package country

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/citytemp-api/internal/lib"
	"github.com/FACorreiaa/citytemp-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// maxCountryDepth bounds the ancestor walk so a corrupt chain cannot loop forever.
const maxCountryDepth = 32

type Service interface {
	CreateCountry(ctx context.Context, params types.CreateCountryParams) (*types.Country, error)
	GetCountry(ctx context.Context, id uuid.UUID) (*types.Country, error)
	ListCountries(ctx context.Context) ([]types.Country, error)
	UpdateCountry(ctx context.Context, id uuid.UUID, params types.UpdateCountryParams) (*types.Country, error)
	DeleteCountry(ctx context.Context, id uuid.UUID) error
	EnsureByName(ctx context.Context, name string) (*types.Country, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewCountryService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) CreateCountry(ctx context.Context, params types.CreateCountryParams) (*types.Country, error) {
	ctx, span := otel.Tracer("CountryService").Start(ctx, "CreateCountry")
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateCountry"))

	params.Name = lib.SanitizeText(params.Name)
	if params.Name == "" {
		span.SetStatus(codes.Error, "Name required")
		return nil, fmt.Errorf("%w: country name is required", types.ErrBadRequest)
	}
	params.Slug = lib.Slugify(params.Slug)
	if params.Slug == "" {
		params.Slug = lib.Slugify(params.Name)
	}
	if params.Slug == "" {
		params.Slug = fallbackSlug()
	}
	if params.ParentID != nil {
		if err := s.checkParent(ctx, uuid.Nil, *params.ParentID); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	c, err := s.repo.Create(ctx, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create country", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to create country: %w", err)
	}

	l.InfoContext(ctx, "Country created", slog.String("country_id", c.ID.String()), slog.String("name", c.Name))
	span.SetAttributes(attribute.String("country.id", c.ID.String()))
	span.SetStatus(codes.Ok, "Country created")
	return c, nil
}

func (s *ServiceImpl) GetCountry(ctx context.Context, id uuid.UUID) (*types.Country, error) {
	ctx, span := otel.Tracer("CountryService").Start(ctx, "GetCountry", trace.WithAttributes(
		attribute.String("country.id", id.String()),
	))
	defer span.End()

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to get country: %w", err)
	}
	span.SetStatus(codes.Ok, "Country retrieved")
	return c, nil
}

// ListCountries returns every country ordered by name.
func (s *ServiceImpl) ListCountries(ctx context.Context) ([]types.Country, error) {
	ctx, span := otel.Tracer("CountryService").Start(ctx, "ListCountries")
	defer span.End()

	l := s.logger.With(slog.String("method", "ListCountries"))

	countries, err := s.repo.List(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list countries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}

	l.DebugContext(ctx, "Countries listed", slog.Int("count", len(countries)))
	span.SetAttributes(attribute.Int("countries.count", len(countries)))
	span.SetStatus(codes.Ok, "Countries listed")
	return countries, nil
}

func (s *ServiceImpl) UpdateCountry(ctx context.Context, id uuid.UUID, params types.UpdateCountryParams) (*types.Country, error) {
	ctx, span := otel.Tracer("CountryService").Start(ctx, "UpdateCountry", trace.WithAttributes(
		attribute.String("country.id", id.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateCountry"), slog.String("countryID", id.String()))

	if params.Name != nil {
		name := lib.SanitizeText(*params.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: country name cannot be empty", types.ErrBadRequest)
		}
		params.Name = &name
	}
	if params.Slug != nil {
		slug := lib.Slugify(*params.Slug)
		if slug == "" {
			return nil, fmt.Errorf("%w: country slug cannot be empty", types.ErrBadRequest)
		}
		params.Slug = &slug
	}
	if params.ParentID != nil && !params.ClearParent {
		if err := s.checkParent(ctx, id, *params.ParentID); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, id, params); err != nil {
		l.ErrorContext(ctx, "Failed to update country", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to update country: %w", err)
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to reload country: %w", err)
	}

	l.InfoContext(ctx, "Country updated")
	span.SetStatus(codes.Ok, "Country updated")
	return c, nil
}

// DeleteCountry removes a country. Its cities stay, detached from any country.
func (s *ServiceImpl) DeleteCountry(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("CountryService").Start(ctx, "DeleteCountry", trace.WithAttributes(
		attribute.String("country.id", id.String()),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete country", slog.String("country_id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return fmt.Errorf("failed to delete country: %w", err)
	}
	s.logger.InfoContext(ctx, "Country deleted", slog.String("country_id", id.String()))
	span.SetStatus(codes.Ok, "Country deleted")
	return nil
}

// EnsureByName finds a country by name (case-insensitive) or creates it.
func (s *ServiceImpl) EnsureByName(ctx context.Context, name string) (*types.Country, error) {
	ctx, span := otel.Tracer("CountryService").Start(ctx, "EnsureByName", trace.WithAttributes(
		attribute.String("country.name", name),
	))
	defer span.End()

	name = lib.SanitizeText(name)
	if name == "" {
		return nil, fmt.Errorf("%w: country name is required", types.ErrBadRequest)
	}

	c, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to look up country: %w", err)
	}

	return s.CreateCountry(ctx, types.CreateCountryParams{Name: name})
}

// fallbackSlug names a country whose name has no letters or digits.
func fallbackSlug() string {
	return "country-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// checkParent verifies that parentID exists and that id is not among its
// ancestors. Pass uuid.Nil as id for a country that does not exist yet.
func (s *ServiceImpl) checkParent(ctx context.Context, id, parentID uuid.UUID) error {
	cur := parentID
	for depth := 0; depth < maxCountryDepth; depth++ {
		if cur == id {
			return fmt.Errorf("%w: a country cannot be its own ancestor", types.ErrBadRequest)
		}
		c, err := s.repo.Get(ctx, cur)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				if depth == 0 {
					return fmt.Errorf("%w: parent country does not exist", types.ErrBadRequest)
				}
				return nil
			}
			return fmt.Errorf("failed to check parent country: %w", err)
		}
		if c.ParentID == nil {
			return nil
		}
		cur = *c.ParentID
	}
	return fmt.Errorf("%w: country hierarchy is too deep", types.ErrBadRequest)
}
