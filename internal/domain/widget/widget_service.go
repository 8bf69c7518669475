package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/citytemp-api/internal/domain/weather"
	"github.com/FACorreiaa/citytemp-api/internal/lib"
	"github.com/FACorreiaa/citytemp-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// CityReader is the part of the city service the widget needs.
type CityReader interface {
	GetCity(ctx context.Context, id uuid.UUID) (*types.CityDetail, error)
	ListCities(ctx context.Context, filter types.CityFilter) ([]types.CityDetail, error)
}

type Service interface {
	CreateWidget(ctx context.Context, params types.CreateWidgetParams) (*types.Widget, error)
	GetWidget(ctx context.Context, id uuid.UUID) (*types.Widget, error)
	ListWidgets(ctx context.Context) ([]types.Widget, error)
	UpdateWidget(ctx context.Context, id uuid.UUID, params types.UpdateWidgetParams) (*types.Widget, error)
	DeleteWidget(ctx context.Context, id uuid.UUID) error

	// Render resolves what the widget shows on the front end.
	Render(ctx context.Context, id uuid.UUID) (types.WidgetView, error)
	// Form lists the published cities for the settings form, current one selected.
	Form(ctx context.Context, id uuid.UUID) (*types.WidgetForm, error)
}

type ServiceImpl struct {
	logger        *slog.Logger
	repo          Repository
	cities        CityReader
	weather       weather.Provider
	lookupTimeout time.Duration
}

func NewWidgetService(repo Repository, cities CityReader, provider weather.Provider, lookupTimeout time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		repo:          repo,
		cities:        cities,
		weather:       provider,
		lookupTimeout: lookupTimeout,
	}
}

// parseCityID mirrors the settings form: anything that is not a valid id means
// "no city".
func parseCityID(raw string) *uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return nil
	}
	return &id
}

func (s *ServiceImpl) CreateWidget(ctx context.Context, params types.CreateWidgetParams) (*types.Widget, error) {
	ctx, span := otel.Tracer("WidgetService").Start(ctx, "CreateWidget")
	defer span.End()

	w, err := s.repo.CreateWidget(ctx, lib.SanitizeText(params.Title), parseCityID(params.CityID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to create widget: %w", err)
	}

	s.logger.InfoContext(ctx, "Widget created", slog.String("widget_id", w.ID.String()))
	span.SetStatus(codes.Ok, "Widget created")
	return w, nil
}

func (s *ServiceImpl) GetWidget(ctx context.Context, id uuid.UUID) (*types.Widget, error) {
	w, err := s.repo.GetWidget(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get widget: %w", err)
	}
	return w, nil
}

func (s *ServiceImpl) ListWidgets(ctx context.Context) ([]types.Widget, error) {
	widgets, err := s.repo.ListWidgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list widgets: %w", err)
	}
	return widgets, nil
}

// UpdateWidget saves the settings form. A present city_id that is empty or
// invalid clears the selection.
func (s *ServiceImpl) UpdateWidget(ctx context.Context, id uuid.UUID, params types.UpdateWidgetParams) (*types.Widget, error) {
	ctx, span := otel.Tracer("WidgetService").Start(ctx, "UpdateWidget", trace.WithAttributes(
		attribute.String("widget.id", id.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateWidget"), slog.String("widget_id", id.String()))

	var changes Changes
	if params.Title != nil {
		title := lib.SanitizeText(*params.Title)
		changes.Title = &title
	}
	if params.CityID != nil {
		changes.SetCity = true
		changes.CityID = parseCityID(*params.CityID)
		if changes.CityID == nil && strings.TrimSpace(*params.CityID) != "" {
			l.InfoContext(ctx, "Invalid city id cleared the widget selection", slog.String("raw_city_id", *params.CityID))
		}
	}

	if err := s.repo.UpdateWidget(ctx, id, changes); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to update widget: %w", err)
	}

	w, err := s.repo.GetWidget(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to reload widget: %w", err)
	}

	l.InfoContext(ctx, "Widget updated")
	span.SetStatus(codes.Ok, "Widget updated")
	return w, nil
}

func (s *ServiceImpl) DeleteWidget(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteWidget(ctx, id); err != nil {
		return fmt.Errorf("failed to delete widget: %w", err)
	}
	s.logger.InfoContext(ctx, "Widget deleted", slog.String("widget_id", id.String()))
	return nil
}

func (s *ServiceImpl) Render(ctx context.Context, id uuid.UUID) (types.WidgetView, error) {
	ctx, span := otel.Tracer("WidgetService").Start(ctx, "Render", trace.WithAttributes(
		attribute.String("widget.id", id.String()),
	))
	defer span.End()

	empty := types.WidgetView{Empty: true}

	w, err := s.repo.GetWidget(ctx, id)
	if err != nil {
		span.RecordError(err)
		return empty, fmt.Errorf("failed to load widget: %w", err)
	}
	if w.CityID == nil {
		return empty, nil
	}

	city, err := s.cities.GetCity(ctx, *w.CityID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return empty, nil
		}
		span.RecordError(err)
		return empty, fmt.Errorf("failed to load widget city: %w", err)
	}
	if city.Status != types.CityStatusPublish || !city.HasCoordinates() {
		return empty, nil
	}

	view := types.WidgetView{CityName: city.Name}

	lookupCtx := ctx
	if s.lookupTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
	}
	reading, err := s.weather.CurrentTemperature(lookupCtx, types.Coordinates{Latitude: city.Latitude, Longitude: city.Longitude})
	if err != nil {
		s.logger.WarnContext(ctx, "Widget temperature unavailable",
			slog.String("widget_id", id.String()),
			slog.String("city_id", city.ID.String()),
			slog.Any("error", err))
		span.RecordError(err)
	} else {
		view.Temperature = types.FormatCelsius(reading)
	}

	span.SetStatus(codes.Ok, "Widget rendered")
	return view, nil
}

func (s *ServiceImpl) Form(ctx context.Context, id uuid.UUID) (*types.WidgetForm, error) {
	ctx, span := otel.Tracer("WidgetService").Start(ctx, "Form", trace.WithAttributes(
		attribute.String("widget.id", id.String()),
	))
	defer span.End()

	w, err := s.repo.GetWidget(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load widget: %w", err)
	}

	cities, err := s.cities.ListCities(ctx, types.CityFilter{Status: types.CityStatusPublish})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}

	form := &types.WidgetForm{Widget: *w, Options: make([]types.WidgetCityOption, 0, len(cities))}
	for _, c := range cities {
		form.Options = append(form.Options, types.WidgetCityOption{
			ID:       c.ID,
			Name:     c.Name,
			Selected: w.CityID != nil && *w.CityID == c.ID,
		})
	}

	span.SetAttributes(attribute.Int("options.count", len(form.Options)))
	span.SetStatus(codes.Ok, "Form built")
	return form, nil
}
