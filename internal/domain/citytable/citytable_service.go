package citytable

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/citytemp-api/internal/domain/weather"
	"github.com/FACorreiaa/citytemp-api/internal/types"
)

var lookupFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "citytemp",
	Subsystem: "citytable",
	Name:      "temperature_lookup_failures_total",
	Help:      "Rows rendered without a temperature because the lookup failed.",
})

var _ Service = (*ServiceImpl)(nil)

// CitySearcher is the shared published-city query.
type CitySearcher interface {
	SearchPublished(ctx context.Context, search string) ([]types.CitySearchRow, error)
}

type Service interface {
	// Rows returns the published cities matching search with their current
	// temperature. Row order is the query order.
	Rows(ctx context.Context, search string) ([]types.CityTemperatureRow, error)
}

type ServiceImpl struct {
	logger         *slog.Logger
	cities         CitySearcher
	weather        weather.Provider
	maxConcurrency int
	lookupTimeout  time.Duration
}

func NewCityTableService(cities CitySearcher, provider weather.Provider, maxConcurrency int, lookupTimeout time.Duration, logger *slog.Logger) *ServiceImpl {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &ServiceImpl{
		logger:         logger,
		cities:         cities,
		weather:        provider,
		maxConcurrency: maxConcurrency,
		lookupTimeout:  lookupTimeout,
	}
}

func (s *ServiceImpl) Rows(ctx context.Context, search string) ([]types.CityTemperatureRow, error) {
	ctx, span := otel.Tracer("CityTableService").Start(ctx, "Rows")
	defer span.End()

	l := s.logger.With(slog.String("method", "Rows"))

	found, err := s.cities.SearchPublished(ctx, search)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "City search failed")
		return nil, fmt.Errorf("failed to search cities: %w", err)
	}

	rows := make([]types.CityTemperatureRow, len(found))
	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)

	for i, c := range found {
		rows[i] = types.CityTemperatureRow{Country: c.Country, City: c.Name}
		if !c.HasCoordinates() {
			continue
		}
		g.Go(func() error {
			rows[i].Temperature = s.temperature(ctx, l, c)
			return nil
		})
	}
	// lookups never fail the group
	_ = g.Wait()

	span.SetAttributes(
		attribute.String("search.query", search),
		attribute.Int("rows.count", len(rows)),
	)
	span.SetStatus(codes.Ok, "Rows built")
	return rows, nil
}

// temperature returns the formatted reading, or "" when it could not be obtained.
func (s *ServiceImpl) temperature(ctx context.Context, l *slog.Logger, c types.CitySearchRow) string {
	if s.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
	}

	reading, err := s.weather.CurrentTemperature(ctx, types.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude})
	if err != nil {
		lookupFailures.Inc()
		l.WarnContext(ctx, "Temperature unavailable",
			slog.String("city_id", c.ID.String()),
			slog.String("city", c.Name),
			slog.Any("error", err))
		return ""
	}
	return types.FormatCelsius(reading)
}
