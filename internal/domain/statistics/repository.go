package statistics

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/citytemp-api/internal/types"
	"github.com/FACorreiaa/citytemp-api/pkg/db"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// CatalogStatistics counts countries, cities and widgets in one round trip.
	CatalogStatistics(ctx context.Context) (*types.CatalogStatistics, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool db.Querier
}

func NewRepository(logger *slog.Logger, pgpool db.Querier) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) CatalogStatistics(ctx context.Context) (*types.CatalogStatistics, error) {
	ctx, span := otel.Tracer("StatisticsRepository").Start(ctx, "CatalogStatistics")
	defer span.End()

	query := `
		WITH city_counts AS (
			SELECT
				COUNT(*) FILTER (WHERE status = 'publish') AS published,
				COUNT(*) FILTER (WHERE status = 'draft') AS drafts,
				COUNT(*) FILTER (WHERE btrim(latitude) = '' OR btrim(longitude) = '') AS no_coordinates,
				COUNT(*) FILTER (WHERE country_id IS NULL) AS no_country
			FROM cities
		),
		widget_counts AS (
			SELECT
				COUNT(*) AS total,
				COUNT(*) FILTER (WHERE city_id IS NULL) AS no_city
			FROM widgets
		)
		SELECT
			(SELECT COUNT(*) FROM countries) AS countries,
			cc.published,
			cc.drafts,
			cc.no_coordinates,
			cc.no_country,
			wc.total,
			wc.no_city
		FROM city_counts cc, widget_counts wc
	`

	var s types.CatalogStatistics
	err := r.pgpool.QueryRow(ctx, query).Scan(
		&s.Countries,
		&s.PublishedCities,
		&s.DraftCities,
		&s.CitiesWithoutCoordinates,
		&s.CitiesWithoutCountry,
		&s.Widgets,
		&s.WidgetsWithoutCity,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to get catalog statistics", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to get catalog statistics: %w", err)
	}

	span.SetStatus(codes.Ok, "Statistics retrieved")
	return &s, nil
}
