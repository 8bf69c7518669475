package city

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/citytemp-api/internal/lib"
	"github.com/FACorreiaa/citytemp-api/internal/types"
	"github.com/FACorreiaa/citytemp-api/pkg/db"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	SaveCity(ctx context.Context, params types.CreateCityParams) (uuid.UUID, error)
	GetCity(ctx context.Context, id uuid.UUID) (*types.CityDetail, error)
	ListCities(ctx context.Context, filter types.CityFilter) ([]types.CityDetail, error)
	UpdateCity(ctx context.Context, id uuid.UUID, params types.UpdateCityParams) error
	DeleteCity(ctx context.Context, id uuid.UUID) error

	// SearchPublished returns published cities whose name contains search,
	// joined with their country name. An empty search matches every city.
	SearchPublished(ctx context.Context, search string) ([]types.CitySearchRow, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pool   db.Querier
}

func NewCityRepository(pool db.Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pool:   pool,
	}
}

var cityColumns = []string{
	"c.id",
	"c.name",
	"c.latitude",
	"c.longitude",
	"c.status",
	"COALESCE(c.country_id::text, '') AS country_id",
	"COALESCE(co.name, '') AS country",
	"c.created_at",
	"c.updated_at",
}

func selectCities() squirrel.SelectBuilder {
	return squirrel.Select(cityColumns...).
		From("cities c").
		LeftJoin("countries co ON co.id = c.country_id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanCity(row pgx.Row) (*types.CityDetail, error) {
	var c types.CityDetail
	var countryID string
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Latitude,
		&c.Longitude,
		&c.Status,
		&countryID,
		&c.CountryName,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if countryID != "" {
		id, err := uuid.Parse(countryID)
		if err != nil {
			return nil, fmt.Errorf("invalid country id %q: %w", countryID, err)
		}
		c.CountryID = &id
	}
	return &c, nil
}

// mapWriteError translates constraint violations into domain errors.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return fmt.Errorf("%w: country does not exist", types.ErrBadRequest)
		case "23514":
			return fmt.Errorf("%w: invalid city status", types.ErrBadRequest)
		}
	}
	return err
}

func (r *RepositoryImpl) SaveCity(ctx context.Context, params types.CreateCityParams) (uuid.UUID, error) {
	ctx, span := otel.Tracer("CityRepository").Start(ctx, "SaveCity", trace.WithAttributes(
		attribute.String("city.name", params.Name),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "SaveCity"))

	query := `
        INSERT INTO cities (name, latitude, longitude, status, country_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		params.Name,
		params.Latitude,
		params.Longitude,
		params.Status,
		params.CountryID,
	).Scan(&id)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		return uuid.Nil, fmt.Errorf("failed to insert city: %w", mapWriteError(err))
	}

	span.SetAttributes(attribute.String("city.id", id.String()))
	span.SetStatus(codes.Ok, "City saved")
	return id, nil
}

func (r *RepositoryImpl) GetCity(ctx context.Context, id uuid.UUID) (*types.CityDetail, error) {
	ctx, span := otel.Tracer("CityRepository").Start(ctx, "GetCity", trace.WithAttributes(
		attribute.String("city.id", id.String()),
	))
	defer span.End()

	query, args, err := selectCities().Where("c.id = ?", id).ToSql()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build city query: %w", err)
	}

	c, err := scanCity(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "City not found")
			return nil, fmt.Errorf("city %s: %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get city", slog.String("city_id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to get city %s: %w", id, err)
	}

	span.SetStatus(codes.Ok, "City retrieved")
	return c, nil
}

// ListCities retrieves cities ordered by name, optionally filtered by status or country.
func (r *RepositoryImpl) ListCities(ctx context.Context, filter types.CityFilter) ([]types.CityDetail, error) {
	ctx, span := otel.Tracer("CityRepository").Start(ctx, "ListCities", trace.WithAttributes(
		attribute.String("filter.status", filter.Status),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "ListCities"))

	builder := selectCities().OrderBy("c.name ASC")
	if filter.Status != "" {
		builder = builder.Where("c.status = ?", filter.Status)
	}
	if filter.CountryID != nil {
		builder = builder.Where("c.country_id = ?", *filter.CountryID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build city list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	cities := make([]types.CityDetail, 0)
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			l.ErrorContext(ctx, "Failed to scan city row", slog.Any("error", err))
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan city row: %w", err)
		}
		cities = append(cities, *c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating city rows: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(cities)))
	span.SetStatus(codes.Ok, "Cities retrieved")
	return cities, nil
}

func (r *RepositoryImpl) SearchPublished(ctx context.Context, search string) ([]types.CitySearchRow, error) {
	ctx, span := otel.Tracer("CityRepository").Start(ctx, "SearchPublished", trace.WithAttributes(
		attribute.String("search.query", search),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "SearchPublished"))

	builder := squirrel.Select(
		"c.id",
		"c.name",
		"c.latitude",
		"c.longitude",
		"COALESCE(co.name, '') AS country",
	).
		From("cities c").
		LeftJoin("countries co ON co.id = c.country_id").
		Where("c.status = ?", types.CityStatusPublish).
		// cities without a country go last
		OrderBy("co.name ASC NULLS LAST", "c.name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if search != "" {
		builder = builder.Where("c.name ILIKE ?", "%"+lib.EscapeLike(search)+"%")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build city search query: %w", err)
	}

	l.DebugContext(ctx, "Executing city search query", slog.String("query", query), slog.String("search", search))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to search cities: %w", err)
	}
	defer rows.Close()

	results := make([]types.CitySearchRow, 0)
	for rows.Next() {
		var row types.CitySearchRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Latitude, &row.Longitude, &row.Country); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan city search row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating city search rows: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(results)))
	span.SetStatus(codes.Ok, "Cities searched")
	return results, nil
}

// UpdateCity writes only the fields present in params.
func (r *RepositoryImpl) UpdateCity(ctx context.Context, id uuid.UUID, params types.UpdateCityParams) error {
	ctx, span := otel.Tracer("CityRepository").Start(ctx, "UpdateCity", trace.WithAttributes(
		attribute.String("city.id", id.String()),
	))
	defer span.End()

	builder := squirrel.Update("cities").
		PlaceholderFormat(squirrel.Dollar).
		Where("id = ?", id)

	changed := false
	if params.Name != nil {
		builder = builder.Set("name", *params.Name)
		changed = true
	}
	if params.Latitude != nil {
		builder = builder.Set("latitude", *params.Latitude)
		changed = true
	}
	if params.Longitude != nil {
		builder = builder.Set("longitude", *params.Longitude)
		changed = true
	}
	if params.Status != nil {
		builder = builder.Set("status", *params.Status)
		changed = true
	}
	if params.ClearCountry {
		builder = builder.Set("country_id", nil)
		changed = true
	} else if params.CountryID != nil {
		builder = builder.Set("country_id", *params.CountryID)
		changed = true
	}
	if !changed {
		return nil
	}
	builder = builder.Set("updated_at", squirrel.Expr("NOW()"))

	query, args, err := builder.ToSql()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to build city update: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update city", slog.String("city_id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		return fmt.Errorf("failed to update city %s: %w", id, mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "City not found")
		return fmt.Errorf("city %s: %w", id, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "City updated")
	return nil
}

func (r *RepositoryImpl) DeleteCity(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("CityRepository").Start(ctx, "DeleteCity", trace.WithAttributes(
		attribute.String("city.id", id.String()),
	))
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		return fmt.Errorf("failed to delete city %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("city %s: %w", id, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "City deleted")
	return nil
}
