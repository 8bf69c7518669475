package country

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

	"github.com/FACorreiaa/citytemp-api/internal/types"
	"github.com/FACorreiaa/citytemp-api/pkg/db"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	Create(ctx context.Context, params types.CreateCountryParams) (*types.Country, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Country, error)
	GetByName(ctx context.Context, name string) (*types.Country, error)
	List(ctx context.Context) ([]types.Country, error)
	Update(ctx context.Context, id uuid.UUID, params types.UpdateCountryParams) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pool   db.Querier
}

func NewCountryRepository(pool db.Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pool:   pool,
	}
}

const countryColumns = `id, name, slug, COALESCE(parent_id::text, '') AS parent_id, created_at`

func scanCountry(row pgx.Row) (*types.Country, error) {
	var c types.Country
	var parentID string
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &parentID, &c.CreatedAt); err != nil {
		return nil, err
	}
	parent, err := parseOptionalUUID(parentID)
	if err != nil {
		return nil, err
	}
	c.ParentID = parent
	return &c, nil
}

func parseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid uuid %q: %w", s, err)
	}
	return &id, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *RepositoryImpl) Create(ctx context.Context, params types.CreateCountryParams) (*types.Country, error) {
	ctx, span := otel.Tracer("CountryRepository").Start(ctx, "Create", trace.WithAttributes(
		attribute.String("country.name", params.Name),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"))

	query := `
        INSERT INTO countries (name, slug, parent_id)
        VALUES ($1, $2, $3)
        RETURNING ` + countryColumns

	c, err := scanCountry(r.pool.QueryRow(ctx, query, params.Name, params.Slug, params.ParentID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("country %q: %w", params.Name, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert country", slog.Any("error", err))
		return nil, fmt.Errorf("failed to insert country: %w", err)
	}

	span.SetAttributes(attribute.String("country.id", c.ID.String()))
	span.SetStatus(codes.Ok, "Country created")
	return c, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*types.Country, error) {
	ctx, span := otel.Tracer("CountryRepository").Start(ctx, "Get", trace.WithAttributes(
		attribute.String("country.id", id.String()),
	))
	defer span.End()

	query := `SELECT ` + countryColumns + ` FROM countries WHERE id = $1`

	c, err := scanCountry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Country not found")
			return nil, fmt.Errorf("country %s: %w", id, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to get country %s: %w", id, err)
	}
	span.SetStatus(codes.Ok, "Country retrieved")
	return c, nil
}

func (r *RepositoryImpl) GetByName(ctx context.Context, name string) (*types.Country, error) {
	ctx, span := otel.Tracer("CountryRepository").Start(ctx, "GetByName", trace.WithAttributes(
		attribute.String("country.name", name),
	))
	defer span.End()

	query := `SELECT ` + countryColumns + ` FROM countries WHERE LOWER(name) = LOWER($1) LIMIT 1`

	c, err := scanCountry(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("country %q: %w", name, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to find country %q: %w", name, err)
	}
	span.SetStatus(codes.Ok, "Country retrieved")
	return c, nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]types.Country, error) {
	ctx, span := otel.Tracer("CountryRepository").Start(ctx, "List")
	defer span.End()

	l := r.logger.With(slog.String("method", "List"))

	query := `SELECT ` + countryColumns + ` FROM countries ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query countries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer rows.Close()

	countries := make([]types.Country, 0)
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan country row: %w", err)
		}
		countries = append(countries, *c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating country rows: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(countries)))
	span.SetStatus(codes.Ok, "Countries retrieved")
	return countries, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id uuid.UUID, params types.UpdateCountryParams) error {
	ctx, span := otel.Tracer("CountryRepository").Start(ctx, "Update", trace.WithAttributes(
		attribute.String("country.id", id.String()),
	))
	defer span.End()

	builder := squirrel.Update("countries").
		PlaceholderFormat(squirrel.Dollar).
		Where("id = ?", id)

	changed := false
	if params.Name != nil {
		builder = builder.Set("name", *params.Name)
		changed = true
	}
	if params.Slug != nil {
		builder = builder.Set("slug", *params.Slug)
		changed = true
	}
	if params.ClearParent {
		builder = builder.Set("parent_id", nil)
		changed = true
	} else if params.ParentID != nil {
		builder = builder.Set("parent_id", *params.ParentID)
		changed = true
	}
	if !changed {
		return nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to build country update: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		if isUniqueViolation(err) {
			return fmt.Errorf("country %s: %w", id, types.ErrConflict)
		}
		return fmt.Errorf("failed to update country %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("country %s: %w", id, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Country updated")
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("CountryRepository").Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("country.id", id.String()),
	))
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM countries WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		return fmt.Errorf("failed to delete country %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("country %s: %w", id, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "Country deleted")
	return nil
}
