package widget

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

// Changes is a partial widget update. SetCity with a nil CityID clears the selection.
type Changes struct {
	Title   *string
	SetCity bool
	CityID  *uuid.UUID
}

type Repository interface {
	CreateWidget(ctx context.Context, title string, cityID *uuid.UUID) (*types.Widget, error)
	GetWidget(ctx context.Context, id uuid.UUID) (*types.Widget, error)
	ListWidgets(ctx context.Context) ([]types.Widget, error)
	UpdateWidget(ctx context.Context, id uuid.UUID, changes Changes) error
	DeleteWidget(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pool   db.Querier
}

func NewWidgetRepository(pool db.Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pool:   pool,
	}
}

const widgetColumns = `id, title, COALESCE(city_id::text, '') AS city_id, created_at, updated_at`

func scanWidget(row pgx.Row) (*types.Widget, error) {
	var w types.Widget
	var cityID string
	if err := row.Scan(&w.ID, &w.Title, &cityID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	if cityID != "" {
		id, err := uuid.Parse(cityID)
		if err != nil {
			return nil, fmt.Errorf("invalid city id %q: %w", cityID, err)
		}
		w.CityID = &id
	}
	return &w, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func (r *RepositoryImpl) CreateWidget(ctx context.Context, title string, cityID *uuid.UUID) (*types.Widget, error) {
	ctx, span := otel.Tracer("WidgetRepository").Start(ctx, "CreateWidget")
	defer span.End()

	query := `INSERT INTO widgets (title, city_id) VALUES ($1, $2) RETURNING ` + widgetColumns

	w, err := scanWidget(r.pool.QueryRow(ctx, query, title, cityID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: city does not exist", types.ErrBadRequest)
		}
		r.logger.ErrorContext(ctx, "Failed to insert widget", slog.Any("error", err))
		return nil, fmt.Errorf("failed to insert widget: %w", err)
	}

	span.SetAttributes(attribute.String("widget.id", w.ID.String()))
	span.SetStatus(codes.Ok, "Widget created")
	return w, nil
}

func (r *RepositoryImpl) GetWidget(ctx context.Context, id uuid.UUID) (*types.Widget, error) {
	ctx, span := otel.Tracer("WidgetRepository").Start(ctx, "GetWidget", trace.WithAttributes(
		attribute.String("widget.id", id.String()),
	))
	defer span.End()

	query := `SELECT ` + widgetColumns + ` FROM widgets WHERE id = $1`

	w, err := scanWidget(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Widget not found")
			return nil, fmt.Errorf("widget %s: %w", id, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to get widget %s: %w", id, err)
	}

	span.SetStatus(codes.Ok, "Widget retrieved")
	return w, nil
}

func (r *RepositoryImpl) ListWidgets(ctx context.Context) ([]types.Widget, error) {
	ctx, span := otel.Tracer("WidgetRepository").Start(ctx, "ListWidgets")
	defer span.End()

	rows, err := r.pool.Query(ctx, `SELECT `+widgetColumns+` FROM widgets ORDER BY created_at ASC`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query widgets", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query widgets: %w", err)
	}
	defer rows.Close()

	widgets := make([]types.Widget, 0)
	for rows.Next() {
		w, err := scanWidget(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan widget row: %w", err)
		}
		widgets = append(widgets, *w)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating widget rows: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(widgets)))
	span.SetStatus(codes.Ok, "Widgets retrieved")
	return widgets, nil
}

func (r *RepositoryImpl) UpdateWidget(ctx context.Context, id uuid.UUID, changes Changes) error {
	ctx, span := otel.Tracer("WidgetRepository").Start(ctx, "UpdateWidget", trace.WithAttributes(
		attribute.String("widget.id", id.String()),
	))
	defer span.End()

	builder := squirrel.Update("widgets").
		PlaceholderFormat(squirrel.Dollar).
		Where("id = ?", id)

	changed := false
	if changes.Title != nil {
		builder = builder.Set("title", *changes.Title)
		changed = true
	}
	if changes.SetCity {
		if changes.CityID == nil {
			builder = builder.Set("city_id", nil)
		} else {
			builder = builder.Set("city_id", *changes.CityID)
		}
		changed = true
	}
	if !changed {
		return nil
	}
	builder = builder.Set("updated_at", squirrel.Expr("NOW()"))

	query, args, err := builder.ToSql()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to build widget update: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: city does not exist", types.ErrBadRequest)
		}
		r.logger.ErrorContext(ctx, "Failed to update widget", slog.String("widget_id", id.String()), slog.Any("error", err))
		return fmt.Errorf("failed to update widget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Widget not found")
		return fmt.Errorf("widget %s: %w", id, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Widget updated")
	return nil
}

func (r *RepositoryImpl) DeleteWidget(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("WidgetRepository").Start(ctx, "DeleteWidget", trace.WithAttributes(
		attribute.String("widget.id", id.String()),
	))
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM widgets WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete widget", slog.String("widget_id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		return fmt.Errorf("failed to delete widget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Widget not found")
		return fmt.Errorf("widget %s: %w", id, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Widget deleted")
	return nil
}
