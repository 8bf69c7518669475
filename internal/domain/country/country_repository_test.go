package country

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/citytemp-api/internal/types"
)

var countryCols = []string{"id", "name", "slug", "parent_id", "created_at"}

func newMockRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCountryRepository(mock, logger), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	id := uuid.New()
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO countries (name, slug, parent_id)")).
			WithArgs("Portugal", "portugal", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(countryCols).AddRow(id, "Portugal", "portugal", "", now))

		c, err := repo.Create(ctx, types.CreateCountryParams{Name: "Portugal", Slug: "portugal"})
		require.NoError(t, err)
		assert.Equal(t, id, c.ID)
		assert.Nil(t, c.ParentID)
		assert.Equal(t, now, c.CreatedAt)
	})

	t.Run("duplicate name", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO countries")).
			WithArgs("Portugal", "portugal", pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Create(ctx, types.CreateCountryParams{Name: "Portugal", Slug: "portugal"})
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrConflict)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	id := uuid.New()
	parent := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM countries WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(countryCols).AddRow(id, "Scotland", "scotland", parent.String(), time.Now()))

	c, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, parent, *c.ParentID)

	missing := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM countries WHERE id = $1")).
		WithArgs(missing).
		WillReturnRows(pgxmock.NewRows(countryCols))

	_, err = repo.Get(ctx, missing)
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM countries ORDER BY name ASC")).
		WillReturnRows(pgxmock.NewRows(countryCols).
			AddRow(uuid.New(), "France", "france", "", time.Now()).
			AddRow(uuid.New(), "Germany", "germany", "", time.Now()))

	countries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "France", countries[0].Name)
	assert.Equal(t, "Germany", countries[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	id := uuid.New()

	t.Run("only present fields are set", func(t *testing.T) {
		name := "España"
		mock.ExpectExec(regexp.QuoteMeta("UPDATE countries SET name = $1 WHERE id = $2")).
			WithArgs(name, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Update(ctx, id, types.UpdateCountryParams{Name: &name}))
	})

	t.Run("clear parent", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE countries SET parent_id = $1 WHERE id = $2")).
			WithArgs(nil, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Update(ctx, id, types.UpdateCountryParams{ClearParent: true}))
	})

	t.Run("nothing to change", func(t *testing.T) {
		require.NoError(t, repo.Update(ctx, id, types.UpdateCountryParams{}))
	})

	t.Run("not found", func(t *testing.T) {
		slug := "es"
		mock.ExpectExec(regexp.QuoteMeta("UPDATE countries SET slug = $1 WHERE id = $2")).
			WithArgs(slug, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(ctx, id, types.UpdateCountryParams{Slug: &slug})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM countries WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Delete(context.Background(), id))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM countries WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), types.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
