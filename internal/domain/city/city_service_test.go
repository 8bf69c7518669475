package city

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/citytemp-api/internal/types"
)

// MockCityRepo is a mock implementation of Repository
type MockCityRepo struct {
	mock.Mock
}

func (m *MockCityRepo) SaveCity(ctx context.Context, params types.CreateCityParams) (uuid.UUID, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCityRepo) GetCity(ctx context.Context, id uuid.UUID) (*types.CityDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CityDetail), args.Error(1)
}

func (m *MockCityRepo) ListCities(ctx context.Context, filter types.CityFilter) ([]types.CityDetail, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.CityDetail), args.Error(1)
}

func (m *MockCityRepo) UpdateCity(ctx context.Context, id uuid.UUID, params types.UpdateCityParams) error {
	return m.Called(ctx, id, params).Error(0)
}

func (m *MockCityRepo) DeleteCity(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCityRepo) SearchPublished(ctx context.Context, search string) ([]types.CitySearchRow, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.CitySearchRow), args.Error(1)
}

func setupCityServiceTest() (*ServiceImpl, *MockCityRepo) {
	repo := new(MockCityRepo)
	return NewCityService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func ptr[T any](v T) *T { return &v }

func TestServiceImpl_CreateCity(t *testing.T) {
	ctx := context.Background()

	t.Run("sanitizes fields and defaults status", func(t *testing.T) {
		svc, repo := setupCityServiceTest()
		id := uuid.New()
		expected := types.CreateCityParams{Name: "Rio de Janeiro", Latitude: "-22.9", Longitude: "-43.2", Status: types.CityStatusPublish}
		repo.On("SaveCity", mock.Anything, expected).Return(id, nil).Once()
		repo.On("GetCity", mock.Anything, id).Return(&types.CityDetail{ID: id, Name: "Rio de Janeiro"}, nil).Once()

		city, err := svc.CreateCity(ctx, types.CreateCityParams{
			Name:      " Rio  de\nJaneiro ",
			Latitude:  "<b>-22.9</b>",
			Longitude: " -43.2",
		})
		require.NoError(t, err)
		assert.Equal(t, id, city.ID)
		repo.AssertExpectations(t)
	})

	t.Run("name required", func(t *testing.T) {
		svc, repo := setupCityServiceTest()
		_, err := svc.CreateCity(ctx, types.CreateCityParams{Name: "<p></p>"})
		assert.ErrorIs(t, err, types.ErrBadRequest)
		repo.AssertNotCalled(t, "SaveCity", mock.Anything, mock.Anything)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _ := setupCityServiceTest()
		_, err := svc.CreateCity(ctx, types.CreateCityParams{Name: "Quito", Status: "archived"})
		assert.ErrorIs(t, err, types.ErrBadRequest)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, repo := setupCityServiceTest()
		repoErr := errors.New("insert failed")
		repo.On("SaveCity", mock.Anything, mock.Anything).Return(uuid.Nil, repoErr).Once()

		_, err := svc.CreateCity(ctx, types.CreateCityParams{Name: "Lima"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, repoErr))
		assert.Contains(t, err.Error(), "failed to create city")
	})
}

func TestServiceImpl_UpdateCity(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("absent coordinates stay untouched", func(t *testing.T) {
		svc, repo := setupCityServiceTest()
		repo.On("UpdateCity", mock.Anything, id, mock.MatchedBy(func(p types.UpdateCityParams) bool {
			return p.Latitude != nil && *p.Latitude == "59.91" && p.Longitude == nil
		})).Return(nil).Once()
		repo.On("GetCity", mock.Anything, id).Return(&types.CityDetail{ID: id, Latitude: "59.91"}, nil).Once()

		city, err := svc.UpdateCity(ctx, id, types.UpdateCityParams{Latitude: ptr("  59.91 ")})
		require.NoError(t, err)
		assert.Equal(t, "59.91", city.Latitude)
		repo.AssertExpectations(t)
	})

	t.Run("present but blank coordinate clears it", func(t *testing.T) {
		svc, repo := setupCityServiceTest()
		repo.On("UpdateCity", mock.Anything, id, mock.MatchedBy(func(p types.UpdateCityParams) bool {
			return p.Longitude != nil && *p.Longitude == ""
		})).Return(nil).Once()
		repo.On("GetCity", mock.Anything, id).Return(&types.CityDetail{ID: id}, nil).Once()

		_, err := svc.UpdateCity(ctx, id, types.UpdateCityParams{Longitude: ptr("   ")})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		svc, repo := setupCityServiceTest()
		_, err := svc.UpdateCity(ctx, id, types.UpdateCityParams{Name: ptr(" ")})
		assert.ErrorIs(t, err, types.ErrBadRequest)
		repo.AssertNotCalled(t, "UpdateCity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo := setupCityServiceTest()
		repo.On("UpdateCity", mock.Anything, id, mock.Anything).Return(types.ErrNotFound).Once()

		_, err := svc.UpdateCity(ctx, id, types.UpdateCityParams{Status: ptr("draft")})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestServiceImpl_SearchPublished(t *testing.T) {
	svc, repo := setupCityServiceTest()
	rows := []types.CitySearchRow{{ID: uuid.New(), Name: "Madrid", Country: "Spain"}}
	repo.On("SearchPublished", mock.Anything, "mad").Return(rows, nil).Once()

	got, err := svc.SearchPublished(context.Background(), "  <em>mad</em> ")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	repo.AssertExpectations(t)
}

func TestServiceImpl_ListCities_RejectsUnknownStatus(t *testing.T) {
	svc, repo := setupCityServiceTest()
	_, err := svc.ListCities(context.Background(), types.CityFilter{Status: "trash"})
	assert.ErrorIs(t, err, types.ErrBadRequest)
	repo.AssertNotCalled(t, "ListCities", mock.Anything, mock.Anything)
}
