package statistics

import (
	"context"
	"log/slog"

	"github.com/FACorreiaa/citytemp-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetCatalogStatistics(ctx context.Context) (*types.CatalogStatistics, error)
}

type ServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceImpl) GetCatalogStatistics(ctx context.Context) (*types.CatalogStatistics, error) {
	l := s.logger.With(slog.String("method", "GetCatalogStatistics"))
	stats, err := s.repo.CatalogStatistics(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get catalog statistics", "error", err)
		return nil, err
	}

	l.DebugContext(ctx, "Successfully retrieved catalog statistics")
	return stats, nil
}
