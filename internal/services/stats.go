package services

import (
	"context"

	"github.com/Amadorfl72/mentorhub/types"
)

// StatsRepository computes platform-wide counts.
type StatsRepository interface {
	Totals(ctx context.Context) (types.Stats, error)
}

// StatsService encapsulates stats use-cases.
type StatsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) Totals(ctx context.Context) (types.Stats, error) {
	return s.repo.Totals(ctx)
}
