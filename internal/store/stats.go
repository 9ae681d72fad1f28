package store

import (
	"context"
	"database/sql"

	"github.com/Amadorfl72/mentorhub/types"
)

// StatsRepository computes platform-wide counts.
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Totals(ctx context.Context) (types.Stats, error) {
	const query = `
		SELECT
			(SELECT COUNT(1) FROM users),
			(SELECT COUNT(1) FROM users WHERE role IN ('mentor', 'both')),
			(SELECT COUNT(1) FROM users WHERE role IN ('mentee', 'both')),
			(SELECT COUNT(1) FROM mentorship_sessions)`
	var stats types.Stats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.TotalMentors,
		&stats.TotalMentees,
		&stats.TotalSessions,
	)
	if err != nil {
		return types.Stats{}, err
	}
	return stats, nil
}
