package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Amadorfl72/mentorhub/types"
)

// FeedbackRepository handles persistence for session feedback.
type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb types.Feedback) (types.Feedback, error) {
	fb.CreatedAt = time.Now()

	const query = `
		INSERT INTO feedback (session_id, from_user_id, to_user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		fb.SessionID,
		fb.FromUserID,
		fb.ToUserID,
		fb.Rating,
		fb.Comment,
		fb.CreatedAt,
	).Scan(&fb.ID); err != nil {
		return types.Feedback{}, err
	}
	return fb, nil
}

func (r *FeedbackRepository) ListBySession(ctx context.Context, sessionID int) ([]types.Feedback, error) {
	const query = `
		SELECT id, session_id, from_user_id, to_user_id, rating, comment, created_at
		FROM feedback
		WHERE session_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []types.Feedback{}
	for rows.Next() {
		var fb types.Feedback
		if err := rows.Scan(
			&fb.ID,
			&fb.SessionID,
			&fb.FromUserID,
			&fb.ToUserID,
			&fb.Rating,
			&fb.Comment,
			&fb.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, fb)
	}
	return entries, rows.Err()
}
