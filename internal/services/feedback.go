package services

import (
	"context"
	"fmt"

	"github.com/Amadorfl72/mentorhub/types"
)

// FeedbackRepository defines persistence operations for feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, fb types.Feedback) (types.Feedback, error)
	ListBySession(ctx context.Context, sessionID int) ([]types.Feedback, error)
}

// FeedbackService encapsulates feedback use-cases.
type FeedbackService struct {
	repo FeedbackRepository
}

func NewFeedbackService(repo FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo}
}

func (s *FeedbackService) Create(ctx context.Context, fb types.Feedback) (types.Feedback, error) {
	if fb.SessionID == 0 {
		return types.Feedback{}, fmt.Errorf("%w: session_id is required", ErrValidation)
	}
	if fb.ToUserID == 0 {
		return types.Feedback{}, fmt.Errorf("%w: to_user_id is required", ErrValidation)
	}
	if fb.Rating < 1 || fb.Rating > 5 {
		return types.Feedback{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	return s.repo.Create(ctx, fb)
}

func (s *FeedbackService) ListBySession(ctx context.Context, sessionID int) ([]types.Feedback, error) {
	return s.repo.ListBySession(ctx, sessionID)
}
