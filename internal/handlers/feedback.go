package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Amadorfl72/mentorhub/internal/services"
	"github.com/Amadorfl72/mentorhub/types"
	"github.com/go-chi/chi/v5"
)

// FeedbackHandler provides HTTP handlers for session feedback.
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

// NewFeedbackHandler constructs a handler with the provided service.
func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// FeedbackRouter registers feedback routes on the given router.
func FeedbackRouter(r chi.Router, feedbackService *services.FeedbackService) {
	handler := NewFeedbackHandler(feedbackService)

	r.Post("/", handler.CreateFeedback)
	r.Get("/{sessionID}", handler.ListSessionFeedback)
}

func (h *FeedbackHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req types.Feedback
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	req.FromUserID = userID

	created, err := h.feedbackService.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create feedback")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *FeedbackHandler) ListSessionFeedback(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "sessionID")
	sessionID, err := strconv.Atoi(raw)
	if err != nil || sessionID < 1 {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	items, err := h.feedbackService.ListBySession(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list feedback")
		return
	}

	writeJSON(w, http.StatusOK, items)
}
