package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Amadorfl72/mentorhub/internal/services"
	"github.com/Amadorfl72/mentorhub/internal/store"
	"github.com/Amadorfl72/mentorhub/types"
	"github.com/go-chi/chi/v5"
)

// SessionHandler provides HTTP handlers for mentorship sessions.
type SessionHandler struct {
	sessionService *services.SessionService
}

// NewSessionHandler constructs a handler with the provided service.
func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// SessionRouter registers session routes on the given router.
func SessionRouter(r chi.Router, sessionService *services.SessionService) {
	handler := NewSessionHandler(sessionService)

	r.Get("/", handler.ListSessions)
	r.Post("/", handler.CreateSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", handler.GetSession)
		r.Put("/", handler.UpdateSession)
		r.Delete("/", handler.DeleteSession)
		r.Post("/enrol", handler.EnrolMentee)
		r.Post("/unenrol", handler.UnenrolMentee)
	})
}

func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	mentorID, err := parseOptionalID(r.URL.Query().Get("mentor_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid mentor_id")
		return
	}
	menteeID, err := parseOptionalID(r.URL.Query().Get("mentee_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid mentee_id")
		return
	}

	sessions, err := h.sessionService.List(r.Context(), mentorID, menteeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.sessionService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch session")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	sendNotification := true
	if req.SendNotification != nil {
		sendNotification = *req.SendNotification
	}

	created, err := h.sessionService.Create(r.Context(), types.Session{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		MentorID:      req.MentorID,
		ScheduledTime: req.ScheduledTime,
		MaxAttendees:  req.MaxAttendees,
		Keywords:      req.Keywords,
	}, sendNotification)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var update types.SessionUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.sessionService.Update(r.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Session not found")
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update session")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sessionService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) EnrolMentee(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	menteeID, err := parseMenteeID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mentee ID is required")
		return
	}

	session, message, err := h.sessionService.Enroll(r.Context(), id, menteeID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, store.ErrAlreadyEnrolled):
			writeError(w, http.StatusBadRequest, "Mentee is already enrolled in this session")
		case errors.Is(err, store.ErrSessionFull):
			writeError(w, http.StatusBadRequest, "Session is full")
		default:
			writeError(w, http.StatusInternalServerError, "failed to enrol mentee")
		}
		return
	}

	writeJSON(w, http.StatusOK, EnrollmentResponse{Message: message, Session: session})
}

func (h *SessionHandler) UnenrolMentee(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	menteeID, err := parseMenteeID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mentee ID is required")
		return
	}

	session, message, err := h.sessionService.Unenroll(r.Context(), id, menteeID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, store.ErrNotEnrolled):
			writeError(w, http.StatusBadRequest, "Mentee is not enrolled in this session")
		default:
			writeError(w, http.StatusInternalServerError, "failed to unenrol mentee")
		}
		return
	}

	writeJSON(w, http.StatusOK, EnrollmentResponse{Message: message, Session: session})
}

// SessionCreateRequest is the create payload. send_notification defaults
// to true when omitted.
type SessionCreateRequest struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	MentorID         int       `json:"mentor_id"`
	ScheduledTime    time.Time `json:"scheduled_time"`
	MaxAttendees     int       `json:"max_attendees"`
	Keywords         string    `json:"keywords"`
	SendNotification *bool     `json:"send_notification"`
}

// EnrollmentResponse is the enrol/unenrol success payload.
type EnrollmentResponse struct {
	Message string        `json:"message"`
	Session types.Session `json:"session"`
}

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

func parseSessionID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "sessionID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid session id")
	}
	return id, nil
}

func parseMenteeID(r *http.Request) (int, error) {
	var req struct {
		MenteeID int `json:"mentee_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.MenteeID < 1 {
		return 0, errors.New("mentee id is required")
	}
	return req.MenteeID, nil
}

func parseOptionalID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
