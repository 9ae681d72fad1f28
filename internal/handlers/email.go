package handlers

import (
	"net/http"
	"strings"

	"github.com/Amadorfl72/mentorhub/internal/mailer"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EmailHandler exposes a direct send endpoint for the frontend.
type EmailHandler struct {
	mail *mailer.Mailer
	log  *zap.Logger
}

// NewEmailHandler constructs a handler with the provided mailer.
func NewEmailHandler(mail *mailer.Mailer, log *zap.Logger) *EmailHandler {
	return &EmailHandler{mail: mail, log: log}
}

// EmailRouter registers email routes on the given router.
func EmailRouter(r chi.Router, mail *mailer.Mailer, log *zap.Logger) {
	handler := NewEmailHandler(mail, log)

	r.Post("/send", handler.SendEmail)
}

// SendEmail delivers a single email through the configured provider.
// Unlike session notifications this surfaces delivery failures to the
// caller.
func (h *EmailHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.To = strings.TrimSpace(req.To)
	req.Subject = strings.TrimSpace(req.Subject)
	if req.To == "" || req.Subject == "" || req.HTML == "" {
		writeError(w, http.StatusBadRequest, "to, subject and html are required")
		return
	}

	id, err := h.mail.Send(r.Context(), []string{req.To}, req.Subject, req.HTML)
	if err != nil {
		h.log.Warn("failed to send email",
			zap.String("to", req.To),
			zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to send email")
		return
	}

	writeJSON(w, http.StatusOK, SendEmailResponse{ID: id})
}

type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type SendEmailResponse struct {
	ID string `json:"id"`
}
