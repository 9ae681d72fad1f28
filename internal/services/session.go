package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Amadorfl72/mentorhub/internal/mailer"
	"github.com/Amadorfl72/mentorhub/types"
	"go.uber.org/zap"
)

// SessionRepository defines persistence operations for sessions and
// their enrollment relation.
type SessionRepository interface {
	List(ctx context.Context, mentorID, menteeID int) ([]types.Session, error)
	Get(ctx context.Context, id int) (types.Session, error)
	Create(ctx context.Context, s types.Session) (types.Session, error)
	Update(ctx context.Context, s types.Session) (types.Session, error)
	Delete(ctx context.Context, id int) error
	Enroll(ctx context.Context, sessionID, menteeID int) error
	Unenroll(ctx context.Context, sessionID, menteeID int) error
	ListEnrolled(ctx context.Context, sessionID int) ([]types.User, error)
}

// SessionService encapsulates the session workflow: CRUD, capacity-bounded
// enrollment, and best-effort email notifications. A request that changes
// session or enrollment state succeeds or fails on the store mutation
// alone; notification failures are logged and swallowed.
type SessionService struct {
	repo        SessionRepository
	users       UserRepository
	mail        *mailer.Mailer
	log         *zap.Logger
	frontendURL string
}

func NewSessionService(repo SessionRepository, users UserRepository, mail *mailer.Mailer, log *zap.Logger, frontendURL string) *SessionService {
	return &SessionService{
		repo:        repo,
		users:       users,
		mail:        mail,
		log:         log,
		frontendURL: frontendURL,
	}
}

func (s *SessionService) List(ctx context.Context, mentorID, menteeID int) ([]types.Session, error) {
	return s.repo.List(ctx, mentorID, menteeID)
}

func (s *SessionService) Get(ctx context.Context, id int) (types.Session, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and persists a new session. When sendNotification is
// true, every user except the creating mentor is notified, in English,
// after the insert commits.
func (s *SessionService) Create(ctx context.Context, session types.Session, sendNotification bool) (types.Session, error) {
	if session.Title == "" {
		return types.Session{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if session.Description == "" {
		return types.Session{}, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if session.MentorID == 0 {
		return types.Session{}, fmt.Errorf("%w: mentor_id is required", ErrValidation)
	}
	if session.ScheduledTime.IsZero() {
		return types.Session{}, fmt.Errorf("%w: scheduled_time is required", ErrValidation)
	}
	if session.MaxAttendees < 1 {
		return types.Session{}, fmt.Errorf("%w: max_attendees must be a positive integer", ErrValidation)
	}

	created, err := s.repo.Create(ctx, session)
	if err != nil {
		return types.Session{}, err
	}

	if sendNotification {
		s.notifyCreated(ctx, created)
	}
	return created, nil
}

// Update applies a partial update and, when any of title, description,
// scheduled_time or max_attendees actually changed, notifies every
// currently enrolled mentee in the mentee's own language.
func (s *SessionService) Update(ctx context.Context, id int, update types.SessionUpdate) (types.Session, error) {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Session{}, err
	}

	after := before
	if update.Title != nil {
		if *update.Title == "" {
			return types.Session{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		after.Title = *update.Title
	}
	if update.Description != nil {
		if *update.Description == "" {
			return types.Session{}, fmt.Errorf("%w: description cannot be empty", ErrValidation)
		}
		after.Description = *update.Description
	}
	if update.ScheduledTime != nil {
		after.ScheduledTime = *update.ScheduledTime
	}
	if update.MaxAttendees != nil {
		if *update.MaxAttendees < 1 {
			return types.Session{}, fmt.Errorf("%w: max_attendees must be a positive integer", ErrValidation)
		}
		after.MaxAttendees = *update.MaxAttendees
	}
	if update.Keywords != nil {
		after.Keywords = *update.Keywords
	}

	changes := trackedChanges(before, after)

	updated, err := s.repo.Update(ctx, after)
	if err != nil {
		return types.Session{}, err
	}
	updated.Mentees = before.Mentees

	if len(changes) > 0 && len(before.Mentees) > 0 {
		s.notifyUpdated(ctx, updated, changes)
	}
	return updated, nil
}

// Delete notifies the enrolled mentees of the cancellation, then removes
// the session; enrollment rows go with the relational cascade.
func (s *SessionService) Delete(ctx context.Context, id int) error {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if len(session.Mentees) > 0 {
		s.notifyCancelled(ctx, session)
	}
	return s.repo.Delete(ctx, id)
}

// Enroll adds the mentee to the session's enrolled set and sends a
// best-effort confirmation email. Returns the updated session and a
// success message.
func (s *SessionService) Enroll(ctx context.Context, sessionID, menteeID int) (types.Session, string, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return types.Session{}, "", err
	}
	mentee, err := s.users.GetByID(ctx, menteeID)
	if err != nil {
		return types.Session{}, "", err
	}

	if err := s.repo.Enroll(ctx, sessionID, menteeID); err != nil {
		return types.Session{}, "", err
	}

	s.notifyEnrolled(ctx, session, mentee)

	updated, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return types.Session{}, "", err
	}
	message := fmt.Sprintf("Mentee %s enrolled in session %s", mentee.Username, session.Title)
	return updated, message, nil
}

// Unenroll removes the mentee from the session's enrolled set. No
// notification is sent.
func (s *SessionService) Unenroll(ctx context.Context, sessionID, menteeID int) (types.Session, string, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return types.Session{}, "", err
	}
	mentee, err := s.users.GetByID(ctx, menteeID)
	if err != nil {
		return types.Session{}, "", err
	}

	if err := s.repo.Unenroll(ctx, sessionID, menteeID); err != nil {
		return types.Session{}, "", err
	}

	updated, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return types.Session{}, "", err
	}
	message := fmt.Sprintf("Mentee %s unenrolled from session %s", mentee.Username, session.Title)
	return updated, message, nil
}

func (s *SessionService) sessionURL(id int) string {
	return fmt.Sprintf("%s/session/%d", s.frontendURL, id)
}

func (s *SessionService) notifyCreated(ctx context.Context, session types.Session) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.log.Warn("session creation notice: listing users failed",
			zap.Int("session_id", session.ID), zap.Error(err))
		return
	}

	mentorName := ""
	if mentor, err := s.users.GetByID(ctx, session.MentorID); err == nil {
		mentorName = mentor.Username
	}

	var recipients []string
	for _, user := range users {
		if user.ID == session.MentorID || !user.EmailNotifications {
			continue
		}
		recipients = append(recipients, user.Email)
	}
	if len(recipients) == 0 {
		return
	}

	email := mailer.BuildSessionCreated(session, mentorName, s.sessionURL(session.ID))
	id, err := s.mail.Send(ctx, recipients, email.Subject, email.HTML)
	if err != nil {
		s.log.Warn("session creation notice failed",
			zap.Int("session_id", session.ID),
			zap.String("kind", "session_created"),
			zap.Error(err))
		return
	}
	s.log.Info("session creation notice sent",
		zap.Int("session_id", session.ID),
		zap.Int("recipients", len(recipients)),
		zap.String("delivery_id", id))
}

func (s *SessionService) notifyUpdated(ctx context.Context, session types.Session, changes []mailer.FieldChange) {
	mentees, err := s.repo.ListEnrolled(ctx, session.ID)
	if err != nil {
		s.log.Warn("session update notice: listing mentees failed",
			zap.Int("session_id", session.ID), zap.Error(err))
		return
	}

	for _, mentee := range mentees {
		if !mentee.EmailNotifications {
			continue
		}
		email := mailer.BuildSessionUpdated(mentee.Language, session, changes)
		if _, err := s.mail.Send(ctx, []string{mentee.Email}, email.Subject, email.HTML); err != nil {
			s.log.Warn("session update notice failed",
				zap.Int("session_id", session.ID),
				zap.String("recipient", mentee.Email),
				zap.String("kind", "session_updated"),
				zap.Error(err))
		}
	}
}

func (s *SessionService) notifyCancelled(ctx context.Context, session types.Session) {
	mentees, err := s.repo.ListEnrolled(ctx, session.ID)
	if err != nil {
		s.log.Warn("session cancellation notice: listing mentees failed",
			zap.Int("session_id", session.ID), zap.Error(err))
		return
	}

	mentorName := ""
	if mentor, err := s.users.GetByID(ctx, session.MentorID); err == nil {
		mentorName = mentor.Username
	}

	for _, mentee := range mentees {
		if !mentee.EmailNotifications {
			continue
		}
		email := mailer.BuildSessionCancelled(mentee.Language, session, mentorName)
		if _, err := s.mail.Send(ctx, []string{mentee.Email}, email.Subject, email.HTML); err != nil {
			s.log.Warn("session cancellation notice failed",
				zap.Int("session_id", session.ID),
				zap.String("recipient", mentee.Email),
				zap.String("kind", "session_cancelled"),
				zap.Error(err))
		}
	}
}

func (s *SessionService) notifyEnrolled(ctx context.Context, session types.Session, mentee types.User) {
	if !mentee.EmailNotifications {
		return
	}

	mentorName := ""
	if mentor, err := s.users.GetByID(ctx, session.MentorID); err == nil {
		mentorName = mentor.Username
	}

	email := mailer.BuildEnrollmentConfirmed(mentee.Language, session, mentorName, s.sessionURL(session.ID))
	if _, err := s.mail.Send(ctx, []string{mentee.Email}, email.Subject, email.HTML); err != nil {
		s.log.Warn("enrollment confirmation failed",
			zap.Int("session_id", session.ID),
			zap.String("recipient", mentee.Email),
			zap.String("kind", "enrollment_confirmed"),
			zap.Error(err))
	}
}

// trackedChanges compares the notification-relevant fields by value.
func trackedChanges(before, after types.Session) []mailer.FieldChange {
	var changes []mailer.FieldChange
	if before.Title != after.Title {
		changes = append(changes, mailer.FieldChange{
			Field: "title", Before: before.Title, After: after.Title,
		})
	}
	if before.Description != after.Description {
		changes = append(changes, mailer.FieldChange{
			Field: "description", Before: before.Description, After: after.Description,
		})
	}
	if !before.ScheduledTime.Equal(after.ScheduledTime) {
		changes = append(changes, mailer.FieldChange{
			Field:  "scheduled_time",
			Before: mailer.FormatTime(before.ScheduledTime),
			After:  mailer.FormatTime(after.ScheduledTime),
		})
	}
	if before.MaxAttendees != after.MaxAttendees {
		changes = append(changes, mailer.FieldChange{
			Field:  "max_attendees",
			Before: strconv.Itoa(before.MaxAttendees),
			After:  strconv.Itoa(after.MaxAttendees),
		})
	}
	return changes
}
