package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Amadorfl72/mentorhub/types"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// SessionRepository handles persistence for mentorship sessions and
// their enrollment relation.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns sessions, optionally filtered by owning mentor and/or by
// an enrolled mentee. Zero disables a filter.
func (r *SessionRepository) List(ctx context.Context, mentorID, menteeID int) ([]types.Session, error) {
	query := `
		SELECT s.id, s.title, s.description, s.mentor_id, s.scheduled_time,
		       s.max_attendees, s.keywords, s.created_at, s.updated_at
		FROM mentorship_sessions s`
	var args []any
	var where []string

	if menteeID != 0 {
		query += ` JOIN session_mentees sm ON sm.session_id = s.id AND sm.mentee_id = $1`
		args = append(args, menteeID)
	}
	if mentorID != 0 {
		args = append(args, mentorID)
		if len(args) == 2 {
			where = append(where, `s.mentor_id = $2`)
		} else {
			where = append(where, `s.mentor_id = $1`)
		}
	}
	if len(where) > 0 {
		query += ` WHERE ` + where[0]
	}
	query += ` ORDER BY s.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []types.Session{}
	for rows.Next() {
		var s types.Session
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Description,
			&s.MentorID,
			&s.ScheduledTime,
			&s.MaxAttendees,
			&s.Keywords,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		mentees, err := r.menteeIDs(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Mentees = mentees
	}
	return sessions, nil
}

func (r *SessionRepository) Get(ctx context.Context, id int) (types.Session, error) {
	const query = `
		SELECT id, title, description, mentor_id, scheduled_time,
		       max_attendees, keywords, created_at, updated_at
		FROM mentorship_sessions
		WHERE id = $1`
	var s types.Session
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.Title,
		&s.Description,
		&s.MentorID,
		&s.ScheduledTime,
		&s.MaxAttendees,
		&s.Keywords,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Session{}, ErrNotFound
		}
		return types.Session{}, err
	}

	mentees, err := r.menteeIDs(ctx, s.ID)
	if err != nil {
		return types.Session{}, err
	}
	s.Mentees = mentees
	return s, nil
}

func (r *SessionRepository) Create(ctx context.Context, s types.Session) (types.Session, error) {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	const query = `
		INSERT INTO mentorship_sessions (title, description, mentor_id, scheduled_time,
			max_attendees, keywords, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		s.Title,
		s.Description,
		s.MentorID,
		s.ScheduledTime,
		s.MaxAttendees,
		s.Keywords,
		s.CreatedAt,
		s.UpdatedAt,
	).Scan(&s.ID); err != nil {
		return types.Session{}, err
	}
	s.Mentees = []int{}
	return s, nil
}

func (r *SessionRepository) Update(ctx context.Context, s types.Session) (types.Session, error) {
	s.UpdatedAt = time.Now()

	const query = `
		UPDATE mentorship_sessions
		SET title = $1,
			description = $2,
			scheduled_time = $3,
			max_attendees = $4,
			keywords = $5,
			updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		s.Title,
		s.Description,
		s.ScheduledTime,
		s.MaxAttendees,
		s.Keywords,
		s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		return types.Session{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Session{}, err
	}
	if affected == 0 {
		return types.Session{}, ErrNotFound
	}
	return s, nil
}

// Delete removes the session. Enrollment and feedback rows go with the
// relational cascade.
func (r *SessionRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM mentorship_sessions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Enroll adds the mentee to the session's enrolled set. The capacity
// check and the insert run in one transaction with the session row
// locked, so two concurrent enrollments cannot jointly exceed
// max_attendees. The (session_id, mentee_id) primary key backstops
// duplicate races.
func (r *SessionRepository) Enroll(ctx context.Context, sessionID, menteeID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const lockQuery = `
		SELECT max_attendees
		FROM mentorship_sessions
		WHERE id = $1
		FOR UPDATE`
	var maxAttendees int
	if err := tx.QueryRowContext(ctx, lockQuery, sessionID).Scan(&maxAttendees); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	const existsQuery = `
		SELECT EXISTS (
			SELECT 1 FROM session_mentees WHERE session_id = $1 AND mentee_id = $2
		)`
	var enrolled bool
	if err := tx.QueryRowContext(ctx, existsQuery, sessionID, menteeID).Scan(&enrolled); err != nil {
		return err
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}

	const countQuery = `SELECT COUNT(1) FROM session_mentees WHERE session_id = $1`
	var count int
	if err := tx.QueryRowContext(ctx, countQuery, sessionID).Scan(&count); err != nil {
		return err
	}
	if count >= maxAttendees {
		return ErrSessionFull
	}

	const insertQuery = `
		INSERT INTO session_mentees (session_id, mentee_id, enrolled_at)
		VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, insertQuery, sessionID, menteeID, time.Now()); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrAlreadyEnrolled
		}
		return err
	}

	return tx.Commit()
}

// Unenroll removes the mentee from the session's enrolled set.
func (r *SessionRepository) Unenroll(ctx context.Context, sessionID, menteeID int) error {
	const query = `DELETE FROM session_mentees WHERE session_id = $1 AND mentee_id = $2`
	result, err := r.db.ExecContext(ctx, query, sessionID, menteeID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotEnrolled
	}
	return nil
}

// ListEnrolled returns the full user records of the session's enrolled
// mentees, in enrollment order.
func (r *SessionRepository) ListEnrolled(ctx context.Context, sessionID int) ([]types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		JOIN session_mentees sm ON sm.mentee_id = users.id
		WHERE sm.session_id = $1
		ORDER BY sm.enrolled_at`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mentees []types.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		mentees = append(mentees, user)
	}
	return mentees, rows.Err()
}

func (r *SessionRepository) menteeIDs(ctx context.Context, sessionID int) ([]int, error) {
	const query = `
		SELECT mentee_id
		FROM session_mentees
		WHERE session_id = $1
		ORDER BY enrolled_at`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
