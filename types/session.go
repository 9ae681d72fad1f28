package types

import "time"

// Session represents a scheduled mentorship session.
// A session is owned by its mentor and has a bounded set of enrolled
// mentees: the enrolled count never exceeds MaxAttendees, and a mentee
// appears in the set at most once.
type Session struct {
	// ID is the unique identifier of the session.
	ID int `json:"id" db:"id"`

	// Title is the human-readable name of the session.
	Title string `json:"title" db:"title"`

	// Description contains the full session description.
	Description string `json:"description" db:"description"`

	// MentorID is the identifier of the mentor who owns the session.
	MentorID int `json:"mentor_id" db:"mentor_id"`

	// ScheduledTime is when the session takes place.
	ScheduledTime time.Time `json:"scheduled_time" db:"scheduled_time"`

	// MaxAttendees is the upper bound on concurrent enrollment count.
	// Always at least 1.
	MaxAttendees int `json:"max_attendees" db:"max_attendees"`

	// Keywords is a free-text, comma-separated keyword tag.
	Keywords string `json:"keywords" db:"keywords"`

	// Mentees holds the identifiers of the currently enrolled mentees.
	Mentees []int `json:"mentees" db:"mentees"`

	// CreatedAt is the timestamp at which the session was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the session.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SessionUpdate carries a partial session update. Nil fields are left
// untouched.
type SessionUpdate struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	MaxAttendees  *int       `json:"max_attendees"`
	Keywords      *string    `json:"keywords"`
}
