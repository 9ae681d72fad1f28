package types

import "time"

// Feedback is a 1-5 star rating with an optional comment, left by one
// user for another in the context of a session.
type Feedback struct {
	// ID is the unique identifier of the feedback entry.
	ID int `json:"id" db:"id"`

	// SessionID is the session the feedback refers to.
	SessionID int `json:"session_id" db:"session_id"`

	// FromUserID is the user leaving the feedback.
	FromUserID int `json:"from_user_id" db:"from_user_id"`

	// ToUserID is the user the feedback is about.
	ToUserID int `json:"to_user_id" db:"to_user_id"`

	// Rating is a star rating between 1 and 5.
	Rating int `json:"rating" db:"rating"`

	// Comment is optional free text.
	Comment string `json:"comment" db:"comment"`

	// CreatedAt is the timestamp when the feedback was left.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Stats holds platform-wide counts for the stats endpoint.
type Stats struct {
	TotalUsers    int `json:"total_users"`
	TotalMentors  int `json:"total_mentors"`
	TotalMentees  int `json:"total_mentees"`
	TotalSessions int `json:"total_sessions"`
}
