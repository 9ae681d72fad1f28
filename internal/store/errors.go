package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Enrollment conflicts. These abort the enrollment transaction without
// touching the session_mentees table.
var (
	// ErrAlreadyEnrolled is returned when the mentee is already in the
	// session's enrolled set.
	ErrAlreadyEnrolled = errors.New("already enrolled")

	// ErrSessionFull is returned when the session has reached its
	// max_attendees bound.
	ErrSessionFull = errors.New("session full")

	// ErrNotEnrolled is returned on unenroll when the mentee is not in
	// the enrolled set.
	ErrNotEnrolled = errors.New("not enrolled")
)
