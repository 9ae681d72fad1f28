package types

import "time"

// Language codes with translated notification copy. Anything else
// falls back to English.
const (
	LangEnglish = "en"
	LangSpanish = "es"
	LangFrench  = "fr"
)

// Roles a user can hold on the platform.
const (
	RolePending = "pending"
	RoleMentor  = "mentor"
	RoleMentee  = "mentee"
	RoleBoth    = "both"
)

// User represents an account in the system.
// Accounts are created on first Google login or through the users API.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the user's display name. For Google SSO accounts it is
	// taken from the Google profile.
	Username string `json:"username" db:"username"`

	// Email is the user's email address. Unique across all accounts.
	Email string `json:"email" db:"email"`

	// GoogleID is the Google subject identifier for SSO accounts.
	// Empty for accounts created without Google.
	GoogleID string `json:"-" db:"google_id"`

	// PhotoURL is the profile photo URL reported by Google.
	PhotoURL string `json:"photoUrl" db:"photo_url"`

	// AvatarKey is the object-storage key of the cached profile photo.
	// Empty when no photo has been cached.
	AvatarKey string `json:"-" db:"avatar_key"`

	// PasswordHash stores the hashed password for accounts that also
	// log in with credentials. Optional; SSO-only accounts leave it empty.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Role is one of "pending", "mentor", "mentee", or "both".
	// New accounts start as "pending".
	Role string `json:"role" db:"role"`

	// Skills is a comma-separated list of skills the user offers.
	Skills string `json:"skills" db:"skills"`

	// Interests is a comma-separated list of topics the user wants
	// mentoring on.
	Interests string `json:"interests" db:"interests"`

	// Admin indicates whether the user has administrator privileges.
	Admin bool `json:"admin" db:"admin"`

	// EmailNotifications indicates whether the user wants to receive
	// transactional emails. Users who opt out are skipped by the
	// notification dispatcher.
	EmailNotifications bool `json:"email_notifications" db:"email_notifications"`

	// Language is the user's preferred language for notifications
	// ("en", "es", or "fr"). Defaults to "en".
	Language string `json:"language" db:"language"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
