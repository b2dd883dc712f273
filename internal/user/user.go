package user

import "time"

// Profile is the application-side record mirrored from an identity at sign-up.
type Profile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
