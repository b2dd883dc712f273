package identity

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid access token")

// User is an account known to the identity provider.
type User struct {
	ID               string         `json:"id"`
	Aud              string         `json:"aud,omitempty"`
	Role             string         `json:"role,omitempty"`
	Email            string         `json:"email"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	LastSignInAt     *time.Time     `json:"last_sign_in_at,omitempty"`
	AppMetadata      map[string]any `json:"app_metadata,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
	CreatedAt        *time.Time     `json:"created_at,omitempty"`
	UpdatedAt        *time.Time     `json:"updated_at,omitempty"`
}

// Session is the result of a successful password sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Provider creates accounts and manages sessions.
type Provider interface {
	// SignUp returns a nil user when the provider accepted the request
	// without returning the created account.
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	// SignOut ends the session behind accessToken. An empty token is a no-op.
	SignOut(ctx context.Context, accessToken string) error
}

// Resolver maps an access token to the user it was issued for.
type Resolver interface {
	GetUser(ctx context.Context, accessToken string) (User, error)
}
