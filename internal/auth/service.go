package auth

import (
	"context"
	"errors"

	"bookshelf/internal/identity"
	"bookshelf/internal/user"
)

// ErrNoUserReturned means the provider accepted a sign-up without returning the account.
var ErrNoUserReturned = errors.New("identity provider returned no user")

// ProviderError is a failure reported by the identity provider for the
// caller's credentials. Its message is safe to show to the client.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// ProfileError means the identity exists but its profile row could not be written.
type ProfileError struct {
	Err error
}

func (e *ProfileError) Error() string { return e.Err.Error() }
func (e *ProfileError) Unwrap() error { return e.Err }

type Service struct {
	provider identity.Provider
	profiles user.Repository
}

func NewService(provider identity.Provider, profiles user.Repository) *Service {
	return &Service{
		provider: provider,
		profiles: profiles,
	}
}

// Register creates the identity and then its profile. A failed profile insert
// leaves the identity in place.
func (s *Service) Register(ctx context.Context, email, password, username string) (identity.User, error) {
	u, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return identity.User{}, &ProviderError{Err: err}
	}
	if u == nil {
		return identity.User{}, ErrNoUserReturned
	}

	// The profile mirrors the address as the identity service stored it.
	profileEmail := u.Email
	if profileEmail == "" {
		profileEmail = email
	}
	err = s.profiles.Create(ctx, user.Profile{
		ID:       u.ID,
		Email:    profileEmail,
		Username: username,
	})
	if err != nil {
		return identity.User{}, &ProfileError{Err: err}
	}
	return *u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (identity.Session, error) {
	sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return identity.Session{}, &ProviderError{Err: err}
	}
	return sess, nil
}

// Logout ends the session behind accessToken, if any.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	return s.provider.SignOut(ctx, accessToken)
}
