package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"bookshelf/internal/platform/supabase"
)

// GoTrue implements Provider and Resolver on top of the Supabase auth API.
type GoTrue struct {
	client *supabase.Client
}

func NewGoTrue(client *supabase.Client) *GoTrue {
	return &GoTrue{client: client}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (g *GoTrue) SignUp(ctx context.Context, email, password string) (*User, error) {
	var raw json.RawMessage
	_, err := g.client.Do(ctx, supabase.Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/signup",
		Body:   credentials{Email: email, Password: password},
	}, &raw)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	// With auto-confirm the response is a session wrapping the user,
	// otherwise it is the user itself.
	var withSession struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(raw, &withSession); err != nil {
		return nil, fmt.Errorf("decode sign-up response: %w", err)
	}
	if withSession.User != nil && withSession.User.ID != "" {
		return withSession.User, nil
	}

	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode sign-up response: %w", err)
	}
	if u.ID == "" {
		return nil, nil
	}
	return &u, nil
}

func (g *GoTrue) SignIn(ctx context.Context, email, password string) (Session, error) {
	var s Session
	_, err := g.client.Do(ctx, supabase.Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/token",
		Query:  url.Values{"grant_type": {"password"}},
		Body:   credentials{Email: email, Password: password},
	}, &s)
	return s, err
}

func (g *GoTrue) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	_, err := g.client.Do(ctx, supabase.Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/logout",
		Token:  accessToken,
	}, nil)
	return err
}

func (g *GoTrue) GetUser(ctx context.Context, accessToken string) (User, error) {
	var u User
	_, err := g.client.Do(ctx, supabase.Request{
		Method: http.MethodGet,
		Path:   "/auth/v1/user",
		Token:  accessToken,
	}, &u)
	if err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if u.ID == "" {
		return User{}, ErrInvalidToken
	}
	return u, nil
}
