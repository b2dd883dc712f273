package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of Supabase access token claims the API reads.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier resolves access tokens locally by checking their HS256
// signature against the project's JWT secret. Sessions revoked at the
// provider stay valid until the token expires.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) GetUser(_ context.Context, accessToken string) (User, error) {
	t, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || claims.Subject == "" {
		return User{}, ErrInvalidToken
	}

	u := User{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	}
	if len(claims.Audience) > 0 {
		u.Aud = claims.Audience[0]
	}
	return u, nil
}

// SignToken issues an access token for u in the same shape Supabase does.
func SignToken(secret string, u User, ttl time.Duration) (string, error) {
	now := time.Now()
	c := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Audience:  jwt.ClaimStrings{"authenticated"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}
