package httpx

import (
	"context"
	"net/http"

	"bookshelf/internal/identity"

	"github.com/charmbracelet/log"
)

type contextKey string

const (
	userKey         contextKey = "user"
	requestIDKey    contextKey = "requestID"
	requestStateKey contextKey = "requestState"
	loggerKey       contextKey = "logger"
)

// requestState is shared by the outer middlewares so that values set deeper
// in the chain (the authenticated user) are visible to the access log.
type requestState struct {
	userID string
}

// UserFrom returns the authenticated user attached by AuthMiddleware.
func UserFrom(r *http.Request) (identity.User, bool) {
	u, ok := r.Context().Value(userKey).(identity.User)
	return u, ok
}

// UserIDFrom returns the authenticated user id, or "" for anonymous requests.
func UserIDFrom(r *http.Request) string {
	if u, ok := UserFrom(r); ok {
		return u.ID
	}
	if st, ok := r.Context().Value(requestStateKey).(*requestState); ok {
		return st.userID
	}
	return ""
}

func ContextWithUser(ctx context.Context, u identity.User) context.Context {
	if st, ok := ctx.Value(requestStateKey).(*requestState); ok {
		st.userID = u.ID
	}
	return context.WithValue(ctx, userKey, u)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ContextWithLogger attaches the logger handlers should report failures to.
func ContextWithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFrom returns the logger attached by AccessLogMiddleware, or the
// package default when the request did not pass through it.
func LoggerFrom(r *http.Request) *log.Logger {
	if l, ok := r.Context().Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

func contextWithState(ctx context.Context) (context.Context, *requestState) {
	st := &requestState{}
	return context.WithValue(ctx, requestStateKey, st), st
}
