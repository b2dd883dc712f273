package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/charmbracelet/log"
)

func RecoveryMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic recovered",
					"request_id", RequestIDFrom(r),
					"panic", rec,
					"stack", string(debug.Stack()),
				)

				if rw, ok := w.(*responseWriter); ok && rw.headerWritten {
					return
				}
				Error(w, http.StatusInternalServerError, MsgServerError, nil)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
