// Package middleware holds the request logging of the development backend
// (cmd/devapi, internal/apitest).
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// levelFor maps a response status to a log level: rejected requests are the
// interesting ones when debugging the FloraBase client against devapi.
func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return slog.LevelWarn
	case status >= http.StatusBadRequest:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Logger logs one line per request. The request ID is the one the FloraBase
// client sent in X-Request-ID when chi's RequestID middleware runs first, so
// one xid follows a call through both processes' logs. bearer tells whether
// the client attached a token at all.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.LogAttrs(r.Context(), levelFor(status), "devapi request",
				slog.String("requestID", chimiddleware.GetReqID(r.Context())),
				slog.String("route", r.Method+" "+r.URL.Path),
				slog.Int("status", status),
				slog.Bool("bearer", r.Header.Get("Authorization") != ""),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("took", time.Since(start)),
			)
		})
	}
}
