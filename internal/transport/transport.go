// Package transport contains http.RoundTripper decorators for the outbound
// FloraBase client.
//
// A RoundTripper decorator wraps another RoundTripper the same way an HTTP
// middleware wraps a handler:
//
//	func Decorate(next http.RoundTripper) http.RoundTripper {
//	    return Func(func(req *http.Request) (*http.Response, error) {
//	        // before the request leaves
//	        resp, err := next.RoundTrip(req)
//	        // after the response (or error) comes back
//	        return resp, err
//	    })
//	}
//
// RoundTrippers must not modify the caller's request, so every decorator that
// adds a header clones it first.
package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"
)

// RequestIDHeader carries a per-request identifier the backend can log.
const RequestIDHeader = "X-Request-ID"

// Func adapts a function to http.RoundTripper.
type Func func(*http.Request) (*http.Response, error)

func (f Func) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// Chain wraps base with decorators; the first decorator is the outermost.
func Chain(base http.RoundTripper, decorators ...func(http.RoundTripper) http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(decorators) - 1; i >= 0; i-- {
		base = decorators[i](base)
	}
	return base
}

// RequestID stamps every request with an xid unless one is already set.
func RequestID(next http.RoundTripper) http.RoundTripper {
	return Func(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get(RequestIDHeader) != "" {
			return next.RoundTrip(req)
		}
		clone := req.Clone(req.Context())
		clone.Header.Set(RequestIDHeader, xid.New().String())
		return next.RoundTrip(clone)
	})
}

// Logger logs each outbound request with method, path, status and duration.
// Transport failures are logged at Warn; the error is returned unchanged.
func Logger(logger *slog.Logger) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return Func(func(req *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(req)

			attrs := []any{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("requestID", req.Header.Get(RequestIDHeader)),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Warn("request failed", append(attrs, slog.String("error", err.Error()))...)
				return nil, err
			}

			logger.Debug("request completed", append(attrs, slog.Int("status", resp.StatusCode))...)
			return resp, nil
		})
	}
}
