// Package resource is the single "fetch when the screen opens" abstraction.
//
// Every screen that shows remote data goes through the same states:
//
//	Idle → Loading → Loaded
//	              ↘ Failed (message for the user, optional redirect)
//
// An AuthError is handed to the Policy, which may clear the session and name
// the route to show instead (normally the login screen).
package resource

import (
	"context"
	"log/slog"
	"sync"

	"github.com/AshimStha/FloraBase-Frontend/internal/apperror"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
)

type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "idle"
}

type LoadFunc[T any] func(ctx context.Context) (T, error)

// Policy decides what a failure looks like on screen.
type Policy struct {
	Fallback    string // message for network and server failures
	OnAuthError func(error) (nav.Route, bool)
}

// Snapshot is the state a view renders.
type Snapshot[T any] struct {
	Status   Status
	Value    T
	Message  string
	Err      error
	Redirect nav.Route
}

type Resource[T any] struct {
	name   string
	load   LoadFunc[T]
	policy Policy
	logger *slog.Logger

	mu   sync.Mutex
	snap Snapshot[T]
}

func New[T any](name string, load LoadFunc[T], policy Policy, logger *slog.Logger) *Resource[T] {
	return &Resource[T]{name: name, load: load, policy: policy, logger: logger}
}

// Load runs the fetch and returns the resulting snapshot. A failed load
// drops any previously loaded value.
func (r *Resource[T]) Load(ctx context.Context) Snapshot[T] {
	r.mu.Lock()
	r.snap = Snapshot[T]{Status: Loading}
	r.mu.Unlock()

	v, err := r.load(ctx)

	next := Snapshot[T]{Status: Loaded, Value: v}
	if err != nil {
		next = Snapshot[T]{
			Status:  Failed,
			Err:     err,
			Message: apperror.UserMessage(err, r.policy.Fallback),
		}
		if r.policy.OnAuthError != nil {
			if route, ok := r.policy.OnAuthError(err); ok {
				next.Redirect = route
			}
		}
		r.logger.Warn("resource: load failed",
			slog.String("resource", r.name),
			slog.String("error", err.Error()),
		)
	}

	r.mu.Lock()
	r.snap = next
	r.mu.Unlock()
	return next
}

func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}
