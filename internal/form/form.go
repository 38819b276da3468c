// Package form is the submission pattern shared by every FloraBase form:
// registration, login, post creation, post update and profile update.
//
// A submission runs in three steps:
//
//	1. Validate  → presence check of the form's required fields, plus any
//	               extra Check; a failure returns field errors and no request
//	               is made
//	2. Send      → the form's own request(s), given a copy of the fields
//	3. Outcome   → the follow-up route on success, or one human-readable
//	               message on failure (backend text preferred)
//
// The caller's Fields are never modified, so a failed submission keeps every
// value the user typed.
package form

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/AshimStha/FloraBase-Frontend/internal/apperror"
	"github.com/AshimStha/FloraBase-Frontend/internal/client"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
)

// Fields holds form input by field name. Values are string, bool, []string,
// *client.File or nil.
type Fields map[string]any

// Clone returns a shallow copy; slices are copied too.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if s, ok := v.([]string); ok {
			v = append([]string(nil), s...)
		}
		out[k] = v
	}
	return out
}

// String returns the text value of key, or "".
func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

func (f Fields) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

// File returns the attachment under key, if any.
func (f Fields) File(key string) *client.File {
	switch v := f[key].(type) {
	case *client.File:
		return v
	case client.File:
		return &v
	}
	return nil
}

// HasAttachment reports whether any value is a file, which makes the body
// multipart.
func (f Fields) HasAttachment() bool {
	for k := range f {
		if f.File(k) != nil {
			return true
		}
	}
	return false
}

// Errors maps field name → message. An empty map means valid.
type Errors map[string]string

// Keys returns the failing field names, sorted.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Err converts e into an apperror for callers that want a single error. It
// returns nil when e is empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	keys := e.Keys()
	return apperror.ValidationFailed(keys[0], e[keys[0]])
}

var validate = validator.New()

// Validate returns one message for every name in required whose value in
// fields is absent or empty. Only presence is checked.
func Validate(fields Fields, required []string) Errors {
	errs := Errors{}
	for _, name := range required {
		if err := validate.Var(presence(fields[name]), "required"); err != nil {
			errs[name] = Label(name) + " is required"
		}
	}
	return errs
}

// presence reduces a field value to something the "required" tag can judge:
// an empty string for anything absent, the value itself for scalars.
func presence(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case *client.File:
		if x == nil {
			return ""
		}
		return "attached"
	case client.File:
		return "attached"
	case []string:
		return strings.Join(x, "")
	case string, bool, int, int64, float64:
		return x
	}
	return "set"
}

// Label turns a field name into the words shown to the user:
// common_name → "Common name", dateOfBirth → "Date of birth".
func Label(name string) string {
	if l, ok := labels[name]; ok {
		return l
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case unicode.IsUpper(r) && i > 0:
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// labels covers names that do not split on their own.
var labels = map[string]string{
	"firstname":      "First name",
	"lastname":       "Last name",
	"profilePicture": "Profile picture",
}

// Encode picks the request body for fields: multipart when an attachment is
// present, JSON otherwise. Nil values are left out of both, and attachments
// are never sent as JSON.
func Encode(fields Fields) (any, []client.RequestOption) {
	body := make(map[string]any, len(fields))
	multipart := fields.HasAttachment()
	for k, v := range fields {
		if f, isFile := v.(*client.File); v == nil || (isFile && f == nil) {
			continue
		}
		if !multipart && fields.File(k) != nil {
			continue
		}
		body[k] = v
	}
	if multipart {
		return body, []client.RequestOption{client.Multipart()}
	}
	return body, nil
}

// SendFunc issues a form's request(s) and returns where to go next. Errors
// should carry an apperror kind.
type SendFunc func(ctx context.Context, fields Fields) (nav.Route, error)

// Definition describes one form.
type Definition struct {
	Name     string
	Required []string
	// Check runs after the presence check passes, e.g. to parse a location.
	Check func(Fields) Errors
	Send  SendFunc
	// Fallback is shown when the failure has no usable message.
	Fallback string
	// OnAuthError handles a rejected token on a protected form; nil for
	// forms that are submitted without a session (login, registration).
	OnAuthError func(error) (nav.Route, bool)
}

// StepError marks which request of a multi-request submission failed, with
// the message to show when the backend gave none.
type StepError struct {
	Step     string
	Fallback string
	Err      error
}

func (e *StepError) Error() string { return e.Step + ": " + e.Err.Error() }
func (e *StepError) Unwrap() error { return e.Err }

// Outcome is the result of one Submit.
type Outcome struct {
	FieldErrors Errors
	Message     string // shown on failure
	Next        nav.Route
	Err         error
}

func (o Outcome) OK() bool { return o.Err == nil && len(o.FieldErrors) == 0 }

type Controller struct {
	def    Definition
	logger *slog.Logger
}

func New(def Definition, logger *slog.Logger) *Controller {
	return &Controller{def: def, logger: logger}
}

// Validate runs the presence check and then Check.
func (c *Controller) Validate(fields Fields) Errors {
	errs := Validate(fields, c.def.Required)
	if len(errs) > 0 || c.def.Check == nil {
		return errs
	}
	for k, v := range c.def.Check(fields) {
		errs[k] = v
	}
	return errs
}

// Submit validates and, when valid, sends a copy of fields.
func (c *Controller) Submit(ctx context.Context, fields Fields) Outcome {
	if errs := c.Validate(fields); len(errs) > 0 {
		c.logger.Debug("form: validation failed",
			slog.String("form", c.def.Name),
			slog.Any("fields", errs.Keys()),
		)
		return Outcome{FieldErrors: errs, Err: errs.Err()}
	}

	next, err := c.def.Send(ctx, fields.Clone())
	if err == nil {
		c.logger.Info("form: submitted", slog.String("form", c.def.Name), slog.String("next", next.String()))
		return Outcome{Next: next}
	}

	c.logger.Warn("form: submission failed",
		slog.String("form", c.def.Name),
		slog.String("error", err.Error()),
	)
	fallback := c.def.Fallback
	var step *StepError
	if errors.As(err, &step) && step.Fallback != "" {
		fallback = step.Fallback
	}
	out := Outcome{Err: err, Message: apperror.UserMessage(err, fallback)}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Field != "" && errors.Is(err, apperror.ErrValidation) {
		out.FieldErrors = Errors{appErr.Field: appErr.Message}
	}
	if c.def.OnAuthError != nil {
		if route, ok := c.def.OnAuthError(err); ok {
			out.Next = route
		}
	}
	return out
}
