package myerrors

import (
	"errors"
	"sort"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindConflict       Kind = "conflict"
	KindAuthentication Kind = "authentication"
	KindInvalidToken   Kind = "invalid_token"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindInternal       Kind = "internal"
)

// Store-level errors. Repositories return these and the service translates them.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

var (
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "Invalid Credentials"}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken, Message: "Token is invalid or expired"}
	ErrMissingToken       = &Error{Kind: KindInvalidToken, Message: "Authentication credentials were not provided."}
	ErrUserBlocked        = &Error{Kind: KindAuthorization, Message: "User is blocked. Please contact support."}

	ErrUserNotFound  = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrEmailNotFound = &Error{Kind: KindNotFound, Message: "User with this email does not exist."}

	ErrAlreadyBlocked = &Error{Kind: KindValidation, Message: "User with this email is already blocked."}
	ErrNotBlocked     = &Error{Kind: KindValidation, Message: "User with this email is not blocked."}

	ErrUsernameTaken        = &Error{Kind: KindConflict, Field: "username", Message: "Username already exists. Choose a different username."}
	ErrEmailRegistered      = &Error{Kind: KindConflict, Field: "email", Message: "Email already exists. Use a different email address."}
	ErrRegistrationConflict = &Error{Kind: KindConflict, Message: "An error occurred during registration. Please try again later."}
)

// Error is a classified failure that the transport layer can render without guessing.
type Error struct {
	Kind    Kind
	Message string
	// Field names the single input that caused a conflict.
	Field string
	// Fields holds per-field validation messages.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets a copy produced by Wrap still match its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == e.Message && t.Field == e.Field
}

// Wrap returns a copy of e that carries cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// NewValidation builds a validation error from per-field messages.
func NewValidation(message string, fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Internal wraps an unexpected failure. Its message is safe to show to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf classifies err. Anything unclassified is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldErrors collects validation messages per field.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// Names returns the offending field names in a stable order.
func (fe FieldErrors) Names() []string {
	names := make([]string, 0, len(fe))
	for k := range fe {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
