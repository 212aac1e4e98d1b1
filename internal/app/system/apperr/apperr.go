// Package apperr defines the typed failures that cross the service boundary.
//
// Services return *Error values carrying a Kind; the HTTP layer maps each
// Kind to a status code and a stable client-visible code. Underlying causes
// are kept for server-side logging and never rendered to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	Internal Kind = iota
	InvalidAssertion
	UnregisteredIdentity
	AlreadyRegistered
	HandleTaken
	EmailTaken
	ExpiredOrInvalidCredential
	Forbidden
	NotFound
	AssignmentNotFound
	AlreadyAssigned
	InvalidArtifactType
	InvalidInput
	MethodNotSupported
)

type kindInfo struct {
	status int
	code   string
	msg    string
}

var kinds = map[Kind]kindInfo{
	Internal:                   {http.StatusInternalServerError, "internal_error", "An internal error occurred."},
	InvalidAssertion:           {http.StatusUnauthorized, "invalid_assertion", "Invalid identity token."},
	UnregisteredIdentity:       {http.StatusUnauthorized, "unregistered_identity", "User not found. Please register first."},
	AlreadyRegistered:          {http.StatusBadRequest, "already_registered", "User already registered."},
	HandleTaken:                {http.StatusBadRequest, "handle_taken", "Username already taken."},
	EmailTaken:                 {http.StatusBadRequest, "email_taken", "Email already registered to another user."},
	ExpiredOrInvalidCredential: {http.StatusUnauthorized, "invalid_credential", "Could not validate credentials."},
	Forbidden:                  {http.StatusForbidden, "forbidden", "Not authorized."},
	NotFound:                   {http.StatusNotFound, "not_found", "Not found."},
	AssignmentNotFound:         {http.StatusNotFound, "assignment_not_found", "Task assignment not found."},
	AlreadyAssigned:            {http.StatusConflict, "already_assigned", "Task already assigned to this internee."},
	InvalidArtifactType:        {http.StatusBadRequest, "invalid_artifact_type", "Unsupported file type."},
	InvalidInput:               {http.StatusBadRequest, "invalid_input", "Invalid input."},
	MethodNotSupported:         {http.StatusMethodNotAllowed, "method_not_supported", "Username/password login is deprecated. Use Firebase authentication."},
}

// Error is a classified failure. Msg is safe to show to clients; Err is the
// underlying cause and is only logged.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Message()
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the client-visible message. Internal failures always use
// the generic text regardless of Msg.
func (e *Error) Message() string {
	if e.Kind == Internal || e.Msg == "" {
		return e.Kind.DefaultMessage()
	}
	return e.Msg
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	if info, ok := kinds[k]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Code returns the stable machine-readable code for the kind.
func (k Kind) Code() string {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return kinds[Internal].code
}

// DefaultMessage returns the generic client-visible message for the kind.
func (k Kind) DefaultMessage() string {
	if info, ok := kinds[k]; ok {
		return info.msg
	}
	return kinds[Internal].msg
}

func (k Kind) String() string { return k.Code() }

// New returns an Error of kind k. An empty msg selects the default message.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// Wrap returns an Error of kind k carrying cause err.
func Wrap(k Kind, err error, msg string) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}

// Internalf wraps err as an internal failure with a formatted context
// message for the logs.
func Internalf(err error, format string, args ...any) *Error {
	return &Error{Kind: Internal, Err: fmt.Errorf(format+": %w", append(args, err)...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal
// when err is not classified. KindOf(nil) is Internal as well; callers
// check for nil first.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is classified as kind k.
func Is(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// From returns err as an *Error, classifying unknown errors as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: Internal, Err: err}
}
