package kickit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrorKind classifies a failure once, at the API boundary.
// The value doubles as a machine readable error code.
type ErrorKind string

const (
	KindNetwork      ErrorKind = "network_error"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindBadRequest   ErrorKind = "bad_request"
	KindServer       ErrorKind = "server_error"
	KindDecode       ErrorKind = "bad_response"
	KindValidation   ErrorKind = "validation_failed"
	KindUnknown      ErrorKind = "unknown"
)

// User facing messages.
const (
	MsgSessionExpired     = "Your session has expired. Please sign in again."
	MsgNetwork            = "Unable to connect to the server. Please check your internet connection."
	MsgUsernameTaken      = "Username is already taken"
	MsgInvalidCredentials = "Invalid username or password"
	MsgMissingFields      = "Please fill in all required fields"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgPasswordTooShort   = "Password must be at least 6 characters long"
)

// MinPasswordLength is the shortest password accepted on sign-up.
const MinPasswordLength = 6

// Error is returned by every API call that fails.
type Error struct {
	// Kind is the error classification.
	Kind ErrorKind
	// Op names the failed operation, e.g. "update kick".
	Op string
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int
	// Message is safe to show to the user.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return e.Op + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the machine readable error code.
func (e *Error) Code() string {
	return string(e.Kind)
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Message returns the user facing message of err.
// Errors that did not come from this package get the fallback text.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// NewValidationError returns a client side validation failure.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// family selects the status fallbacks of a group of endpoints.
type family int

const (
	familyAuth family = iota
	familyKicks
)

// errorBody lists the fields the API uses for error text, in priority order.
type errorBody struct {
	Error   string `json:"error"`
	Err     string `json:"err"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	for _, s := range []string{b.Error, b.Err, b.Message} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// responseError converts a non-2xx response into an *Error.
// The body is read but not closed.
func responseError(resp *http.Response, fam family, op string) *Error {
	status := resp.StatusCode
	apiErr := &Error{
		Kind:       kindForStatus(status),
		Op:         op,
		StatusCode: status,
	}

	// An expired session always reads the same on kick endpoints, whatever
	// the API put in the body.
	if fam == familyKicks && status == http.StatusUnauthorized {
		apiErr.Message = MsgSessionExpired
		return apiErr
	}

	var body errorBody
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil && len(data) > 0 {
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.text()
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = statusFallback(fam, status, op)
	}
	return apiErr
}

func statusFallback(fam family, status int, op string) string {
	if fam == familyAuth {
		switch status {
		case http.StatusConflict:
			return MsgUsernameTaken
		case http.StatusUnauthorized:
			return MsgInvalidCredentials
		case http.StatusBadRequest:
			return MsgMissingFields
		}
		return fmt.Sprintf("Unable to %s. Please try again. (Error %d)", op, status)
	}
	switch status {
	case http.StatusNotFound:
		return "Kick not found"
	case http.StatusForbidden:
		return "You are not allowed to do that"
	}
	return fmt.Sprintf("Unable to %s. Please try again. (Error %d)", op, status)
}

func networkError(op string, err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Op:      op,
		Message: MsgNetwork,
		Err:     err,
	}
}

func decodeError(op string, status int, err error) *Error {
	return &Error{
		Kind:       KindDecode,
		Op:         op,
		StatusCode: status,
		Message:    fmt.Sprintf("Unable to %s. The server sent an unexpected response.", op),
		Err:        err,
	}
}
