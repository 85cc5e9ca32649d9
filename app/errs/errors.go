// Author: DoItWithASmile (2025). Apache 2.0 License

package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	RemoteUnavailable Kind = iota + 1
	RemoteNotFound
	RemoteUnauthorized
	ValidationFailed
	AuthenticationFailed
	NotConfigured
	StoreOperationFailed
	UnsupportedEvent
)

func (k Kind) String() string {
	switch k {
	case RemoteUnavailable:
		return "remote_unavailable"
	case RemoteNotFound:
		return "remote_not_found"
	case RemoteUnauthorized:
		return "remote_unauthorized"
	case ValidationFailed:
		return "validation_failed"
	case AuthenticationFailed:
		return "authentication_failed"
	case NotConfigured:
		return "not_configured"
	case StoreOperationFailed:
		return "store_operation_failed"
	case UnsupportedEvent:
		return "unsupported_event"
	}
	return "unknown"
}

// E carries a tagged error: the kind drives handling and the HTTP mapping,
// the code is a short machine-readable identifier for the exact failure.
type E struct {
	Kind    Kind
	Code    string
	Message string
	Status  int   // optional explicit HTTP status, overrides the kind mapping
	Err     error // optional cause
}

func (e *E) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

func (e *E) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string) *E {
	return &E{Kind: kind, Code: code, Message: message}
}

func Newf(kind Kind, code, format string, args ...interface{}) *E {
	return &E{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, code string, err error) *E {
	return &E{Kind: kind, Code: code, Message: fmt.Sprintf("%v", err), Err: err}
}

func WithStatus(status int, kind Kind, code, message string) *E {
	return &E{Kind: kind, Code: code, Message: message, Status: status}
}

// KindOf returns the kind of err, or 0 when err carries none.
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// CodeOf returns the stable machine readable code of an error, or
// "internal" when the error carries none.
func CodeOf(err error) string {
	var e *E
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "internal"
}

// HTTPStatus maps an error to the status code reported to webhook callers.
func HTTPStatus(err error) int {
	var e *E
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case ValidationFailed:
		return http.StatusBadRequest
	case AuthenticationFailed:
		return http.StatusUnauthorized
	case NotConfigured:
		return http.StatusUnprocessableEntity
	case UnsupportedEvent:
		return http.StatusNotImplemented
	case RemoteUnavailable, RemoteNotFound, RemoteUnauthorized:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
