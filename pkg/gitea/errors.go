package gitea

import (
	"fmt"
	"net/http"

	"code.gitea.io/sdk/gitea"
)

// ErrorType represents different categories of Gitea API errors
type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeServer     ErrorType = "server"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeUnexpected ErrorType = "unexpected_status"
)

// Error represents a failed call against the Gitea API
type Error struct {
	Type       ErrorType `json:"type"`
	Resource   string    `json:"resource"`
	StatusCode int       `json:"status_code,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		if e.Cause != nil {
			return fmt.Sprintf("%s error for %s (status %d): %v", e.Type, e.Resource, e.StatusCode, e.Cause)
		}
		return fmt.Sprintf("%s error for %s (status %d)", e.Type, e.Resource, e.StatusCode)
	}
	return fmt.Sprintf("%s error for %s: %v", e.Type, e.Resource, e.Cause)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the API answered 404
func (e *Error) IsNotFound() bool {
	return e.Type == ErrorTypeNotFound
}

// wrapError classifies a failed SDK call by the HTTP status it produced.
// A nil response means the request never got an answer.
func wrapError(err error, resp *gitea.Response, resource string) *Error {
	if resp == nil || resp.Response == nil {
		return &Error{Type: ErrorTypeNetwork, Resource: resource, Cause: err}
	}

	return &Error{
		Type:       errorTypeForStatus(resp.StatusCode),
		Resource:   resource,
		StatusCode: resp.StatusCode,
		Cause:      err,
	}
}

func errorTypeForStatus(status int) ErrorType {
	switch {
	case status == http.StatusUnauthorized:
		return ErrorTypeAuth
	case status == http.StatusForbidden:
		return ErrorTypePermission
	case status == http.StatusNotFound:
		return ErrorTypeNotFound
	case status == http.StatusConflict:
		return ErrorTypeConflict
	case status == http.StatusUnprocessableEntity:
		return ErrorTypeValidation
	case status >= 500:
		return ErrorTypeServer
	default:
		return ErrorTypeUnexpected
	}
}
