package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var (
	ErrNotFound    = errors.New("remote document not found")
	ErrPermission  = errors.New("remote permission denied")
	ErrValidation  = errors.New("remote validation failed")
	ErrTimeout     = errors.New("remote call timed out")
	ErrUnavailable = errors.New("remote backend unavailable")
)

// Error is a failed remote method call.
type Error struct {
	Method     string
	StatusCode int
	Type       string
	Message    string
}

func (e *Error) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Method, e.Message, e.Type)
	}
	return fmt.Sprintf("%s: %s", e.Method, e.Message)
}

// Unwrap maps the backend exception class or HTTP status to a sentinel.
func (e *Error) Unwrap() error {
	switch e.Type {
	case "DoesNotExistError":
		return ErrNotFound
	case "PermissionError", "AuthenticationError":
		return ErrPermission
	case "ValidationError", "MandatoryError", "LinkValidationError":
		return ErrValidation
	}
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrPermission
	case e.StatusCode == http.StatusExpectationFailed, e.StatusCode == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.StatusCode >= 500:
		return ErrUnavailable
	}
	return nil
}

type errorBody struct {
	ExcType        string `json:"exc_type"`
	Exception      string `json:"exception"`
	ServerMessages string `json:"_server_messages"`
	Message        any    `json:"message"`
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// decodeError builds an *Error from a non-2xx response body, falling back to
// the status text when the body carries nothing readable.
func decodeError(method string, status int, body []byte) *Error {
	e := &Error{Method: method, StatusCode: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		e.Type = eb.ExcType
		e.Message = serverMessage(eb.ServerMessages)
		if e.Message == "" && eb.Exception != "" {
			e.Message = exceptionMessage(eb.Exception)
		}
		if e.Message == "" {
			if s, ok := eb.Message.(string); ok {
				e.Message = s
			}
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	e.Message = strings.TrimSpace(tagPattern.ReplaceAllString(e.Message, ""))
	return e
}

// serverMessage unpacks the doubly encoded _server_messages list.
func serverMessage(raw string) string {
	if raw == "" {
		return ""
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return ""
	}
	var msgs []string
	for _, item := range items {
		var m struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(item), &m); err == nil && m.Message != "" {
			msgs = append(msgs, m.Message)
		}
	}
	return strings.Join(msgs, "; ")
}

// exceptionMessage drops the "module.ExceptionClass: " prefix.
func exceptionMessage(exc string) string {
	if i := strings.Index(exc, ": "); i >= 0 {
		return exc[i+2:]
	}
	return exc
}
