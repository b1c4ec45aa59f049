package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("invalid request")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

// User-facing messages for the error taxonomy.
const (
	MsgSessionExpired = "Your session has expired. Please log in again."
	MsgForbidden      = "You do not have permission to perform this action."
	MsgNotFound       = "The requested item was not found."
	MsgNetwork        = "Network error. Please check your connection and try again."
	MsgUnexpected     = "An unexpected error occurred. Please try again."
	MsgCheckFields    = "Please correct the highlighted fields."
)

const maxErrorBody = 1 << 16

// FieldError is one structured validation failure reported by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

type errorBody struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields"`
}

func newAPIError(resp *http.Response) *APIError {
	e := &APIError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		e.Message = body.Error
		e.Fields = body.Fields
	} else {
		e.Message = strings.TrimSpace(string(raw))
	}
	return e
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Unwrap maps the status code onto the package sentinels.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusBadRequest, e.Status == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status >= 500:
		return ErrServer
	default:
		return nil
	}
}

// FieldErrors returns the structured field messages keyed by field name.
func (e *APIError) FieldErrors() map[string]string {
	if len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// UserMessage renders the error for display.
func (e *APIError) UserMessage() string {
	switch e.Unwrap() {
	case ErrUnauthorized:
		return MsgSessionExpired
	case ErrForbidden:
		return MsgForbidden
	case ErrNotFound:
		return MsgNotFound
	case ErrValidation, ErrConflict:
		if e.Message != "" {
			return e.Message
		}
		return MsgCheckFields
	default:
		return MsgUnexpected
	}
}

// UserMessage renders any error returned by this package for display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	switch {
	case errors.Is(err, ErrUnavailable):
		return MsgNetwork
	case errors.Is(err, ErrUnauthorized):
		return MsgSessionExpired
	case errors.Is(err, ErrForbidden):
		return MsgForbidden
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	default:
		return MsgUnexpected
	}
}
