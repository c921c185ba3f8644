package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Common errors returned by the client.
var (
	// ErrClientClosed is returned when a request is issued after Close.
	ErrClientClosed = errors.New("client is closed")
)

// ErrorKind is the discriminant of an APIError.
type ErrorKind string

const (
	// KindValidation represents 400 responses.
	KindValidation ErrorKind = "validation"

	// KindAuthentication represents 401 responses.
	KindAuthentication ErrorKind = "authentication"

	// KindForbidden represents 403 responses.
	KindForbidden ErrorKind = "forbidden"

	// KindNotFound represents 404 responses and empty detail envelopes.
	KindNotFound ErrorKind = "not_found"

	// KindRateLimit represents 429 responses.
	KindRateLimit ErrorKind = "rate_limit"

	// KindTimeout represents an attempt that exceeded its deadline.
	KindTimeout ErrorKind = "timeout"

	// KindNetwork represents transport failures and unexpected errors.
	KindNetwork ErrorKind = "network"

	// KindGeneric represents every other non-2xx status.
	KindGeneric ErrorKind = "generic"
)

// ProblemDetails is an RFC 7807 error body.
type ProblemDetails struct {
	Type     string              `json:"type,omitempty"`
	Title    string              `json:"title,omitempty"`
	Status   int                 `json:"status,omitempty"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

// APIError is the single error type produced by the request pipeline.
// Kind selects the variant; RetryAfter is only set for KindRateLimit and
// FieldErrors only for KindValidation.
type APIError struct {
	Kind     ErrorKind
	Status   int
	Message  string
	Type     string
	Detail   string
	Instance string

	// RetryAfter is the server's Retry-After hint. Zero when absent.
	RetryAfter time.Duration

	// FieldErrors maps request fields to validation messages.
	FieldErrors map[string][]string

	// Problem is the parsed error body, nil if the body was not problem details.
	Problem *ProblemDetails

	// Err is the underlying cause for timeout and network errors.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pokeforge %s error (status %d): %s: %v", e.Kind, e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("pokeforge %s error (status %d): %s", e.Kind, e.Status, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Classify maps a non-2xx response to an APIError. body may be nil or
// arbitrary bytes; retryAfter is the raw Retry-After header value.
// The result depends only on the arguments.
func Classify(status int, body []byte, retryAfter string) *APIError {
	problem := parseProblemDetails(body)

	message := fmt.Sprintf("HTTP %d error", status)
	if problem != nil {
		switch {
		case problem.Title != "":
			message = problem.Title
		case problem.Detail != "":
			message = problem.Detail
		}
	}

	apiErr := &APIError{
		Kind:    kindForStatus(status),
		Status:  status,
		Message: message,
		Problem: problem,
	}

	if problem != nil {
		apiErr.Type = problem.Type
		apiErr.Detail = problem.Detail
		apiErr.Instance = problem.Instance
	}

	switch apiErr.Kind {
	case KindValidation:
		if problem != nil && len(problem.Errors) > 0 {
			apiErr.FieldErrors = problem.Errors
		}
	case KindRateLimit:
		apiErr.RetryAfter = parseRetryAfter(retryAfter)
	}

	return apiErr
}

// kindForStatus returns the variant for an HTTP status code.
func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuthentication
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimit
	default:
		return KindGeneric
	}
}

// parseProblemDetails decodes body, returning nil when it is not a JSON object.
func parseProblemDetails(body []byte) *ProblemDetails {
	if len(body) == 0 {
		return nil
	}

	var problem ProblemDetails
	if err := json.Unmarshal(body, &problem); err != nil {
		return nil
	}

	return &problem
}

// parseRetryAfter converts a Retry-After value in whole seconds.
// HTTP-date values and garbage are treated as absent.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}

// shouldRetryStatus reports whether a non-2xx status may be retried.
func shouldRetryStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// NewNotFoundError creates a not-found error that did not come from the server.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: message,
	}
}

// NewGenericError creates a generic error with the given status.
func NewGenericError(status int, message string) *APIError {
	return &APIError{
		Kind:    KindGeneric,
		Status:  status,
		Message: message,
	}
}

func newTimeoutError(message string, err error) *APIError {
	return &APIError{
		Kind:    KindTimeout,
		Message: message,
		Err:     err,
	}
}

func newNetworkError(message string, err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of an APIError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsAuthentication checks if the error is an authentication error.
func IsAuthentication(err error) bool { return KindOf(err) == KindAuthentication }

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsRateLimit checks if the error is a rate limit error.
func IsRateLimit(err error) bool { return KindOf(err) == KindRateLimit }

// IsTimeout checks if the error is a timeout error.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// IsNetwork checks if the error is a network error.
func IsNetwork(err error) bool { return KindOf(err) == KindNetwork }
