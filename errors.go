package crawlerverse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// APIError is the base classification for any HTTP failure response. The
// specific status codes below carry typed errors that embed it; anything
// else surfaces as a plain *APIError.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// ValidationError is a 400: the request parameters were rejected.
type ValidationError struct {
	APIError
	// Details maps field names to their validation failures, when the
	// service provides them.
	Details map[string][]string
}

// AuthenticationError is a 401: invalid or missing API key.
type AuthenticationError struct {
	APIError
}

// ForbiddenError is a 403: API key not activated or suspended.
type ForbiddenError struct {
	APIError
}

// NotFoundError is a 404: resource not found.
type NotFoundError struct {
	APIError
}

// GameOverError is a 409 whose body carries an outcome: the game had
// already ended server-side. The runner treats it as a normal terminal
// result, not a failure. A 409 without an outcome payload stays a plain
// *APIError.
type GameOverError struct {
	APIError
	Outcome Outcome
}

// InvalidActionError is a 422: the action was rejected by the game rules
// (for example, moving into a wall).
type InvalidActionError struct {
	APIError
	// Code is the machine-readable rejection code, "UNKNOWN" if absent.
	Code string
}

// RateLimitError is a 429.
type RateLimitError struct {
	APIError
	// RetryAfter is the server-requested backoff in seconds. Defaults to
	// 60 when the Retry-After header is absent.
	RetryAfter int
}

const defaultRetryAfter = 60

type errorBody struct {
	Error   string              `json:"error"`
	Details map[string][]string `json:"details"`
	Code    string              `json:"code"`
	Outcome json.RawMessage     `json:"outcome"`
}

// classifyError maps an HTTP error response to its typed error. The body
// has already been decoded best-effort; raw is the original response text
// used as the message when no structured error field was present.
func classifyError(statusCode int, body errorBody, header http.Header) error {
	message := body.Error
	if message == "" {
		message = "Unknown error"
	}
	base := APIError{StatusCode: statusCode, Message: message}

	switch statusCode {
	case http.StatusBadRequest:
		return &ValidationError{APIError: base, Details: body.Details}
	case http.StatusUnauthorized:
		return &AuthenticationError{APIError: base}
	case http.StatusForbidden:
		return &ForbiddenError{APIError: base}
	case http.StatusNotFound:
		return &NotFoundError{APIError: base}
	case http.StatusConflict:
		if len(body.Outcome) > 0 {
			outcome, err := ParseOutcome(body.Outcome)
			if err == nil {
				return &GameOverError{APIError: base, Outcome: outcome}
			}
		}
		return &base
	case http.StatusUnprocessableEntity:
		code := body.Code
		if code == "" {
			code = "UNKNOWN"
		}
		return &InvalidActionError{APIError: base, Code: code}
	case http.StatusTooManyRequests:
		retryAfter := defaultRetryAfter
		if v := header.Get("Retry-After"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				retryAfter = n
			}
		}
		return &RateLimitError{APIError: base, RetryAfter: retryAfter}
	default:
		return &base
	}
}
