package crawlerverse

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func classify(t *testing.T, status int, body string, header http.Header) error {
	t.Helper()
	var eb errorBody
	if err := json.Unmarshal([]byte(body), &eb); err != nil {
		t.Fatalf("Test body is not valid JSON: %v", err)
	}
	if header == nil {
		header = http.Header{}
	}
	return classifyError(status, eb, header)
}

func TestClassifyErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "400 validation",
			status: 400,
			body:   `{"error": "Bad request", "details": {"modelId": ["too long"]}}`,
			check: func(t *testing.T, err error) {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("Expected ValidationError, got %T", err)
				}
				if ve.Details["modelId"][0] != "too long" {
					t.Errorf("Unexpected details: %v", ve.Details)
				}
			},
		},
		{
			name:   "401 authentication",
			status: 401,
			body:   `{"error": "Invalid API key"}`,
			check: func(t *testing.T, err error) {
				var ae *AuthenticationError
				if !errors.As(err, &ae) {
					t.Fatalf("Expected AuthenticationError, got %T", err)
				}
			},
		},
		{
			name:   "403 forbidden",
			status: 403,
			body:   `{"error": "Key suspended"}`,
			check: func(t *testing.T, err error) {
				var fe *ForbiddenError
				if !errors.As(err, &fe) {
					t.Fatalf("Expected ForbiddenError, got %T", err)
				}
			},
		},
		{
			name:   "404 not found",
			status: 404,
			body:   `{"error": "No such game"}`,
			check: func(t *testing.T, err error) {
				var ne *NotFoundError
				if !errors.As(err, &ne) {
					t.Fatalf("Expected NotFoundError, got %T", err)
				}
			},
		},
		{
			name:   "422 invalid action",
			status: 422,
			body:   `{"error": "Can't move there", "code": "MOVE_BLOCKED"}`,
			check: func(t *testing.T, err error) {
				var ie *InvalidActionError
				if !errors.As(err, &ie) {
					t.Fatalf("Expected InvalidActionError, got %T", err)
				}
				if ie.Code != "MOVE_BLOCKED" {
					t.Errorf("Expected code MOVE_BLOCKED, got %q", ie.Code)
				}
			},
		},
		{
			name:   "422 without code",
			status: 422,
			body:   `{"error": "Rejected"}`,
			check: func(t *testing.T, err error) {
				var ie *InvalidActionError
				if !errors.As(err, &ie) {
					t.Fatalf("Expected InvalidActionError, got %T", err)
				}
				if ie.Code != "UNKNOWN" {
					t.Errorf("Expected code UNKNOWN, got %q", ie.Code)
				}
			},
		},
		{
			name:   "500 generic",
			status: 500,
			body:   `{"error": "Server exploded"}`,
			check: func(t *testing.T, err error) {
				var ae *APIError
				if !errors.As(err, &ae) {
					t.Fatalf("Expected APIError, got %T", err)
				}
				if ae.StatusCode != 500 {
					t.Errorf("Expected status 500, got %d", ae.StatusCode)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, classify(t, tt.status, tt.body, nil))
		})
	}
}

func TestClassifyConflictWithOutcome(t *testing.T) {
	err := classify(t, 409,
		`{"error": "Game already over", "outcome": {"status": "completed", "result": "death", "floor": 3, "turns": 47}}`,
		nil)

	var ge *GameOverError
	if !errors.As(err, &ge) {
		t.Fatalf("Expected GameOverError, got %T", err)
	}
	completed, ok := ge.Outcome.(CompletedOutcome)
	if !ok {
		t.Fatalf("Expected CompletedOutcome, got %T", ge.Outcome)
	}
	if completed.Result != ResultDeath || completed.Floor != 3 || completed.Turns != 47 {
		t.Errorf("Unexpected outcome: %+v", completed)
	}
}

// A 409 without an outcome payload is a generic conflict, not a game-over
// result. The severity split is deliberate.
func TestClassifyConflictWithoutOutcome(t *testing.T) {
	err := classify(t, 409, `{"error": "Conflict"}`, nil)

	var ge *GameOverError
	if errors.As(err, &ge) {
		t.Fatal("Bare 409 must not classify as GameOverError")
	}
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("Expected APIError, got %T", err)
	}
	if ae.StatusCode != 409 {
		t.Errorf("Expected status 409, got %d", ae.StatusCode)
	}
}

func TestClassifyRateLimit(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "7")
	err := classify(t, 429, `{"error": "Rate limited"}`, header)

	var re *RateLimitError
	if !errors.As(err, &re) {
		t.Fatalf("Expected RateLimitError, got %T", err)
	}
	if re.RetryAfter != 7 {
		t.Errorf("Expected retry after 7, got %d", re.RetryAfter)
	}
}

func TestClassifyRateLimitDefault(t *testing.T) {
	err := classify(t, 429, `{"error": "Rate limited"}`, nil)

	var re *RateLimitError
	if !errors.As(err, &re) {
		t.Fatalf("Expected RateLimitError, got %T", err)
	}
	if re.RetryAfter != 60 {
		t.Errorf("Expected default retry after 60, got %d", re.RetryAfter)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := classify(t, 401, `{"error": "Invalid API key"}`, nil)
	if err.Error() != "401: Invalid API key" {
		t.Errorf("Unexpected error string: %q", err.Error())
	}

	err = classify(t, 500, `{}`, nil)
	if err.Error() != "500: Unknown error" {
		t.Errorf("Expected fallback message, got %q", err.Error())
	}
}
