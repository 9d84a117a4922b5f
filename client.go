package crawlerverse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is the library version reported in the User-Agent header.
const Version = "0.1.0"

const (
	// EnvAPIKey is the environment variable consulted when no explicit
	// API key option is given.
	EnvAPIKey = "CRAWLERVERSE_API_KEY"

	// DefaultBaseURL is the production Crawler Agent API endpoint.
	DefaultBaseURL = "https://crawlerver.se/api/agent"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second
)

// Client talks to the Crawler Agent API. It is safe for sequential use by
// a single runner; create one client per process.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key explicitly, taking priority over the
// CRAWLERVERSE_API_KEY environment variable.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseURL overrides the API endpoint. Trailing slashes are trimmed.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient substitutes the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient builds a client, resolving the API key from the explicit
// option or the CRAWLERVERSE_API_KEY environment variable. A missing key
// is an *AuthenticationError, raised before any network call.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey == "" {
		c.apiKey = os.Getenv(EnvAPIKey)
	}
	if c.apiKey == "" {
		return nil, &AuthenticationError{APIError: APIError{
			StatusCode: http.StatusUnauthorized,
			Message: fmt.Sprintf(
				"No API key provided. Pass WithAPIKey or set the %s environment variable.",
				EnvAPIKey),
		}}
	}
	return c, nil
}

// CreateGame starts a new game. modelID is an optional leaderboard
// identifier recorded with the game; pass "" to omit it.
func (c *Client) CreateGame(ctx context.Context, modelID string) (*CreateGameResponse, error) {
	body := map[string]any{}
	if modelID != "" {
		body["modelId"] = modelID
	}
	var resp CreateGameResponse
	if err := c.request(ctx, http.MethodPost, "/games", body, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetGame fetches the current state of an existing game.
func (c *Client) GetGame(ctx context.Context, gameID string) (*GameStateResponse, error) {
	var resp GameStateResponse
	if err := c.request(ctx, http.MethodGet, "/games/"+gameID, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitAction plays one action in a game and returns the resulting
// observation and outcome.
func (c *Client) SubmitAction(ctx context.Context, gameID string, action Action) (*ActionResponse, error) {
	payload, err := MarshalAction(action)
	if err != nil {
		return nil, err
	}
	var resp ActionResponse
	if err := c.request(ctx, http.MethodPost, "/games/"+gameID+"/action", json.RawMessage(payload), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListGamesOptions filter and page a game listing.
type ListGamesOptions struct {
	Status string
	Limit  int
	Offset int
}

// ListGames returns a page of the caller's games, newest first.
func (c *Client) ListGames(ctx context.Context, opts ListGamesOptions) (*ListGamesResponse, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(opts.Offset))
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	var resp ListGamesResponse
	if err := c.request(ctx, http.MethodGet, "/games", nil, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AbandonGame ends a game early.
func (c *Client) AbandonGame(ctx context.Context, gameID string) (*AbandonGameResponse, error) {
	var resp AbandonGameResponse
	if err := c.request(ctx, http.MethodPost, "/games/"+gameID+"/abandon", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks service availability.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.request(ctx, http.MethodGet, "/health", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) request(ctx context.Context, method, path string, body any, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "crawlerverse-go/"+Version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var eb errorBody
		if err := json.Unmarshal(data, &eb); err != nil {
			// Undecodable error bodies become the message verbatim,
			// never a secondary error.
			c.logger.Warn("failed to parse error response as JSON",
				"status", resp.StatusCode)
			eb = errorBody{Error: string(data)}
		}
		return classifyError(resp.StatusCode, eb, resp.Header)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
