package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"videobatch/pkg/logger"
)

// ErrorType classifies search API failures
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeQuota       ErrorType = "quota"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeBadRequest  ErrorType = "bad_request"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// APIError represents a failed search request
type APIError struct {
	Type       ErrorType
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube %s error (status %d, reason %s): %s", e.Type, e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube %s error (status %d): %s", e.Type, e.StatusCode, e.Message)
}

// HTTPClient allows injection of a custom transport for testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout bounds every request. It sets the timeout on a copy of the
// *http.Client in place when it runs, so a client given earlier through
// WithHTTPClient keeps its transport. Other HTTPClient implementations are
// left alone.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if hc, ok := c.httpClient.(*http.Client); ok {
			clone := *hc
			clone.Timeout = timeout
			c.httpClient = &clone
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(log logger.Logger) ClientOption {
	return func(c *Client) {
		c.logger = log
	}
}

// Client is a YouTube Data API client authenticated with an API key
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
	logger     logger.Logger
}

// NewClient creates a new search client for the given API key
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search fetches a single page of search.list results
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchPage, error) {
	url := SearchURL(c.baseURL, c.apiKey, params)

	body, err := c.doRequest(ctx, url, params)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &APIError{
			Type:       ErrorTypeParsing,
			StatusCode: http.StatusOK,
			Message:    fmt.Sprintf("failed to parse search response: %v", err),
		}
	}

	page := &SearchPage{
		Items:         make([]SearchItem, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		var publishedAt time.Time
		if item.Snippet.PublishedAt != "" {
			publishedAt, err = time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			if err != nil {
				return nil, &APIError{
					Type:       ErrorTypeParsing,
					StatusCode: http.StatusOK,
					Message:    fmt.Sprintf("invalid publishedAt %q for video %s", item.Snippet.PublishedAt, item.ID.VideoID),
				}
			}
		}

		page.Items = append(page.Items, SearchItem{
			VideoID:     item.ID.VideoID,
			Title:       item.Snippet.Title,
			PublishedAt: publishedAt,
			ChannelID:   item.Snippet.ChannelID,
		})
	}

	return page, nil
}

// doRequest performs a GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, url string, params SearchParams) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &APIError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}
	req.Header.Set("Accept", "application/json")

	fields := map[string]interface{}{
		"channel_id":       params.ChannelID,
		"published_after":  params.PublishedAfter.Format(time.RFC3339),
		"published_before": params.PublishedBefore.Format(time.RFC3339),
		"page_token":       params.PageToken,
	}

	start := time.Now()
	c.logger.DebugWithFields("sending search request", fields)

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &APIError{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Type:       ErrorTypeNetwork,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to read response body: %v", err),
		}
	}

	c.logger.DebugWithFields("search request completed", map[string]interface{}{
		"channel_id": params.ChannelID,
		"status":     resp.StatusCode,
		"duration":   duration,
		"bytes":      len(body),
	})

	if resp.StatusCode != http.StatusOK {
		apiErr := parseAPIError(resp.StatusCode, body)
		c.logger.WarnWithFields("search request rejected", map[string]interface{}{
			"channel_id": params.ChannelID,
			"status":     apiErr.StatusCode,
			"reason":     apiErr.Reason,
			"type":       string(apiErr.Type),
		})
		return nil, apiErr
	}

	return body, nil
}

// parseAPIError decodes Google's error envelope, falling back to the status code
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    http.StatusText(status),
	}

	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
		if len(envelope.Error.Errors) > 0 {
			apiErr.Reason = envelope.Error.Errors[0].Reason
		}
	}

	apiErr.Type = classify(status, apiErr.Reason)
	return apiErr
}

func classify(status int, reason string) ErrorType {
	switch reason {
	case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
		return ErrorTypeQuota
	case "keyInvalid", "keyExpired", "forbidden", "accessNotConfigured":
		return ErrorTypeAuth
	}

	switch {
	case status == http.StatusTooManyRequests:
		return ErrorTypeQuota
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorTypeAuth
	case status == http.StatusNotFound:
		return ErrorTypeNotFound
	case status == http.StatusBadRequest:
		return ErrorTypeBadRequest
	case status >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}
