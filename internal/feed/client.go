package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://newsapi.org/v2/top-headlines"

// Article is one raw article record as NewsAPI returns it. Every field is
// optional; pointers distinguish absent from empty.
type Article struct {
	Source struct {
		ID   *string `json:"id"`
		Name *string `json:"name"`
	} `json:"source"`
	Author      *string `json:"author"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt *string `json:"publishedAt"`
	Content     *string `json:"content"`
}

// Payload is the decoded body of a successful top-headlines response.
type Payload struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// FetchError is returned when the feed call does not return success. It
// carries the upstream HTTP status and response body.
type FetchError struct {
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch news: %d %s", e.StatusCode, e.Body)
}

// Client fetches top headlines from NewsAPI. A single failed call aborts
// the ingestion run; there is no retry and no pagination.
type Client struct {
	apiKey   string
	sources  string
	pageSize int
	baseURL  string
	client   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the NewsAPI endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.client = h }
}

// NewClient creates a NewsAPI client for the given source filter.
func NewClient(apiKey, sources string, pageSize int, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		sources:  sources,
		pageSize: pageSize,
		baseURL:  defaultBaseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs one top-headlines call and returns the decoded payload
// together with the verbatim response body for archival.
func (c *Client) Fetch(ctx context.Context) (*Payload, []byte, error) {
	params := url.Values{
		"sources":  {c.sources},
		"pageSize": {strconv.Itoa(c.pageSize)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("calling feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading feed response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &FetchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, nil, fmt.Errorf("decoding feed response: %w", err)
	}

	return &payload, body, nil
}
