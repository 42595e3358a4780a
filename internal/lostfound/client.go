package lostfound

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/five82/lostfound/internal/auth"
)

// Repository defines the item operations the UI depends on.
// This interface is implemented by *Client and can be used for testing.
type Repository interface {
	ListItems(ctx context.Context) ([]Item, error)
	CreateItem(ctx context.Context, draft Draft) (Item, error)
}

// Ensure Client implements Repository at compile time.
var _ Repository = (*Client)(nil)

// Client talks to the lost and found HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    auth.TokenSource
	userAgent string
	now       func() time.Time
}

const (
	defaultAPIURL     = "127.0.0.1:8080"
	defaultUserAgent  = "lostfound/0.1"
	defaultTimeout    = 30 * time.Second
	itemsPath         = "/api/items"
	maxErrorBodyBytes = 64 * 1024
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient builds a Client for apiURL. Every request asks tokens for the
// current credential.
func NewClient(apiURL string, tokens auth.TokenSource, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token source is nil")
	}
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		tokens:    tokens,
		userAgent: defaultUserAgent,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListItems retrieves the full item collection.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var items []Item
	if err := c.do(ctx, http.MethodGet, itemsPath, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem submits a draft report and returns the created record. Callers
// re-list to observe it; nothing is inserted locally.
func (c *Client) CreateItem(ctx context.Context, draft Draft) (Item, error) {
	if c == nil {
		return Item{}, fmt.Errorf("client is nil")
	}
	body, err := json.Marshal(draft)
	if err != nil {
		return Item{}, fmt.Errorf("encode draft: %w", err)
	}
	var created Item
	if err := c.do(ctx, http.MethodPost, itemsPath, body, &created); err != nil {
		return Item{}, err
	}
	return created, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, dest any) error {
	token, err := c.credential(ctx)
	if err != nil {
		return err
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("request failed")
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", c.now().Sub(start)).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// credential resolves the bearer token before any network I/O happens.
func (c *Client) credential(ctx context.Context) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNoCredential) {
			return "", &AuthError{Reason: "no credential", Err: err}
		}
		return "", &AuthError{Reason: "credential lookup failed", Err: err}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", &AuthError{Reason: "no credential", Err: auth.ErrNoCredential}
	}
	if err := auth.CheckExpiry(token, c.now()); err != nil {
		return "", &AuthError{Reason: "credential expired", Err: err}
	}
	return token, nil
}

func responseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	var parsed errorBody
	message := ""
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &parsed); err == nil {
			message = firstNonEmpty(parsed.Error, parsed.Message)
		} else {
			message = strings.TrimSpace(string(raw))
		}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		reason := "credential rejected"
		if message != "" {
			reason += ": " + message
		}
		return &AuthError{Reason: reason}
	}
	return &ServerError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Fields:     parsed.Fields,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
