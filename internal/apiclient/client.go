package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codeme-client/internal/config"
	apperrors "codeme-client/internal/errors"
	"codeme-client/internal/logger"

	"golang.org/x/oauth2"
)

const (
	// IdempotencyKeyHeader is sent by WithIdempotencyKey
	IdempotencyKeyHeader = "Idempotency-Key"

	maxRedirects     = 10
	maxErrorBodySize = 64 * 1024
)

// Client calls the CodeMe backend REST API on behalf of the logged-in user
type Client struct {
	baseURL    string
	apiPrefix  string
	tokens     oauth2.TokenSource
	httpClient *http.Client
}

// New creates a client for cfg.APIBaseURL. Requests carry the bearer token
// from tokens when one is held; a nil tokens sends anonymous requests.
func New(cfg *config.Config, tokens oauth2.TokenSource) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.APIBaseURL, "/"),
		apiPrefix: "/" + strings.Trim(cfg.APIV1Str, "/"),
		tokens:    tokens,
	}
	if c.apiPrefix == "/" {
		c.apiPrefix = ""
	}

	timeout := cfg.HTTPTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c.httpClient = &http.Client{
		Timeout:       timeout,
		CheckRedirect: checkRedirect,
	}
	return c
}

// APIPath prefixes path with the configured API version prefix (API_V1_STR)
func (c *Client) APIPath(path string) string {
	return c.apiPrefix + path
}

// URL returns the absolute URL for an API path
func (c *Client) URL(path string) string {
	return c.baseURL + c.APIPath(path)
}

// RequestOption customizes a single request
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers     http.Header
	redirects   *int
	requireBody bool
}

func applyOptions(opts []RequestOption) requestOptions {
	o := requestOptions{headers: make(http.Header)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithHeader sets a request header, overriding the client defaults
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.headers.Set(key, value)
	}
}

// WithIdempotencyKey sends key in the Idempotency-Key header
func WithIdempotencyKey(key string) RequestOption {
	return WithHeader(IdempotencyKeyHeader, key)
}

// WithRequiredBody makes a success response without a body a decode error
// instead of leaving out untouched.
func WithRequiredBody() RequestOption {
	return func(o *requestOptions) {
		o.requireBody = true
	}
}

// WithRedirectCounter stores the number of redirect hops followed into n
func WithRedirectCounter(n *int) RequestOption {
	return func(o *requestOptions) {
		o.redirects = n
	}
}

type redirectCounterKey struct{}

// checkRedirect follows redirects like the default policy but logs every hop.
// A redirect usually means a path mismatch with the backend route table
// (e.g. a missing trailing slash) and costs an extra round trip.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if counter, ok := req.Context().Value(redirectCounterKey{}).(*int); ok && counter != nil {
		*counter = len(via)
	}

	logger.WithContext(req.Context()).WithFields(map[string]interface{}{
		"from": via[len(via)-1].URL.String(),
		"to":   req.URL.String(),
		"hop":  len(via),
	}).Warn("Backend API redirected request")

	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	return nil
}

// DoJSON sends payload encoded as JSON and decodes the response into out.
// A nil payload sends no body.
func (c *Client) DoJSON(ctx context.Context, method, path string, payload, out interface{}, opts ...RequestOption) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		opts = append([]RequestOption{WithHeader("Content-Type", "application/json")}, opts...)
	}
	return c.Do(ctx, method, path, body, out, opts...)
}

// Do sends body as-is and decodes a JSON response into out. A 204 or empty
// response leaves out untouched unless WithRequiredBody is given; a nil out
// discards the body.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, out interface{}, opts ...RequestOption) error {
	requireBody := applyOptions(opts).requireBody

	resp, err := c.send(ctx, method, path, body, opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(method, path, fmt.Errorf("failed to read response body: %w", err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if requireBody {
			return &apperrors.APIError{
				Kind:       apperrors.KindDecode,
				StatusCode: resp.StatusCode,
				Method:     method,
				Path:       path,
				Message:    "empty response body",
			}
		}
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &apperrors.APIError{
			Kind:       apperrors.KindDecode,
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Message:    "failed to decode response body",
			Err:        err,
		}
	}
	return nil
}

// Stream sends a request and copies the raw response body into w
func (c *Client) Stream(ctx context.Context, method, path string, w io.Writer, opts ...RequestOption) (int64, error) {
	resp, err := c.send(ctx, method, path, nil, opts)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, apperrors.NewNetworkError(method, path, fmt.Errorf("failed to read response body: %w", err))
	}
	return n, nil
}

// send performs the request and returns the response only for 2xx statuses.
// Every other outcome is an *apperrors.APIError.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, opts []RequestOption) (*http.Response, error) {
	o := applyOptions(opts)
	if o.redirects != nil {
		*o.redirects = 0
		ctx = context.WithValue(ctx, redirectCounterKey{}, o.redirects)
	}

	fullPath := c.APIPath(path)
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+fullPath, body)
	if err != nil {
		return nil, apperrors.NewNetworkError(method, fullPath, fmt.Errorf("failed to create HTTP request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range o.headers {
		req.Header[key] = values
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		switch {
		case err == nil:
			token.SetAuthHeader(req)
		case errors.Is(err, apperrors.ErrNoToken):
			// anonymous request; the backend decides whether that is enough
		default:
			return nil, fmt.Errorf("failed to get bearer token: %w", err)
		}
	}

	log := logger.WithContext(ctx)
	log.Debugf("Invoking backend API %s %s", method, fullPath)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warnf("Backend API %s %s failed", method, fullPath)
		return nil, apperrors.NewNetworkError(method, fullPath, err)
	}

	log.WithFields(map[string]interface{}{
		"method":      method,
		"path":        fullPath,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Backend API call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, apperrors.NewAPIError(method, fullPath, resp.StatusCode, errorMessage(resp.StatusCode, data))
	}
	return resp, nil
}

// errorMessage extracts a readable message from an error response body.
// FastAPI answers {"detail": "..."} or, for request validation,
// {"detail": [{"loc": [...], "msg": "...", "type": "..."}]}.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := detailMessage(payload.Detail); msg != "" {
			return msg
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}

func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var items []struct {
		Loc []interface{} `json:"loc"`
		Msg string        `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}

	msgs := make([]string, 0, len(items))
	for _, item := range items {
		if item.Msg == "" {
			continue
		}
		if field := fieldName(item.Loc); field != "" {
			msgs = append(msgs, field+": "+item.Msg)
		} else {
			msgs = append(msgs, item.Msg)
		}
	}
	return strings.Join(msgs, "; ")
}

// fieldName returns the last element of a FastAPI error location, skipping
// the leading "body"/"query" segment
func fieldName(loc []interface{}) string {
	if len(loc) < 2 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}
