package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"nestboard/internal/domain"
	"nestboard/internal/port"
	"nestboard/internal/storage"
)

const loginPath = "/api/auth/login"

// Client is the single entry point for every backend call except the two
// OAuth2 endpoints driven by full-page redirects. It attaches the bearer
// header when a credential is stored, enforces the request timeout, and runs
// the global response classification exactly once so feature code never
// re-implements the expired-session policy.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tokens     *storage.TokenStore
	flash      *storage.FlashNotice
	nav        port.Navigator
}

// NewClient creates a gateway against baseURL. A non-positive timeout
// defaults to 10 seconds.
func NewClient(
	baseURL string,
	timeout time.Duration,
	tokens *storage.TokenStore,
	flash *storage.FlashNotice,
	nav port.Navigator,
) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		tokens:     tokens,
		flash:      flash,
		nav:        nav,
	}
}

func (c *Client) Get(ctx context.Context, path string) (any, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (any, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (any, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	// Pre-authentication calls legitimately run without a token; absence must
	// not block the request.
	if cred, ok := c.tokens.Read(); ok {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, domain.NewTimeoutError()
		}
		return nil, domain.NewNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	parsed := parseBody(resp)
	return c.classify(method, path, resp, parsed)
}

// classify applies the status ladder in priority order. Anything that returns
// an error other than domain.ErrSessionEnded is for the caller to display;
// ErrSessionEnded means the session-invalidation side effects already ran.
func (c *Client) classify(method, path string, resp *http.Response, parsed any) (any, error) {
	code := serverCode(parsed)
	message := serverMessage(parsed)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		secs := retryAfterSeconds(resp, parsed)
		return nil, domain.NewRateLimitError(code, message, secs, parsed)

	case resp.StatusCode == http.StatusUnauthorized:
		if isLoginRequest(method, path) {
			// Wrong username/password, not a session problem: no redirect,
			// but drop any stale credential left from a previous session.
			if err := c.tokens.Clear(); err != nil {
				log.Printf("gateway: clearing stale credential after login 401: %v", err)
			}
			return nil, domain.NewHTTPError(resp.StatusCode, code, message, parsed)
		}
		c.endSession(code)
		return nil, domain.ErrSessionEnded

	case resp.StatusCode == http.StatusForbidden:
		// Only a token-coded 403 ends the session; a plain permission denial
		// is for the caller to display.
		if code == domain.CodeAuthExpiredToken || code == domain.CodeAuthInvalidToken {
			c.endSession(code)
			return nil, domain.ErrSessionEnded
		}
		return nil, domain.NewHTTPError(resp.StatusCode, code, message, parsed)

	case resp.StatusCode == http.StatusConflict:
		// Never redirects: forms branch on the server code (duplicate field
		// detection and the like).
		return nil, domain.NewHTTPError(resp.StatusCode, code, message, parsed)

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, domain.NewHTTPError(resp.StatusCode, code, message, parsed)
	}

	return parsed, nil
}

// endSession runs the session-invalidation policy: clear storage, leave one
// flash notice for the login screen, navigate there.
func (c *Client) endSession(code string) {
	if err := c.tokens.Clear(); err != nil {
		log.Printf("gateway: clearing auth storage: %v", err)
	}
	c.flash.Set(sessionFlash(code))
	c.nav.Navigate(domain.RouteLogin)
}

func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

func isLoginRequest(method, path string) bool {
	return method == http.MethodPost && strings.Contains(path, loginPath)
}

// sessionFlash picks the notice the login screen shows after a forced logout.
func sessionFlash(code string) domain.FlashCode {
	switch code {
	case domain.CodeAuthExpiredToken:
		return domain.FlashSessionExpired
	case domain.CodeAuthInvalidToken:
		return domain.FlashSessionInvalid
	default:
		return domain.FlashFallback
	}
}

// parseBody degrades gracefully: JSON when the content type says so, text
// otherwise, and text that happens to parse as JSON is promoted.
func parseBody(resp *http.Response) any {
	raw, err := io.ReadAll(resp.Body)
	if err != nil || len(raw) == 0 {
		return nil
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
		return string(raw)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		if _, ok := v.(map[string]any); ok {
			return v
		}
	}
	return string(raw)
}

func serverCode(parsed any) string {
	if m, ok := parsed.(map[string]any); ok {
		if code, ok := m["code"].(string); ok {
			return code
		}
	}
	return ""
}

func serverMessage(parsed any) string {
	switch v := parsed.(type) {
	case map[string]any:
		if msg, ok := v["message"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := v["error"].(string); ok {
			return msg
		}
	case string:
		return v
	}
	return ""
}

// retryAfterSeconds prefers the Retry-After header, then the body hint some
// endpoints return instead.
func retryAfterSeconds(resp *http.Response, parsed any) int {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return secs
		}
	}
	if m, ok := parsed.(map[string]any); ok {
		for _, field := range []string{"retryAfterSeconds", "remainingSeconds"} {
			if n, ok := m[field].(float64); ok {
				return int(n)
			}
		}
	}
	return 0
}

// ExtractToken pulls the final JWT out of a success body, tolerating the
// field names different backend revisions have used.
func ExtractToken(body any) (string, bool) {
	m, ok := body.(map[string]any)
	if !ok {
		return "", false
	}
	for _, field := range []string{"token", "accessToken", "jwt"} {
		if v, ok := m[field].(string); ok && v != "" {
			return v, true
		}
	}
	if nested, ok := m["data"].(map[string]any); ok {
		return ExtractToken(nested)
	}
	return "", false
}

// Compile-time check.
var _ port.Gateway = (*Client)(nil)
