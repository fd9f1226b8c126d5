package writefreely

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent identifies this tool to the WriteFreely instance.
const DefaultUserAgent = "writefreely-to-sqlite (+https://github.com/myles/writefreely-to-sqlite)"

// ErrNotAuthenticated is returned by calls that need an access token when
// the client has none.
var ErrNotAuthenticated = errors.New("not authenticated: log in first")

// APIError is a non-2xx response from the WriteFreely API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("writefreely API status %d", e.StatusCode)
	}
	return fmt.Sprintf("writefreely API status %d: %s", e.StatusCode, e.Message)
}

// ClientOptions tunes the HTTP side of a Client. Zero values pick defaults.
type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
}

// Client is a minimal WriteFreely API client covering authentication and the
// authenticated user's own user, posts and collections.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	accessToken string
}

// BaseURL returns the API root for a WriteFreely domain, e.g. write.as.
func BaseURL(domain string) string {
	return "https://" + domain + "/api"
}

// NewClient creates a client for the API rooted at baseURL. accessToken may be
// empty until Login is called.
func NewClient(baseURL, accessToken string, opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		baseURL:     baseURL,
		userAgent:   opts.UserAgent,
		accessToken: accessToken,
	}
}

// AccessToken returns the current token, empty when logged out.
func (c *Client) AccessToken() string {
	return c.accessToken
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string `json:"access_token"`
	User        Raw    `json:"user"`
}

// Login exchanges an alias and password for an access token, which the client
// then uses for every following request.
func (c *Client) Login(ctx context.Context, alias, password string) (*Session, error) {
	body := map[string]string{
		"alias": alias,
		"pass":  password,
	}

	var sess Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &sess); err != nil {
		return nil, fmt.Errorf("login %s: %w", alias, err)
	}
	if sess.AccessToken == "" {
		return nil, fmt.Errorf("login %s: response carried no access token", alias)
	}

	c.accessToken = sess.AccessToken
	return &sess, nil
}

// Logout revokes the current access token.
func (c *Client) Logout(ctx context.Context) error {
	if c.accessToken == "" {
		return ErrNotAuthenticated
	}
	if err := c.do(ctx, http.MethodDelete, "/auth/me", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.accessToken = ""
	return nil
}

// Me fetches the authenticated user.
func (c *Client) Me(ctx context.Context) (Raw, error) {
	var user Raw
	if err := c.authed(ctx, "/me", &user); err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return user, nil
}

// MyPosts fetches every post of the authenticated user.
func (c *Client) MyPosts(ctx context.Context) ([]Raw, error) {
	var posts []Raw
	if err := c.authed(ctx, "/me/posts", &posts); err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	return posts, nil
}

// MyCollections fetches every collection of the authenticated user.
func (c *Client) MyCollections(ctx context.Context) ([]Raw, error) {
	var colls []Raw
	if err := c.authed(ctx, "/me/collections", &colls); err != nil {
		return nil, fmt.Errorf("fetch collections: %w", err)
	}
	return colls, nil
}

func (c *Client) authed(ctx context.Context, path string, result any) error {
	if c.accessToken == "" {
		return ErrNotAuthenticated
	}
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// envelope wraps every WriteFreely API response.
type envelope struct {
	Code     int             `json:"code"`
	Data     json.RawMessage `json:"data"`
	ErrorMsg string          `json:"error_msg"`
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Token "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(respBody) > 0 {
		// Error bodies are not always JSON; only the status matters then.
		_ = json.Unmarshal(respBody, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: env.ErrorMsg}
	}

	if result == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("decode response: no data in body")
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
