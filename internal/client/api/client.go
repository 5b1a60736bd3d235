// Package api is the HTTP client for the stock research API. It keeps the
// session cookie in a cookie jar so it can be exported to and restored from
// local storage between runs.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"stockresearch/internal/model"
)

// SessionCookieName is the cookie the server issues on verify.
const SessionCookieName = "stockresearch.sid"

// ErrAuthRequired is returned for any 401 response.
var ErrAuthRequired = errors.New("authentication required")

// Error is a non-2xx response other than 401. Message is the server's error
// text, or the status text when the body carries none.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to the API at a base URL.
type Client struct {
	base *url.URL
	http *http.Client
	jar  http.CookieJar
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its cookie jar is
// replaced by the Client's own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		copied := *hc
		c.http = &copied
	}
}

// New creates a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("server url %q must include scheme and host", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{base: base, http: &http.Client{}, jar: jar}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Jar = jar
	return c, nil
}

// SessionCookie returns the current session cookie value, or "".
func (c *Client) SessionCookie() string {
	for _, cookie := range c.jar.Cookies(c.base) {
		if cookie.Name == SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// SetSessionCookie installs a previously exported session cookie. An empty
// value removes it.
func (c *Client) SetSessionCookie(value string) {
	cookie := &http.Cookie{Name: SessionCookieName, Value: value, Path: "/"}
	if value == "" {
		cookie.MaxAge = -1
	}
	c.jar.SetCookies(c.base, []*http.Cookie{cookie})
}

type loginRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type verifyResponse struct {
	Email string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Login asks the server to issue a login code and returns its acknowledgement.
func (c *Client) Login(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, loginRequest{Email: email}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Verify exchanges a login code for a session and returns the verified email.
func (c *Client) Verify(ctx context.Context, email, code string) (string, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/verify", nil, verifyRequest{Email: email, Code: code}, &resp); err != nil {
		return "", err
	}
	return resp.Email, nil
}

// Session reports whether the stored cookie names a live session.
func (c *Client) Session(ctx context.Context) (model.SessionStatus, error) {
	var status model.SessionStatus
	err := c.do(ctx, http.MethodGet, "/api/session", nil, nil, &status)
	return status, err
}

// Logout ends the session on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil, nil)
}

// StockOfDay fetches the daily pick.
func (c *Client) StockOfDay(ctx context.Context) (model.ResearchView, error) {
	var view model.ResearchView
	err := c.do(ctx, http.MethodGet, "/api/stock-of-day", nil, nil, &view)
	return view, err
}

// Search fetches ticker suggestions for query.
func (c *Client) Search(ctx context.Context, query string) ([]model.Ticker, error) {
	var tickers []model.Ticker
	if err := c.do(ctx, http.MethodGet, "/api/search", url.Values{"q": {query}}, nil, &tickers); err != nil {
		return nil, err
	}
	return tickers, nil
}

// Research fetches synthesized research for symbol.
func (c *Client) Research(ctx context.Context, symbol string) (model.ResearchView, error) {
	var view model.ResearchView
	err := c.do(ctx, http.MethodGet, "/api/research/"+url.PathEscape(symbol), nil, nil, &view)
	return view, err
}

// do sends a request to path, which must already be escaped.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := *c.base
	u.RawPath = c.base.EscapedPath() + path
	unescaped, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return fmt.Errorf("request path %q: %w", path, err)
	}
	u.Path = unescaped
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthRequired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var detail errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil && detail.Error != "" {
			apiErr.Message = detail.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
