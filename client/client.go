// Package client is a Go SDK for the Choreboard API. It wraps the REST
// endpoints with typed methods, keeps the bearer session locally and layers a
// read cache with coalesced fetches on top.
package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// ErrSignedOut is returned by authenticated calls after the session has been
// cleared, either by SignOut or by a 401 from the server.
var ErrSignedOut = errors.New("client error: signed out")

// APIError carries the HTTP status and message of a non-2xx response.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return "api error: " + strconv.Itoa(e.Status) + " " + e.Message
}

// TokenSource supplies identity-provider tokens for SignIn. Implementations
// wrap whatever identity flow the application uses.
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithOnSessionExpired installs a hook invoked once each time the server
// rejects the session. The hook runs on the calling goroutine.
func WithOnSessionExpired(f func()) Option {
	return func(c *Client) { c.onSessionExpired = f }
}

type Client struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource

	onSessionExpired func()

	mu          sync.Mutex
	token       string
	identity    *Identity
	householdID *uuid.UUID
	cache       *Cache
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: time.Second * 30},
		tokens:  tokens,
		cache:   newCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) bearer() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" {
		return "", ErrSignedOut
	}
	return c.token, nil
}

// expireSession clears local auth state and fires the hook. Safe to call
// concurrently; the hook fires only for the call that actually cleared state.
func (c *Client) expireSession() {
	c.mu.Lock()
	hadSession := c.token != ""
	c.token = ""
	c.identity = nil
	c.householdID = nil
	c.cache.Reset()
	c.mu.Unlock()
	if hadSession && c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// do executes an authenticated request and decodes the response into out.
// A 401 clears the session before returning.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.bearer()
	if err != nil {
		return err
	}
	return c.doWithToken(ctx, method, path, token, body, out)
}

func (c *Client) doWithToken(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			return errors.New("encode request error: " + err.Error())
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.New("build request error: " + err.Error())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return errors.New("request error: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		c.expireSession()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		_ = sonic.ConfigDefault.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err = sonic.ConfigDefault.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.New("decode response error: " + err.Error())
	}
	return nil
}
