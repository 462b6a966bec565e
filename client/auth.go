package client

import (
	"context"
	"net/http"
)

// Identity is the signed-in user as reported by the server.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Token       string `json:"token,omitempty"`
}

// SignIn exchanges an identity-provider token for a session and caches the
// resulting identity.
func (c *Client) SignIn(ctx context.Context) (*Identity, error) {
	idToken, err := c.tokens.IDToken(ctx)
	if err != nil {
		return nil, err
	}
	var identity Identity
	reqBody := struct {
		IDToken string `json:"idToken"`
	}{IDToken: idToken}
	if err = c.doWithToken(ctx, http.MethodPost, "/auth/login", "", reqBody, &identity); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.token = identity.Token
	cached := identity
	cached.Token = ""
	c.identity = &cached
	c.mu.Unlock()
	return c.CurrentIdentity(), nil
}

// CurrentIdentity returns the cached identity without blocking, or nil when
// signed out.
func (c *Client) CurrentIdentity() *Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return nil
	}
	ident := *c.identity
	return &ident
}

// SignOut revokes the session server-side when possible. Local state is
// always cleared, even when the server call fails.
func (c *Client) SignOut(ctx context.Context) {
	c.mu.Lock()
	token := c.token
	c.token = ""
	c.identity = nil
	c.householdID = nil
	c.cache.Reset()
	c.mu.Unlock()
	if token == "" {
		return
	}
	// Best effort; a dead server must not keep the user signed in
	_ = c.doWithToken(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// Me fetches the current identity from the server.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}
