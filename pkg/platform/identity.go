package platform

import (
	"context"
	"net/http"
)

// Login calls the identity-issuing endpoint. Failures are returned untouched
// so the caller can distinguish bad credentials from transport problems.
func (c *Client) Login(ctx context.Context, creds Credentials) (TokenPair, error) {
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &pair); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// CurrentUser calls the identity-resolution endpoint with the bearer token
// supplied by the client's token source.
func (c *Client) CurrentUser(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// RefreshToken exchanges a refresh token for a new token pair
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	var pair TokenPair
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, body, &pair); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}
