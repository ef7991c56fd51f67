package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// refreshSkew refreshes the cached access token slightly before it expires.
const refreshSkew = 30 * time.Second

// TokenSource exchanges a long-lived offline token for short-lived access
// tokens via the SSO service named in the token's issuer claim. Access
// tokens are cached until near expiry. Safe for concurrent use.
type TokenSource struct {
	offlineToken string
	tokenURL     string
	clientID     string
	client       *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenSource builds a TokenSource for the given claims and offline token.
func NewTokenSource(claims *Claims, offlineToken string, client *http.Client) *TokenSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &TokenSource{
		offlineToken: strings.TrimSpace(offlineToken),
		tokenURL:     claims.IssuerURL() + "/protocol/openid-connect/token",
		clientID:     claims.ClientID(),
		client:       client,
	}
}

// AccessToken returns a valid access token, exchanging the offline token
// with the SSO service when the cached one is missing or near expiry.
func (ts *TokenSource) AccessToken(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Now().Before(ts.expiresAt.Add(-refreshSkew)) {
		return ts.token, nil
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {ts.clientID},
		"refresh_token": {ts.offlineToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := ts.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange with %s failed: %w", ts.tokenURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange with %s failed with status %d", ts.tokenURL, resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("cannot decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response from %s contained no access token", ts.tokenURL)
	}

	ts.token = payload.AccessToken
	ts.expiresAt = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return ts.token, nil
}
