// Package auth validates bearer credentials and mints short-lived access
// tokens for inventory API calls.
package auth

import (
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the decoded fields of the offline bearer credential used to
// authorize fleet-inventory lookups.
type Claims struct {
	jwt.RegisteredClaims
}

// IssuerURL returns the token issuer, the base URL of the SSO service that
// can exchange the offline token for an access token.
func (c *Claims) IssuerURL() string {
	return strings.TrimRight(c.Issuer, "/")
}

// ClientID returns the OAuth client the offline token was issued to.
func (c *Claims) ClientID() string {
	if len(c.Audience) > 0 {
		return c.Audience[0]
	}
	return ""
}

// ParsePublicKey decodes a PEM-encoded RSA public key. An empty input
// returns nil, which disables signature verification downstream.
func ParsePublicKey(pemData string) (*rsa.PublicKey, error) {
	if strings.TrimSpace(pemData) == "" {
		return nil, nil
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemData))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse public key: %v", contract.ErrInvalidCredential, err)
	}
	return key, nil
}

// Validate decodes the offline token and extracts its claims.
//
// With a public key, the RS256 signature and expiry are verified and any
// malformed, forged, or expired token fails with ErrInvalidCredential.
// Without one, the token is decoded unverified (degraded-trust mode); the
// claims are still extracted so the token exchange can proceed.
func Validate(token string, key *rsa.PublicKey) (*Claims, error) {
	token = strings.TrimSpace(token)
	claims := &Claims{}

	if key == nil {
		parser := jwt.NewParser()
		if _, _, err := parser.ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", contract.ErrInvalidCredential, err)
		}
		return claims, nil
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", contract.ErrInvalidCredential, err)
	}
	return claims, nil
}
