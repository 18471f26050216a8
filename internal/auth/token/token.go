// Package token issues the signed access tokens consumed by the HTTP
// middleware.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"crm_portal_backend/platform/config"
)

// AccessToken is a signed JWT plus its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// Issuer creates access tokens.
type Issuer struct {
	cfg config.AuthServiceConfig
}

// NewIssuer creates a token issuer.
func NewIssuer(cfg config.AuthServiceConfig) *Issuer {
	return &Issuer{cfg: cfg}
}

// Issue signs an access token for the given user. The claim set matches what
// the auth middleware expects: sub, email, roles, and type=access.
func (i *Issuer) Issue(userID uuid.UUID, email string, roles []string) (AccessToken, error) {
	now := time.Now()
	expiresAt := now.Add(i.cfg.GetAccessTokenTTL())

	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"roles": roles,
		"type":  "access",
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(i.cfg.GetJWTAccessSecret()))
	if err != nil {
		return AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}
	return AccessToken{Token: signed, ExpiresAt: expiresAt}, nil
}
