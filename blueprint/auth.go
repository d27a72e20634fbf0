package blueprint

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"
)

// Credential is the delegated Spotify access held for one session.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	Scopes       []string  `json:"scopes,omitempty"`
}

// ExpiresWithin reports whether the access token is expired, or will be
// within the given margin of now.
func (c *Credential) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(margin).Before(c.ExpiresAt)
}

// OAuth2Token returns the credential as an oauth2 token, for token sources and transports.
func (c *Credential) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    c.TokenType,
		RefreshToken: c.RefreshToken,
		Expiry:       c.ExpiresAt,
	}
}

// CredentialFromToken builds a credential from a token endpoint response. The
// granted scopes are read from the "scope" field of the raw response.
func CredentialFromToken(t *oauth2.Token) *Credential {
	cred := &Credential{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresAt:    t.Expiry,
	}
	if scope, ok := t.Extra("scope").(string); ok && scope != "" {
		cred.Scopes = strings.Fields(scope)
	}
	return cred
}

// SessionToken is the claim set carried by the session cookie. It holds only
// the opaque server-side session id.
type SessionToken struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// AuthorizationCallback holds the query parameters of the OAuth redirect.
type AuthorizationCallback struct {
	State string `query:"state"`
	Code  string `query:"code"`
	Error string `query:"error"`
}

type AuthorizationURLResponse struct {
	URL string `json:"url"`
}
