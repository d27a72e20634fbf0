package spotify

import (
	"context"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"rantify/blueprint"
)

// Scopes requested at authorization. Rantify only ever reads.
var Scopes = []string{
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
	spotifyauth.ScopeUserLibraryRead,
}

// Authenticator runs the authorization-code and refresh-token grants against
// the Spotify accounts service.
type Authenticator struct {
	config *oauth2.Config
}

type AuthenticatorOption func(*oauth2.Config)

// WithEndpoint overrides the accounts service endpoints.
func WithEndpoint(authURL, tokenURL string) AuthenticatorOption {
	return func(c *oauth2.Config) {
		c.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
	}
}

func NewAuthenticator(clientID, clientSecret, redirectURL string, opts ...AuthenticatorOption) *Authenticator {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}
	for _, opt := range opts {
		opt(config)
	}
	return &Authenticator{config: config}
}

// AuthURL returns the URL the user is sent to for consent.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a credential.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*blueprint.Credential, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return blueprint.CredentialFromToken(token), nil
}

// Refresh obtains a new access token using the credential's refresh token.
// The returned credential keeps the old refresh token when the server does
// not rotate it.
func (a *Authenticator) Refresh(ctx context.Context, cred *blueprint.Credential) (*blueprint.Credential, error) {
	expired := cred.OAuth2Token()
	// force the token source to hit the token endpoint
	expired.AccessToken = ""

	token, err := a.config.TokenSource(ctx, expired).Token()
	if err != nil {
		return nil, err
	}

	refreshed := blueprint.CredentialFromToken(token)
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = cred.RefreshToken
	}
	if len(refreshed.Scopes) == 0 {
		refreshed.Scopes = cred.Scopes
	}
	return refreshed, nil
}
