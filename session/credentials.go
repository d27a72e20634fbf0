package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"rantify/blueprint"
	"rantify/util"
)

// Refresher exchanges a refresh token for a new credential.
type Refresher interface {
	Refresh(ctx context.Context, cred *blueprint.Credential) (*blueprint.Credential, error)
}

// CredentialStore holds the Spotify credential of a single session. The
// credential is stored encrypted and always replaced as a whole, so
// concurrent refreshes of one session resolve to the last write.
type CredentialStore struct {
	sessionID string
	store     Store
	key       []byte
	refresher Refresher
	skew      time.Duration
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func credentialKey(sessionID string) string {
	return "rantify:session:" + sessionID + ":credential"
}

func stateKey(sessionID string) string {
	return "rantify:session:" + sessionID + ":state"
}

func (c *CredentialStore) SessionID() string {
	return c.sessionID
}

// Get returns the stored credential, or nil when the session has none. A
// credential that can no longer be decrypted counts as none.
func (c *CredentialStore) Get(ctx context.Context) (*blueprint.Credential, error) {
	sealed, err := c.store.Get(ctx, credentialKey(c.sessionID))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	plain, err := util.Decrypt(sealed, c.key)
	if err != nil {
		c.logger.Warn("[session][CredentialStore][Get] warning - could not decrypt stored credential", zap.Error(err))
		return nil, nil
	}

	var cred blueprint.Credential
	if err := json.Unmarshal(plain, &cred); err != nil {
		c.logger.Warn("[session][CredentialStore][Get] warning - could not decode stored credential", zap.Error(err))
		return nil, nil
	}
	return &cred, nil
}

func (c *CredentialStore) Save(ctx context.Context, cred *blueprint.Credential) error {
	plain, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	sealed, err := util.Encrypt(plain, c.key)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, credentialKey(c.sessionID), sealed, c.ttl)
}

// Clear removes the credential and any pending authorization state.
func (c *CredentialStore) Clear(ctx context.Context) error {
	return c.store.Del(ctx, credentialKey(c.sessionID), stateKey(c.sessionID))
}

// RefreshIfNeeded returns a credential that is valid for at least the clock
// skew margin, refreshing and saving it first when necessary. It returns
// ErrAuthExpired when there is nothing to refresh or the refresh fails.
func (c *CredentialStore) RefreshIfNeeded(ctx context.Context) (*blueprint.Credential, error) {
	cred, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, blueprint.ErrAuthExpired
	}
	if !cred.ExpiresWithin(c.now(), c.skew) {
		return cred, nil
	}
	if cred.RefreshToken == "" {
		return nil, blueprint.ErrAuthExpired
	}

	refreshed, err := c.refresher.Refresh(ctx, cred)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Warn("[session][CredentialStore][RefreshIfNeeded] warning - could not refresh credential", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", blueprint.ErrAuthExpired, err)
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = cred.RefreshToken
	}

	if err := c.Save(ctx, refreshed); err != nil {
		return nil, err
	}
	c.logger.Info("[session][CredentialStore][RefreshIfNeeded] credential refreshed", zap.Time("expires_at", refreshed.ExpiresAt))
	return refreshed, nil
}
