package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"rantify/blueprint"
	"rantify/util"
)

const (
	stateBytes = 16
	stateTTL   = 10 * time.Minute
)

// Authorizer is the OAuth side of the Spotify accounts service.
type Authorizer interface {
	Refresher
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*blueprint.Credential, error)
}

type Config struct {
	Store       Store
	Secret      string
	Authorizer  Authorizer
	RefreshSkew time.Duration
	TTL         time.Duration
	Logger      *zap.Logger
}

// Manager hands out per-session credential stores and runs the
// authorization-code flow.
type Manager struct {
	store  Store
	key    []byte
	auth   Authorizer
	skew   time.Duration
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Store == nil || cfg.Authorizer == nil {
		return nil, errors.New("session: store and authorizer are required")
	}
	key, err := util.DeriveKey(cfg.Secret, "credential")
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  cfg.Store,
		key:    key,
		auth:   cfg.Authorizer,
		skew:   cfg.RefreshSkew,
		ttl:    cfg.TTL,
		now:    time.Now,
		logger: logger,
	}, nil
}

// NewSessionID returns a fresh opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// For returns the credential store bound to sessionID.
func (m *Manager) For(sessionID string) *CredentialStore {
	return &CredentialStore{
		sessionID: sessionID,
		store:     m.store,
		key:       m.key,
		refresher: m.auth,
		skew:      m.skew,
		ttl:       m.ttl,
		now:       m.now,
		logger:    m.logger.With(zap.String("session_id", sessionID)),
	}
}

// BeginAuthorization stores a new single-use state for the session and
// returns the consent URL carrying it.
func (m *Manager) BeginAuthorization(ctx context.Context, sessionID string) (string, error) {
	state, err := util.GenerateState(stateBytes)
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, stateKey(sessionID), []byte(state), stateTTL); err != nil {
		m.logger.Error("[session][Manager][BeginAuthorization] error - could not save oauth state", zap.Error(err))
		return "", err
	}
	return m.auth.AuthURL(state), nil
}

// CompleteAuthorization validates the redirect against the stored state and
// exchanges the code. The stored state is consumed whatever the outcome, and
// no token request is made unless it matches.
func (m *Manager) CompleteAuthorization(ctx context.Context, sessionID string, cb blueprint.AuthorizationCallback) (*blueprint.Credential, error) {
	stored, err := m.store.GetDel(ctx, stateKey(sessionID))
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return nil, err
	}
	if len(stored) == 0 || cb.State == "" || subtle.ConstantTimeCompare(stored, []byte(cb.State)) != 1 {
		m.logger.Warn("[session][Manager][CompleteAuthorization] warning - oauth state mismatch", zap.String("session_id", sessionID))
		return nil, blueprint.ErrInvalidOAuthState
	}

	if cb.Error != "" || cb.Code == "" {
		m.logger.Warn("[session][Manager][CompleteAuthorization] warning - authorization denied", zap.String("reason", cb.Error))
		return nil, blueprint.ErrAuthorizationDenied
	}

	cred, err := m.auth.Exchange(ctx, cb.Code)
	if err != nil {
		m.logger.Warn("[session][Manager][CompleteAuthorization] warning - could not exchange code", zap.Error(err))
		return nil, errors.Join(blueprint.ErrAuthorizationDenied, err)
	}

	if err := m.For(sessionID).Save(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// Logout forgets everything stored for the session.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	return m.For(sessionID).Clear(ctx)
}
