package auth

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/platinummonkey/backoffice/pkg/observability"
	"github.com/platinummonkey/backoffice/pkg/platform"
	"github.com/platinummonkey/backoffice/pkg/session"
)

// ErrNoRefreshToken is returned by Refresh when the session has no refresh token
var ErrNoRefreshToken = errors.New("auth: no refresh token in session")

// IdentityClient is the slice of the platform API the manager needs
type IdentityClient interface {
	Login(ctx context.Context, creds platform.Credentials) (platform.TokenPair, error)
	CurrentUser(ctx context.Context) (*platform.Identity, error)
	RefreshToken(ctx context.Context, refreshToken string) (platform.TokenPair, error)
}

// CacheFlusher is the slice of the query layer the manager needs on logout
type CacheFlusher interface {
	Clear()
}

// Config holds auth manager configuration
type Config struct {
	// AdminRoles are the role names that grant super-admin access. At least
	// one is required; role names are configuration, not business logic.
	AdminRoles []string
}

// Manager owns session lifecycle: initialization from storage, login, logout,
// refresh, and the derived booleans the guard chain consults. It is the only
// writer to the session store.
type Manager struct {
	store    *session.Store
	identity IdentityClient
	cache    CacheFlusher
	cfg      Config
	logger   *observability.Logger
	metrics  *observability.Metrics

	initFlight singleflight.Group
}

// NewManager creates an auth manager
func NewManager(store *session.Store, identity IdentityClient, cache CacheFlusher, cfg Config, logger *observability.Logger, metrics *observability.Metrics) *Manager {
	if len(cfg.AdminRoles) == 0 {
		cfg.AdminRoles = []string{"super_admin"}
	}
	return &Manager{
		store:    store,
		identity: identity,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
	}
}

// Initialize hydrates the session from storage and, when a token is present,
// resolves the operator identity. It is idempotent; a burst of concurrent
// calls shares one resolution instead of issuing duplicates. It never returns
// an error: failures degrade to an unauthenticated session.
func (m *Manager) Initialize(ctx context.Context) {
	_, _, _ = m.initFlight.Do("initialize", func() (interface{}, error) {
		m.initialize(ctx)
		return nil, nil
	})
}

func (m *Manager) initialize(ctx context.Context) {
	if m.store.Snapshot().User != nil {
		return
	}

	m.store.Load(ctx)

	snap := m.store.Snapshot()
	if snap.AccessToken == "" {
		return
	}

	identity, err := m.identity.CurrentUser(ctx)
	if err != nil {
		if platform.IsAuthFailure(err) {
			m.logger.Info("Persisted token rejected, clearing session")
			m.store.Clear(ctx)
			return
		}
		// Token may still be good; leave it for a later attempt but stay
		// unauthenticated for now.
		m.logger.WithError(err).Warn("Identity resolution failed")
		return
	}

	m.store.SetUser(identityToUser(identity))
}

// IsAuthenticated reports whether an identity has been resolved
func (m *Manager) IsAuthenticated() bool {
	return m.store.Snapshot().User != nil
}

// IsSuperAdmin reports whether the session user carries any configured admin role
func (m *Manager) IsSuperAdmin() bool {
	user := m.store.Snapshot().User
	if user == nil {
		return false
	}
	for _, role := range m.cfg.AdminRoles {
		if user.HasRole(role) {
			return true
		}
	}
	return false
}

// HasPermission reports whether the session user carries the permission;
// an absent user never does.
func (m *Manager) HasPermission(name string) bool {
	user := m.store.Snapshot().User
	if user == nil {
		return false
	}
	return user.HasPermission(name)
}

// Login calls the identity-issuing endpoint, stores the returned tokens, and
// resolves the identity. Failures are returned to the caller untouched.
func (m *Manager) Login(ctx context.Context, creds platform.Credentials) error {
	pair, err := m.identity.Login(ctx, creds)
	if err != nil {
		if m.metrics != nil {
			m.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	m.store.SetAccessToken(ctx, pair.Token)
	m.store.SetRefreshToken(ctx, pair.RefreshToken)

	identity, err := m.identity.CurrentUser(ctx)
	if err != nil {
		if m.metrics != nil {
			m.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		m.store.Clear(ctx)
		return err
	}

	m.store.SetUser(identityToUser(identity))
	if m.metrics != nil {
		m.metrics.LoginsTotal.WithLabelValues("success").Inc()
	}
	m.logger.WithField("user_id", identity.ID).Info("Login succeeded")
	return nil
}

// Logout clears the session and flushes the query cache before returning, so
// no cached response from the dead session stays visible.
func (m *Manager) Logout(ctx context.Context) {
	m.store.Clear(ctx)
	if m.cache != nil {
		m.cache.Clear()
	}
	m.logger.Info("Logged out")
}

// Refresh exchanges the refresh token for a new token pair. The resolved user
// is left untouched; only credential material changes.
func (m *Manager) Refresh(ctx context.Context) error {
	snap := m.store.Snapshot()
	if snap.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	pair, err := m.identity.RefreshToken(ctx, snap.RefreshToken)
	if err != nil {
		if m.metrics != nil {
			m.metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		}
		if platform.IsAuthFailure(err) {
			m.logger.Info("Refresh token rejected, clearing session")
			m.store.Clear(ctx)
		}
		return err
	}

	m.store.SetAccessToken(ctx, pair.Token)
	m.store.SetRefreshToken(ctx, pair.RefreshToken)
	if m.metrics != nil {
		m.metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	}
	return nil
}

// SetTenant switches the active tenant and flushes the query cache, since
// every cached response is scoped to the previous tenant.
func (m *Manager) SetTenant(ctx context.Context, tenantID string) {
	m.store.SetTenantID(ctx, tenantID)
	if m.cache != nil {
		m.cache.Clear()
	}
	m.logger.WithField("tenant_id", tenantID).Info("Tenant switched")
}

// HandleAuthFailure is the query layer's navigate-to-login hook target: the
// cache is already cleared by the caller, so only session state is wiped here.
func (m *Manager) HandleAuthFailure(ctx context.Context) {
	m.store.Clear(ctx)
}

// Session returns a snapshot of the current session
func (m *Manager) Session() session.Session {
	return m.store.Snapshot()
}

func identityToUser(identity *platform.Identity) *session.User {
	return &session.User{
		ID:          identity.ID,
		Email:       identity.Email,
		FullName:    identity.FullName,
		Roles:       identity.Roles,
		Permissions: identity.Permissions,
		IsActive:    identity.IsActive,
	}
}
