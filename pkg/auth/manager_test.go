package auth

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/backoffice/pkg/observability"
	"github.com/platinummonkey/backoffice/pkg/platform"
	"github.com/platinummonkey/backoffice/pkg/session"
)

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

// fakeIdentity is a scripted IdentityClient
type fakeIdentity struct {
	loginFn   func(ctx context.Context, creds platform.Credentials) (platform.TokenPair, error)
	currentFn func(ctx context.Context) (*platform.Identity, error)
	refreshFn func(ctx context.Context, refreshToken string) (platform.TokenPair, error)

	currentCalls int32
}

func (f *fakeIdentity) Login(ctx context.Context, creds platform.Credentials) (platform.TokenPair, error) {
	return f.loginFn(ctx, creds)
}

func (f *fakeIdentity) CurrentUser(ctx context.Context) (*platform.Identity, error) {
	atomic.AddInt32(&f.currentCalls, 1)
	return f.currentFn(ctx)
}

func (f *fakeIdentity) RefreshToken(ctx context.Context, refreshToken string) (platform.TokenPair, error) {
	return f.refreshFn(ctx, refreshToken)
}

// fakeFlusher counts cache flushes
type fakeFlusher struct {
	clears int32
}

func (f *fakeFlusher) Clear() {
	atomic.AddInt32(&f.clears, 1)
}

func testIdentity() *platform.Identity {
	return &platform.Identity{
		ID:          "u-1",
		Email:       "ops@example.com",
		FullName:    "Ops Person",
		Roles:       []string{"manager"},
		Permissions: []string{"orders.view"},
		IsActive:    true,
	}
}

func authError() error {
	return &platform.Error{Kind: platform.KindAuth, Status: 401, Message: "token expired"}
}

func newTestManager(t *testing.T, identity *fakeIdentity) (*Manager, *session.Store, *fakeFlusher) {
	t.Helper()
	store := session.NewStore(session.NewMemoryStorage(), testLogger())
	flusher := &fakeFlusher{}
	manager := NewManager(store, identity, flusher, Config{}, testLogger(), nil)
	return manager, store, flusher
}

func TestInitializeWithEmptyStorage(t *testing.T) {
	identity := &fakeIdentity{
		currentFn: func(ctx context.Context) (*platform.Identity, error) {
			return testIdentity(), nil
		},
	}
	manager, _, _ := newTestManager(t, identity)

	manager.Initialize(context.Background())

	assert.False(t, manager.IsAuthenticated())
	assert.Equal(t, int32(0), atomic.LoadInt32(&identity.currentCalls), "no token means no identity call")
}

func TestInitializeResolvesPersistedToken(t *testing.T) {
	identity := &fakeIdentity{
		currentFn: func(ctx context.Context) (*platform.Identity, error) {
			return testIdentity(), nil
		},
	}
	manager, store, _ := newTestManager(t, identity)
	store.SetAccessToken(context.Background(), "persisted-token")

	manager.Initialize(context.Background())

	assert.True(t, manager.IsAuthenticated())
	assert.True(t, manager.HasPermission("orders.view"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&identity.currentCalls))
}

func TestInitializeIsIdempotent(t *testing.T) {
	identity := &fakeIdentity{
		currentFn: func(ctx context.Context) (*platform.Identity, error) {
			return testIdentity(), nil
		},
	}
	manager, store, _ := newTestManager(t, identity)
	store.SetAccessToken(context.Background(), "persisted-token")

	manager.Initialize(context.Background())
	manager.Initialize(context.Background())
	manager.Initialize(context.Background())

	assert.Equal(t, int32(1), atomic.LoadInt32(&identity.currentCalls), "repeat initialization must not re-resolve")
}

func TestInitializeDeduplicatesConcurrentCalls(t *testing.T) {
	release := make(chan struct{})
	identity := &fakeIdentity{
		currentFn: func(ctx context.Context) (*platform.Identity, error) {
			<-release
			return testIdentity(), nil
		},
	}
	manager, store, _ := newTestManager(t, identity)
	store.SetAccessToken(context.Background(), "persisted-token")

	const callers = 8
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			manager.Initialize(context.Background())
		}()
	}

	// Let every caller pile onto the shared flight before it resolves.
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&identity.currentCalls) == 1
	}, time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&identity.currentCalls), "concurrent initialization must share one resolution")
	assert.True(t, manager.IsAuthenticated())
}

func TestInitializeClearsRejectedToken(t *testing.T) {
	identity := &fakeIdentity{
		currentFn: func(ctx context.Context) (*platform.Identity, error) {
			return nil, authError()
		},
	}
	manager, store, _ := newTestManager(t, identity)
	store.SetAccessToken(context.Background(), "stale-token")

	manager.Initialize(context.Background())

	assert.False(t, manager.IsAuthenticated())
	assert.Equal(t, "", store.Snapshot().AccessToken, "rejected token must be discarded")
}

func TestInitializeKeepsTokenOnTransientFailure(t *testing.T) {
	identity := &fakeIdentity{
		currentFn: func(ctx context.Context) (*platform.Identity, error) {
			return nil, &platform.Error{Kind: platform.KindTransient, Status: 503, Message: "down"}
		},
	}
	manager, store, _ := newTestManager(t, identity)
	store.SetAccessToken(context.Background(), "maybe-good-token")

	manager.Initialize(context.Background())

	assert.False(t, manager.IsAuthenticated())
	assert.Equal(t, "maybe-good-token", store.Snapshot().AccessToken, "token survives a transient outage")
}

func TestLoginStoresTokensAndResolvesIdentity(t *testing.T) {
	identity := &fakeIdentity{
		loginFn: func(ctx context.Context, creds platform.Credentials) (platform.TokenPair, error) {
			assert.Equal(t, "ops@example.com", creds.Email)
			return platform.TokenPair{Token: "new-token", RefreshToken: "new-refresh"}, nil
		},
		currentFn: func(ctx context.Context) (*platform.Identity, error) {
			return testIdentity(), nil
		},
	}
	manager, store, _ := newTestManager(t, identity)

	err := manager.Login(context.Background(), platform.Credentials{Email: "ops@example.com", Password: "secret"})
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Equal(t, "new-token", snap.AccessToken)
	assert.Equal(t, "new-refresh", snap.RefreshToken)
	require.NotNil(t, snap.User)
	assert.Equal(t, "u-1", snap.User.ID)
	assert.True(t, manager.IsAuthenticated())
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	identity := &fakeIdentity{
		loginFn: func(ctx context.Context, creds platform.Credentials) (platform.TokenPair, error) {
			return platform.TokenPair{}, &platform.Error{Kind: platform.KindValidation, Status: 422, Message: "bad credentials"}
		},
	}
	manager, store, _ := newTestManager(t, identity)

	err := manager.Login(context.Background(), platform.Credentials{Email: "x", Password: "y"})
	require.Error(t, err)
	assert.True(t, platform.IsValidation(err))
	assert.Equal(t, session.Session{}, store.Snapshot())
}

func TestLoginClearsSessionWhenResolveFails(t *testing.T) {
	identity := &fakeIdentity{
		loginFn: func(ctx context.Context, creds platform.Credentials) (platform.TokenPair, error) {
			return platform.TokenPair{Token: "new-token", RefreshToken: "new-refresh"}, nil
		},
		currentFn: func(ctx context.Context) (*platform.Identity, error) {
			return nil, authError()
		},
	}
	manager, store, _ := newTestManager(t, identity)

	err := manager.Login(context.Background(), platform.Credentials{Email: "x", Password: "y"})
	require.Error(t, err)
	assert.Equal(t, session.Session{}, store.Snapshot(), "half-completed login must not leave tokens behind")
}

func TestLogoutClearsSessionAndFlushesCache(t *testing.T) {
	identity := &fakeIdentity{
		loginFn: func(ctx context.Context, creds platform.Credentials) (platform.TokenPair, error) {
			return platform.TokenPair{Token: "t", RefreshToken: "r"}, nil
		},
		currentFn: func(ctx context.Context) (*platform.Identity, error) {
			return testIdentity(), nil
		},
	}
	manager, store, flusher := newTestManager(t, identity)
	require.NoError(t, manager.Login(context.Background(), platform.Credentials{Email: "x", Password: "y"}))

	manager.Logout(context.Background())

	assert.Equal(t, session.Session{}, store.Snapshot())
	assert.False(t, manager.IsAuthenticated())
	assert.Equal(t, int32(1), atomic.LoadInt32(&flusher.clears), "logout must flush the query cache")
}

func TestRefreshWithoutToken(t *testing.T) {
	manager, _, _ := newTestManager(t, &fakeIdentity{})

	err := manager.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestRefreshReplacesTokensOnly(t *testing.T) {
	identity := &fakeIdentity{
		refreshFn: func(ctx context.Context, refreshToken string) (platform.TokenPair, error) {
			assert.Equal(t, "old-refresh", refreshToken)
			return platform.TokenPair{Token: "rotated-token", RefreshToken: "rotated-refresh"}, nil
		},
	}
	manager, store, _ := newTestManager(t, identity)

	ctx := context.Background()
	store.SetAccessToken(ctx, "old-token")
	store.SetRefreshToken(ctx, "old-refresh")
	store.SetUser(&session.User{ID: "u-1"})

	require.NoError(t, manager.Refresh(ctx))

	snap := store.Snapshot()
	assert.Equal(t, "rotated-token", snap.AccessToken)
	assert.Equal(t, "rotated-refresh", snap.RefreshToken)
	require.NotNil(t, snap.User, "resolved user survives a token rotation")
	assert.Equal(t, "u-1", snap.User.ID)
}

func TestRefreshRejectionClearsSession(t *testing.T) {
	identity := &fakeIdentity{
		refreshFn: func(ctx context.Context, refreshToken string) (platform.TokenPair, error) {
			return platform.TokenPair{}, authError()
		},
	}
	manager, store, _ := newTestManager(t, identity)

	ctx := context.Background()
	store.SetRefreshToken(ctx, "dead-refresh")

	err := manager.Refresh(ctx)
	require.Error(t, err)
	assert.Equal(t, session.Session{}, store.Snapshot())
}

func TestSetTenantFlushesCache(t *testing.T) {
	manager, store, flusher := newTestManager(t, &fakeIdentity{})

	manager.SetTenant(context.Background(), "tenant-2")

	assert.Equal(t, "tenant-2", store.Snapshot().TenantID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&flusher.clears), "tenant switch invalidates tenant-scoped cache")
}

func TestIsSuperAdmin(t *testing.T) {
	tests := []struct {
		name       string
		adminRoles []string
		userRoles  []string
		want       bool
	}{
		{
			name:      "default role matches",
			userRoles: []string{"super_admin"},
			want:      true,
		},
		{
			name:      "regular role does not match",
			userRoles: []string{"manager"},
			want:      false,
		},
		{
			name:       "configured role matches",
			adminRoles: []string{"platform_admin"},
			userRoles:  []string{"platform_admin"},
			want:       true,
		},
		{
			name:       "default no longer matches when overridden",
			adminRoles: []string{"platform_admin"},
			userRoles:  []string{"super_admin"},
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewStore(session.NewMemoryStorage(), testLogger())
			manager := NewManager(store, &fakeIdentity{}, nil, Config{AdminRoles: tt.adminRoles}, testLogger(), nil)
			store.SetUser(&session.User{ID: "u-1", Roles: tt.userRoles})

			assert.Equal(t, tt.want, manager.IsSuperAdmin())
		})
	}
}

func TestIsSuperAdminWithoutUser(t *testing.T) {
	manager, _, _ := newTestManager(t, &fakeIdentity{})
	assert.False(t, manager.IsSuperAdmin())
	assert.False(t, manager.HasPermission("orders.view"))
}
