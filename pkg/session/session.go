package session

import (
	"context"
	"sync"

	"github.com/platinummonkey/backoffice/pkg/observability"
)

// User is the resolved identity of the operator behind the current session
type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name,omitempty"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"is_active"`
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPermission reports whether the user carries the given permission
func (u *User) HasPermission(name string) bool {
	for _, p := range u.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

// Session holds credential material and, once resolved, the operator identity.
// AccessToken may be present without User between Load and identity resolution;
// that window is observable and expected.
type Session struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TenantID     string `json:"tenant_id,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// Store is the process-wide owner of session state. All mutation goes through
// its methods; readers receive value snapshots and may subscribe to changes.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	current Session
	logger  *observability.Logger

	subMu   sync.Mutex
	subs    map[int]chan Session
	nextSub int
}

// NewStore creates a session store backed by the given storage
func NewStore(storage Storage, logger *observability.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger,
		subs:    make(map[int]chan Session),
	}
}

// Load hydrates credential material from storage. It is idempotent and never
// fails the caller; unreadable or absent entries yield empty fields.
func (s *Store) Load(ctx context.Context) {
	access := s.read(ctx, KeyAccessToken)
	refresh := s.read(ctx, KeyRefreshToken)
	tenant := s.read(ctx, KeyTenantID)

	s.mu.Lock()
	s.current.AccessToken = access
	s.current.RefreshToken = refresh
	s.current.TenantID = tenant
	snap := s.current
	s.mu.Unlock()

	s.publish(snap)
}

func (s *Store) read(ctx context.Context, key string) string {
	value, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to read persisted credential")
		return ""
	}
	if !ok {
		return ""
	}
	return value
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetAccessToken updates the access token in memory and mirrors it to storage.
// An empty value removes the persisted entry.
func (s *Store) SetAccessToken(ctx context.Context, value string) {
	s.mu.Lock()
	s.current.AccessToken = value
	snap := s.current
	s.mu.Unlock()

	s.persist(ctx, KeyAccessToken, value)
	s.publish(snap)
}

// SetRefreshToken updates the refresh token in memory and mirrors it to storage
func (s *Store) SetRefreshToken(ctx context.Context, value string) {
	s.mu.Lock()
	s.current.RefreshToken = value
	snap := s.current
	s.mu.Unlock()

	s.persist(ctx, KeyRefreshToken, value)
	s.publish(snap)
}

// SetTenantID updates the tenant identifier in memory and mirrors it to storage
func (s *Store) SetTenantID(ctx context.Context, value string) {
	s.mu.Lock()
	s.current.TenantID = value
	snap := s.current
	s.mu.Unlock()

	s.persist(ctx, KeyTenantID, value)
	s.publish(snap)
}

// SetUser records the resolved identity. The user is memory-only state; it is
// re-resolved from the identity endpoint after every restart.
func (s *Store) SetUser(user *User) {
	s.mu.Lock()
	s.current.User = user
	snap := s.current
	s.mu.Unlock()

	s.publish(snap)
}

// Clear wipes the session and removes all persisted entries
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.current = Session{}
	snap := s.current
	s.mu.Unlock()

	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyTenantID} {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Failed to remove persisted credential")
		}
	}
	s.publish(snap)
}

// persist mirrors a value to storage; empty values delete the entry so storage
// never holds a stale stringified null.
func (s *Store) persist(ctx context.Context, key, value string) {
	var err error
	if value == "" {
		err = s.storage.Delete(ctx, key)
	} else {
		err = s.storage.Set(ctx, key, value)
	}
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to persist credential")
	}
}

// Subscribe registers an observer for session changes. The returned cancel
// function must be called to release the subscription.
func (s *Store) Subscribe() (<-chan Session, func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Session, 8)
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// publish notifies subscribers without blocking; a slow subscriber drops updates
func (s *Store) publish(snap Session) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
