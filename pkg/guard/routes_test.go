package guard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableValidation(t *testing.T) {
	tests := []struct {
		name    string
		routes  []Route
		wantErr bool
	}{
		{
			name: "valid table",
			routes: []Route{
				{Path: "/orders", Requirement: Requirement{Permission: "orders.view"}},
				{Path: "/auth/login", Requirement: Requirement{GuestOnly: true}},
			},
		},
		{
			name:    "path without leading slash",
			routes:  []Route{{Path: "orders"}},
			wantErr: true,
		},
		{
			name:    "empty path",
			routes:  []Route{{Path: ""}},
			wantErr: true,
		},
		{
			name: "duplicate path",
			routes: []Route{
				{Path: "/orders"},
				{Path: "/orders"},
			},
			wantErr: true,
		},
		{
			name: "guest-only route with permission",
			routes: []Route{
				{Path: "/auth/login", Requirement: Requirement{GuestOnly: true, Permission: "orders.view"}},
			},
			wantErr: true,
		},
		{
			name: "guest-only route with super admin",
			routes: []Route{
				{Path: "/auth/login", Requirement: Requirement{GuestOnly: true, SuperAdmin: true}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.routes)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadTable(t *testing.T) {
	content := `routes:
  - path: /dashboard
    permission: dashboard.view
    tenant: true
  - path: /admin/tenants
    super_admin: true
  - path: /auth/login
    guest_only: true
`
	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.Len(t, table.Routes(), 3)

	route, ok := table.Lookup("/dashboard")
	require.True(t, ok)
	assert.Equal(t, "dashboard.view", route.Permission)
	assert.True(t, route.Tenant)

	route, ok = table.Lookup("/admin/tenants")
	require.True(t, ok)
	assert.True(t, route.SuperAdmin)

	route, ok = table.Lookup("/auth/login")
	require.True(t, ok)
	assert.True(t, route.GuestOnly)
}

func TestLoadTableErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTable(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "routes.yaml")
		require.NoError(t, os.WriteFile(path, []byte("routes: [broken"), 0o644))
		_, err := LoadTable(path)
		assert.Error(t, err)
	})

	t.Run("empty table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "routes.yaml")
		require.NoError(t, os.WriteFile(path, []byte("routes: []"), 0o644))
		_, err := LoadTable(path)
		assert.Error(t, err)
	})
}

func TestFirstAccessibleFollowsDeclarationOrder(t *testing.T) {
	table := testTable(t)

	sess := &fakeSession{
		authenticated: true,
		permissions:   map[string]bool{"orders.view": true, "shipments.view": true},
	}

	// Orders precedes shipments in the table, so it wins regardless of which
	// permission was granted first.
	path, ok := table.FirstAccessible(sess, "")
	require.True(t, ok)
	assert.Equal(t, "/orders", path)

	path, ok = table.FirstAccessible(sess, "/orders")
	require.True(t, ok)
	assert.Equal(t, "/shipments", path)
}

func TestFirstAccessibleSkipsGuestAndElevatedRoutes(t *testing.T) {
	table := testTable(t)

	sess := &fakeSession{authenticated: true, permissions: map[string]bool{}}
	_, ok := table.FirstAccessible(sess, "")
	assert.False(t, ok, "guest-only and super-admin routes are never fallbacks for a regular operator")

	admin := &fakeSession{authenticated: true, superAdmin: true}
	path, ok := table.FirstAccessible(admin, "")
	require.True(t, ok)
	assert.Equal(t, "/admin/tenants", path)
}

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	require.NotEmpty(t, table.Routes())

	login, ok := table.Lookup("/auth/login")
	require.True(t, ok)
	assert.True(t, login.GuestOnly)

	orders, ok := table.Lookup("/orders")
	require.True(t, ok)
	assert.Equal(t, "orders.view", orders.Permission)
	assert.True(t, orders.Tenant)
}
