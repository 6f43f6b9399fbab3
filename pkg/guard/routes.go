package guard

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table is the ordered route table. Order is significant: the fallback route
// for a denied navigation is the first entry the session can access, so two
// evaluations with the same permission set always land on the same path.
type Table struct {
	routes []Route
	byPath map[string]Route
}

// tableFile is the on-disk shape of the route table
type tableFile struct {
	Routes []Route `yaml:"routes"`
}

// NewTable builds a table from an ordered route list
func NewTable(routes []Route) (*Table, error) {
	t := &Table{
		routes: routes,
		byPath: make(map[string]Route, len(routes)),
	}
	for _, route := range routes {
		if route.Path == "" || !strings.HasPrefix(route.Path, "/") {
			return nil, fmt.Errorf("invalid route path %q", route.Path)
		}
		if _, dup := t.byPath[route.Path]; dup {
			return nil, fmt.Errorf("duplicate route path %q", route.Path)
		}
		if route.GuestOnly && (route.Permission != "" || route.SuperAdmin) {
			return nil, fmt.Errorf("route %q cannot be guest-only and permission-gated", route.Path)
		}
		t.byPath[route.Path] = route
	}
	return t, nil
}

// LoadTable reads the route table from a YAML file
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route table: %w", err)
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse route table: %w", err)
	}
	if len(file.Routes) == 0 {
		return nil, fmt.Errorf("route table %q declares no routes", path)
	}
	return NewTable(file.Routes)
}

// DefaultTable returns the built-in back-office route table, used when no
// route file is configured. Dashboard comes first so it is the preferred
// fallback for denied navigations.
func DefaultTable() *Table {
	table, err := NewTable([]Route{
		{Path: "/dashboard", Requirement: Requirement{Permission: "dashboard.view", Tenant: true}},
		{Path: "/orders", Requirement: Requirement{Permission: "orders.view", Tenant: true}},
		{Path: "/delivery-notes", Requirement: Requirement{Permission: "delivery_notes.view", Tenant: true}},
		{Path: "/shipments", Requirement: Requirement{Permission: "shipments.view", Tenant: true}},
		{Path: "/products", Requirement: Requirement{Permission: "products.view", Tenant: true}},
		{Path: "/stock", Requirement: Requirement{Permission: "stock.view", Tenant: true}},
		{Path: "/purchases", Requirement: Requirement{Permission: "purchases.view", Tenant: true}},
		{Path: "/invoices", Requirement: Requirement{Permission: "invoices.view", Tenant: true}},
		{Path: "/ad-spends", Requirement: Requirement{Permission: "ad_spends.view", Tenant: true}},
		{Path: "/brands", Requirement: Requirement{Permission: "brands.view", Tenant: true}},
		{Path: "/cities", Requirement: Requirement{Permission: "cities.view", Tenant: true}},
		{Path: "/admin/tenants", Requirement: Requirement{SuperAdmin: true}},
		{Path: "/admin/users", Requirement: Requirement{SuperAdmin: true}},
		{Path: "/auth/login", Requirement: Requirement{GuestOnly: true}},
		{Path: "/auth/forgot-password", Requirement: Requirement{GuestOnly: true}},
	})
	if err != nil {
		panic(err)
	}
	return table
}

// Lookup returns the route declared for path
func (t *Table) Lookup(path string) (Route, bool) {
	route, ok := t.byPath[path]
	return route, ok
}

// Routes returns the table in declaration order
func (t *Table) Routes() []Route {
	return t.routes
}

// FirstAccessible returns the first route the session can enter, skipping
// exclude. Excluding the denied path is what prevents a redirect loop.
func (t *Table) FirstAccessible(sess SessionView, exclude string) (string, bool) {
	for _, route := range t.routes {
		if route.Path == exclude || route.GuestOnly {
			continue
		}
		if route.SuperAdmin && !sess.IsSuperAdmin() {
			continue
		}
		if route.Permission != "" && !sess.HasPermission(route.Permission) {
			continue
		}
		return route.Path, true
	}
	return "", false
}
