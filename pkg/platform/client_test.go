package platform

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/backoffice/pkg/observability"
)

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   func() string { return "test-token" },
		Tenant:  func() string { return "tenant-1" },
	}, testLogger(), nil)
}

func TestRequestCarriesSessionHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "tenant-1", r.Header.Get("X-Tenant-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		json.NewEncoder(w).Encode(Identity{ID: "u-1"})
	})

	identity, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", identity.ID)
}

func TestUnauthenticatedRequestOmitsAuthHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("X-Tenant-ID"))
		json.NewEncoder(w).Encode(Identity{ID: "u-1"})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   func() string { return "" },
		Tenant:  func() string { return "" },
	}, testLogger(), nil)

	_, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
}

func TestErrorClassificationByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"401 is auth failure", http.StatusUnauthorized, IsAuthFailure},
		{"403 is permission denied", http.StatusForbidden, IsPermissionDenied},
		{"400 is validation", http.StatusBadRequest, IsValidation},
		{"422 is validation", http.StatusUnprocessableEntity, IsValidation},
		{"500 is transient", http.StatusInternalServerError, IsTransient},
		{"503 is transient", http.StatusServiceUnavailable, IsTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]string{"message": "failed"})
			})

			_, err := client.CurrentUser(context.Background())
			require.Error(t, err)
			assert.True(t, tt.check(err), "status %d misclassified: %v", tt.status, err)
		})
	}
}

func TestErrorCarriesServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "phone number is invalid"})
	})

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.Equal(t, "phone number is invalid", UserMessage(err))
}

func TestErrorWithoutBodyFallsBackToStatusText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusText(http.StatusForbidden), UserMessage(err))
}

func TestNetworkErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	client := NewClient(ClientConfig{BaseURL: server.URL}, testLogger(), nil)

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransient(err), "unreachable upstream must classify as transient")
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ops@example.com", creds.Email)

		json.NewEncoder(w).Encode(TokenPair{Token: "t-1", RefreshToken: "r-1"})
	})

	pair, err := client.Login(context.Background(), Credentials{Email: "ops@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", pair.Token)
	assert.Equal(t, "r-1", pair.RefreshToken)
}

func TestRefreshToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/refresh", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "r-1", body["refreshToken"])

		json.NewEncoder(w).Encode(TokenPair{Token: "t-2", RefreshToken: "r-2"})
	})

	pair, err := client.RefreshToken(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, "t-2", pair.Token)
}

func TestListBuildsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/brands", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "acme", r.URL.Query().Get("search"))

		json.NewEncoder(w).Encode(Page[Brand]{
			Items: []Brand{{ID: "b-1", Name: "Acme"}},
			Total: 1, Page: 2, PageSize: 25,
		})
	})

	page, err := List[Brand](context.Background(), client, "/brands", ListFilter{Page: 2, PageSize: 25, Search: "acme"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Acme", page.Items[0].Name)
	assert.Equal(t, 1, page.Total)
}

func TestGetEscapesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/brands/b%2F1", r.URL.EscapedPath())
		json.NewEncoder(w).Encode(Brand{ID: "b/1"})
	})

	brand, err := Get[Brand](context.Background(), client, "/brands", "b/1")
	require.NoError(t, err)
	assert.Equal(t, "b/1", brand.ID)
}

func TestCreateAndUpdateAndDelete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/brands":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Brand{ID: "b-1", Name: "Acme"})
		case r.Method == http.MethodPut && r.URL.Path == "/brands/b-1":
			json.NewEncoder(w).Encode(Brand{ID: "b-1", Name: "Acme v2"})
		case r.Method == http.MethodDelete && r.URL.Path == "/brands/b-1":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()

	created, err := Create[Brand](ctx, client, "/brands", map[string]string{"name": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "b-1", created.ID)

	updated, err := Update[Brand](ctx, client, "/brands", "b-1", map[string]string{"name": "Acme v2"})
	require.NoError(t, err)
	assert.Equal(t, "Acme v2", updated.Name)

	require.NoError(t, Delete(ctx, client, "/brands", "b-1"))
}
