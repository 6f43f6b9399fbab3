package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/backoffice/pkg/notify"
	"github.com/platinummonkey/backoffice/pkg/observability"
	"github.com/platinummonkey/backoffice/pkg/platform"
	"github.com/platinummonkey/backoffice/pkg/query"
)

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

type fixture struct {
	brands    *CRUD[platform.Brand]
	stock     *CRUD[platform.StockItem]
	cache     *query.Client
	center    *notify.Center
	listCalls *int32
}

// newFixture wires a brands service (invalidating stock) against a scripted
// upstream, with a real cache and notification center in between.
func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()

	var listCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/brands" {
			atomic.AddInt32(&listCalls, 1)
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	logger := testLogger()
	api := platform.NewClient(platform.ClientConfig{BaseURL: server.URL}, logger, nil)
	cache := query.NewClient(query.DefaultConfig(), logger, nil)
	center := notify.NewCenter(time.Minute, logger, nil)

	return &fixture{
		brands: New[platform.Brand](Config{
			Name: "brands", Path: "/brands", Invalidates: []string{"stock"},
		}, api, cache, center, logger),
		stock: New[platform.StockItem](Config{
			Name: "stock", Path: "/stock",
		}, api, cache, center, logger),
		cache:     cache,
		center:    center,
		listCalls: &listCalls,
	}
}

func okUpstream(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/brands":
			json.NewEncoder(w).Encode(platform.Page[platform.Brand]{
				Items: []platform.Brand{{ID: "b-1", Name: "Acme"}}, Total: 1, Page: 1, PageSize: 25,
			})
		case r.Method == http.MethodGet && r.URL.Path == "/brands/b-1":
			json.NewEncoder(w).Encode(platform.Brand{ID: "b-1", Name: "Acme"})
		case r.Method == http.MethodGet && r.URL.Path == "/stock":
			json.NewEncoder(w).Encode(platform.Page[platform.StockItem]{Page: 1, PageSize: 25})
		case r.Method == http.MethodPost && r.URL.Path == "/brands":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(platform.Brand{ID: "b-2", Name: "Globex"})
		case r.Method == http.MethodPut && r.URL.Path == "/brands/b-1":
			json.NewEncoder(w).Encode(platform.Brand{ID: "b-1", Name: "Acme v2"})
		case r.Method == http.MethodDelete && r.URL.Path == "/brands/b-1":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestListServesFromCache(t *testing.T) {
	f := newFixture(t, okUpstream(t))
	ctx := context.Background()
	filter := platform.ListFilter{Page: 1, PageSize: 25}

	page, err := f.brands.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	_, err = f.brands.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(f.listCalls), "second read answers from cache")
}

func TestGetServesFromCache(t *testing.T) {
	f := newFixture(t, okUpstream(t))
	ctx := context.Background()

	brand, err := f.brands.Get(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", brand.Name)

	again, err := f.brands.Get(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, brand, again)
}

func TestCreateInvalidatesAndNotifies(t *testing.T) {
	f := newFixture(t, okUpstream(t))
	ctx := context.Background()
	filter := platform.ListFilter{Page: 1, PageSize: 25}

	_, err := f.brands.List(ctx, filter)
	require.NoError(t, err)
	_, err = f.stock.List(ctx, filter)
	require.NoError(t, err)

	created, err := f.brands.Create(ctx, map[string]string{"name": "Globex"})
	require.NoError(t, err)
	assert.Equal(t, "b-2", created.ID)

	// Both the entity's own group and its related group were flushed.
	assert.Zero(t, f.cache.Len())

	_, err = f.brands.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(f.listCalls), "list refetches after the mutation")

	active := f.center.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.LevelSuccess, active[0].Level)
	assert.Equal(t, "brands created", active[0].Message)
}

func TestUpdateAndDeleteNotify(t *testing.T) {
	f := newFixture(t, okUpstream(t))
	ctx := context.Background()

	updated, err := f.brands.Update(ctx, "b-1", map[string]string{"name": "Acme v2"})
	require.NoError(t, err)
	assert.Equal(t, "Acme v2", updated.Name)

	require.NoError(t, f.brands.Delete(ctx, "b-1"))

	messages := make([]string, 0, 2)
	for _, n := range f.center.Active() {
		messages = append(messages, n.Message)
	}
	assert.ElementsMatch(t, []string{"brands updated", "brands deleted"}, messages)
}

func TestValidationFailureSurfacesUpstreamMessage(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "name is required"})
	})

	_, err := f.brands.Create(context.Background(), map[string]string{})
	require.Error(t, err)
	assert.True(t, platform.IsValidation(err))

	active := f.center.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.LevelError, active[0].Level)
	assert.Equal(t, "name is required", active[0].Message)
}

func TestPermissionDeniedStaysSilent(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := f.brands.Get(context.Background(), "b-1")
	require.Error(t, err)
	assert.True(t, platform.IsPermissionDenied(err))
	assert.Empty(t, f.center.Active(), "authorization failures produce no toast")
}

func TestUnexpectedFailureShowsGenericToast(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "gone"})
	})

	err := f.brands.Delete(context.Background(), "b-1")
	require.Error(t, err)

	active := f.center.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "brands delete failed", active[0].Message)
}
