package service

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/backoffice/pkg/httputil"
)

// Register mounts the REST routes for every entity service under the router
func (r *Registry) Register(router *mux.Router) {
	mount(router, r.Brands)
	mount(router, r.Cities)
	mount(router, r.Products)
	mount(router, r.Stock)
	mount(router, r.Purchases)
	mount(router, r.Orders)
	mount(router, r.DeliveryNotes)
	mount(router, r.Shipments)
	mount(router, r.Invoices)
	mount(router, r.AdSpends)
}

func mount[T any](router *mux.Router, svc *CRUD[T]) {
	prefix := "/" + svc.Name()
	router.HandleFunc(prefix, listHandler(svc)).Methods(http.MethodGet)
	router.HandleFunc(prefix, createHandler(svc)).Methods(http.MethodPost)
	router.HandleFunc(prefix+"/{id}", getHandler(svc)).Methods(http.MethodGet)
	router.HandleFunc(prefix+"/{id}", updateHandler(svc)).Methods(http.MethodPut)
	router.HandleFunc(prefix+"/{id}", deleteHandler(svc)).Methods(http.MethodDelete)
}

func listHandler[T any](svc *CRUD[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := httputil.ParseListFilter(r)
		page, err := svc.List(r.Context(), filter)
		if err != nil {
			httputil.WritePlatformError(w, err)
			return
		}
		httputil.WriteSuccess(w, page)
	}
}

func getHandler[T any](svc *CRUD[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := httputil.ParsePathStringOrError(w, r, "id")
		if !ok {
			return
		}
		entity, err := svc.Get(r.Context(), id)
		if err != nil {
			httputil.WritePlatformError(w, err)
			return
		}
		httputil.WriteSuccess(w, entity)
	}
}

func createHandler[T any](svc *CRUD[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body json.RawMessage
		if !httputil.ParseJSONOrError(w, r, &body) {
			return
		}
		entity, err := svc.Create(r.Context(), body)
		if err != nil {
			httputil.WritePlatformError(w, err)
			return
		}
		httputil.WriteCreated(w, entity)
	}
}

func updateHandler[T any](svc *CRUD[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := httputil.ParsePathStringOrError(w, r, "id")
		if !ok {
			return
		}
		var body json.RawMessage
		if !httputil.ParseJSONOrError(w, r, &body) {
			return
		}
		entity, err := svc.Update(r.Context(), id, body)
		if err != nil {
			httputil.WritePlatformError(w, err)
			return
		}
		httputil.WriteSuccess(w, entity)
	}
}

func deleteHandler[T any](svc *CRUD[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := httputil.ParsePathStringOrError(w, r, "id")
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			httputil.WritePlatformError(w, err)
			return
		}
		httputil.WriteNoContent(w)
	}
}
