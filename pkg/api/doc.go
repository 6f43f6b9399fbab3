// Package api provides the gateway HTTP server for the back office.
//
// # Overview
//
// The server exposes four surfaces:
//
//   - Auth session endpoints: login, logout, refresh, tenant switch, and the
//     current session snapshot (/auth/session)
//   - Entity data API: generic list/get/create/update/delete per entity,
//     mounted under /api and served through the query cache (/api/orders,
//     /api/products, ...)
//   - Notification feed: active toasts and dismissal (/notifications)
//   - Guarded pages: every remaining path is evaluated by the route guard
//     chain, which either attaches the matched route or redirects
//
// # Architecture
//
// The server is built on gorilla/mux and organized into domain-specific
// handler groups (AuthHandlers, NotificationHandlers, PageHandlers), each
// registering its own routes. Request ID tagging, Prometheus metrics, and
// rate limiting run as router-wide middleware.
//
// # Usage
//
//	server := api.NewServer(api.Deps{
//		Manager:  manager,
//		Services: services,
//		Notify:   center,
//		Chain:    chain,
//		Logger:   logger,
//	})
//	http.ListenAndServe(":8080", server)
package api
