package api

import (
	"net/http"

	"github.com/platinummonkey/backoffice/pkg/auth"
	"github.com/platinummonkey/backoffice/pkg/guard"
	"github.com/platinummonkey/backoffice/pkg/httputil"
	"github.com/platinummonkey/backoffice/pkg/observability"
)

// PageHandlers answers guarded page navigations. By the time a request gets
// here the guard chain has already allowed it, so the handler only describes
// the resolved route back to the shell.
type PageHandlers struct {
	manager *auth.Manager
	logger  *observability.Logger
}

// NewPageHandlers creates a new page handlers instance
func NewPageHandlers(manager *auth.Manager, logger *observability.Logger) *PageHandlers {
	return &PageHandlers{
		manager: manager,
		logger:  logger,
	}
}

// pageResponse describes an allowed navigation
type pageResponse struct {
	Path       string `json:"path"`
	Permission string `json:"permission,omitempty"`
	SuperAdmin bool   `json:"superAdmin,omitempty"`
	GuestOnly  bool   `json:"guestOnly,omitempty"`
	TenantID   string `json:"tenantId,omitempty"`
}

// ServeHTTP implements http.Handler
func (h *PageHandlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, ok := guard.RouteFromRequest(r)
	if !ok {
		httputil.WriteErrorMessage(w, http.StatusNotFound, "unknown page")
		return
	}

	httputil.WriteSuccess(w, pageResponse{
		Path:       route.Path,
		Permission: route.Permission,
		SuperAdmin: route.SuperAdmin,
		GuestOnly:  route.GuestOnly,
		TenantID:   h.manager.Session().TenantID,
	})
}
