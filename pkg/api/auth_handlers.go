package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/backoffice/pkg/auth"
	"github.com/platinummonkey/backoffice/pkg/httputil"
	"github.com/platinummonkey/backoffice/pkg/observability"
	"github.com/platinummonkey/backoffice/pkg/platform"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	manager *auth.Manager
	logger  *observability.Logger
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(manager *auth.Manager, logger *observability.Logger) *AuthHandlers {
	return &AuthHandlers{
		manager: manager,
		logger:  logger,
	}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/session", h.getSession).Methods("GET")
	router.HandleFunc("/auth/session", h.login).Methods("POST")
	router.HandleFunc("/auth/session", h.logout).Methods("DELETE")
	router.HandleFunc("/auth/session/refresh", h.refresh).Methods("POST")
	router.HandleFunc("/auth/session/tenant", h.setTenant).Methods("PUT")
}

// sessionResponse is the wire shape of the current session
type sessionResponse struct {
	Authenticated bool     `json:"authenticated"`
	SuperAdmin    bool     `json:"superAdmin"`
	TenantID      string   `json:"tenantId,omitempty"`
	UserID        string   `json:"userId,omitempty"`
	Email         string   `json:"email,omitempty"`
	FullName      string   `json:"fullName,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	Permissions   []string `json:"permissions,omitempty"`
}

// getSession handles GET /auth/session
func (h *AuthHandlers) getSession(w http.ResponseWriter, r *http.Request) {
	h.manager.Initialize(r.Context())
	httputil.WriteSuccess(w, h.currentSession())
}

// login handles POST /auth/session
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var creds platform.Credentials
	if !httputil.ParseJSONOrError(w, r, &creds) {
		return
	}
	if creds.Email == "" || creds.Password == "" {
		httputil.WriteBadRequest(w, "email and password are required")
		return
	}

	if err := h.manager.Login(r.Context(), creds); err != nil {
		httputil.WritePlatformError(w, err)
		return
	}
	httputil.WriteCreated(w, h.currentSession())
}

// logout handles DELETE /auth/session
func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	h.manager.Logout(r.Context())
	httputil.WriteNoContent(w)
}

// refresh handles POST /auth/session/refresh
func (h *AuthHandlers) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Refresh(r.Context()); err != nil {
		if err == auth.ErrNoRefreshToken {
			httputil.WriteErrorMessage(w, http.StatusConflict, "no refresh token in session")
			return
		}
		httputil.WritePlatformError(w, err)
		return
	}
	httputil.WriteSuccess(w, h.currentSession())
}

// setTenant handles PUT /auth/session/tenant
func (h *AuthHandlers) setTenant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TenantID string `json:"tenantId"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	h.manager.SetTenant(r.Context(), req.TenantID)
	httputil.WriteSuccess(w, h.currentSession())
}

func (h *AuthHandlers) currentSession() sessionResponse {
	snap := h.manager.Session()
	resp := sessionResponse{
		Authenticated: snap.User != nil,
		SuperAdmin:    h.manager.IsSuperAdmin(),
		TenantID:      snap.TenantID,
	}
	if snap.User != nil {
		resp.UserID = snap.User.ID
		resp.Email = snap.User.Email
		resp.FullName = snap.User.FullName
		resp.Roles = snap.User.Roles
		resp.Permissions = snap.User.Permissions
	}
	return resp
}
