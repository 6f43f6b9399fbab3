package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/backoffice/pkg/httputil"
	"github.com/platinummonkey/backoffice/pkg/notify"
)

// NotificationHandlers exposes the notification feed
type NotificationHandlers struct {
	center *notify.Center
}

// NewNotificationHandlers creates a new notification handlers instance
func NewNotificationHandlers(center *notify.Center) *NotificationHandlers {
	return &NotificationHandlers{center: center}
}

// RegisterRoutes registers notification routes
func (h *NotificationHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/notifications", h.list).Methods("GET")
	router.HandleFunc("/notifications/{id}", h.dismiss).Methods("DELETE")
}

// list handles GET /notifications
func (h *NotificationHandlers) list(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, h.center.Active())
}

// dismiss handles DELETE /notifications/{id}
func (h *NotificationHandlers) dismiss(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	h.center.Dismiss(id)
	httputil.WriteNoContent(w)
}
