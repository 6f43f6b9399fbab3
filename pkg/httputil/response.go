// Package httputil provides HTTP handler utilities for consistent error
// handling, JSON encoding/decoding, and request parsing.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/platinummonkey/backoffice/pkg/platform"
)

// ErrorResponse is the standardized error envelope
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteErrorMessage writes a JSON error response with a custom message
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteBadRequest writes a 400 error response
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusBadRequest, message)
}

// WriteSuccess writes a 200 response with JSON data
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a 201 response with JSON data
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteNoContent writes a 204 response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WritePlatformError maps a classified platform error onto the gateway
// response. Authentication and authorization details are not leaked; the
// guard and cache layers have already reacted to them.
func WritePlatformError(w http.ResponseWriter, err error) {
	switch {
	case platform.IsAuthFailure(err):
		WriteErrorMessage(w, http.StatusUnauthorized, "authentication required")
	case platform.IsPermissionDenied(err):
		WriteErrorMessage(w, http.StatusForbidden, "insufficient permissions")
	case platform.IsValidation(err):
		WriteErrorMessage(w, http.StatusUnprocessableEntity, platform.UserMessage(err))
	case platform.IsTransient(err):
		WriteErrorMessage(w, http.StatusBadGateway, "upstream unavailable")
	default:
		WriteErrorMessage(w, http.StatusInternalServerError, platform.UserMessage(err))
	}
}
