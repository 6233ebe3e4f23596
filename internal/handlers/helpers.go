package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hyprland-community/Hyprmaid/internal/models"
)

// writeJSON writes a JSON response with the given status code
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("Failed to encode JSON response", err)
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.log.With("error_code", code).
		With("status_code", status).
		Debug(message)

	h.writeJSON(w, &models.ErrorResponse{Error: message, Code: code}, status)
}
