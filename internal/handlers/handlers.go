package handlers

import (
	"net/http"
	"time"

	"github.com/hyprland-community/Hyprmaid/internal/logger"
	"github.com/hyprland-community/Hyprmaid/internal/models"
	"github.com/hyprland-community/Hyprmaid/internal/reconcile"
)

// LoopStatus reports the reconciliation loop state
type LoopStatus interface {
	Status() reconcile.Status
}

// GatewayStatus reports the chat gateway connection
type GatewayStatus interface {
	GetConnectionStatus() map[string]interface{}
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	loop    LoopStatus
	gateway GatewayStatus
	log     *logger.Logger
	now     func() time.Time
}

// New creates a new handler instance. gateway may be nil.
func New(loop LoopStatus, gateway GatewayStatus, log *logger.Logger) *Handler {
	return &Handler{
		loop:    loop,
		gateway: gateway,
		log:     log,
		now:     time.Now,
	}
}

// HealthCheck reports the loop state. An aborted loop answers 503.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	status := h.loop.Status()

	response := &models.HealthResponse{
		Status:    "ok",
		State:     string(status.State),
		Passes:    status.Passes,
		LastPass:  status.LastPass,
		Timestamp: h.now().Unix(),
	}

	code := http.StatusOK
	if status.State == reconcile.StateAborted {
		response.Status = "aborted"
		code = http.StatusServiceUnavailable
	}

	// Add gateway details if requested
	if r.URL.Query().Get("detailed") == "true" && h.gateway != nil {
		response.ConnectionStatus = h.gateway.GetConnectionStatus()
	}

	h.writeJSON(w, response, code)
}

// LastPass returns the most recent pass report
func (h *Handler) LastPass(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	status := h.loop.Status()
	if status.LastPass == nil {
		h.writeError(w, http.StatusNotFound, "NOT_FOUND", "No reconciliation pass has run yet")
		return
	}

	h.writeJSON(w, status.LastPass, http.StatusOK)
}
