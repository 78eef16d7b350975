package cancellation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brightcare/booking-platform/pkg/logging"
)

// Handler handles HTTP requests for cancellations.
type Handler struct {
	engine *Engine
	logger *logging.Logger
}

// NewHandler creates a cancellation handler.
func NewHandler(engine *Engine, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// CancelAppointment handles POST /api/appointments/{appointmentID}/cancel.
// The Result contract always answers 200; callers branch on success.
func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")
	if appointmentID == "" {
		http.Error(w, "missing appointment id", http.StatusBadRequest)
		return
	}
	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if userID == "" {
		http.Error(w, "missing user identity", http.StatusBadRequest)
		return
	}

	result := h.engine.Cancel(r.Context(), appointmentID, userID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
