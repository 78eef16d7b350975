package slots

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightcare/booking-platform/pkg/logging"
)

// Handler serves read-only slot queries.
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates a slots handler.
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// ListAvailableResponse is the response for listing available slots.
type ListAvailableResponse struct {
	Slots []*Slot `json:"slots"`
	Count int     `json:"count"`
}

// ListAvailable handles GET /api/clinics/{clinicID}/slots.
func (h *Handler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	clinicID := chi.URLParam(r, "clinicID")
	if clinicID == "" {
		http.Error(w, "missing clinic id", http.StatusBadRequest)
		return
	}

	available, err := h.store.GetAvailableByClinic(r.Context(), clinicID)
	if err != nil {
		h.logger.Error("failed to list available slots", "clinic_id", clinicID, "error", err)
		http.Error(w, "failed to list slots", http.StatusInternalServerError)
		return
	}
	if available == nil {
		available = []*Slot{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ListAvailableResponse{Slots: available, Count: len(available)})
}
