package payments

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PolicyHandler exposes the embedded policy table as a read-only query.
type PolicyHandler struct {
	engine *PolicyEngine
}

// NewPolicyHandler creates a policy inspection handler.
func NewPolicyHandler(engine *PolicyEngine) *PolicyHandler {
	return &PolicyHandler{engine: engine}
}

// PolicyResponse describes the payment rules for one appointment type.
type PolicyResponse struct {
	AppointmentType    string   `json:"appointment_type"`
	AllowedMethods     []string `json:"allowed_methods"`
	RequiresPrePayment bool     `json:"requires_pre_payment"`
	PriceCents         int64    `json:"price_cents"`
}

// GetPolicy handles GET /api/policies/{appointmentType}. Unknown types answer
// with the default policy, mirroring the engine's total-function contract.
func (h *PolicyHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	appointmentType := chi.URLParam(r, "appointmentType")
	if appointmentType == "" {
		http.Error(w, "missing appointment type", http.StatusBadRequest)
		return
	}

	policy := h.engine.Lookup(appointmentType)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(PolicyResponse{
		AppointmentType:    appointmentType,
		AllowedMethods:     policy.AllowedMethods,
		RequiresPrePayment: policy.RequiresPrePayment,
		PriceCents:         policy.PriceCents,
	})
}
