package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/brightcare/booking-platform/pkg/logging"
)

// Handler handles HTTP requests for bookings.
type Handler struct {
	orchestrator *Orchestrator
	logger       *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(orchestrator *Orchestrator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{orchestrator: orchestrator, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateBooking handles POST /api/bookings. The authenticated user id is
// supplied by the edge via X-User-ID.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	req.UserID = strings.TrimSpace(r.Header.Get("X-User-ID"))
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing user identity"})
		return
	}
	if req.SlotID == "" || req.AppointmentType == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "slot_id and appointment_type are required"})
		return
	}

	result, err := h.orchestrator.Book(r.Context(), req)
	if err != nil {
		writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrSlotNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSlotAlreadyBooked):
		return http.StatusConflict
	case errors.Is(err, ErrPaymentMethodNotAllowed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrPaymentFailed):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
