package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightcare/booking-platform/internal/appointments"
	"github.com/brightcare/booking-platform/internal/booking"
	"github.com/brightcare/booking-platform/internal/cancellation"
	"github.com/brightcare/booking-platform/internal/payments"
	"github.com/brightcare/booking-platform/internal/slots"
)

type fixture struct {
	handler   http.Handler
	slotStore *slots.MemoryStore
	apptStore *appointments.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	slotStore := slots.NewMemoryStore()
	apptStore := appointments.NewMemoryStore()
	policies := payments.NewPolicyEngine(nil)
	processor := payments.NewSimulatedProcessor(nil)

	orchestrator := booking.NewOrchestrator(slotStore, apptStore, policies, processor, nil, nil, nil)
	engine := cancellation.NewEngine(apptStore, slotStore, policies, nil, nil, nil)

	handler := New(&Config{
		BookingHandler:      booking.NewHandler(orchestrator, nil),
		CancellationHandler: cancellation.NewHandler(engine, nil),
		SlotsHandler:        slots.NewHandler(slotStore, nil),
		PolicyHandler:       payments.NewPolicyHandler(policies),
	})
	return &fixture{handler: handler, slotStore: slotStore, apptStore: apptStore}
}

func (f *fixture) createSlot(t *testing.T, id string, booked bool) {
	t.Helper()
	err := f.slotStore.Create(context.Background(), &slots.Slot{
		ID:        id,
		ClinicID:  "clinic-1",
		StartTime: time.Now().Add(72 * time.Hour).UTC(),
		EndTime:   time.Now().Add(72*time.Hour + 30*time.Minute).UTC(),
		IsBooked:  booked,
	})
	require.NoError(t, err)
}

func (f *fixture) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.createSlot(t, "slot-1", false)

	rec := f.do(t, http.MethodPost, "/api/bookings", "user-1", map[string]string{
		"slot_id":          "slot-1",
		"appointment_type": "consultation",
		"title":            "Initial consultation",
		"payment_method":   "ONLINE",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result booking.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(10000), result.AmountCents)
	assert.NotEmpty(t, result.TransactionID)
	assert.NotEmpty(t, result.PaymentInstructions)

	// The booked slot disappears from the availability listing.
	listRec := f.do(t, http.MethodGet, "/api/clinics/clinic-1/slots", "", nil)
	require.Equal(t, http.StatusOK, listRec.Code)
	var listing slots.ListAvailableResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listing))
	assert.Zero(t, listing.Count)
}

func TestBookingConflictMapsTo409(t *testing.T) {
	f := newFixture(t)
	f.createSlot(t, "slot-4", true)

	rec := f.do(t, http.MethodPost, "/api/bookings", "user-1", map[string]string{
		"slot_id":          "slot-4",
		"appointment_type": "consultation",
		"payment_method":   "ONLINE",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookingDisallowedMethodMapsTo422(t *testing.T) {
	f := newFixture(t)
	f.createSlot(t, "slot-1", false)

	rec := f.do(t, http.MethodPost, "/api/bookings", "user-1", map[string]string{
		"slot_id":          "slot-1",
		"appointment_type": "emergency",
		"payment_method":   "ONLINE",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestBookingRequiresUserIdentity(t *testing.T) {
	f := newFixture(t)
	f.createSlot(t, "slot-1", false)

	rec := f.do(t, http.MethodPost, "/api/bookings", "", map[string]string{
		"slot_id":          "slot-1",
		"appointment_type": "consultation",
		"payment_method":   "ONLINE",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.createSlot(t, "slot-1", false)

	bookRec := f.do(t, http.MethodPost, "/api/bookings", "user-1", map[string]string{
		"slot_id":          "slot-1",
		"appointment_type": "consultation",
		"payment_method":   "ONLINE",
	})
	require.Equal(t, http.StatusCreated, bookRec.Code)
	var booked booking.Result
	require.NoError(t, json.Unmarshal(bookRec.Body.Bytes(), &booked))

	// Cancel as a different user first: permission failure, slot stays booked.
	denyRec := f.do(t, http.MethodPost, "/api/appointments/"+booked.AppointmentID+"/cancel", "user-2", nil)
	require.Equal(t, http.StatusOK, denyRec.Code)
	var denied cancellation.Result
	require.NoError(t, json.Unmarshal(denyRec.Body.Bytes(), &denied))
	assert.False(t, denied.Success)

	slot, err := f.slotStore.GetByID(context.Background(), "slot-1")
	require.NoError(t, err)
	assert.True(t, slot.IsBooked)

	// Owner cancels: full refund (slot is 72h out) and the slot frees up.
	rec := f.do(t, http.MethodPost, "/api/appointments/"+booked.AppointmentID+"/cancel", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result cancellation.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, cancellation.FullRefund, result.RefundStatus)
	assert.Equal(t, int64(10000), result.RefundAmountCents)

	slot, err = f.slotStore.GetByID(context.Background(), "slot-1")
	require.NoError(t, err)
	assert.False(t, slot.IsBooked)
}

func TestPolicyInspection(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/policies/emergency", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var policy payments.PolicyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &policy))
	assert.Equal(t, []string{"PHYSICAL", "INSURANCE"}, policy.AllowedMethods)
	assert.Equal(t, int64(20000), policy.PriceCents)
}
