package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/brightcare/booking-platform/pkg/logging"
)

// Processor executes a payment attempt. Implementations can call a real
// gateway; callers only depend on this contract.
type Processor interface {
	Process(ctx context.Context, appointmentID string, amountCents int64) (*ProcessResult, error)
}

// ProcessResult is the outcome of a payment attempt.
type ProcessResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id,omitempty"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// SimulatedProcessor stands in for a payment gateway: positive amounts
// succeed deterministically with a fresh transaction id, everything else
// fails. Swap in a gateway-backed Processor without changing callers.
type SimulatedProcessor struct {
	logger *logging.Logger
}

// NewSimulatedProcessor creates the simulated gateway.
func NewSimulatedProcessor(logger *logging.Logger) *SimulatedProcessor {
	if logger == nil {
		logger = logging.Default()
	}
	return &SimulatedProcessor{logger: logger}
}

// Process settles the payment according to the deterministic rule.
func (p *SimulatedProcessor) Process(ctx context.Context, appointmentID string, amountCents int64) (*ProcessResult, error) {
	if amountCents <= 0 {
		p.logger.Warn("payment rejected", "appointment_id", appointmentID, "amount_cents", amountCents)
		return &ProcessResult{
			Success: false,
			Status:  "FAILED",
			Message: "payment amount must be greater than zero",
		}, nil
	}

	transactionID := "txn-" + uuid.NewString()
	p.logger.Info("payment captured",
		"appointment_id", appointmentID,
		"amount_cents", amountCents,
		"transaction_id", transactionID,
	)
	return &ProcessResult{
		Success:       true,
		TransactionID: transactionID,
		Status:        "COMPLETED",
		Message:       fmt.Sprintf("payment of $%.2f completed", float64(amountCents)/100),
	}, nil
}
