// Package payments holds the payment policy table and the payment processor.
package payments

import (
	"fmt"
	"strings"
)

// Payment methods accepted across the platform.
const (
	MethodOnline    = "ONLINE"
	MethodPhysical  = "PHYSICAL"
	MethodInsurance = "INSURANCE"
	// MethodPending means the patient has not chosen a method yet.
	MethodPending = "PENDING"
)

// Policy is the per-appointment-type rule set: which payment methods are
// accepted (ordered, first is preferred), whether payment is taken at booking
// time, and the fixed price.
type Policy struct {
	AllowedMethods     []string `json:"allowed_methods"`
	RequiresPrePayment bool     `json:"requires_pre_payment"`
	PriceCents         int64    `json:"price_cents"`
}

// PolicyEngine answers payment-policy questions for appointment types. The
// table is immutable after construction; lookups are case-insensitive and
// total (unknown types fall back to a conservative default).
type PolicyEngine struct {
	policies map[string]Policy
	fallback Policy
}

// DefaultPolicies is the embedded appointment-type table.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		"consultation": {
			AllowedMethods:     []string{MethodOnline, MethodPhysical, MethodInsurance},
			RequiresPrePayment: true,
			PriceCents:         10000,
		},
		"follow-up": {
			AllowedMethods:     []string{MethodOnline, MethodPhysical},
			RequiresPrePayment: false,
			PriceCents:         5000,
		},
		"checkup": {
			AllowedMethods:     []string{MethodOnline, MethodPhysical, MethodInsurance},
			RequiresPrePayment: false,
			PriceCents:         7500,
		},
		"emergency": {
			AllowedMethods:     []string{MethodPhysical, MethodInsurance},
			RequiresPrePayment: false,
			PriceCents:         20000,
		},
		"virtual-consultation": {
			AllowedMethods:     []string{MethodOnline},
			RequiresPrePayment: true,
			PriceCents:         8000,
		},
		"physical-therapy": {
			AllowedMethods:     []string{MethodOnline, MethodPhysical, MethodInsurance},
			RequiresPrePayment: false,
			PriceCents:         12000,
		},
		"lab-test": {
			AllowedMethods:     []string{MethodOnline, MethodPhysical},
			RequiresPrePayment: true,
			PriceCents:         15000,
		},
	}
}

// NewPolicyEngine builds an engine over the given table. A nil table uses
// DefaultPolicies. The input map is copied so the engine stays immutable.
func NewPolicyEngine(policies map[string]Policy) *PolicyEngine {
	if policies == nil {
		policies = DefaultPolicies()
	}
	table := make(map[string]Policy, len(policies))
	for appointmentType, policy := range policies {
		table[normalizeType(appointmentType)] = policy
	}
	return &PolicyEngine{
		policies: table,
		fallback: Policy{
			AllowedMethods:     []string{MethodOnline, MethodPhysical},
			RequiresPrePayment: false,
			PriceCents:         5000,
		},
	}
}

func normalizeType(appointmentType string) string {
	return strings.ToLower(strings.TrimSpace(appointmentType))
}

// Lookup returns the policy for an appointment type, falling back to the
// default policy for unknown types.
func (e *PolicyEngine) Lookup(appointmentType string) Policy {
	if policy, ok := e.policies[normalizeType(appointmentType)]; ok {
		return policy
	}
	return e.fallback
}

// AllowedMethods returns the ordered list of accepted payment methods.
func (e *PolicyEngine) AllowedMethods(appointmentType string) []string {
	policy := e.Lookup(appointmentType)
	methods := make([]string, len(policy.AllowedMethods))
	copy(methods, policy.AllowedMethods)
	return methods
}

// RequiresPrePayment reports whether payment is taken at booking time.
func (e *PolicyEngine) RequiresPrePayment(appointmentType string) bool {
	return e.Lookup(appointmentType).RequiresPrePayment
}

// PriceCents returns the fixed price for the appointment type.
func (e *PolicyEngine) PriceCents(appointmentType string) int64 {
	return e.Lookup(appointmentType).PriceCents
}

// Validate reports whether the method is accepted for the appointment type.
func (e *PolicyEngine) Validate(appointmentType, method string) bool {
	method = strings.ToUpper(strings.TrimSpace(method))
	for _, allowed := range e.Lookup(appointmentType).AllowedMethods {
		if allowed == method {
			return true
		}
	}
	return false
}

// Instructions renders human-readable payment guidance for a method.
func (e *PolicyEngine) Instructions(method, appointmentType string) string {
	price := float64(e.PriceCents(appointmentType)) / 100

	switch strings.ToUpper(strings.TrimSpace(method)) {
	case MethodOnline:
		return fmt.Sprintf("Please complete your payment of $%.2f now. A secure payment link has been emailed to you.", price)
	case MethodPhysical:
		return fmt.Sprintf("Please pay $%.2f at the clinic. Arrive 15 minutes early to complete payment before your appointment.", price)
	case MethodInsurance:
		return "Please bring your insurance card to verify coverage at your appointment."
	case MethodPending:
		return "Please select a payment method to complete your booking."
	default:
		return "Please select a payment method to complete your booking."
	}
}
