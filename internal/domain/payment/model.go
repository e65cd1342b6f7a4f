package payment

import (
	"errors"
	"strings"
	"time"
)

// Payment method constants
const (
	MethodCash = "cash"
	MethodCard = "card"
	MethodBank = "bank_transfer"
)

// ValidMethods contains all valid payment methods.
var ValidMethods = []string{MethodCash, MethodCard, MethodBank}

// Domain errors
var (
	ErrEmptyMemberEmail = errors.New("member email cannot be empty")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidMethod    = errors.New("method must be one of: cash, card, bank_transfer")
)

// Payment records money received from a member. Plain
// validate-then-persist; no gateway integration.
type Payment struct {
	ID          string
	MemberEmail string
	AmountCents int
	Method      string
	PlanName    string
	PaidAt      time.Time
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Payment) Validate() error {
	if strings.TrimSpace(p.MemberEmail) == "" {
		return ErrEmptyMemberEmail
	}
	if p.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if !isValidMethod(p.Method) {
		return ErrInvalidMethod
	}
	return nil
}

func isValidMethod(method string) bool {
	for _, m := range ValidMethods {
		if m == method {
			return true
		}
	}
	return false
}
