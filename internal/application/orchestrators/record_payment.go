package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"studio/internal/domain/payment"
)

// PaymentStoreForRecord defines the store interface needed by RecordPayment.
type PaymentStoreForRecord interface {
	Create(ctx context.Context, p payment.Payment) error
}

// RecordPaymentInput carries input for the payment orchestrator.
type RecordPaymentInput struct {
	MemberEmail string
	AmountCents int
	Method      string
	PlanName    string
}

// RecordPaymentDeps holds dependencies for RecordPayment.
type RecordPaymentDeps struct {
	PaymentStore PaymentStoreForRecord
}

// ExecuteRecordPayment validates and persists a payment record.
// PRE: Input supplied by an authenticated caller
// POST: Payment persisted with a generated ID and PaidAt set to now
func ExecuteRecordPayment(ctx context.Context, input RecordPaymentInput, deps RecordPaymentDeps) (payment.Payment, error) {
	p := payment.Payment{
		ID:          uuid.New().String(),
		MemberEmail: input.MemberEmail,
		AmountCents: input.AmountCents,
		Method:      input.Method,
		PlanName:    input.PlanName,
		PaidAt:      time.Now(),
	}
	if err := p.Validate(); err != nil {
		return payment.Payment{}, err
	}

	if err := deps.PaymentStore.Create(ctx, p); err != nil {
		slog.Error("payment_event", "event", "payment_store_failed", "error", err.Error())
		return payment.Payment{}, fmt.Errorf("%w: %v", ErrStorageFault, err)
	}

	slog.Info("payment_event", "event", "payment_recorded",
		"payment_id", p.ID, "method", p.Method, "amount_cents", p.AmountCents)
	return p, nil
}
