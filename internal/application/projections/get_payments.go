package projections

import (
	"context"
	"time"

	paymentStore "studio/internal/adapters/storage/payment"
	"studio/internal/domain/payment"
)

// PaymentListPaymentStore defines the payment store interface for the payment list.
type PaymentListPaymentStore interface {
	List(ctx context.Context, filter paymentStore.ListFilter) ([]payment.Payment, error)
	ListByMember(ctx context.Context, memberEmail string) ([]payment.Payment, error)
}

// PaymentListDeps holds dependencies for the payment list projection.
type PaymentListDeps struct {
	PaymentStore PaymentListPaymentStore
}

// PaymentEntry is one recorded payment, flattened for display.
type PaymentEntry struct {
	ID          string `json:"id"`
	MemberEmail string `json:"memberEmail"`
	AmountCents int    `json:"amountCents"`
	Method      string `json:"method"`
	PlanName    string `json:"planName,omitempty"`
	PaidAt      string `json:"paidAt"`
}

// PaymentListInput narrows the listing. MemberEmail takes precedence
// over Method when both are set.
type PaymentListInput struct {
	MemberEmail string
	Method      string
}

// QueryPayments returns recorded payments, newest first for member
// listings. Amounts stay in cents; formatting is the client's job.
// PRE: store is reachable
// POST: Returns zero or more payment entries
func QueryPayments(ctx context.Context, input PaymentListInput, deps PaymentListDeps) ([]PaymentEntry, error) {
	var (
		payments []payment.Payment
		err      error
	)
	if input.MemberEmail != "" {
		payments, err = deps.PaymentStore.ListByMember(ctx, input.MemberEmail)
	} else {
		payments, err = deps.PaymentStore.List(ctx, paymentStore.ListFilter{Method: input.Method})
	}
	if err != nil {
		return nil, err
	}

	entries := make([]PaymentEntry, 0, len(payments))
	for _, p := range payments {
		entries = append(entries, PaymentEntry{
			ID:          p.ID,
			MemberEmail: p.MemberEmail,
			AmountCents: p.AmountCents,
			Method:      p.Method,
			PlanName:    p.PlanName,
			PaidAt:      p.PaidAt.Format(time.RFC3339),
		})
	}
	return entries, nil
}
