// FILE: internal/entity/transaction_entity.go
package entity

import (
	"time"

	"ramein-web/internal/pkg/apperrors"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsTerminal reports whether no further transition is expected by this client.
// Once terminal, polling must halt.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusExpired,
		PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// Transaction is the client-side snapshot of one payment attempt. The
// authoritative state lives in the backend; this copy is transient and
// replaced wholesale on every fetch.
type Transaction struct {
	OrderId       string
	PaymentStatus PaymentStatus
	Amount        int64
	AdminFee      int64
	TotalAmount   int64
	PaymentMethod string
	VaNumber      string
	BankName      string
	SnapToken     string
	ExpiredAt     *time.Time
	CreatedAt     time.Time
	PaidAt        *time.Time
}

// ValidateTotals flags a server-provided total that disagrees with
// amount + adminFee. Callers log the anomaly and keep displaying the
// server total; the client never recomputes it.
func (t *Transaction) ValidateTotals() error {
	if t.TotalAmount != t.Amount+t.AdminFee {
		return &apperrors.TotalMismatchError{
			OrderID:     t.OrderId,
			Amount:      t.Amount,
			AdminFee:    t.AdminFee,
			TotalAmount: t.TotalAmount,
		}
	}
	return nil
}

// HasExpiry reports whether a settlement deadline applies (e.g. bank
// transfer VA). Absence means no countdown is shown.
func (t *Transaction) HasExpiry() bool {
	return t.ExpiredAt != nil && t.PaymentStatus == PaymentStatusPending
}
