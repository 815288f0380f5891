package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNonPositiveAmount is returned when a payment is constructed or
	// updated with an amount of zero or less.
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// ErrMissingMethod is returned when a payment carries no method label.
	ErrMissingMethod = errors.New("payment method is required")
)

// Payment is money received against an invoice. The method is a free-text
// label (e.g. "CreditCard", "BankTransfer").
type Payment struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	IsDeleted   bool
}

func NewPayment(invoiceID uuid.UUID, amount decimal.Decimal, paymentDate time.Time, method string) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	if method == "" {
		return nil, ErrMissingMethod
	}

	return &Payment{
		InvoiceID:   invoiceID,
		Amount:      amount,
		PaymentDate: paymentDate,
		Method:      method,
	}, nil
}

// Update replaces the payment's mutable fields, enforcing the same
// invariants as construction.
func (p *Payment) Update(amount decimal.Decimal, paymentDate time.Time, method string) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	if method == "" {
		return ErrMissingMethod
	}

	p.Amount = amount
	p.PaymentDate = paymentDate
	p.Method = method
	p.touch()

	return nil
}

// MarkAsDeleted flags the payment as logically removed. Idempotent.
func (p *Payment) MarkAsDeleted() {
	p.IsDeleted = true
	p.touch()
}

func (p *Payment) touch() {
	now := time.Now().UTC()
	p.UpdatedAt = &now
}
