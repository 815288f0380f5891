package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billable/internal/client"
)

var (
	// ErrNotFound is returned when an invoice id does not resolve.
	ErrNotFound = errors.New("invoice not found")

	// ErrNegativeAmount is returned when an invoice is constructed or
	// updated with a face amount below zero.
	ErrNegativeAmount = errors.New("amount must be non-negative")

	// ErrNilPayment is returned by AddPayment when the caller passes nil.
	ErrNilPayment = errors.New("payment is required")
)

// Invoice is the aggregate root over its payments. TotalAmount is always
// the sum of the attached non-deleted payments; it is recomputed on every
// mutation rather than adjusted incrementally.
type Invoice struct {
	ID          uuid.UUID
	Number      string
	IssueDate   time.Time
	DueDate     time.Time
	ClientID    uuid.UUID
	Amount      decimal.Decimal
	TotalAmount decimal.Decimal
	Client      *client.Client // Loaded via JOIN
	Payments    []*Payment
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	IsDeleted   bool
}

// New creates an invoice with no payments attached.
func New(number string, issueDate, dueDate time.Time, clientID uuid.UUID, amount decimal.Decimal) (*Invoice, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	inv := &Invoice{
		Number:    number,
		IssueDate: issueDate,
		DueDate:   dueDate,
		ClientID:  clientID,
		Amount:    amount,
	}
	inv.recomputeTotal()

	return inv, nil
}

// AddPayment attaches a payment to the invoice and recomputes TotalAmount.
func (i *Invoice) AddPayment(p *Payment) error {
	if p == nil {
		return ErrNilPayment
	}

	i.Payments = append(i.Payments, p)
	i.recomputeTotal()
	i.touch()

	return nil
}

// Update replaces the mutable fields and keeps TotalAmount consistent.
func (i *Invoice) Update(number string, issueDate, dueDate time.Time, clientID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	i.Number = number
	i.IssueDate = issueDate
	i.DueDate = dueDate
	i.ClientID = clientID
	i.Amount = amount
	i.recomputeTotal()
	i.touch()

	return nil
}

// AttachPayments replaces the payment set with rows loaded from storage and
// recomputes TotalAmount. It does not stamp UpdatedAt: hydration is not a
// mutation.
func (i *Invoice) AttachPayments(ps []*Payment) {
	i.Payments = ps
	i.recomputeTotal()
}

// BalanceDue is the face amount minus the sum of non-deleted payments.
// It may be negative when the invoice is overpaid.
func (i *Invoice) BalanceDue() decimal.Decimal {
	return i.Amount.Sub(i.TotalAmount)
}

// MarkAsDeleted flags the invoice as logically removed. Idempotent.
// Attached payments are not cascaded.
func (i *Invoice) MarkAsDeleted() {
	i.IsDeleted = true
	i.touch()
}

func (i *Invoice) recomputeTotal() {
	total := decimal.Zero
	for _, p := range i.Payments {
		if p.IsDeleted {
			continue
		}

		total = total.Add(p.Amount)
	}

	i.TotalAmount = total
}

func (i *Invoice) touch() {
	now := time.Now().UTC()
	i.UpdatedAt = &now
}
