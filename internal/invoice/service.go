package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billable/internal/client"
	"github.com/MrJamesThe3rd/billable/internal/paging"
	"github.com/MrJamesThe3rd/billable/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	// CreateInvoice persists the invoice and any attached payments as a
	// single unit of work.
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, page, pageSize int) ([]*Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) error

	// AddPayments persists the given payments and the invoice's
	// recomputed total as a single unit of work.
	AddPayments(ctx context.Context, inv *Invoice, ps []*Payment) error
}

// ClientResolver resolves the client an invoice belongs to.
type ClientResolver interface {
	GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error)
}

type Service struct {
	repo    Repository
	clients ClientResolver
}

func NewService(repo Repository, clients ClientResolver) *Service {
	return &Service{repo: repo, clients: clients}
}

// PaymentParams carries the payment fields shared by the standalone
// payment operations and payments embedded in an invoice create.
type PaymentParams struct {
	Amount      decimal.Decimal `validate:"gt=0"`
	PaymentDate time.Time       `validate:"required,notfuture"`
	Method      string          `validate:"required,max=50"`
}

// PaymentMessages holds the violated-rule messages for PaymentParams. The
// payment service reuses it for its own create and update payloads.
var PaymentMessages = validate.Messages{
	"Amount.gt":             "Amount must be positive",
	"PaymentDate.required":  "Payment date is required",
	"PaymentDate.notfuture": "Payment date cannot be in the future",
	"Method.required":       "Payment method is required",
	"Method.max":            "Payment method cannot exceed 50 characters",
}

type CreateParams struct {
	Number    string          `validate:"required,max=50"`
	IssueDate time.Time       `validate:"required,notfuture"`
	DueDate   time.Time       `validate:"required,gtefield=IssueDate"`
	ClientID  uuid.UUID       `validate:"required"`
	Amount    decimal.Decimal `validate:"gte=0"`
	Payments  []PaymentParams `validate:"omitempty,dive"`
}

type UpdateParams struct {
	Number    string          `validate:"required,max=50"`
	IssueDate time.Time       `validate:"required,notfuture"`
	DueDate   time.Time       `validate:"required,gtefield=IssueDate"`
	ClientID  uuid.UUID       `validate:"required"`
	Amount    decimal.Decimal `validate:"gte=0"`
}

var messages = validate.Messages{
	"Number.required":     "Invoice number is required",
	"Number.max":          "Invoice number cannot exceed 50 characters",
	"IssueDate.required":  "Issue date is required",
	"IssueDate.notfuture": "Issue date cannot be in the future",
	"DueDate.required":    "Due date is required",
	"DueDate.gtefield":    "Due date must be on or after issue date",
	"ClientID.required":   "Client ID is required",
	"Amount.gte":          "Amount must be non-negative",
}

// createMessages also covers the rules of embedded payments.
var createMessages = validate.Merge(messages, PaymentMessages)

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

// List returns one page of non-deleted invoices ordered by issue date,
// each hydrated with its client and non-deleted payments.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]*Invoice, error) {
	page, pageSize = paging.Normalize(page, pageSize)
	return s.repo.ListInvoices(ctx, page, pageSize)
}

// Create validates the payload, resolves the owning client, constructs
// the invoice with any embedded payments attached, and commits everything
// in one unit of work. Embedded payments update the derived total before
// the invoice is persisted.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	if err := validate.Struct(params, createMessages); err != nil {
		return nil, err
	}

	c, err := s.clients.GetClient(ctx, params.ClientID)
	if err != nil {
		return nil, err
	}

	inv, err := New(params.Number, params.IssueDate, params.DueDate, params.ClientID, params.Amount)
	if err != nil {
		return nil, err
	}

	for _, pp := range params.Payments {
		// The invoice id is assigned by the store at insert time and
		// backfilled onto the attached payments.
		p, err := NewPayment(inv.ID, pp.Amount, pp.PaymentDate, pp.Method)
		if err != nil {
			return nil, err
		}

		if err := inv.AddPayment(p); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	inv.Client = c

	return inv, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Invoice, error) {
	if err := validate.Struct(params, messages); err != nil {
		return nil, err
	}

	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	// The client id may change; the new client must exist. No further
	// checks are made even when payments are already attached.
	c, err := s.clients.GetClient(ctx, params.ClientID)
	if err != nil {
		return nil, err
	}

	if err := inv.Update(params.Number, params.IssueDate, params.DueDate, params.ClientID, params.Amount); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	inv.Client = c

	return inv, nil
}

// Delete marks the invoice as deleted. Its payments are not cascaded.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	inv.MarkAsDeleted()

	return s.repo.UpdateInvoice(ctx, inv)
}

// ImportPayments validates and attaches a batch of payments (e.g. rows
// parsed from a CSV upload) to the invoice, committing all of them and
// the updated total together. Validation failures across all rows are
// aggregated before anything is resolved or persisted.
func (s *Service) ImportPayments(ctx context.Context, id uuid.UUID, params []PaymentParams) (*Invoice, error) {
	var verrs validate.Errors

	for i, pp := range params {
		err := validate.Struct(pp, PaymentMessages)
		if err == nil {
			continue
		}

		var rowErrs validate.Errors
		if !errors.As(err, &rowErrs) {
			return nil, err
		}

		for _, msg := range rowErrs {
			verrs = append(verrs, fmt.Sprintf("row %d: %s", i+1, msg))
		}
	}

	if len(verrs) > 0 {
		return nil, verrs
	}

	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	payments := make([]*Payment, 0, len(params))

	for _, pp := range params {
		p, err := NewPayment(inv.ID, pp.Amount, pp.PaymentDate, pp.Method)
		if err != nil {
			return nil, err
		}

		if err := inv.AddPayment(p); err != nil {
			return nil, err
		}

		payments = append(payments, p)
	}

	if len(payments) == 0 {
		return inv, nil
	}

	if err := s.repo.AddPayments(ctx, inv, payments); err != nil {
		return nil, err
	}

	return inv, nil
}

// BalanceDue resolves the invoice and returns its face amount minus the
// sum of its non-deleted payments.
func (s *Service) BalanceDue(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	return inv.BalanceDue(), nil
}
