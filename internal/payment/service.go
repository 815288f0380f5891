package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billable/internal/invoice"
	"github.com/MrJamesThe3rd/billable/internal/paging"
	"github.com/MrJamesThe3rd/billable/internal/validate"
)

// ErrNotFound is returned when a payment id does not resolve.
var ErrNotFound = errors.New("payment not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payment
type Repository interface {
	// CreatePayment inserts the payment and persists the invoice's
	// recomputed total as a single unit of work.
	CreatePayment(ctx context.Context, p *invoice.Payment, inv *invoice.Invoice) error
	GetPayment(ctx context.Context, id uuid.UUID) (*invoice.Payment, error)
	ListPayments(ctx context.Context, page, pageSize int) ([]*invoice.Payment, error)
	ListPaymentsByInvoice(ctx context.Context, invoiceID uuid.UUID, page, pageSize int) ([]*invoice.Payment, error)
	UpdatePayment(ctx context.Context, p *invoice.Payment) error
}

// InvoiceResolver resolves the invoice a payment is made against.
type InvoiceResolver interface {
	GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error)
}

type Service struct {
	repo     Repository
	invoices InvoiceResolver
}

func NewService(repo Repository, invoices InvoiceResolver) *Service {
	return &Service{repo: repo, invoices: invoices}
}

type CreateParams struct {
	InvoiceID uuid.UUID `validate:"required"`
	invoice.PaymentParams
}

var createMessages = validate.Merge(invoice.PaymentMessages, validate.Messages{
	"InvoiceID.required": "Invoice ID is required",
})

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*invoice.Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

// List returns one page of all non-deleted payments ordered by payment
// date.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]*invoice.Payment, error) {
	page, pageSize = paging.Normalize(page, pageSize)
	return s.repo.ListPayments(ctx, page, pageSize)
}

// ListByInvoice returns one page of the invoice's non-deleted payments
// ordered by payment date.
func (s *Service) ListByInvoice(ctx context.Context, invoiceID uuid.UUID, page, pageSize int) ([]*invoice.Payment, error) {
	page, pageSize = paging.Normalize(page, pageSize)
	return s.repo.ListPaymentsByInvoice(ctx, invoiceID, page, pageSize)
}

// Create validates the payload, resolves the invoice, attaches the new
// payment (updating the invoice's derived total) and commits both rows
// together.
func (s *Service) Create(ctx context.Context, params CreateParams) (*invoice.Payment, error) {
	if err := validate.Struct(params, createMessages); err != nil {
		return nil, err
	}

	inv, err := s.invoices.GetInvoice(ctx, params.InvoiceID)
	if err != nil {
		return nil, err
	}

	p, err := invoice.NewPayment(params.InvoiceID, params.Amount, params.PaymentDate, params.Method)
	if err != nil {
		return nil, err
	}

	if err := inv.AddPayment(p); err != nil {
		return nil, err
	}

	if err := s.repo.CreatePayment(ctx, p, inv); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params invoice.PaymentParams) (*invoice.Payment, error) {
	if err := validate.Struct(params, invoice.PaymentMessages); err != nil {
		return nil, err
	}

	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Update(params.Amount, params.PaymentDate, params.Method); err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Delete marks the payment as deleted. The invoice's derived total is
// re-derived from non-deleted payments on every load, so no invoice row
// needs touching here.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return err
	}

	p.MarkAsDeleted()

	return s.repo.UpdatePayment(ctx, p)
}
