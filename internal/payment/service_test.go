package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billable/internal/invoice"
	"github.com/MrJamesThe3rd/billable/internal/payment"
	"github.com/MrJamesThe3rd/billable/internal/validate"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testInvoice(t *testing.T, id uuid.UUID) *invoice.Invoice {
	t.Helper()

	issue := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	inv, err := invoice.New("INV-001", issue, issue.AddDate(0, 1, 0), uuid.New(), amt("500.00"))
	require.NoError(t, err)
	inv.ID = id

	return inv
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	invoices := payment.NewMockInvoiceResolver(ctrl)
	svc := payment.NewService(repo, invoices)

	invoiceID := uuid.New()
	inv := testInvoice(t, invoiceID)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	invoices.EXPECT().GetInvoice(gomock.Any(), invoiceID).Return(inv, nil)
	repo.EXPECT().
		CreatePayment(gomock.Any(), gomock.Any(), inv).
		DoAndReturn(func(_ context.Context, p *invoice.Payment, _ *invoice.Invoice) error {
			p.ID = uuid.New()
			return nil
		})

	got, err := svc.Create(context.Background(), payment.CreateParams{
		InvoiceID: invoiceID,
		PaymentParams: invoice.PaymentParams{
			Amount:      amt("100.00"),
			PaymentDate: date,
			Method:      "CreditCard",
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, invoiceID, got.InvoiceID)
	// The invoice's derived total now reflects the new payment.
	assert.True(t, inv.TotalAmount.Equal(amt("100.00")))
}

func TestService_Create_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	invoices := payment.NewMockInvoiceResolver(ctrl)
	svc := payment.NewService(repo, invoices)

	got, err := svc.Create(context.Background(), payment.CreateParams{})
	require.Error(t, err)
	assert.Nil(t, got)

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "Invoice ID is required")
	assert.Contains(t, verrs, "Amount must be positive")
	assert.Contains(t, verrs, "Payment date is required")
	assert.Contains(t, verrs, "Payment method is required")
}

func TestService_Create_FuturePaymentDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	invoices := payment.NewMockInvoiceResolver(ctrl)
	svc := payment.NewService(repo, invoices)

	_, err := svc.Create(context.Background(), payment.CreateParams{
		InvoiceID: uuid.New(),
		PaymentParams: invoice.PaymentParams{
			Amount:      amt("100.00"),
			PaymentDate: time.Now().Add(48 * time.Hour),
			Method:      "CreditCard",
		},
	})

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "Payment date cannot be in the future")
}

func TestService_Create_InvoiceNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	invoices := payment.NewMockInvoiceResolver(ctrl)
	svc := payment.NewService(repo, invoices)

	invoiceID := uuid.New()
	invoices.EXPECT().GetInvoice(gomock.Any(), invoiceID).Return(nil, invoice.ErrNotFound)

	got, err := svc.Create(context.Background(), payment.CreateParams{
		InvoiceID: invoiceID,
		PaymentParams: invoice.PaymentParams{
			Amount:      amt("100.00"),
			PaymentDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Method:      "CreditCard",
		},
	})
	assert.ErrorIs(t, err, invoice.ErrNotFound)
	assert.Nil(t, got)
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	invoices := payment.NewMockInvoiceResolver(ctrl)
	svc := payment.NewService(repo, invoices)

	id := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	existing, err := invoice.NewPayment(uuid.New(), amt("100.00"), date, "CreditCard")
	require.NoError(t, err)
	existing.ID = id

	repo.EXPECT().GetPayment(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdatePayment(gomock.Any(), existing).Return(nil)

	got, err := svc.Update(context.Background(), id, invoice.PaymentParams{
		Amount:      amt("200.00"),
		PaymentDate: date,
		Method:      "Cash",
	})
	require.NoError(t, err)

	assert.True(t, got.Amount.Equal(amt("200.00")))
	assert.Equal(t, "Cash", got.Method)
	assert.NotNil(t, got.UpdatedAt)
}

func TestService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	invoices := payment.NewMockInvoiceResolver(ctrl)
	svc := payment.NewService(repo, invoices)

	id := uuid.New()
	repo.EXPECT().GetPayment(gomock.Any(), id).Return(nil, payment.ErrNotFound)

	got, err := svc.Update(context.Background(), id, invoice.PaymentParams{
		Amount:      amt("200.00"),
		PaymentDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Method:      "Cash",
	})
	assert.ErrorIs(t, err, payment.ErrNotFound)
	assert.Nil(t, got)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	invoices := payment.NewMockInvoiceResolver(ctrl)
	svc := payment.NewService(repo, invoices)

	id := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	existing, err := invoice.NewPayment(uuid.New(), amt("100.00"), date, "CreditCard")
	require.NoError(t, err)
	existing.ID = id

	repo.EXPECT().GetPayment(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().
		UpdatePayment(gomock.Any(), existing).
		DoAndReturn(func(_ context.Context, p *invoice.Payment) error {
			assert.True(t, p.IsDeleted)
			return nil
		})

	require.NoError(t, svc.Delete(context.Background(), id))
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	invoices := payment.NewMockInvoiceResolver(ctrl)
	svc := payment.NewService(repo, invoices)

	repo.EXPECT().
		ListPayments(gomock.Any(), 1, 10).
		Return([]*invoice.Payment{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	got, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_ListByInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	invoices := payment.NewMockInvoiceResolver(ctrl)
	svc := payment.NewService(repo, invoices)

	invoiceID := uuid.New()
	repo.EXPECT().
		ListPaymentsByInvoice(gomock.Any(), invoiceID, 1, 10).
		Return([]*invoice.Payment{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	got, err := svc.ListByInvoice(context.Background(), invoiceID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
