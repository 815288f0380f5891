package invoice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billable/internal/client"
	"github.com/MrJamesThe3rd/billable/internal/invoice"
	"github.com/MrJamesThe3rd/billable/internal/validate"
)

func validCreateParams(clientID uuid.UUID) invoice.CreateParams {
	issue := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	return invoice.CreateParams{
		Number:    "INV-001",
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 1, 0),
		ClientID:  clientID,
		Amount:    amt("500.00"),
	}
}

func testClient(id uuid.UUID) *client.Client {
	return &client.Client{
		ID:      id,
		Name:    "Acme Corp",
		Email:   "billing@acme.test",
		Address: "1 Main St",
	}
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	clientID := uuid.New()

	clients.EXPECT().
		GetClient(gomock.Any(), clientID).
		Return(testClient(clientID), nil)
	repo.EXPECT().
		CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
			inv.ID = uuid.New()
			inv.CreatedAt = time.Now()
			return nil
		})

	got, err := svc.Create(context.Background(), validCreateParams(clientID))
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, clientID, got.ClientID)
	require.NotNil(t, got.Client)
	assert.Equal(t, "Acme Corp", got.Client.Name)
	assert.True(t, got.TotalAmount.IsZero())
}

func TestService_Create_WithEmbeddedPayments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	clientID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	params := validCreateParams(clientID)
	params.Payments = []invoice.PaymentParams{
		{Amount: amt("100.00"), PaymentDate: date, Method: "CreditCard"},
		{Amount: amt("150.00"), PaymentDate: date, Method: "BankTransfer"},
	}

	clients.EXPECT().
		GetClient(gomock.Any(), clientID).
		Return(testClient(clientID), nil)
	repo.EXPECT().
		CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
			inv.ID = uuid.New()
			return nil
		})

	got, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	assert.Len(t, got.Payments, 2)
	assert.True(t, got.TotalAmount.Equal(amt("250.00")))
	assert.True(t, got.BalanceDue().Equal(amt("250.00")))
}

func TestService_Create_ValidationAggregates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	// Everything missing at once; every violated rule must be reported.
	got, err := svc.Create(context.Background(), invoice.CreateParams{Amount: amt("-5")})
	require.Error(t, err)
	assert.Nil(t, got)

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "Invoice number is required")
	assert.Contains(t, verrs, "Issue date is required")
	assert.Contains(t, verrs, "Due date is required")
	assert.Contains(t, verrs, "Client ID is required")
	assert.Contains(t, verrs, "Amount must be non-negative")
}

func TestService_Create_DueDateBeforeIssueDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	params := validCreateParams(uuid.New())
	params.DueDate = params.IssueDate.AddDate(0, 0, -1)

	_, err := svc.Create(context.Background(), params)

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "Due date must be on or after issue date")
}

func TestService_Create_ClientNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	clientID := uuid.New()

	clients.EXPECT().
		GetClient(gomock.Any(), clientID).
		Return(nil, client.ErrNotFound)

	// CreateInvoice must not be reached.
	got, err := svc.Create(context.Background(), validCreateParams(clientID))
	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.Nil(t, got)
}

func TestService_Update_ChangesClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	id := uuid.New()
	oldClient := uuid.New()
	newClient := uuid.New()
	issue := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	existing, err := invoice.New("INV-001", issue, issue.AddDate(0, 1, 0), oldClient, amt("500.00"))
	require.NoError(t, err)
	existing.ID = id

	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(existing, nil)
	clients.EXPECT().
		GetClient(gomock.Any(), newClient).
		Return(testClient(newClient), nil)
	repo.EXPECT().UpdateInvoice(gomock.Any(), existing).Return(nil)

	got, err := svc.Update(context.Background(), id, invoice.UpdateParams{
		Number:    "INV-001-R",
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 2, 0),
		ClientID:  newClient,
		Amount:    amt("600.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, newClient, got.ClientID)
	assert.Equal(t, "INV-001-R", got.Number)
	assert.NotNil(t, got.UpdatedAt)
}

func TestService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	id := uuid.New()
	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(nil, invoice.ErrNotFound)

	got, err := svc.Update(context.Background(), id, invoice.UpdateParams{
		Number:    "INV-001",
		IssueDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		ClientID:  uuid.New(),
		Amount:    amt("500.00"),
	})
	assert.ErrorIs(t, err, invoice.ErrNotFound)
	assert.Nil(t, got)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	id := uuid.New()
	existing := newTestInvoice(t, "500.00")
	existing.ID = id

	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().
		UpdateInvoice(gomock.Any(), existing).
		DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
			assert.True(t, inv.IsDeleted)
			return nil
		})

	require.NoError(t, svc.Delete(context.Background(), id))
}

func TestService_List_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	repo.EXPECT().ListInvoices(gomock.Any(), 1, 10).Return(nil, nil)

	got, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_BalanceDue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	id := uuid.New()
	inv := newTestInvoice(t, "500.00")
	inv.ID = id

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	p, err := invoice.NewPayment(id, amt("100.00"), date, "CreditCard")
	require.NoError(t, err)
	require.NoError(t, inv.AddPayment(p))

	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(inv, nil)

	balance, err := svc.BalanceDue(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, balance.Equal(amt("400.00")))
}

func TestService_ImportPayments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	id := uuid.New()
	inv := newTestInvoice(t, "500.00")
	inv.ID = id

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []invoice.PaymentParams{
		{Amount: amt("100.00"), PaymentDate: date, Method: "CreditCard"},
		{Amount: amt("50.00"), PaymentDate: date, Method: "Cash"},
	}

	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(inv, nil)
	repo.EXPECT().
		AddPayments(gomock.Any(), inv, gomock.Len(2)).
		Return(nil)

	got, err := svc.ImportPayments(context.Background(), id, params)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(amt("150.00")))
}

func TestService_ImportPayments_AggregatesRowErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []invoice.PaymentParams{
		{Amount: amt("0"), PaymentDate: date, Method: "CreditCard"},
		{Amount: amt("50.00"), PaymentDate: date, Method: ""},
	}

	// Nothing is resolved or persisted when any row is invalid.
	got, err := svc.ImportPayments(context.Background(), uuid.New(), params)
	require.Error(t, err)
	assert.Nil(t, got)

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "row 1: Amount must be positive")
	assert.Contains(t, verrs, "row 2: Payment method is required")
}

func TestService_ImportPayments_EmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	clients := invoice.NewMockClientResolver(ctrl)
	svc := invoice.NewService(repo, clients)

	id := uuid.New()
	inv := newTestInvoice(t, "500.00")
	inv.ID = id

	// The invoice is returned untouched; AddPayments is never called.
	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(inv, nil)

	got, err := svc.ImportPayments(context.Background(), id, nil)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.IsZero())
}
