package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billable/internal/invoice"
)

type clientResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Address string    `json:"address"`
}

type paymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Method      string          `json:"method"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

type invoiceResponse struct {
	ID          uuid.UUID         `json:"id"`
	Number      string            `json:"number"`
	IssueDate   time.Time         `json:"issue_date"`
	DueDate     time.Time         `json:"due_date"`
	ClientID    uuid.UUID         `json:"client_id"`
	Amount      decimal.Decimal   `json:"amount"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	BalanceDue  decimal.Decimal   `json:"balance_due"`
	Client      *clientResponse   `json:"client,omitempty"`
	Payments    []paymentResponse `json:"payments"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		IssueDate:   inv.IssueDate,
		DueDate:     inv.DueDate,
		ClientID:    inv.ClientID,
		Amount:      inv.Amount,
		TotalAmount: inv.TotalAmount,
		BalanceDue:  inv.BalanceDue(),
		Payments:    make([]paymentResponse, 0, len(inv.Payments)),
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}

	if inv.Client != nil {
		resp.Client = &clientResponse{
			ID:      inv.Client.ID,
			Name:    inv.Client.Name,
			Email:   inv.Client.Email,
			Address: inv.Client.Address,
		}
	}

	for _, p := range inv.Payments {
		if p.IsDeleted {
			continue
		}
		resp.Payments = append(resp.Payments, paymentResponse{
			ID:          p.ID,
			InvoiceID:   p.InvoiceID,
			Amount:      p.Amount,
			PaymentDate: p.PaymentDate,
			Method:      p.Method,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}

	return resp
}

func toResponseList(invs []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invs))
	for i, inv := range invs {
		resp[i] = toResponse(inv)
	}

	return resp
}
