package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billable/internal/client"
	"github.com/MrJamesThe3rd/billable/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: invoice columns, then the joined client columns.
const selectInvoiceColumns = `
	i.id, i.number, i.issue_date, i.due_date, i.client_id, i.amount,
	i.created_at, i.updated_at, i.is_deleted,
	c.name, c.email, c.address, c.created_at, c.updated_at, c.is_deleted
`

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var (
		inv invoice.Invoice
		cl  client.Client
	)

	if err := s.Scan(
		&inv.ID, &inv.Number, &inv.IssueDate, &inv.DueDate, &inv.ClientID, &inv.Amount,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.IsDeleted,
		&cl.Name, &cl.Email, &cl.Address, &cl.CreatedAt, &cl.UpdatedAt, &cl.IsDeleted,
	); err != nil {
		return nil, err
	}

	cl.ID = inv.ClientID
	inv.Client = &cl

	return &inv, nil
}

// CreateInvoice inserts the invoice and its attached payments inside one
// database transaction. Generated ids and timestamps are backfilled onto
// the entities.
func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	invoiceQuery := `
		INSERT INTO invoices (number, issue_date, due_date, client_id, amount, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, invoiceQuery,
		inv.Number,
		inv.IssueDate,
		inv.DueDate,
		inv.ClientID,
		inv.Amount,
		inv.TotalAmount,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	paymentQuery := `
		INSERT INTO payments (invoice_id, amount, payment_date, method, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	for _, p := range inv.Payments {
		p.InvoiceID = inv.ID

		err := tx.QueryRowContext(ctx, paymentQuery,
			p.InvoiceID,
			p.Amount,
			p.PaymentDate,
			p.Method,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating invoice payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing invoice: %w", err)
	}

	return nil
}

// AddPayments inserts the given payments and persists the invoice's
// recomputed total inside one database transaction.
func (s *Store) AddPayments(ctx context.Context, inv *invoice.Invoice, ps []*invoice.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO payments (invoice_id, amount, payment_date, method, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	for _, p := range ps {
		err := tx.QueryRowContext(ctx, query,
			p.InvoiceID,
			p.Amount,
			p.PaymentDate,
			p.Method,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating payment: %w", err)
		}
	}

	totalQuery := `
		UPDATE invoices
		SET total_amount = $1, updated_at = NOW()
		WHERE id = $2 AND is_deleted = FALSE
	`

	if _, err := tx.ExecContext(ctx, totalQuery, inv.TotalAmount, inv.ID); err != nil {
		return fmt.Errorf("updating invoice total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing payments: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		JOIN clients c ON i.client_id = c.id
		WHERE i.id = $1 AND i.is_deleted = FALSE`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	if err := s.attachPayments(ctx, []*invoice.Invoice{inv}); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, page, pageSize int) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		JOIN clients c ON i.client_id = c.id
		WHERE i.is_deleted = FALSE
		ORDER BY i.issue_date ASC
		LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invs []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invs = append(invs, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	if err := s.attachPayments(ctx, invs); err != nil {
		return nil, err
	}

	return invs, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET number = $1, issue_date = $2, due_date = $3, client_id = $4,
		    amount = $5, total_amount = $6, updated_at = NOW(), is_deleted = $7
		WHERE id = $8
	`

	_, err := s.db.ExecContext(ctx, query,
		inv.Number,
		inv.IssueDate,
		inv.DueDate,
		inv.ClientID,
		inv.Amount,
		inv.TotalAmount,
		inv.IsDeleted,
		inv.ID,
	)
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	return nil
}

// attachPayments hydrates each invoice with its non-deleted payments,
// which also re-derives TotalAmount from what is actually stored.
func (s *Store) attachPayments(ctx context.Context, invs []*invoice.Invoice) error {
	if len(invs) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*invoice.Invoice, len(invs))
	ids := make([]string, 0, len(invs))

	for _, inv := range invs {
		byID[inv.ID] = inv
		ids = append(ids, inv.ID.String())
	}

	query := `
		SELECT id, invoice_id, amount, payment_date, method, created_at, updated_at, is_deleted
		FROM payments
		WHERE invoice_id = ANY($1::uuid[]) AND is_deleted = FALSE
		ORDER BY payment_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("loading payments: %w", err)
	}
	defer rows.Close()

	grouped := make(map[uuid.UUID][]*invoice.Payment)

	for rows.Next() {
		var p invoice.Payment

		if err := rows.Scan(
			&p.ID, &p.InvoiceID, &p.Amount, &p.PaymentDate, &p.Method,
			&p.CreatedAt, &p.UpdatedAt, &p.IsDeleted,
		); err != nil {
			return fmt.Errorf("scanning payment: %w", err)
		}

		grouped[p.InvoiceID] = append(grouped[p.InvoiceID], &p)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating payment rows: %w", err)
	}

	for id, inv := range byID {
		inv.AttachPayments(grouped[id])
	}

	return nil
}
