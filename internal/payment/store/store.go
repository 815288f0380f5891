package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billable/internal/invoice"
	"github.com/MrJamesThe3rd/billable/internal/payment"
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

const selectPaymentColumns = `id, invoice_id, amount, payment_date, method, created_at, updated_at, is_deleted`

func scanPayment(s scanner) (*invoice.Payment, error) {
	var p invoice.Payment

	if err := s.Scan(
		&p.ID, &p.InvoiceID, &p.Amount, &p.PaymentDate, &p.Method,
		&p.CreatedAt, &p.UpdatedAt, &p.IsDeleted,
	); err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePayment inserts the payment and persists the invoice's recomputed
// total inside one database transaction, so a reader never observes one
// without the other.
func (s *Store) CreatePayment(ctx context.Context, p *invoice.Payment, inv *invoice.Invoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	paymentQuery := `
		INSERT INTO payments (invoice_id, amount, payment_date, method, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, paymentQuery,
		p.InvoiceID,
		p.Amount,
		p.PaymentDate,
		p.Method,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}

	invoiceQuery := `
		UPDATE invoices
		SET total_amount = $1, updated_at = NOW()
		WHERE id = $2 AND is_deleted = FALSE
	`

	if _, err := tx.ExecContext(ctx, invoiceQuery, inv.TotalAmount, inv.ID); err != nil {
		return fmt.Errorf("updating invoice total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing payment: %w", err)
	}

	return nil
}

func (s *Store) GetPayment(ctx context.Context, id uuid.UUID) (*invoice.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + `
		FROM payments
		WHERE id = $1 AND is_deleted = FALSE`

	p, err := scanPayment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting payment: %w", err)
	}

	return p, nil
}

func (s *Store) ListPayments(ctx context.Context, page, pageSize int) ([]*invoice.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + `
		FROM payments
		WHERE is_deleted = FALSE
		ORDER BY payment_date ASC
		LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

func (s *Store) ListPaymentsByInvoice(ctx context.Context, invoiceID uuid.UUID, page, pageSize int) ([]*invoice.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + `
		FROM payments
		WHERE invoice_id = $1 AND is_deleted = FALSE
		ORDER BY payment_date ASC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, invoiceID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

func collectPayments(rows *sql.Rows) ([]*invoice.Payment, error) {
	var payments []*invoice.Payment

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payment rows: %w", err)
	}

	return payments, nil
}

func (s *Store) UpdatePayment(ctx context.Context, p *invoice.Payment) error {
	query := `
		UPDATE payments
		SET amount = $1, payment_date = $2, method = $3, updated_at = NOW(), is_deleted = $4
		WHERE id = $5
	`

	_, err := s.db.ExecContext(ctx, query,
		p.Amount,
		p.PaymentDate,
		p.Method,
		p.IsDeleted,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating payment: %w", err)
	}

	return nil
}
