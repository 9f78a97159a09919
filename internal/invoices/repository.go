package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
)

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Repository implements Store and the read queries behind the forms.
type Repository struct {
	db dbtx
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

const (
	insertInvoice = `INSERT INTO invoices (customer_id, amount, status, date) VALUES ($1, $2, $3, $4)`
	updateInvoice = `UPDATE invoices SET customer_id = $1, amount = $2, status = $3 WHERE id = $4`
	deleteInvoice = `DELETE FROM invoices WHERE id = $1`

	getInvoice = `SELECT id::text, customer_id::text, amount, status, to_char(date, 'YYYY-MM-DD')
		FROM invoices WHERE id = $1`

	countInvoices = `SELECT COUNT(*) FROM invoices`

	listInvoices = `SELECT i.id::text, c.name, c.email, c.image_url, i.amount, i.status, to_char(i.date, 'YYYY-MM-DD')
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		ORDER BY i.date DESC, i.id
		LIMIT $1 OFFSET $2`

	listCustomers = `SELECT id::text, name, email, image_url FROM customers ORDER BY name ASC`
)

// Insert adds a new invoice row.
func (r *Repository) Insert(ctx context.Context, inv Invoice) error {
	_, err := r.db.Exec(ctx, insertInvoice, inv.CustomerID, inv.Amount, string(inv.Status), inv.Date)
	return err
}

// Update rewrites the mutable columns of inv.ID.
func (r *Repository) Update(ctx context.Context, inv Invoice) error {
	_, err := r.db.Exec(ctx, updateInvoice, inv.CustomerID, inv.Amount, string(inv.Status), inv.ID)
	return err
}

// Delete removes the row with id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, deleteInvoice, id)
	return err
}

// Get loads one invoice.
func (r *Repository) Get(ctx context.Context, id string) (*Invoice, error) {
	var inv Invoice
	var status string
	err := r.db.QueryRow(ctx, getInvoice, id).Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &status, &inv.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("invoices: get: %w", err)
	}
	inv.Status = Status(status)
	return &inv, nil
}

// Count returns the number of invoices.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, countInvoices).Scan(&total); err != nil {
		return 0, fmt.Errorf("invoices: count: %w", err)
	}
	return total, nil
}

// List returns invoices joined with customer details, newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]ListingRow, error) {
	rows, err := r.db.Query(ctx, listInvoices, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("invoices: list: %w", err)
	}
	defer rows.Close()

	var out []ListingRow
	for rows.Next() {
		var row ListingRow
		var status string
		if err := rows.Scan(&row.ID, &row.Name, &row.Email, &row.ImageURL, &row.Amount, &status, &row.Date); err != nil {
			return nil, fmt.Errorf("invoices: scan: %w", err)
		}
		row.Status = Status(status)
		out = append(out, row)
	}
	return out, rows.Err()
}

// Customers returns every customer for the invoice form select.
func (r *Repository) Customers(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.Query(ctx, listCustomers)
	if err != nil {
		return nil, fmt.Errorf("invoices: customers: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("invoices: scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ Store = (*Repository)(nil)
