package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/korzhan/resource-tracker/internal/model"
)

// BillingRepo encapsulates queries against the billing_records table.
type BillingRepo struct {
	db *sql.DB
}

func NewBillingRepo(db *sql.DB) *BillingRepo { return &BillingRepo{db: db} }

const billingColumns = "id, project_id, period, amount, currency, status, created_at, updated_at"

// Create inserts a billing record. A second record for the same project and
// period violates the unique key and surfaces as ErrConflict.
func (r *BillingRepo) Create(ctx context.Context, b *model.BillingRecord) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO billing_records (project_id, period, amount, currency, status) VALUES (?,?,?,?,?)",
		b.ProjectID, b.Period, b.Amount, b.Currency, b.Status)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrConflict
		}
		if strings.Contains(err.Error(), "1452") {
			return ErrNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM billing_records WHERE id=?", b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *BillingRepo) GetByID(ctx context.Context, id uint64) (*model.BillingRecord, error) {
	var b model.BillingRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT "+billingColumns+" FROM billing_records WHERE id=?", id).
		Scan(&b.ID, &b.ProjectID, &b.Period, &b.Amount, &b.Currency, &b.Status,
			&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns billing records, optionally filtered by project and/or
// period.
func (r *BillingRepo) List(ctx context.Context, projectID uint64, period string) ([]model.BillingRecord, error) {
	q := "SELECT " + billingColumns + " FROM billing_records WHERE 1=1"
	args := []any{}
	if projectID != 0 {
		q += " AND project_id=?"
		args = append(args, projectID)
	}
	if period != "" {
		q += " AND period=?"
		args = append(args, period)
	}
	q += " ORDER BY period DESC, project_id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.BillingRecord{}
	for rows.Next() {
		var b model.BillingRecord
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Period, &b.Amount, &b.Currency,
			&b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *BillingRepo) Update(ctx context.Context, b *model.BillingRecord) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE billing_records SET amount=?, currency=?, status=? WHERE id=?",
		b.Amount, b.Currency, b.Status, b.ID)
	return err
}

func (r *BillingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM billing_records WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
