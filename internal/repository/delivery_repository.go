package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/korzhan/resource-tracker/internal/model"
)

// DeliveryRepo encapsulates queries against the deliveries table.
type DeliveryRepo struct {
	db *sql.DB
}

func NewDeliveryRepo(db *sql.DB) *DeliveryRepo { return &DeliveryRepo{db: db} }

const deliveryColumns = "id, project_id, title, due_date, delivered_at, status, created_at, updated_at"

func scanDelivery(scan func(dest ...any) error) (model.Delivery, error) {
	var (
		d         model.Delivery
		due       sql.NullTime
		delivered sql.NullTime
	)
	err := scan(&d.ID, &d.ProjectID, &d.Title, &due, &delivered, &d.Status,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return model.Delivery{}, err
	}
	if due.Valid {
		d.DueDate = &due.Time
	}
	if delivered.Valid {
		d.DeliveredAt = &delivered.Time
	}
	return d, nil
}

func (r *DeliveryRepo) Create(ctx context.Context, d *model.Delivery) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO deliveries (project_id, title, due_date, status) VALUES (?,?,?,?)",
		d.ProjectID, d.Title, d.DueDate, d.Status)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return ErrNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM deliveries WHERE id=?", d.ID).
		Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *DeliveryRepo) GetByID(ctx context.Context, id uint64) (*model.Delivery, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+deliveryColumns+" FROM deliveries WHERE id=?", id)
	d, err := scanDelivery(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns deliveries, optionally filtered by project and/or status.
func (r *DeliveryRepo) List(ctx context.Context, projectID uint64, status string) ([]model.Delivery, error) {
	q := "SELECT " + deliveryColumns + " FROM deliveries WHERE 1=1"
	args := []any{}
	if projectID != 0 {
		q += " AND project_id=?"
		args = append(args, projectID)
	}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	q += " ORDER BY due_date IS NULL, due_date"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// Update rewrites title, dates and status. Marking a delivery DELIVERED or
// ACCEPTED stamps delivered_at when it was not set before.
func (r *DeliveryRepo) Update(ctx context.Context, d *model.Delivery) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE deliveries SET title=?, due_date=?, status=?,
			delivered_at = CASE
				WHEN ? IN ('DELIVERED','ACCEPTED') AND delivered_at IS NULL THEN NOW()
				ELSE delivered_at
			END
		 WHERE id=?`,
		d.Title, d.DueDate, d.Status, d.Status, d.ID)
	return err
}

func (r *DeliveryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM deliveries WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
