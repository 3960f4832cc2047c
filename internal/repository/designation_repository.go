package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/korzhan/resource-tracker/internal/model"
)

// DesignationRepo encapsulates queries against the designations table.
type DesignationRepo struct {
	db *sql.DB
}

func NewDesignationRepo(db *sql.DB) *DesignationRepo { return &DesignationRepo{db: db} }

func (r *DesignationRepo) Create(ctx context.Context, d *model.Designation) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO designations (title, level) VALUES (?,?)", d.Title, d.Level)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM designations WHERE id=?", d.ID).
		Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *DesignationRepo) GetByID(ctx context.Context, id uint64) (*model.Designation, error) {
	var d model.Designation
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, level, created_at, updated_at FROM designations WHERE id=?", id).
		Scan(&d.ID, &d.Title, &d.Level, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns designations ordered by ladder level then title.
func (r *DesignationRepo) List(ctx context.Context) ([]model.Designation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, level, created_at, updated_at FROM designations ORDER BY level, title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Designation{}
	for rows.Next() {
		var d model.Designation
		if err := rows.Scan(&d.ID, &d.Title, &d.Level, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *DesignationRepo) Update(ctx context.Context, d *model.Designation) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE designations SET title=?, level=? WHERE id=?", d.Title, d.Level, d.ID)
	if err != nil && strings.Contains(err.Error(), "1062") {
		return ErrConflict
	}
	return err
}

func (r *DesignationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM designations WHERE id=?", id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
