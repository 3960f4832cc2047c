package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/korzhan/resource-tracker/internal/model"
)

// ClientRepo encapsulates queries against the clients table (portfolio
// companies).
type ClientRepo struct {
	db *sql.DB
}

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO clients (name, industry, contact_email) VALUES (?,?,?)",
		c.Name, c.Industry, c.ContactEmail)
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
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM clients WHERE id=?", c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (*model.Client, error) {
	var c model.Client
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, industry, contact_email, created_at, updated_at FROM clients WHERE id=?", id).
		Scan(&c.ID, &c.Name, &c.Industry, &c.ContactEmail, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]model.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, industry, contact_email, created_at, updated_at FROM clients ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Client{}
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Industry, &c.ContactEmail, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *ClientRepo) Update(ctx context.Context, c *model.Client) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE clients SET name=?, industry=?, contact_email=? WHERE id=?",
		c.Name, c.Industry, c.ContactEmail, c.ID)
	if err != nil && strings.Contains(err.Error(), "1062") {
		return ErrConflict
	}
	return err
}

func (r *ClientRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id=?", id)
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
