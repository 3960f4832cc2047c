package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/korzhan/resource-tracker/internal/model"
)

// ProjectRepo encapsulates queries against the projects table.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{db: db} }

const projectColumns = `id, code, name, client_id, status, start_date, end_date,
	budget, created_at, updated_at`

func scanProject(scan func(dest ...any) error) (model.Project, error) {
	var (
		p      model.Project
		client sql.NullInt64
		start  sql.NullTime
		end    sql.NullTime
	)
	err := scan(&p.ID, &p.Code, &p.Name, &client, &p.Status, &start, &end,
		&p.Budget, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Project{}, err
	}
	if client.Valid {
		v := uint64(client.Int64)
		p.ClientID = &v
	}
	if start.Valid {
		p.StartDate = &start.Time
	}
	if end.Valid {
		p.EndDate = &end.Time
	}
	return p, nil
}

func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (code, name, client_id, status, start_date, end_date, budget)
		 VALUES (?,?,?,?,?,?,?)`,
		p.Code, p.Name, p.ClientID, p.Status, p.StartDate, p.EndDate, p.Budget)
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
	p.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM projects WHERE id=?", p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (*model.Project, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id=?", id)
	p, err := scanProject(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns projects, optionally filtered by status and/or client.
func (r *ProjectRepo) List(ctx context.Context, status string, clientID uint64) ([]model.Project, error) {
	q := "SELECT " + projectColumns + " FROM projects WHERE 1=1"
	args := []any{}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	if clientID != 0 {
		q += " AND client_id=?"
		args = append(args, clientID)
	}
	q += " ORDER BY code"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *ProjectRepo) Update(ctx context.Context, p *model.Project) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET code=?, name=?, client_id=?, status=?, start_date=?,
			end_date=?, budget=? WHERE id=?`,
		p.Code, p.Name, p.ClientID, p.Status, p.StartDate, p.EndDate, p.Budget, p.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrConflict
		}
		if strings.Contains(err.Error(), "1452") {
			return ErrNotFound
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id=?", id)
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
