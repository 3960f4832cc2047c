package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/korzhan/resource-tracker/internal/model"
)

// AssignmentRepo encapsulates queries against the assignments table.
type AssignmentRepo struct {
	db *sql.DB
}

func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

const assignmentColumns = `id, employee_id, project_id, allocation, project_role,
	start_date, end_date, created_at, updated_at`

func scanAssignment(scan func(dest ...any) error) (model.Assignment, error) {
	var (
		a     model.Assignment
		start sql.NullTime
		end   sql.NullTime
	)
	err := scan(&a.ID, &a.EmployeeID, &a.ProjectID, &a.Allocation, &a.ProjectRole,
		&start, &end, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Assignment{}, err
	}
	if start.Valid {
		a.StartDate = &start.Time
	}
	if end.Valid {
		a.EndDate = &end.Time
	}
	return a, nil
}

// Create inserts a staffing assignment. Dangling employee or project ids
// surface as ErrNotFound via the FK violation.
func (r *AssignmentRepo) Create(ctx context.Context, a *model.Assignment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO assignments (employee_id, project_id, allocation, project_role, start_date, end_date)
		 VALUES (?,?,?,?,?,?)`,
		a.EmployeeID, a.ProjectID, a.Allocation, a.ProjectRole, a.StartDate, a.EndDate)
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
	a.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM assignments WHERE id=?", a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *AssignmentRepo) GetByID(ctx context.Context, id uint64) (*model.Assignment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE id=?", id)
	a, err := scanAssignment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns assignments, optionally filtered by employee and/or project.
func (r *AssignmentRepo) List(ctx context.Context, employeeID, projectID uint64) ([]model.Assignment, error) {
	q := "SELECT " + assignmentColumns + " FROM assignments WHERE 1=1"
	args := []any{}
	if employeeID != 0 {
		q += " AND employee_id=?"
		args = append(args, employeeID)
	}
	if projectID != 0 {
		q += " AND project_id=?"
		args = append(args, projectID)
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *AssignmentRepo) Update(ctx context.Context, a *model.Assignment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET employee_id=?, project_id=?, allocation=?,
			project_role=?, start_date=?, end_date=? WHERE id=?`,
		a.EmployeeID, a.ProjectID, a.Allocation, a.ProjectRole, a.StartDate, a.EndDate, a.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return ErrNotFound
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *AssignmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM assignments WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
