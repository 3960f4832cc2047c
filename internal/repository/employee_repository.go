package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/korzhan/resource-tracker/internal/model"
)

// EmployeeRepo encapsulates queries against the employees table.
type EmployeeRepo struct {
	db *sql.DB
}

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

const employeeColumns = `id, code, first_name, last_name, email, phone_number,
	department_id, designation_id, hire_date, billable, status, created_at, updated_at`

func scanEmployee(scan func(dest ...any) error) (model.Employee, error) {
	var (
		e        model.Employee
		dept     sql.NullInt64
		desig    sql.NullInt64
		hireDate sql.NullTime
	)
	err := scan(&e.ID, &e.Code, &e.FirstName, &e.LastName, &e.Email, &e.PhoneNumber,
		&dept, &desig, &hireDate, &e.Billable, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return model.Employee{}, err
	}
	if dept.Valid {
		v := uint64(dept.Int64)
		e.DepartmentID = &v
	}
	if desig.Valid {
		v := uint64(desig.Int64)
		e.DesignationID = &v
	}
	if hireDate.Valid {
		e.HireDate = &hireDate.Time
	}
	return e, nil
}

// Create inserts an employee. Duplicate code or email surfaces as
// ErrConflict; a dangling department/designation id as ErrNotFound.
func (r *EmployeeRepo) Create(ctx context.Context, e *model.Employee) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO employees (code, first_name, last_name, email, phone_number,
			department_id, designation_id, hire_date, billable, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.Code, e.FirstName, e.LastName, strings.ToLower(strings.TrimSpace(e.Email)),
		e.PhoneNumber, e.DepartmentID, e.DesignationID, e.HireDate, e.Billable, e.Status)
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
	e.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM employees WHERE id=?", e.ID).
		Scan(&e.CreatedAt, &e.UpdatedAt)
}

// GetByID fetches an employee or ErrNotFound.
func (r *EmployeeRepo) GetByID(ctx context.Context, id uint64) (*model.Employee, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id=?", id)
	e, err := scanEmployee(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns employees, optionally filtered by status and/or department.
func (r *EmployeeRepo) List(ctx context.Context, status string, departmentID uint64) ([]model.Employee, error) {
	q := "SELECT " + employeeColumns + " FROM employees WHERE 1=1"
	args := []any{}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	if departmentID != 0 {
		q += " AND department_id=?"
		args = append(args, departmentID)
	}
	q += " ORDER BY last_name, first_name"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// Update rewrites all mutable fields of an employee row.
func (r *EmployeeRepo) Update(ctx context.Context, e *model.Employee) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE employees SET code=?, first_name=?, last_name=?, email=?, phone_number=?,
			department_id=?, designation_id=?, hire_date=?, billable=?, status=?
		 WHERE id=?`,
		e.Code, e.FirstName, e.LastName, strings.ToLower(strings.TrimSpace(e.Email)),
		e.PhoneNumber, e.DepartmentID, e.DesignationID, e.HireDate, e.Billable, e.Status, e.ID)
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
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an employee; ErrConflict while assignments still exist.
func (r *EmployeeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM employees WHERE id=?", id)
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
