package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/korzhan/resource-tracker/internal/model"
)

// CandidateRepo encapsulates queries against the candidates table.
type CandidateRepo struct {
	db *sql.DB
}

func NewCandidateRepo(db *sql.DB) *CandidateRepo { return &CandidateRepo{db: db} }

const candidateColumns = "id, full_name, email, designation_id, stage, expected_salary, created_at, updated_at"

func scanCandidate(scan func(dest ...any) error) (model.Candidate, error) {
	var (
		c     model.Candidate
		desig sql.NullInt64
	)
	err := scan(&c.ID, &c.FullName, &c.Email, &desig, &c.Stage, &c.ExpectedSalary,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Candidate{}, err
	}
	if desig.Valid {
		v := uint64(desig.Int64)
		c.DesignationID = &v
	}
	return c, nil
}

func (r *CandidateRepo) Create(ctx context.Context, c *model.Candidate) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO candidates (full_name, email, designation_id, stage, expected_salary) VALUES (?,?,?,?,?)",
		c.FullName, strings.ToLower(strings.TrimSpace(c.Email)), c.DesignationID, c.Stage, c.ExpectedSalary)
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
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM candidates WHERE id=?", c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CandidateRepo) GetByID(ctx context.Context, id uint64) (*model.Candidate, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+candidateColumns+" FROM candidates WHERE id=?", id)
	c, err := scanCandidate(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns candidates, optionally filtered by pipeline stage.
func (r *CandidateRepo) List(ctx context.Context, stage string) ([]model.Candidate, error) {
	q := "SELECT " + candidateColumns + " FROM candidates"
	args := []any{}
	if stage != "" {
		q += " WHERE stage=?"
		args = append(args, stage)
	}
	q += " ORDER BY full_name"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *CandidateRepo) Update(ctx context.Context, c *model.Candidate) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE candidates SET full_name=?, email=?, designation_id=?, stage=?, expected_salary=? WHERE id=?",
		c.FullName, strings.ToLower(strings.TrimSpace(c.Email)), c.DesignationID,
		c.Stage, c.ExpectedSalary, c.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrConflict
		}
		if strings.Contains(err.Error(), "1452") {
			return ErrNotFound
		}
	}
	return err
}

func (r *CandidateRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM candidates WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
