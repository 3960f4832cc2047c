package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/korzhan/resource-tracker/internal/model"
)

// SkillRepo encapsulates queries against the skills and employee_skills
// tables.
type SkillRepo struct {
	db *sql.DB
}

func NewSkillRepo(db *sql.DB) *SkillRepo { return &SkillRepo{db: db} }

func (r *SkillRepo) Create(ctx context.Context, s *model.Skill) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO skills (name, category) VALUES (?,?)", s.Name, s.Category)
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
	s.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM skills WHERE id=?", s.ID).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *SkillRepo) GetByID(ctx context.Context, id uint64) (*model.Skill, error) {
	var s model.Skill
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, category, created_at, updated_at FROM skills WHERE id=?", id).
		Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SkillRepo) List(ctx context.Context) ([]model.Skill, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, category, created_at, updated_at FROM skills ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Skill{}
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *SkillRepo) Update(ctx context.Context, s *model.Skill) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE skills SET name=?, category=? WHERE id=?", s.Name, s.Category, s.ID)
	if err != nil && strings.Contains(err.Error(), "1062") {
		return ErrConflict
	}
	return err
}

func (r *SkillRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM skills WHERE id=?", id)
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

// SetEmployeeSkill upserts an employee's proficiency for a skill.
func (r *SkillRepo) SetEmployeeSkill(ctx context.Context, es model.EmployeeSkill) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO employee_skills (employee_id, skill_id, proficiency) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE proficiency=VALUES(proficiency)`,
		es.EmployeeID, es.SkillID, es.Proficiency)
	if err != nil && strings.Contains(err.Error(), "1452") {
		return ErrNotFound // employee or skill does not exist
	}
	return err
}

// EmployeeSkills lists an employee's skills with names, ordered by name.
func (r *SkillRepo) EmployeeSkills(ctx context.Context, employeeID uint64) ([]model.EmployeeSkill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT es.employee_id, es.skill_id, s.name, es.proficiency
		 FROM employee_skills es JOIN skills s ON s.id = es.skill_id
		 WHERE es.employee_id=? ORDER BY s.name`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.EmployeeSkill{}
	for rows.Next() {
		var es model.EmployeeSkill
		if err := rows.Scan(&es.EmployeeID, &es.SkillID, &es.SkillName, &es.Proficiency); err != nil {
			return nil, err
		}
		items = append(items, es)
	}
	return items, rows.Err()
}

// RemoveEmployeeSkill deletes one employee-skill link.
func (r *SkillRepo) RemoveEmployeeSkill(ctx context.Context, employeeID, skillID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM employee_skills WHERE employee_id=? AND skill_id=?", employeeID, skillID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
