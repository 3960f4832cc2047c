package model

import "time"

// Employee status values.
const (
	EmployeeActive  = "ACTIVE"
	EmployeeOnLeave = "ON_LEAVE"
	EmployeeExited  = "EXITED"
)

// KnownEmployeeStatus reports whether s is a recognized employee status.
func KnownEmployeeStatus(s string) bool {
	switch s {
	case EmployeeActive, EmployeeOnLeave, EmployeeExited:
		return true
	}
	return false
}

// Employee mirrors the `employees` table.
type Employee struct {
	ID            uint64     `json:"id"`
	Code          string     `json:"code"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	PhoneNumber   string     `json:"phone_number"`
	DepartmentID  *uint64    `json:"department_id"`
	DesignationID *uint64    `json:"designation_id"`
	HireDate      *time.Time `json:"hire_date"`
	Billable      bool       `json:"billable"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// EmployeeSkill mirrors the `employee_skills` join table. Proficiency is a
// self-assessed 1..5 rating.
type EmployeeSkill struct {
	EmployeeID  uint64 `json:"employee_id"`
	SkillID     uint64 `json:"skill_id"`
	SkillName   string `json:"skill_name,omitempty"`
	Proficiency int    `json:"proficiency"`
}
