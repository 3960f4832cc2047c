package model

import "time"

// Project status values.
const (
	ProjectProspect = "PROSPECT"
	ProjectActive   = "ACTIVE"
	ProjectOnHold   = "ON_HOLD"
	ProjectClosed   = "CLOSED"
)

// KnownProjectStatus reports whether s is a recognized project status.
func KnownProjectStatus(s string) bool {
	switch s {
	case ProjectProspect, ProjectActive, ProjectOnHold, ProjectClosed:
		return true
	}
	return false
}

// Client mirrors the `clients` table (portfolio companies).
type Client struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Industry     string    `json:"industry"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Project mirrors the `projects` table. Budget is stored as DECIMAL(14,2)
// and carried as a float here; money math stays in SQL aggregates.
type Project struct {
	ID        uint64     `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	ClientID  *uint64    `json:"client_id"`
	Status    string     `json:"status"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Budget    float64    `json:"budget"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Assignment mirrors the `assignments` table. Allocation is a percentage of
// the employee's time committed to the project.
type Assignment struct {
	ID          uint64     `json:"id"`
	EmployeeID  uint64     `json:"employee_id"`
	ProjectID   uint64     `json:"project_id"`
	Allocation  int        `json:"allocation"`
	ProjectRole string     `json:"project_role"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
