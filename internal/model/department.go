package model

import "time"

// Department mirrors the `departments` table.
type Department struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Designation mirrors the `designations` table. Level orders titles within
// a career ladder (1 = most junior).
type Designation struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Skill mirrors the `skills` table.
type Skill struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
