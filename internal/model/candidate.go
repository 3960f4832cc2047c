package model

import "time"

// Recruitment pipeline stages.
const (
	StageApplied   = "APPLIED"
	StageScreening = "SCREENING"
	StageInterview = "INTERVIEW"
	StageOffer     = "OFFER"
	StageHired     = "HIRED"
	StageRejected  = "REJECTED"
)

// KnownStage reports whether s is a recognized pipeline stage.
func KnownStage(s string) bool {
	switch s {
	case StageApplied, StageScreening, StageInterview, StageOffer, StageHired, StageRejected:
		return true
	}
	return false
}

// Candidate mirrors the `candidates` table.
type Candidate struct {
	ID             uint64    `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	DesignationID  *uint64   `json:"designation_id"`
	Stage          string    `json:"stage"`
	ExpectedSalary float64   `json:"expected_salary"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
