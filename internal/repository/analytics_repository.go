package repository

import (
	"context"
	"database/sql"
)

// AnalyticsRepo runs the dashboard aggregate queries. Everything here is a
// plain group-by/sum and the results are shaped for direct JSON encoding.
type AnalyticsRepo struct {
	db *sql.DB
}

func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// HeadcountRow is one department's employee counts.
type HeadcountRow struct {
	Department string `json:"department"`
	Total      int    `json:"total"`
	Billable   int    `json:"billable"`
}

// Headcount counts active employees per department. Employees without a
// department group under "Unassigned".
func (r *AnalyticsRepo) Headcount(ctx context.Context) ([]HeadcountRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT COALESCE(d.name, 'Unassigned'), COUNT(*), SUM(e.billable)
		 FROM employees e
		 LEFT JOIN departments d ON d.id = e.department_id
		 WHERE e.status = 'ACTIVE'
		 GROUP BY d.name
		 ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []HeadcountRow{}
	for rows.Next() {
		var h HeadcountRow
		if err := rows.Scan(&h.Department, &h.Total, &h.Billable); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

// BillingSummaryRow aggregates one period's billing.
type BillingSummaryRow struct {
	Period    string  `json:"period"`
	Total     float64 `json:"total"`
	Invoiced  float64 `json:"invoiced"`
	Paid      float64 `json:"paid"`
	AvgAmount float64 `json:"avg_amount"`
}

// BillingSummary sums billing per period over the most recent periods.
func (r *AnalyticsRepo) BillingSummary(ctx context.Context, limit int) ([]BillingSummaryRow, error) {
	if limit <= 0 {
		limit = 12
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT period,
			SUM(amount),
			SUM(CASE WHEN status IN ('INVOICED','PAID') THEN amount ELSE 0 END),
			SUM(CASE WHEN status = 'PAID' THEN amount ELSE 0 END),
			AVG(amount)
		 FROM billing_records
		 GROUP BY period
		 ORDER BY period DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []BillingSummaryRow{}
	for rows.Next() {
		var b BillingSummaryRow
		if err := rows.Scan(&b.Period, &b.Total, &b.Invoiced, &b.Paid, &b.AvgAmount); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// StaffingRow is one project's staffing load.
type StaffingRow struct {
	ProjectCode    string  `json:"project_code"`
	ProjectName    string  `json:"project_name"`
	Assigned       int     `json:"assigned"`
	AvgAllocation  float64 `json:"avg_allocation"`
	TotalAllocated int     `json:"total_allocated"`
}

// ProjectStaffing reports assignment counts and allocation per active
// project.
func (r *AnalyticsRepo) ProjectStaffing(ctx context.Context) ([]StaffingRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.code, p.name, COUNT(a.id),
			COALESCE(AVG(a.allocation), 0), COALESCE(SUM(a.allocation), 0)
		 FROM projects p
		 LEFT JOIN assignments a ON a.project_id = p.id
		 WHERE p.status = 'ACTIVE'
		 GROUP BY p.id, p.code, p.name
		 ORDER BY p.code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []StaffingRow{}
	for rows.Next() {
		var s StaffingRow
		if err := rows.Scan(&s.ProjectCode, &s.ProjectName, &s.Assigned,
			&s.AvgAllocation, &s.TotalAllocated); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// PipelineRow is one recruitment stage's candidate count.
type PipelineRow struct {
	Stage     string  `json:"stage"`
	Count     int     `json:"count"`
	AvgSalary float64 `json:"avg_expected_salary"`
}

// Pipeline counts candidates per recruitment stage.
func (r *AnalyticsRepo) Pipeline(ctx context.Context) ([]PipelineRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT stage, COUNT(*), COALESCE(AVG(expected_salary), 0)
		 FROM candidates
		 GROUP BY stage
		 ORDER BY FIELD(stage, 'APPLIED','SCREENING','INTERVIEW','OFFER','HIRED','REJECTED')`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []PipelineRow{}
	for rows.Next() {
		var p PipelineRow
		if err := rows.Scan(&p.Stage, &p.Count, &p.AvgSalary); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
