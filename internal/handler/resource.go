package handler

import (
	"context"
	"time"

	"github.com/korzhan/resource-tracker/internal/queue"
	"github.com/korzhan/resource-tracker/internal/repository"
)

// ResourceHandler bundles the repositories behind the business CRUD
// endpoints. All methods follow the same shape: bind, validate, delegate to
// the repository, map sentinel errors to status codes.
type ResourceHandler struct {
	Employees    *repository.EmployeeRepo
	Departments  *repository.DepartmentRepo
	Designations *repository.DesignationRepo
	Skills       *repository.SkillRepo
	Clients      *repository.ClientRepo
	Projects     *repository.ProjectRepo
	Assignments  *repository.AssignmentRepo
	Billing      *repository.BillingRepo
	Deliveries   *repository.DeliveryRepo
	Candidates   *repository.CandidateRepo
	Analytics    *repository.AnalyticsRepo
	// Publish sends best-effort audit events; failures are ignored.
	Publish func(ctx context.Context, ev queue.AuditEvent) error
}

func (h *ResourceHandler) publish(ev queue.AuditEvent) {
	if h.Publish == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = h.Publish(ctx, ev)
}
