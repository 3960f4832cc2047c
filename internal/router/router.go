package router

import (
	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/handler"
	"github.com/korzhan/resource-tracker/internal/middleware"
	"github.com/korzhan/resource-tracker/internal/model"
)

// RegisterRoutes registers routes that require no authentication. Currently
// that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the account lifecycle. Unauthenticated operations live
// under /v1/auth; everything touching an established session sits behind
// JWTAuth under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/2fa/verify", a.VerifyTwoFactor)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/profile", a.GetProfile)
	auth.PUT("/profile", a.UpdateProfile)
	auth.POST("/auth/change-password", a.ChangePassword)
	auth.GET("/auth/2fa/setup", a.TwoFactorSetup)
	auth.POST("/auth/2fa/enable", a.EnableTwoFactor)

	// Role demonstration endpoints. Useful for verifying a token's grants
	// without touching business data.
	demo := auth.Group("/demo")
	demo.GET("/admin-only", a.AdminOnly, middleware.RequireRole(model.RoleAdmin))
	demo.GET("/manager-and-admin", a.ManagerAndAdmin, middleware.RequireRole(model.RoleManager, model.RoleAdmin))
	demo.GET("/authenticated-users", a.AnyAuthenticated)
}

// RegisterResources wires the business CRUD surface under /v1. Reads are
// open to any authenticated user; mutations require MANAGER or ADMIN and
// deletes are ADMIN only.
func RegisterResources(e *echo.Echo, r *handler.ResourceHandler, jwtSecret string) {
	mutate := middleware.RequireRole(model.RoleManager, model.RoleAdmin)
	remove := middleware.RequireRole(model.RoleAdmin)

	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	g.POST("/departments", r.CreateDepartment, mutate)
	g.GET("/departments", r.ListDepartments)
	g.GET("/departments/:id", r.GetDepartment)
	g.PUT("/departments/:id", r.UpdateDepartment, mutate)
	g.DELETE("/departments/:id", r.DeleteDepartment, remove)

	g.POST("/designations", r.CreateDesignation, mutate)
	g.GET("/designations", r.ListDesignations)
	g.GET("/designations/:id", r.GetDesignation)
	g.PUT("/designations/:id", r.UpdateDesignation, mutate)
	g.DELETE("/designations/:id", r.DeleteDesignation, remove)

	g.POST("/skills", r.CreateSkill, mutate)
	g.GET("/skills", r.ListSkills)
	g.GET("/skills/:id", r.GetSkill)
	g.PUT("/skills/:id", r.UpdateSkill, mutate)
	g.DELETE("/skills/:id", r.DeleteSkill, remove)

	g.POST("/employees", r.CreateEmployee, mutate)
	g.GET("/employees", r.ListEmployees)
	g.GET("/employees/:id", r.GetEmployee)
	g.PUT("/employees/:id", r.UpdateEmployee, mutate)
	g.DELETE("/employees/:id", r.DeleteEmployee, remove)
	g.PUT("/employees/:id/skills", r.SetEmployeeSkill, mutate)
	g.GET("/employees/:id/skills", r.ListEmployeeSkills)
	g.DELETE("/employees/:id/skills/:skillId", r.RemoveEmployeeSkill, mutate)

	g.POST("/clients", r.CreateClient, mutate)
	g.GET("/clients", r.ListClients)
	g.GET("/clients/:id", r.GetClient)
	g.PUT("/clients/:id", r.UpdateClient, mutate)
	g.DELETE("/clients/:id", r.DeleteClient, remove)

	g.POST("/projects", r.CreateProject, mutate)
	g.GET("/projects", r.ListProjects)
	g.GET("/projects/:id", r.GetProject)
	g.PUT("/projects/:id", r.UpdateProject, mutate)
	g.DELETE("/projects/:id", r.DeleteProject, remove)

	g.POST("/assignments", r.CreateAssignment, mutate)
	g.GET("/assignments", r.ListAssignments)
	g.GET("/assignments/:id", r.GetAssignment)
	g.PUT("/assignments/:id", r.UpdateAssignment, mutate)
	g.DELETE("/assignments/:id", r.DeleteAssignment, remove)

	g.POST("/billing", r.CreateBillingRecord, mutate)
	g.GET("/billing", r.ListBillingRecords)
	g.GET("/billing/:id", r.GetBillingRecord)
	g.PUT("/billing/:id", r.UpdateBillingRecord, mutate)
	g.DELETE("/billing/:id", r.DeleteBillingRecord, remove)

	g.POST("/deliveries", r.CreateDelivery, mutate)
	g.GET("/deliveries", r.ListDeliveries)
	g.GET("/deliveries/:id", r.GetDelivery)
	g.PUT("/deliveries/:id", r.UpdateDelivery, mutate)
	g.DELETE("/deliveries/:id", r.DeleteDelivery, remove)

	g.POST("/candidates", r.CreateCandidate, mutate)
	g.GET("/candidates", r.ListCandidates)
	g.GET("/candidates/:id", r.GetCandidate)
	g.PUT("/candidates/:id", r.UpdateCandidate, mutate)
	g.DELETE("/candidates/:id", r.DeleteCandidate, remove)
}

// RegisterAnalytics wires the read-only aggregate endpoints. cacheMW may be
// nil when Redis is unavailable; the aggregates then hit the database on
// every request.
func RegisterAnalytics(e *echo.Echo, r *handler.ResourceHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	g := e.Group("/v1/analytics")
	g.Use(middleware.JWTAuth(jwtSecret))
	if cacheMW != nil {
		g.Use(cacheMW)
	}
	g.GET("/headcount", r.Headcount)
	g.GET("/billing-summary", r.BillingSummary)
	g.GET("/project-staffing", r.ProjectStaffing)
	g.GET("/pipeline", r.Pipeline)
}
