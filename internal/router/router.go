package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/unireg-go-api/internal/config"
	"github.com/noah-isme/unireg-go-api/internal/handler"
	"github.com/noah-isme/unireg-go-api/internal/middleware"
	"github.com/noah-isme/unireg-go-api/internal/models"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	AccountHandler    *handler.AccountHandler
	UserHandler       *handler.UserHandler
	CourseHandler     *handler.CourseHandler
	EnrollmentHandler *handler.EnrollmentHandler
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	AuditLogHandler   *handler.AuditLogHandler
	TokenAuth         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided token middleware, or a no-op if nil
	tokenAuth := deps.TokenAuth
	if tokenAuth == nil {
		tokenAuth = func(c *fiber.Ctx) error { return c.Next() }
	}

	staff := middleware.RequireRole(models.RoleInstructor, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	// Auth
	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.RegisterPublic(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", tokenAuth))
	}

	// Account self-service
	if deps.AccountHandler != nil {
		account := api.Group("/account", tokenAuth)
		deps.AccountHandler.Register(account)
	}

	// Course catalog; reads for any authenticated user, writes for staff.
	// Role gates attach per route: a group-level gate on a shared prefix
	// would intercept every sibling route registered after it.
	if deps.CourseHandler != nil {
		courses := api.Group("/courses", tokenAuth)
		deps.CourseHandler.RegisterReads(courses)
		deps.CourseHandler.RegisterWrites(courses, staff)
		deps.CourseHandler.RegisterDelete(courses, adminOnly)

		if deps.AssignmentHandler != nil {
			deps.AssignmentHandler.RegisterCourseReads(courses)
			deps.AssignmentHandler.RegisterCourseWrites(courses, staff)
		}
		if deps.EnrollmentHandler != nil {
			deps.EnrollmentHandler.RegisterEnroll(courses, studentOnly)
		}
	}

	// Assignments
	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", tokenAuth)
		deps.AssignmentHandler.RegisterReads(assignments)
		deps.AssignmentHandler.RegisterWrites(assignments, staff)

		if deps.SubmissionHandler != nil {
			deps.SubmissionHandler.RegisterSubmit(assignments, studentOnly)
		}
	}

	// Enrollments
	if deps.EnrollmentHandler != nil {
		enrollments := api.Group("/enrollments", tokenAuth, studentOnly)
		deps.EnrollmentHandler.RegisterStudent(enrollments)

		adminEnrollments := api.Group("/admin/enrollments", tokenAuth, adminOnly)
		deps.EnrollmentHandler.RegisterAdmin(adminEnrollments)
	}

	// Submissions; the /my routes must register before the grading /:id routes
	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", tokenAuth)
		deps.SubmissionHandler.RegisterStudent(submissions, studentOnly)
		deps.SubmissionHandler.RegisterGrading(submissions, staff)
	}

	// Admin user management and audit trail
	if deps.UserHandler != nil {
		users := api.Group("/admin/users", tokenAuth, adminOnly)
		deps.UserHandler.Register(users)
	}
	if deps.AuditLogHandler != nil {
		auditLogs := api.Group("/admin/audit-logs", tokenAuth, adminOnly)
		deps.AuditLogHandler.Register(auditLogs)
	}
}
