package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/cardinsa/cardinsa/internal/pkg/middleware"
)

// RegisterHandlers attaches the v1 routes to the given router group. All
// routes sit behind API key auth; decision endpoints additionally require
// an adjudication role.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)

	protected := router.Group("", middleware.APIKeyAuthMiddleware())

	// Companies
	protected.Get("/companies/:id", s.GetCompany)
	protected.Patch("/companies/:id/name",
		middleware.RequireRoleMiddleware(models.ROLE_ADMIN), s.PatchCompanyName)

	// Members
	protected.Post("/members", s.PostMember)
	protected.Get("/members", s.GetMembers)
	protected.Get("/members/:id", s.GetMember)
	protected.Put("/members/:id", s.PutMember)
	protected.Get("/members/:id/policies", s.GetMemberPolicies)
	protected.Get("/members/:id/usage", s.GetMemberUsage)

	// Policies
	protected.Post("/policies", s.PostPolicy)
	protected.Get("/policies/:id", s.GetPolicy)
	protected.Patch("/policies/:id/status",
		middleware.RequireRoleMiddleware(models.ROLE_UNDERWRITER), s.PatchPolicyStatus)

	// Claims
	protected.Post("/claims", s.PostClaim)
	protected.Get("/claims", s.GetClaims)
	protected.Get("/claims/:id", s.GetClaim)
	protected.Post("/claims/:id/decision",
		middleware.RequireRoleMiddleware(models.ROLE_CLAIMS_ADMIN), s.PostClaimDecision)
	protected.Post("/claims/:id/reverse",
		middleware.RequireRoleMiddleware(models.ROLE_CLAIMS_ADMIN), s.PostClaimReverse)
	protected.Get("/claims/:id/documents", s.GetClaimDocuments)
	protected.Post("/claims/:id/documents", s.PostClaimDocument)

	// Benefits
	protected.Get("/benefits/remaining", s.GetRemainingBenefit)

	// Quotes
	protected.Post("/quotes", s.PostQuote)
	protected.Get("/quotes/:id", s.GetQuote)

	// Workflow introspection
	protected.Get("/workflow/tasks",
		middleware.RequireRoleMiddleware(models.ROLE_CLAIMS_ADMIN, models.ROLE_UNDERWRITER), s.GetWorkflowTasks)
	protected.Get("/workflow/tasks/:task_id",
		middleware.RequireRoleMiddleware(models.ROLE_CLAIMS_ADMIN, models.ROLE_UNDERWRITER), s.GetWorkflowTask)
	protected.Get("/workflow/stats",
		middleware.RequireRoleMiddleware(models.ROLE_CLAIMS_ADMIN, models.ROLE_UNDERWRITER), s.GetWorkflowStats)
}
