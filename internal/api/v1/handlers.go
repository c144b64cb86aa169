package apiv1

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/cardinsa/cardinsa/app/repository"
	"github.com/cardinsa/cardinsa/internal/pkg/actorcontext"
	"github.com/cardinsa/cardinsa/internal/pkg/audit"
	"github.com/cardinsa/cardinsa/internal/pkg/benefits"
	"github.com/cardinsa/cardinsa/internal/pkg/claims"
	"github.com/cardinsa/cardinsa/internal/pkg/database"
	"github.com/cardinsa/cardinsa/internal/pkg/workflow"
)

// APIServer carries the services behind the v1 routes
type APIServer struct {
	claims   *claims.Service
	benefits *benefits.Service
	audit    *audit.Recorder
}

// NewAPIServer creates a new API server instance wired to the global stores
func NewAPIServer() *APIServer {
	db := database.GetDB()
	return &APIServer{
		claims:   claims.NewServiceFromDB(db, workflow.GetManager().GetAutomation()),
		benefits: benefits.NewServiceFromDB(db),
		audit:    audit.NewRecorderFromDB(db),
	}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
}

// ---- companies ----

// GetCompany returns the actor's own tenant record
func (s *APIServer) GetCompany(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid company id")
	}
	if uint(id) != actor.CompanyID {
		return notFound(c, "company not found")
	}

	company, err := repository.GetGlobalRepositories().Company.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "company not found")
	}
	return c.JSON(company)
}

type companyRenameRequest struct {
	Name string `json:"name"`
}

// PatchCompanyName renames the tenant and propagates the new name onto the
// denormalized column of its policies.
func (s *APIServer) PatchCompanyName(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid company id")
	}
	if uint(id) != actor.CompanyID {
		return notFound(c, "company not found")
	}

	var req companyRenameRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid rename payload")
	}
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 200 {
		return badRequest(c, "name must be 2 to 200 characters")
	}

	repos := repository.GetGlobalRepositories()
	company, err := repos.Company.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "company not found")
	}
	if company.Name == name {
		return c.JSON(company)
	}

	before := *company
	if err := repos.Company.Rename(company.ID, name); err != nil {
		return internalError(c, err)
	}
	if err := repos.Policy.SetCompanyName(company.ID, name); err != nil {
		return internalError(c, err)
	}
	company.Name = name

	s.audit.RecordUpdate(actor, "companies", company.ID, &before, company)
	return c.JSON(company)
}

// ---- members ----

// PostMember creates a member inside the actor's tenant
func (s *APIServer) PostMember(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)

	var member models.Member
	if err := c.BodyParser(&member); err != nil {
		return badRequest(c, "invalid member payload")
	}
	member.ID = 0
	member.CompanyID = actor.CompanyID

	if err := member.Validate(); err != nil {
		return unprocessable(c, err)
	}

	repos := repository.GetGlobalRepositories()
	if err := repos.Member.Create(&member); err != nil {
		return internalError(c, err)
	}

	s.audit.RecordInsert(actor, "members", member.ID, &member)
	return c.Status(fiber.StatusCreated).JSON(member)
}

// GetMember returns a member by ID, scoped to the actor's tenant
func (s *APIServer) GetMember(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid member id")
	}

	member, err := repository.GetGlobalRepositories().Member.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "member not found")
	}
	if member.CompanyID != actor.CompanyID {
		return notFound(c, "member not found")
	}
	return c.JSON(member)
}

// GetMembers lists or searches the tenant's members
func (s *APIServer) GetMembers(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	repos := repository.GetGlobalRepositories()

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		members, err := repos.Member.Search(actor.CompanyID, q)
		if err != nil {
			return internalError(c, err)
		}
		return c.JSON(fiber.Map{"members": members})
	}

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	members, err := repos.Member.GetByCompanyID(actor.CompanyID, offset, limit)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"members": members})
}

// PutMember updates mutable member fields
func (s *APIServer) PutMember(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid member id")
	}

	repos := repository.GetGlobalRepositories()
	member, err := repos.Member.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "member not found")
	}
	if member.CompanyID != actor.CompanyID {
		return notFound(c, "member not found")
	}

	before := *member
	var updated models.Member
	if err := c.BodyParser(&updated); err != nil {
		return badRequest(c, "invalid member payload")
	}
	// Identity and tenancy fields are not updatable through the API
	updated.ID = member.ID
	updated.CompanyID = member.CompanyID
	updated.MemberNumber = member.MemberNumber
	updated.CreatedAt = member.CreatedAt

	if err := updated.Validate(); err != nil {
		return unprocessable(c, err)
	}
	if err := repos.Member.Update(&updated); err != nil {
		return internalError(c, err)
	}

	s.audit.RecordUpdate(actor, "members", updated.ID, &before, &updated)
	return c.JSON(updated)
}

// ---- policies ----

// PostPolicy creates a policy in draft status
func (s *APIServer) PostPolicy(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)

	var policy models.Policy
	if err := c.BodyParser(&policy); err != nil {
		return badRequest(c, "invalid policy payload")
	}
	policy.ID = 0
	policy.CompanyID = actor.CompanyID
	if policy.Status == "" {
		policy.Status = models.POLICY_STATUS_DRAFT
	}

	repos := repository.GetGlobalRepositories()
	if company, err := repos.Company.GetByID(actor.CompanyID); err == nil {
		policy.CompanyName = company.Name
	}

	if err := policy.Validate(); err != nil {
		return unprocessable(c, err)
	}
	if err := repos.Policy.Create(&policy); err != nil {
		return internalError(c, err)
	}

	s.audit.RecordInsert(actor, "policies", policy.ID, &policy)
	return c.Status(fiber.StatusCreated).JSON(policy)
}

// GetPolicy returns a policy by ID, scoped to the actor's tenant
func (s *APIServer) GetPolicy(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid policy id")
	}

	policy, err := repository.GetGlobalRepositories().Policy.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "policy not found")
	}
	if policy.CompanyID != actor.CompanyID {
		return notFound(c, "policy not found")
	}
	return c.JSON(policy)
}

// GetMemberPolicies lists a member's policies
func (s *APIServer) GetMemberPolicies(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid member id")
	}

	repos := repository.GetGlobalRepositories()
	member, err := repos.Member.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "member not found")
	}
	if member.CompanyID != actor.CompanyID {
		return notFound(c, "member not found")
	}

	policies, err := repos.Policy.GetByMemberID(member.ID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"policies": policies})
}

type policyStatusRequest struct {
	Status string `json:"status"`
}

// PatchPolicyStatus moves a policy to a new status. A transition into the
// active state enqueues the activation workflow.
func (s *APIServer) PatchPolicyStatus(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid policy id")
	}

	var req policyStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid status payload")
	}
	if !isValidPolicyStatus(req.Status) {
		return badRequest(c, "unknown policy status")
	}

	repos := repository.GetGlobalRepositories()
	policy, err := repos.Policy.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "policy not found")
	}
	if policy.CompanyID != actor.CompanyID {
		return notFound(c, "policy not found")
	}

	previous := policy.Status
	if previous == req.Status {
		return c.JSON(policy)
	}

	before := *policy
	if err := repos.Policy.UpdateStatus(policy.ID, req.Status); err != nil {
		return internalError(c, err)
	}
	policy.Status = req.Status

	s.audit.RecordUpdate(actor, "policies", policy.ID, &before, policy)

	if err := workflow.GetManager().GetAutomation().PolicyStatusChanged(policy, previous); err != nil {
		return internalError(c, err)
	}
	return c.JSON(policy)
}

// ---- claims ----

// PostClaim submits a new claim
func (s *APIServer) PostClaim(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)

	var claim models.Claim
	if err := c.BodyParser(&claim); err != nil {
		return badRequest(c, "invalid claim payload")
	}
	claim.ID = 0
	claim.CompanyID = actor.CompanyID

	if err := s.claims.Submit(actor, &claim); err != nil {
		return claimError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(claim)
}

// GetClaim returns a claim by ID, scoped to the actor's tenant
func (s *APIServer) GetClaim(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid claim id")
	}

	claim, err := repository.GetGlobalRepositories().Claim.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "claim not found")
	}
	if claim.CompanyID != actor.CompanyID {
		return notFound(c, "claim not found")
	}
	return c.JSON(claim)
}

// GetClaims lists the tenant's claims by status
func (s *APIServer) GetClaims(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	status := c.Query("status", models.CLAIM_STATUS_SUBMITTED)
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	list, err := repository.GetGlobalRepositories().Claim.GetByStatus(actor.CompanyID, status, offset, limit)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"claims": list})
}

type claimDecisionRequest struct {
	Approve      bool   `json:"approve"`
	ScheduleID   uint   `json:"benefit_schedule_id"`
	ServiceCount int    `json:"service_count"`
	Reason       string `json:"reason"`
}

// PostClaimDecision adjudicates an open claim
func (s *APIServer) PostClaimDecision(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid claim id")
	}

	var req claimDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid decision payload")
	}
	if req.Approve && req.ScheduleID == 0 {
		return badRequest(c, "benefit_schedule_id is required for approval")
	}
	if req.ServiceCount <= 0 {
		req.ServiceCount = 1
	}

	if err := s.claims.Adjudicate(c.Context(), actor, uint(id), req.Approve, req.ScheduleID, req.ServiceCount, req.Reason); err != nil {
		return claimError(c, err)
	}

	claim, err := repository.GetGlobalRepositories().Claim.GetByID(uint(id))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(claim)
}

type claimReverseRequest struct {
	ServiceCount int    `json:"service_count"`
	Reason       string `json:"reason"`
}

// PostClaimReverse reverses an approved claim
func (s *APIServer) PostClaimReverse(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid claim id")
	}

	var req claimReverseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid reversal payload")
	}
	if req.ServiceCount <= 0 {
		req.ServiceCount = 1
	}

	if err := s.claims.Reverse(c.Context(), actor, uint(id), req.ServiceCount, req.Reason); err != nil {
		return claimError(c, err)
	}

	claim, err := repository.GetGlobalRepositories().Claim.GetByID(uint(id))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(claim)
}

// GetClaimDocuments lists attachment metadata for a claim
func (s *APIServer) GetClaimDocuments(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid claim id")
	}

	repos := repository.GetGlobalRepositories()
	claim, err := repos.Claim.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "claim not found")
	}
	if claim.CompanyID != actor.CompanyID {
		return notFound(c, "claim not found")
	}

	docs, err := repos.Claim.GetDocuments(claim.ID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"documents": docs})
}

// ---- benefits ----

// GetRemainingBenefit returns the remaining amount and count for a member's
// benefit schedule in the period covering now (or ?at=RFC3339).
func (s *APIServer) GetRemainingBenefit(c *fiber.Ctx) error {
	memberID := c.QueryInt("member_id")
	policyID := c.QueryInt("policy_id")
	scheduleID := c.QueryInt("schedule_id")
	periodType := c.Query("period_type", models.PERIOD_ANNUAL)
	if memberID <= 0 || policyID <= 0 || scheduleID <= 0 {
		return badRequest(c, "member_id, policy_id and schedule_id are required")
	}

	at := time.Now()
	if v := c.Query("at"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return badRequest(c, "invalid 'at' timestamp")
		}
		at = parsed
	}

	remaining, err := s.benefits.RemainingBenefit(c.Context(), uint(memberID), uint(policyID), uint(scheduleID), periodType, at)
	if err != nil {
		if errors.Is(err, benefits.ErrScheduleNotFound) {
			return notFound(c, "benefit schedule not found")
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{
		"remaining_amount": remaining.Amount,
		"remaining_count":  remaining.Count,
	})
}

// GetMemberUsage lists a member's benefit usage rows
func (s *APIServer) GetMemberUsage(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid member id")
	}

	member, err := repository.GetGlobalRepositories().Member.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "member not found")
	}
	if member.CompanyID != actor.CompanyID {
		return notFound(c, "member not found")
	}

	var usage []models.MemberBenefitUsage
	if err := database.GetDB().
		Where("member_id = ?", member.ID).
		Order("period_start DESC").
		Find(&usage).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"usage": usage})
}

// ---- quotes ----

// PostQuote creates a quote for the tenant
func (s *APIServer) PostQuote(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)

	var quote models.Quote
	if err := c.BodyParser(&quote); err != nil {
		return badRequest(c, "invalid quote payload")
	}
	quote.ID = 0
	quote.CompanyID = actor.CompanyID
	if quote.Status == "" {
		quote.Status = models.QUOTE_STATUS_OPEN
	}
	if strings.TrimSpace(quote.QuoteNumber) == "" {
		quote.QuoteNumber = "QTE-" + strings.ToUpper(uuid.New().String()[:8])
	}

	if err := quote.Validate(); err != nil {
		return unprocessable(c, err)
	}
	if err := repository.GetGlobalRepositories().Quote.Create(&quote); err != nil {
		return internalError(c, err)
	}

	s.audit.RecordInsert(actor, "quotes", quote.ID, &quote)
	return c.Status(fiber.StatusCreated).JSON(quote)
}

// GetQuote returns a quote by ID, scoped to the actor's tenant
func (s *APIServer) GetQuote(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid quote id")
	}

	quote, err := repository.GetGlobalRepositories().Quote.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "quote not found")
	}
	if quote.CompanyID != actor.CompanyID {
		return notFound(c, "quote not found")
	}
	return c.JSON(quote)
}

// ---- workflow introspection ----

// GetWorkflowTasks lists durable workflow rows by status
func (s *APIServer) GetWorkflowTasks(c *fiber.Ctx) error {
	status := c.Query("status", models.WORKFLOW_STATUS_PENDING)
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	tasks, err := repository.GetGlobalRepositories().Workflow.GetByStatus(status, offset, limit)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

// GetWorkflowTask returns the durable row of a single task together with
// its live redis envelope, if one still exists.
func (s *APIServer) GetWorkflowTask(c *fiber.Ctx) error {
	taskID := c.Params("task_id")
	repos := repository.GetGlobalRepositories()

	row, err := repos.Workflow.GetByTaskID(taskID)
	if err != nil {
		return notFoundOrError(c, err, "workflow task not found")
	}

	resp := fiber.Map{"task": row}
	if envelope, err := repos.Queue.GetValue(workflow.TaskKeyPrefix + taskID); err == nil {
		resp["envelope"] = envelope
		if ttl, err := repos.Queue.GetTTL(workflow.TaskKeyPrefix + taskID); err == nil {
			resp["envelope_ttl_seconds"] = int64(ttl.Seconds())
		}
	}
	return c.JSON(resp)
}

// GetWorkflowStats reports queue depths and per-status counts
func (s *APIServer) GetWorkflowStats(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	pending, err := repos.Queue.GetListLength(workflow.TaskQueueKey)
	if err != nil {
		return internalError(c, err)
	}
	processing, err := repos.Queue.GetListLength(workflow.TaskProcessingKey)
	if err != nil {
		return internalError(c, err)
	}
	stats, err := workflow.GetManager().GetQueue().GetTaskStats(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	durable := fiber.Map{}
	for _, status := range []string{
		models.WORKFLOW_STATUS_PENDING,
		models.WORKFLOW_STATUS_PROCESSING,
		models.WORKFLOW_STATUS_COMPLETED,
		models.WORKFLOW_STATUS_FAILED,
		models.WORKFLOW_STATUS_RETRYING,
	} {
		count, err := repos.Workflow.CountByStatus(status)
		if err != nil {
			return internalError(c, err)
		}
		durable[status] = count
	}

	return c.JSON(fiber.Map{
		"queue_depth":      pending,
		"processing_depth": processing,
		"stats":            stats,
		"tasks":            durable,
	})
}

// ---- helpers ----

func isValidPolicyStatus(status string) bool {
	switch status {
	case models.POLICY_STATUS_DRAFT, models.POLICY_STATUS_PENDING, models.POLICY_STATUS_ACTIVE,
		models.POLICY_STATUS_SUSPENDED, models.POLICY_STATUS_EXPIRED, models.POLICY_STATUS_CANCELLED:
		return true
	}
	return false
}

func claimError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, claims.ErrClaimNotFound), errors.Is(err, claims.ErrPolicyNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, claims.ErrClaimNotOpen),
		errors.Is(err, claims.ErrPolicyNotInForce),
		errors.Is(err, benefits.ErrUsageExhausted),
		errors.Is(err, benefits.ErrScheduleNotFound),
		errors.Is(err, models.ErrClaimAmountNotPositive),
		errors.Is(err, models.ErrClaimReserveTooLow):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "unprocessable", "message": err.Error()})
	default:
		return internalError(c, err)
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": msg})
}

func unprocessable(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "unprocessable", "message": err.Error()})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": msg})
}

func notFoundOrError(c *fiber.Ctx, err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, msg)
	}
	return internalError(c, err)
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
}
