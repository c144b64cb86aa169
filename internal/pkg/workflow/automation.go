package workflow

import (
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/cardinsa/cardinsa/app/repository"
)

// Entity types carried on workflow_queue rows
const (
	EntityTypePolicy = "policy"
	EntityTypeClaim  = "claim"
	EntityTypeQuote  = "quote"
)

// Task priorities; lower is more urgent
const (
	PriorityActivation  = 3
	PriorityClaimIntake = 5
	PriorityQuoteExpiry = 7
)

// Enqueuer pushes a task onto the redis queue under a caller-supplied ID.
type Enqueuer interface {
	EnqueueTask(taskID string, taskType TaskType, payload map[string]interface{}) (*Task, error)
}

// Automation turns entity state transitions into workflow tasks. Every task
// gets a durable workflow_queue row first, then the redis entry that drives
// execution; both share the task ID.
type Automation struct {
	tasks repository.WorkflowRepository
	queue Enqueuer
}

// NewAutomation creates the transition automation over the given stores.
func NewAutomation(tasks repository.WorkflowRepository, queue Enqueuer) *Automation {
	return &Automation{tasks: tasks, queue: queue}
}

// PolicyStatusChanged enqueues one activation task when a policy enters the
// active state. Transitions between other statuses, or active-to-active
// writes, produce nothing. An already open activation task for the policy
// suppresses a duplicate.
func (a *Automation) PolicyStatusChanged(policy *models.Policy, previousStatus string) error {
	if policy.Status != models.POLICY_STATUS_ACTIVE || previousStatus == models.POLICY_STATUS_ACTIVE {
		return nil
	}

	existing, err := a.tasks.GetByEntity(EntityTypePolicy, policy.ID)
	if err != nil {
		return err
	}
	for _, t := range existing {
		if t.WorkflowType == models.WORKFLOW_TYPE_ACTIVATION && isOpenStatus(t.Status) {
			log.Warnf("[Workflow] Activation task %s already open for policy %d, skipping", t.TaskID, policy.ID)
			return nil
		}
	}

	row := &models.WorkflowTask{
		TaskID:       uuid.New().String(),
		CompanyID:    policy.CompanyID,
		EntityType:   EntityTypePolicy,
		EntityID:     policy.ID,
		WorkflowType: models.WORKFLOW_TYPE_ACTIVATION,
		Priority:     PriorityActivation,
		Status:       models.WORKFLOW_STATUS_PENDING,
		MaxRetries:   DefaultMaxRetries,
	}
	if err := a.tasks.Create(row); err != nil {
		return err
	}

	payload := PolicyActivationPayload{PolicyID: policy.ID, CompanyID: policy.CompanyID}
	_, err = a.queue.EnqueueTask(row.TaskID, TaskTypePolicyActivation, payload.ToMap())
	return err
}

// ClaimSubmitted enqueues the intake task for a freshly submitted claim.
func (a *Automation) ClaimSubmitted(claim *models.Claim) error {
	row := &models.WorkflowTask{
		TaskID:       uuid.New().String(),
		CompanyID:    claim.CompanyID,
		EntityType:   EntityTypeClaim,
		EntityID:     claim.ID,
		WorkflowType: models.WORKFLOW_TYPE_CLAIM_INTAKE,
		Priority:     PriorityClaimIntake,
		Status:       models.WORKFLOW_STATUS_PENDING,
		MaxRetries:   DefaultMaxRetries,
	}
	if err := a.tasks.Create(row); err != nil {
		return err
	}

	payload := ClaimIntakePayload{ClaimID: claim.ID, CompanyID: claim.CompanyID, ClaimNum: claim.ClaimNumber}
	_, err := a.queue.EnqueueTask(row.TaskID, TaskTypeClaimIntake, payload.ToMap())
	return err
}

// QuoteExpired enqueues an expiry task for a quote past its expiry timestamp.
func (a *Automation) QuoteExpired(quote *models.Quote) error {
	existing, err := a.tasks.GetByEntity(EntityTypeQuote, quote.ID)
	if err != nil {
		return err
	}
	for _, t := range existing {
		if t.WorkflowType == models.WORKFLOW_TYPE_QUOTE_EXPIRY && isOpenStatus(t.Status) {
			return nil
		}
	}

	row := &models.WorkflowTask{
		TaskID:       uuid.New().String(),
		CompanyID:    quote.CompanyID,
		EntityType:   EntityTypeQuote,
		EntityID:     quote.ID,
		WorkflowType: models.WORKFLOW_TYPE_QUOTE_EXPIRY,
		Priority:     PriorityQuoteExpiry,
		Status:       models.WORKFLOW_STATUS_PENDING,
		MaxRetries:   DefaultMaxRetries,
	}
	if err := a.tasks.Create(row); err != nil {
		return err
	}

	payload := QuoteExpiryPayload{QuoteID: quote.ID}
	_, err = a.queue.EnqueueTask(row.TaskID, TaskTypeQuoteExpiry, payload.ToMap())
	return err
}

func isOpenStatus(status string) bool {
	switch status {
	case models.WORKFLOW_STATUS_PENDING, models.WORKFLOW_STATUS_PROCESSING, models.WORKFLOW_STATUS_RETRYING:
		return true
	}
	return false
}
