package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/cardinsa/cardinsa/app/repository"
	"github.com/cardinsa/cardinsa/internal/pkg/actorcontext"
	"github.com/cardinsa/cardinsa/internal/pkg/benefits"
	"github.com/cardinsa/cardinsa/internal/pkg/claims"
	"github.com/cardinsa/cardinsa/internal/pkg/database"
	"github.com/cardinsa/cardinsa/internal/pkg/metrics/counter"
)

// syncDurableRow mirrors a redis task onto its workflow_queue row. The row
// is the operator-facing record; losing an update is logged, not fatal.
func syncDurableRow(task *Task) {
	repos := repository.GetGlobalRepositories()
	if err := repos.Workflow.UpdateStatus(task.ID, string(task.Status), task.ErrorMsg); err != nil {
		log.Errorf("[Workflow] Failed to sync durable row for task %s: %v", task.ID, err)
	}
}

func systemActor() actorcontext.ActorContext {
	return actorcontext.ActorContext{ActorName: "workflow"}
}

// processPolicyActivationTask stamps the activation timestamp on a policy
// that just went active, opens the benefit usage periods for its plan's
// active schedules and bumps the company activation counter.
func (q *Queue) processPolicyActivationTask(ctx context.Context, task *Task) error {
	payload, err := PolicyActivationPayloadFromMap(task.Payload)
	if err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	policy, err := repos.Policy.GetByID(payload.PolicyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Policy deleted after enqueue; nothing left to do
			log.Warnf("[Workflow] Activation task %s: policy %d no longer exists", task.ID, payload.PolicyID)
			return nil
		}
		return err
	}

	if policy.ActivatedAt == nil {
		now := time.Now()
		policy.ActivatedAt = &now
		if err := repos.Policy.Update(policy); err != nil {
			return err
		}
	}

	// Claims cannot adjudicate until the usage rows exist, so a failure
	// here fails the task and lets the retry path run it again.
	opened, err := benefits.NewServiceFromDB(database.GetDB()).OpenPolicyPeriods(ctx, policy, time.Now())
	if err != nil {
		return err
	}
	if opened > 0 {
		log.Infof("[Workflow] Opened %d benefit periods for policy %s", opened, policy.PolicyNumber)
	}

	if err := counter.AddPolicyActivated(policy.CompanyID); err != nil {
		log.Errorf("[Workflow] Failed to count activation for company %d: %v", policy.CompanyID, err)
	}
	return nil
}

// processClaimIntakeTask routes a freshly submitted claim: counts it for the
// company and runs the auto-approval rule. Claims that fail the rule stay
// submitted and wait for a human decision.
func (q *Queue) processClaimIntakeTask(ctx context.Context, task *Task) error {
	_ = ctx
	payload, err := ClaimIntakePayloadFromMap(task.Payload)
	if err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	claim, err := repos.Claim.GetByID(payload.ClaimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[Workflow] Intake task %s: claim %d no longer exists", task.ID, payload.ClaimID)
			return nil
		}
		return err
	}

	if err := counter.AddClaimSubmitted(claim.CompanyID); err != nil {
		log.Errorf("[Workflow] Failed to count claim for company %d: %v", claim.CompanyID, err)
	}

	if !claim.IsOpen() {
		return nil
	}

	svc := claims.NewServiceFromDB(database.GetDB(), nil)
	approved, err := svc.TryAutoApprove(systemActor(), claim.ID)
	if err != nil {
		return err
	}
	if approved {
		log.Infof("[Workflow] Claim %s auto-approved", claim.ClaimNumber)
	}
	return nil
}

// processQuoteExpiryTask marks a quote expired if it is still open past its
// expiry timestamp.
func (q *Queue) processQuoteExpiryTask(ctx context.Context, task *Task) error {
	_ = ctx
	payload, err := QuoteExpiryPayloadFromMap(task.Payload)
	if err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	quote, err := repos.Quote.GetByID(payload.QuoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[Workflow] Expiry task %s: quote %d no longer exists", task.ID, payload.QuoteID)
			return nil
		}
		return err
	}

	if quote.Status != models.QUOTE_STATUS_OPEN {
		return nil
	}
	if !quote.IsExpired(time.Now()) {
		return nil
	}
	return repos.Quote.MarkExpired(quote.ID)
}
