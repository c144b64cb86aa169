package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/cardinsa/cardinsa/app/repository"
	"github.com/cardinsa/cardinsa/internal/pkg/actorcontext"
	"github.com/cardinsa/cardinsa/internal/pkg/audit"
	"github.com/cardinsa/cardinsa/internal/pkg/benefits"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrClaimNotFound    = errors.New("claim not found")
	ErrPolicyNotFound   = errors.New("policy not found")
	ErrClaimNotOpen     = errors.New("claim is not open for a decision")
	ErrPolicyNotInForce = errors.New("policy is not active")
)

// WorkflowEnqueuer receives claim lifecycle events that produce workflow tasks.
type WorkflowEnqueuer interface {
	ClaimSubmitted(claim *models.Claim) error
}

// Service owns the claim lifecycle: intake validation, auto-approval,
// adjudication against benefit limits, and reversal.
type Service struct {
	claims    repository.ClaimRepository
	policies  repository.PolicyRepository
	benefits  *benefits.Service
	audit     *audit.Recorder
	workflows WorkflowEnqueuer
}

// NewService creates a claims service from injected collaborators.
func NewService(
	claims repository.ClaimRepository,
	policies repository.PolicyRepository,
	benefitSvc *benefits.Service,
	auditRec *audit.Recorder,
	workflows WorkflowEnqueuer,
) *Service {
	return &Service{
		claims:    claims,
		policies:  policies,
		benefits:  benefitSvc,
		audit:     auditRec,
		workflows: workflows,
	}
}

// NewServiceFromDB wires a claims service onto the global repositories.
func NewServiceFromDB(db *gorm.DB, workflows WorkflowEnqueuer) *Service {
	repos := repository.NewRepositories(db)
	return NewService(repos.Claim, repos.Policy, benefits.NewServiceFromDB(db), audit.NewRecorderFromDB(db), workflows)
}

// Submit validates and persists a new claim in the submitted state, records
// the audit trail and enqueues the intake workflow.
func (s *Service) Submit(actor actorcontext.ActorContext, claim *models.Claim) error {
	if strings.TrimSpace(claim.ClaimNumber) == "" {
		claim.ClaimNumber = newClaimNumber()
	}
	claim.MarkSubmitted()
	if err := claim.Validate(); err != nil {
		return err
	}

	policy, err := s.policies.GetByID(claim.PolicyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPolicyNotFound
		}
		return err
	}
	if !policy.IsActive() {
		return ErrPolicyNotInForce
	}

	if err := s.claims.Create(claim); err != nil {
		return err
	}

	s.audit.RecordInsert(actor, "claims", claim.ID, claim)

	if s.workflows != nil {
		if err := s.workflows.ClaimSubmitted(claim); err != nil {
			return fmt.Errorf("claim %s saved but workflow enqueue failed: %w", claim.ClaimNumber, err)
		}
	}
	return nil
}

// TryAutoApprove applies the auto-approval rule to an open claim. It returns
// true and moves the claim to approved when the rule passes; otherwise it
// returns false and leaves the claim untouched.
func (s *Service) TryAutoApprove(actor actorcontext.ActorContext, claimID uint) (bool, error) {
	claim, err := s.claims.GetByID(claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrClaimNotFound
		}
		return false, err
	}
	if !claim.IsOpen() {
		return false, ErrClaimNotOpen
	}

	policy, err := s.policies.GetByID(claim.PolicyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrPolicyNotFound
		}
		return false, err
	}

	if !CanAutoApprove(claim, policy.Status) {
		return false, nil
	}

	before := *claim
	approved := claim.ClaimAmount
	claim.ApprovedAmount = &approved
	claim.MarkDecided(models.CLAIM_STATUS_APPROVED, nil, "auto-approved: low amount and fraud score")
	if err := s.claims.Update(claim); err != nil {
		return false, err
	}

	s.audit.RecordUpdate(actor, "claims", claim.ID, &before, claim)
	return true, nil
}

// Adjudicate decides an open claim. Approval debits the member's benefit
// usage through the benefits service; the approved amount is whatever the
// benefit headroom allowed.
func (s *Service) Adjudicate(ctx context.Context, actor actorcontext.ActorContext, claimID uint, approve bool, scheduleID uint, serviceCount int, reason string) error {
	claim, err := s.claims.GetByID(claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClaimNotFound
		}
		return err
	}
	if !claim.IsOpen() {
		return ErrClaimNotOpen
	}

	before := *claim
	var decidedBy *uint
	if actor.ActorID != 0 {
		id := actor.ActorID
		decidedBy = &id
	}

	if !approve {
		claim.MarkDecided(models.CLAIM_STATUS_REJECTED, decidedBy, reason)
		if err := s.claims.Update(claim); err != nil {
			return err
		}
		s.audit.RecordUpdate(actor, "claims", claim.ID, &before, claim)
		return nil
	}

	applied, err := s.benefits.ApplyClaim(ctx, claim, scheduleID, serviceCount)
	if err != nil {
		return err
	}

	claim.BenefitScheduleID = &scheduleID
	claim.ApprovedAmount = &applied.AppliedAmount
	claim.MarkDecided(models.CLAIM_STATUS_APPROVED, decidedBy, reason)
	if err := s.claims.Update(claim); err != nil {
		return err
	}

	s.audit.RecordUpdate(actor, "claims", claim.ID, &before, claim)
	return nil
}

// Reverse credits an approved claim back to the member's benefits and marks
// the claim reversed.
func (s *Service) Reverse(ctx context.Context, actor actorcontext.ActorContext, claimID uint, serviceCount int, reason string) error {
	claim, err := s.claims.GetByID(claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClaimNotFound
		}
		return err
	}
	if claim.Status != models.CLAIM_STATUS_APPROVED && claim.Status != models.CLAIM_STATUS_PAID {
		return ErrClaimNotOpen
	}
	if claim.BenefitScheduleID == nil {
		return errors.New("claim has no benefit schedule to reverse against")
	}

	before := *claim
	if err := s.benefits.ReverseClaim(ctx, claim, *claim.BenefitScheduleID, serviceCount); err != nil {
		return err
	}

	var decidedBy *uint
	if actor.ActorID != 0 {
		id := actor.ActorID
		decidedBy = &id
	}
	claim.MarkDecided(models.CLAIM_STATUS_REVERSED, decidedBy, reason)
	if err := s.claims.Update(claim); err != nil {
		return err
	}

	s.audit.RecordUpdate(actor, "claims", claim.ID, &before, claim)
	return nil
}

func newClaimNumber() string {
	return "CLM-" + strings.ToUpper(uuid.New().String()[:8])
}
