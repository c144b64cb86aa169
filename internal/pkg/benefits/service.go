package benefits

import (
	"context"
	"errors"
	"time"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

var (
	ErrScheduleNotFound = errors.New("benefit schedule not found or inactive")
	ErrUsageExhausted   = errors.New("benefit limit exhausted for the current period")
)

// EffectiveLimits are the schedule limits after applying any approved,
// currently effective policy override.
type EffectiveLimits struct {
	LimitAmount        float64
	LimitCount         int
	CoinsurancePercent float64
	CopayAmount        float64
}

// Remaining is the headroom left on a benefit for a member's period.
type Remaining struct {
	Amount float64
	Count  int
}

// AppliedUsage reports the outcome of debiting a claim against a benefit.
type AppliedUsage struct {
	AppliedAmount  float64
	Exhausted      bool
	UtilizationPct float64
	AlertsEmitted  []int
}

// Service owns benefit utilization accounting: period rollups
// (MemberBenefitUsage), the schedule-keyed ledger (MemberBenefitUtilization)
// and threshold alerting.
type Service struct {
	repo Repository
}

// NewService creates a benefits service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a benefits service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// EffectiveSchedule resolves the limits in force for a policy and schedule
// at the given time. The newest effective override wins; nil override fields
// keep the schedule value.
func (s *Service) EffectiveSchedule(ctx context.Context, policyID, scheduleID uint, at time.Time) (*EffectiveLimits, error) {
	_ = ctx
	schedule, err := s.repo.GetSchedule(scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	limits := &EffectiveLimits{
		LimitAmount:        schedule.LimitAmount,
		LimitCount:         schedule.LimitCount,
		CoinsurancePercent: schedule.CoinsurancePercent,
		CopayAmount:        schedule.CopayAmount,
	}

	overrides, err := s.repo.GetActiveOverrides(policyID, scheduleID)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		if !o.IsEffectiveAt(at) {
			continue
		}
		if o.LimitAmount != nil {
			limits.LimitAmount = *o.LimitAmount
		}
		if o.LimitCount != nil {
			limits.LimitCount = *o.LimitCount
		}
		if o.CoinsurancePercent != nil {
			limits.CoinsurancePercent = *o.CoinsurancePercent
		}
		if o.CopayAmount != nil {
			limits.CopayAmount = *o.CopayAmount
		}
		// overrides are ordered newest-first; first effective one wins
		break
	}

	return limits, nil
}

// RemainingBenefit returns the remaining amount and count for a member's
// benefit schedule in the period covering the given time. A missing
// utilization row counts as zero used.
func (s *Service) RemainingBenefit(ctx context.Context, memberID, policyID, scheduleID uint, periodType string, at time.Time) (*Remaining, error) {
	limits, err := s.EffectiveSchedule(ctx, policyID, scheduleID, at)
	if err != nil {
		return nil, err
	}

	utilizedAmount := 0.0
	utilizedCount := 0
	util, err := s.repo.GetUtilization(memberID, policyID, scheduleID, periodType, at)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if util != nil {
		utilizedAmount = util.UtilizedAmount
		utilizedCount = util.UtilizedCount
	}

	remaining := &Remaining{
		Amount: limits.LimitAmount - utilizedAmount,
		Count:  limits.LimitCount - utilizedCount,
	}
	if remaining.Amount < 0 {
		remaining.Amount = 0
	}
	if remaining.Count < 0 {
		remaining.Count = 0
	}
	return remaining, nil
}

// OpenUsagePeriod creates the member-facing usage row for a benefit period,
// seeded from the effective schedule limits.
func (s *Service) OpenUsagePeriod(ctx context.Context, companyID, memberID, policyID, planID uint, schedule *models.PlanBenefitSchedule, periodStart, periodEnd time.Time) (*models.MemberBenefitUsage, error) {
	limits, err := s.EffectiveSchedule(ctx, policyID, schedule.ID, periodStart)
	if err != nil {
		return nil, err
	}

	usage := &models.MemberBenefitUsage{
		CompanyID:    companyID,
		MemberID:     memberID,
		PolicyID:     policyID,
		PlanID:       planID,
		BenefitType:  schedule.BenefitType,
		PeriodType:   schedule.PeriodType,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		BenefitLimit: limits.LimitAmount,
		LimitCount:   limits.LimitCount,
	}
	usage.RecomputeDerived()
	if err := s.repo.CreateUsage(usage); err != nil {
		return nil, err
	}

	util := &models.MemberBenefitUtilization{
		MemberID:          memberID,
		PolicyID:          policyID,
		BenefitScheduleID: schedule.ID,
		PeriodType:        schedule.PeriodType,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
	}
	util.SetRemaining(limits.LimitAmount, limits.LimitCount)
	if err := s.repo.CreateUtilization(util); err != nil {
		return nil, err
	}

	return usage, nil
}

// OpenPolicyPeriods opens the usage rollup and ledger rows for every active
// schedule of the policy's plan, skipping schedules whose period covering
// the given time is already open. Returns how many periods were opened.
func (s *Service) OpenPolicyPeriods(ctx context.Context, policy *models.Policy, at time.Time) (int, error) {
	schedules, err := s.repo.ListActiveSchedules(policy.PlanID)
	if err != nil {
		return 0, err
	}

	opened := 0
	for i := range schedules {
		schedule := &schedules[i]
		_, err := s.repo.GetUsage(policy.MemberID, policy.ID, schedule.BenefitType, schedule.PeriodType, at)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return opened, err
		}

		start, end := PeriodWindow(schedule.PeriodType, at)
		if _, err := s.OpenUsagePeriod(ctx, policy.CompanyID, policy.MemberID, policy.ID, policy.PlanID, schedule, start, end); err != nil {
			return opened, err
		}
		opened++
	}
	return opened, nil
}

// ApplyClaim debits an adjudicated claim against the member's usage rollup
// and the schedule-keyed ledger. The applied amount is clamped at the limit;
// threshold alerts are emitted for every newly crossed step.
func (s *Service) ApplyClaim(ctx context.Context, claim *models.Claim, scheduleID uint, serviceCount int) (*AppliedUsage, error) {
	at := claim.ServiceDate

	schedule, err := s.repo.GetSchedule(scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	limits, err := s.EffectiveSchedule(ctx, claim.PolicyID, scheduleID, at)
	if err != nil {
		return nil, err
	}

	usage, err := s.repo.GetUsage(claim.MemberID, claim.PolicyID, schedule.BenefitType, schedule.PeriodType, at)
	if err != nil {
		return nil, err
	}
	if usage.IsExhausted {
		return nil, ErrUsageExhausted
	}

	applied := usage.Apply(claim.ClaimAmount, serviceCount)
	if err := s.repo.SaveUsage(usage); err != nil {
		return nil, err
	}

	util, err := s.repo.GetUtilization(claim.MemberID, claim.PolicyID, scheduleID, schedule.PeriodType, at)
	if err != nil {
		return nil, err
	}
	util.UtilizedAmount += applied
	util.UtilizedCount += serviceCount
	util.SetRemaining(limits.LimitAmount, limits.LimitCount)
	if err := s.repo.SaveUtilization(util); err != nil {
		return nil, err
	}

	emitted, err := s.emitAlerts(usage)
	if err != nil {
		// alerts are best-effort; the accounting already committed
		log.Errorf("[Benefits] Failed to emit alerts for usage %d: %v", usage.ID, err)
	}

	return &AppliedUsage{
		AppliedAmount:  applied,
		Exhausted:      usage.IsExhausted,
		UtilizationPct: usage.UtilizationPercentage,
		AlertsEmitted:  emitted,
	}, nil
}

// ReverseClaim credits a reversed claim back to the usage rollup and ledger.
// The credit is the approved (possibly clamped) amount, not the nominal
// claim amount; alert rows for thresholds no longer reached are cleared so
// re-crossing them alerts again.
func (s *Service) ReverseClaim(ctx context.Context, claim *models.Claim, scheduleID uint, serviceCount int) error {
	at := claim.ServiceDate
	amount := claim.ClaimAmount
	if claim.ApprovedAmount != nil {
		amount = *claim.ApprovedAmount
	}

	schedule, err := s.repo.GetSchedule(scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	limits, err := s.EffectiveSchedule(ctx, claim.PolicyID, scheduleID, at)
	if err != nil {
		return err
	}

	usage, err := s.repo.GetUsage(claim.MemberID, claim.PolicyID, schedule.BenefitType, schedule.PeriodType, at)
	if err != nil {
		return err
	}
	usage.Reverse(amount, serviceCount)
	if err := s.repo.SaveUsage(usage); err != nil {
		return err
	}

	stillReached := ReachedThresholds(usage.UtilizationPercentage, usage.IsExhausted)
	if err := s.repo.ClearStaleAlerts(usage.ID, stillReached); err != nil {
		// alert bookkeeping is best-effort; the accounting already committed
		log.Errorf("[Benefits] Failed to clear stale alerts for usage %d: %v", usage.ID, err)
	}

	util, err := s.repo.GetUtilization(claim.MemberID, claim.PolicyID, scheduleID, schedule.PeriodType, at)
	if err != nil {
		return err
	}
	util.UtilizedAmount -= amount
	if util.UtilizedAmount < 0 {
		util.UtilizedAmount = 0
	}
	util.UtilizedCount -= serviceCount
	if util.UtilizedCount < 0 {
		util.UtilizedCount = 0
	}
	util.SetRemaining(limits.LimitAmount, limits.LimitCount)
	return s.repo.SaveUtilization(util)
}

// emitAlerts writes one BenefitAlertLog row per newly crossed threshold.
func (s *Service) emitAlerts(usage *models.MemberBenefitUsage) ([]int, error) {
	reached := ReachedThresholds(usage.UtilizationPercentage, usage.IsExhausted)
	if len(reached) == 0 {
		return nil, nil
	}

	sent, err := s.repo.ExistingAlertThresholds(usage.ID)
	if err != nil {
		return nil, err
	}

	missing := MissingThresholds(reached, sent)
	now := time.Now()
	for _, th := range missing {
		alert := &models.BenefitAlertLog{
			UsageID:   usage.ID,
			MemberID:  usage.MemberID,
			Threshold: th,
			Channel:   models.ALERT_CHANNEL_EMAIL,
			Message:   alertMessage(usage, th),
			SentAt:    &now,
		}
		if err := s.repo.CreateAlert(alert); err != nil {
			return missing, err
		}
	}
	return missing, nil
}
