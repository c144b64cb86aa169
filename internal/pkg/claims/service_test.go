package claims

import (
	"context"
	"testing"
	"time"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/cardinsa/cardinsa/internal/pkg/actorcontext"
	"github.com/cardinsa/cardinsa/internal/pkg/audit"
	"github.com/cardinsa/cardinsa/internal/pkg/benefits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ---- fakes ----

type fakeClaimRepo struct {
	byID   map[uint]*models.Claim
	nextID uint
}

func newFakeClaimRepo() *fakeClaimRepo {
	return &fakeClaimRepo{byID: make(map[uint]*models.Claim), nextID: 1}
}

func (f *fakeClaimRepo) Create(c *models.Claim) error {
	c.ID = f.nextID
	f.nextID++
	f.byID[c.ID] = c
	return nil
}

func (f *fakeClaimRepo) GetByID(id uint) (*models.Claim, error) {
	if c, ok := f.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClaimRepo) GetByClaimNumber(string) (*models.Claim, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeClaimRepo) GetByMemberID(uint, int, int) ([]models.Claim, error) { return nil, nil }
func (f *fakeClaimRepo) GetByPolicyID(uint) ([]models.Claim, error)           { return nil, nil }
func (f *fakeClaimRepo) GetByStatus(uint, string, int, int) ([]models.Claim, error) {
	return nil, nil
}

func (f *fakeClaimRepo) Update(c *models.Claim) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeClaimRepo) AddDocument(*models.ClaimDocument) error { return nil }
func (f *fakeClaimRepo) GetDocuments(uint) ([]models.ClaimDocument, error) {
	return nil, nil
}
func (f *fakeClaimRepo) Count() (int64, error) { return int64(len(f.byID)), nil }

type fakePolicyRepo struct {
	byID map[uint]*models.Policy
}

func (f *fakePolicyRepo) Create(*models.Policy) error { return nil }
func (f *fakePolicyRepo) GetByID(id uint) (*models.Policy, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakePolicyRepo) GetByPolicyNumber(string) (*models.Policy, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakePolicyRepo) GetByMemberID(uint) ([]models.Policy, error)            { return nil, nil }
func (f *fakePolicyRepo) GetByCompanyID(uint, int, int) ([]models.Policy, error) { return nil, nil }
func (f *fakePolicyRepo) Update(*models.Policy) error                            { return nil }
func (f *fakePolicyRepo) UpdateStatus(uint, string) error                        { return nil }
func (f *fakePolicyRepo) SetCompanyName(uint, string) error                      { return nil }
func (f *fakePolicyRepo) ListExpiring(time.Time, int) ([]models.Policy, error)   { return nil, nil }
func (f *fakePolicyRepo) Count() (int64, error)                                  { return 0, nil }

type fakeAuditRepo struct {
	entries []*models.AuditLog
}

func (f *fakeAuditRepo) Create(e *models.AuditLog) error {
	f.entries = append(f.entries, e)
	return nil
}
func (f *fakeAuditRepo) GetByRecord(string, uint) ([]models.AuditLog, error) { return nil, nil }
func (f *fakeAuditRepo) List(int, int) ([]models.AuditLog, error)            { return nil, nil }

type fakeWorkflow struct {
	submitted []*models.Claim
}

func (f *fakeWorkflow) ClaimSubmitted(c *models.Claim) error {
	f.submitted = append(f.submitted, c)
	return nil
}

// fakeBenefitsRepo backs a real benefits.Service for adjudication tests
type fakeBenefitsRepo struct {
	schedule *models.PlanBenefitSchedule
	usage    *models.MemberBenefitUsage
	util     *models.MemberBenefitUtilization
	alerts   []*models.BenefitAlertLog
}

func (f *fakeBenefitsRepo) GetSchedule(id uint) (*models.PlanBenefitSchedule, error) {
	if f.schedule != nil && f.schedule.ID == id {
		return f.schedule, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeBenefitsRepo) ListActiveSchedules(planID uint) ([]models.PlanBenefitSchedule, error) {
	if f.schedule != nil && f.schedule.PlanID == planID {
		return []models.PlanBenefitSchedule{*f.schedule}, nil
	}
	return nil, nil
}
func (f *fakeBenefitsRepo) GetActiveOverrides(uint, uint) ([]models.PolicyBenefitOverride, error) {
	return nil, nil
}
func (f *fakeBenefitsRepo) GetUsage(uint, uint, string, string, time.Time) (*models.MemberBenefitUsage, error) {
	if f.usage != nil {
		return f.usage, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeBenefitsRepo) CreateUsage(u *models.MemberBenefitUsage) error { f.usage = u; return nil }
func (f *fakeBenefitsRepo) SaveUsage(*models.MemberBenefitUsage) error     { return nil }
func (f *fakeBenefitsRepo) GetUtilization(uint, uint, uint, string, time.Time) (*models.MemberBenefitUtilization, error) {
	if f.util != nil {
		return f.util, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeBenefitsRepo) CreateUtilization(u *models.MemberBenefitUtilization) error {
	f.util = u
	return nil
}
func (f *fakeBenefitsRepo) SaveUtilization(*models.MemberBenefitUtilization) error { return nil }
func (f *fakeBenefitsRepo) ExistingAlertThresholds(uint) ([]int, error)            { return nil, nil }
func (f *fakeBenefitsRepo) CreateAlert(a *models.BenefitAlertLog) error {
	f.alerts = append(f.alerts, a)
	return nil
}
func (f *fakeBenefitsRepo) ClearStaleAlerts(usageID uint, stillReached []int) error {
	keep := make(map[int]struct{}, len(stillReached))
	for _, th := range stillReached {
		keep[th] = struct{}{}
	}
	var kept []*models.BenefitAlertLog
	for _, a := range f.alerts {
		if a.UsageID != usageID {
			kept = append(kept, a)
			continue
		}
		if _, ok := keep[a.Threshold]; ok {
			kept = append(kept, a)
		}
	}
	f.alerts = kept
	return nil
}

// ---- helpers ----

func activePolicy(id uint) *models.Policy {
	return &models.Policy{
		ID:            id,
		CompanyID:     1,
		MemberID:      5,
		PlanID:        3,
		PolicyNumber:  "POL-1",
		Status:        models.POLICY_STATUS_ACTIVE,
		EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService(policy *models.Policy) (*Service, *fakeClaimRepo, *fakeAuditRepo, *fakeWorkflow, *fakeBenefitsRepo) {
	claimRepo := newFakeClaimRepo()
	policyRepo := &fakePolicyRepo{byID: map[uint]*models.Policy{}}
	if policy != nil {
		policyRepo.byID[policy.ID] = policy
	}
	auditRepo := &fakeAuditRepo{}
	wf := &fakeWorkflow{}
	benefitsRepo := &fakeBenefitsRepo{
		schedule: &models.PlanBenefitSchedule{
			ID:          10,
			PlanID:      3,
			BenefitType: "dental_basic",
			LimitAmount: 1000,
			PeriodType:  models.PERIOD_ANNUAL,
			IsActive:    true,
		},
		usage: &models.MemberBenefitUsage{
			ID: 1, MemberID: 5, PolicyID: 2, BenefitLimit: 1000,
			BenefitType: "dental_basic", PeriodType: models.PERIOD_ANNUAL,
		},
		util: &models.MemberBenefitUtilization{
			ID: 1, MemberID: 5, PolicyID: 2, BenefitScheduleID: 10,
			PeriodType: models.PERIOD_ANNUAL, RemainingAmount: 1000,
		},
	}
	svc := NewService(claimRepo, policyRepo, benefits.NewService(benefitsRepo), audit.NewRecorder(auditRepo), wf)
	return svc, claimRepo, auditRepo, wf, benefitsRepo
}

func draftClaim(amount, fraud float64) *models.Claim {
	return &models.Claim{
		CompanyID:   1,
		MemberID:    5,
		PolicyID:    2,
		ClaimAmount: amount,
		FraudScore:  fraud,
		Status:      models.CLAIM_STATUS_DRAFT,
		ServiceDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
	}
}

func actor() actorcontext.ActorContext {
	return actorcontext.ActorContext{ActorID: 9, ActorName: "ops", CompanyID: 1, IsLoggedIn: true}
}

// ---- tests ----

func TestSubmitPersistsAuditsAndEnqueues(t *testing.T) {
	svc, claimRepo, auditRepo, wf, _ := newTestService(activePolicy(2))

	c := draftClaim(900, 0.1)
	require.NoError(t, svc.Submit(actor(), c))

	assert.Equal(t, models.CLAIM_STATUS_SUBMITTED, c.Status)
	assert.NotEmpty(t, c.ClaimNumber)
	assert.NotNil(t, c.SubmittedAt)
	assert.Len(t, claimRepo.byID, 1)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, models.AUDIT_OP_INSERT, auditRepo.entries[0].Operation)
	assert.Len(t, wf.submitted, 1)
}

func TestSubmitRejectsInvalidAmounts(t *testing.T) {
	svc, claimRepo, _, wf, _ := newTestService(activePolicy(2))

	c := draftClaim(0, 0.1)
	assert.ErrorIs(t, svc.Submit(actor(), c), models.ErrClaimAmountNotPositive)

	reserve := 100.0
	c = draftClaim(500, 0.1)
	c.ReservedAmount = &reserve
	assert.ErrorIs(t, svc.Submit(actor(), c), models.ErrClaimReserveTooLow)

	assert.Empty(t, claimRepo.byID)
	assert.Empty(t, wf.submitted)
}

func TestSubmitRejectsInactivePolicy(t *testing.T) {
	p := activePolicy(2)
	p.Status = models.POLICY_STATUS_SUSPENDED
	svc, _, _, _, _ := newTestService(p)

	assert.ErrorIs(t, svc.Submit(actor(), draftClaim(500, 0.1)), ErrPolicyNotInForce)
}

func TestTryAutoApproveApprovesEligibleClaim(t *testing.T) {
	svc, claimRepo, auditRepo, _, _ := newTestService(activePolicy(2))

	c := draftClaim(1500, 0.05)
	require.NoError(t, svc.Submit(actor(), c))

	ok, err := svc.TryAutoApprove(actor(), c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	stored := claimRepo.byID[c.ID]
	assert.Equal(t, models.CLAIM_STATUS_APPROVED, stored.Status)
	require.NotNil(t, stored.ApprovedAmount)
	assert.Equal(t, 1500.0, *stored.ApprovedAmount)
	assert.Len(t, auditRepo.entries, 2) // insert + approval update
}

func TestTryAutoApproveLeavesIneligibleClaimUntouched(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		fraud  float64
	}{
		{"amount over limit", 5001, 0.05},
		{"fraud score too high", 1500, 0.31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, claimRepo, _, _, _ := newTestService(activePolicy(2))
			c := draftClaim(tt.amount, tt.fraud)
			require.NoError(t, svc.Submit(actor(), c))

			ok, err := svc.TryAutoApprove(actor(), c.ID)
			require.NoError(t, err)
			assert.False(t, ok)

			stored := claimRepo.byID[c.ID]
			assert.Equal(t, models.CLAIM_STATUS_SUBMITTED, stored.Status)
			assert.Nil(t, stored.ApprovedAmount)
			assert.Nil(t, stored.DecidedAt)
		})
	}
}

func TestAdjudicateApprovalDebitsBenefits(t *testing.T) {
	svc, claimRepo, _, _, benefitsRepo := newTestService(activePolicy(2))

	c := draftClaim(400, 0.1)
	require.NoError(t, svc.Submit(actor(), c))

	err := svc.Adjudicate(context.Background(), actor(), c.ID, true, 10, 1, "reviewed")
	require.NoError(t, err)

	stored := claimRepo.byID[c.ID]
	assert.Equal(t, models.CLAIM_STATUS_APPROVED, stored.Status)
	require.NotNil(t, stored.ApprovedAmount)
	assert.Equal(t, 400.0, *stored.ApprovedAmount)
	assert.Equal(t, 400.0, benefitsRepo.usage.UsedAmount)
	assert.Equal(t, 400.0, benefitsRepo.util.UtilizedAmount)
}

func TestAdjudicateRejectionSkipsBenefits(t *testing.T) {
	svc, claimRepo, _, _, benefitsRepo := newTestService(activePolicy(2))

	c := draftClaim(400, 0.1)
	require.NoError(t, svc.Submit(actor(), c))

	err := svc.Adjudicate(context.Background(), actor(), c.ID, false, 0, 0, "not covered")
	require.NoError(t, err)

	stored := claimRepo.byID[c.ID]
	assert.Equal(t, models.CLAIM_STATUS_REJECTED, stored.Status)
	assert.Equal(t, 0.0, benefitsRepo.usage.UsedAmount)
}

func TestReverseCreditsBenefits(t *testing.T) {
	svc, claimRepo, _, _, benefitsRepo := newTestService(activePolicy(2))

	c := draftClaim(400, 0.1)
	require.NoError(t, svc.Submit(actor(), c))
	require.NoError(t, svc.Adjudicate(context.Background(), actor(), c.ID, true, 10, 1, "reviewed"))

	require.NoError(t, svc.Reverse(context.Background(), actor(), c.ID, 1, "provider refund"))

	stored := claimRepo.byID[c.ID]
	assert.Equal(t, models.CLAIM_STATUS_REVERSED, stored.Status)
	assert.Equal(t, 0.0, benefitsRepo.usage.UsedAmount)
	assert.Equal(t, 0.0, benefitsRepo.util.UtilizedAmount)
}

func TestReverseAfterClampCreditsOnlyAppliedAmount(t *testing.T) {
	svc, claimRepo, _, _, benefitsRepo := newTestService(activePolicy(2))

	first := draftClaim(800, 0.1)
	require.NoError(t, svc.Submit(actor(), first))
	require.NoError(t, svc.Adjudicate(context.Background(), actor(), first.ID, true, 10, 1, "reviewed"))

	// second claim exceeds the remaining 200 of headroom and is clamped
	second := draftClaim(500, 0.1)
	require.NoError(t, svc.Submit(actor(), second))
	require.NoError(t, svc.Adjudicate(context.Background(), actor(), second.ID, true, 10, 1, "reviewed"))

	stored := claimRepo.byID[second.ID]
	require.NotNil(t, stored.ApprovedAmount)
	require.Equal(t, 200.0, *stored.ApprovedAmount)
	require.Equal(t, 1000.0, benefitsRepo.usage.UsedAmount)

	require.NoError(t, svc.Reverse(context.Background(), actor(), second.ID, 1, "provider refund"))

	// only the clamped 200 comes back; the first claim's 800 stays spent
	assert.Equal(t, 800.0, benefitsRepo.usage.UsedAmount)
	assert.Equal(t, 800.0, benefitsRepo.util.UtilizedAmount)
	assert.Equal(t, 200.0, benefitsRepo.usage.RemainingAmount)
}
