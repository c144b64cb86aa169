package benefits

import (
	"time"

	"github.com/cardinsa/cardinsa/app/models"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the benefits service.
type Repository interface {
	GetSchedule(id uint) (*models.PlanBenefitSchedule, error)
	ListActiveSchedules(planID uint) ([]models.PlanBenefitSchedule, error)
	GetActiveOverrides(policyID, scheduleID uint) ([]models.PolicyBenefitOverride, error)
	GetUsage(memberID, policyID uint, benefitType, periodType string, at time.Time) (*models.MemberBenefitUsage, error)
	CreateUsage(usage *models.MemberBenefitUsage) error
	SaveUsage(usage *models.MemberBenefitUsage) error
	GetUtilization(memberID, policyID, scheduleID uint, periodType string, at time.Time) (*models.MemberBenefitUtilization, error)
	CreateUtilization(util *models.MemberBenefitUtilization) error
	SaveUtilization(util *models.MemberBenefitUtilization) error
	ExistingAlertThresholds(usageID uint) ([]int, error)
	CreateAlert(alert *models.BenefitAlertLog) error
	ClearStaleAlerts(usageID uint, stillReached []int) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a benefits repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetSchedule(id uint) (*models.PlanBenefitSchedule, error) {
	var s models.PlanBenefitSchedule
	if err := r.db.Where("id = ? AND is_active = ?", id, true).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *gormRepository) ListActiveSchedules(planID uint) ([]models.PlanBenefitSchedule, error) {
	var schedules []models.PlanBenefitSchedule
	err := r.db.
		Where("plan_id = ? AND is_active = ?", planID, true).
		Order("id").
		Find(&schedules).Error
	return schedules, err
}

func (r *gormRepository) GetActiveOverrides(policyID, scheduleID uint) ([]models.PolicyBenefitOverride, error) {
	var overrides []models.PolicyBenefitOverride
	err := r.db.
		Where("policy_id = ? AND benefit_schedule_id = ? AND is_active = ?", policyID, scheduleID, true).
		Order("effective_date DESC").
		Find(&overrides).Error
	return overrides, err
}

func (r *gormRepository) GetUsage(memberID, policyID uint, benefitType, periodType string, at time.Time) (*models.MemberBenefitUsage, error) {
	var u models.MemberBenefitUsage
	err := r.db.
		Where("member_id = ? AND policy_id = ? AND benefit_type = ? AND period_type = ?", memberID, policyID, benefitType, periodType).
		Where("period_start <= ? AND period_end >= ?", at, at).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) CreateUsage(usage *models.MemberBenefitUsage) error {
	return r.db.Create(usage).Error
}

func (r *gormRepository) SaveUsage(usage *models.MemberBenefitUsage) error {
	return r.db.Save(usage).Error
}

func (r *gormRepository) GetUtilization(memberID, policyID, scheduleID uint, periodType string, at time.Time) (*models.MemberBenefitUtilization, error) {
	var u models.MemberBenefitUtilization
	err := r.db.
		Where("member_id = ? AND policy_id = ? AND benefit_schedule_id = ? AND period_type = ?", memberID, policyID, scheduleID, periodType).
		Where("period_start <= ? AND period_end >= ?", at, at).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) CreateUtilization(util *models.MemberBenefitUtilization) error {
	return r.db.Create(util).Error
}

func (r *gormRepository) SaveUtilization(util *models.MemberBenefitUtilization) error {
	return r.db.Save(util).Error
}

func (r *gormRepository) ExistingAlertThresholds(usageID uint) ([]int, error) {
	var thresholds []int
	err := r.db.Model(&models.BenefitAlertLog{}).
		Where("usage_id = ?", usageID).
		Pluck("threshold", &thresholds).Error
	return thresholds, err
}

func (r *gormRepository) CreateAlert(alert *models.BenefitAlertLog) error {
	return r.db.Create(alert).Error
}

func (r *gormRepository) ClearStaleAlerts(usageID uint, stillReached []int) error {
	q := r.db.Where("usage_id = ?", usageID)
	if len(stillReached) > 0 {
		q = q.Where("threshold NOT IN ?", stillReached)
	}
	return q.Delete(&models.BenefitAlertLog{}).Error
}
