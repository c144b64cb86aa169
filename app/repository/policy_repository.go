package repository

import (
	"time"

	"github.com/cardinsa/cardinsa/app/models"
	"gorm.io/gorm"
)

// policyRepository implements the PolicyRepository interface
type policyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a new policy repository instance
func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) Create(policy *models.Policy) error {
	return r.db.Create(policy).Error
}

func (r *policyRepository) GetByID(id uint) (*models.Policy, error) {
	var policy models.Policy
	err := r.db.First(&policy, id).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *policyRepository) GetByPolicyNumber(number string) (*models.Policy, error) {
	var policy models.Policy
	err := r.db.Where("policy_number = ?", number).First(&policy).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *policyRepository) GetByMemberID(memberID uint) ([]models.Policy, error) {
	var policies []models.Policy
	err := r.db.Where("member_id = ?", memberID).Order("effective_date DESC").Find(&policies).Error
	return policies, err
}

func (r *policyRepository) GetByCompanyID(companyID uint, offset, limit int) ([]models.Policy, error) {
	var policies []models.Policy
	err := r.db.Where("company_id = ?", companyID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&policies).Error
	return policies, err
}

func (r *policyRepository) Update(policy *models.Policy) error {
	return r.db.Save(policy).Error
}

func (r *policyRepository) UpdateStatus(id uint, status string) error {
	updates := map[string]any{"status": status}
	if status == models.POLICY_STATUS_ACTIVE {
		updates["activated_at"] = time.Now()
	}
	return r.db.Model(&models.Policy{}).Where("id = ?", id).Updates(updates).Error
}

// SetCompanyName refreshes the denormalized company name on all policies of a tenant
func (r *policyRepository) SetCompanyName(companyID uint, name string) error {
	return r.db.Model(&models.Policy{}).Where("company_id = ?", companyID).
		Update("company_name", name).Error
}

// ListExpiring returns active policies whose expiry date falls before the cutoff
func (r *policyRepository) ListExpiring(before time.Time, limit int) ([]models.Policy, error) {
	var policies []models.Policy
	err := r.db.Where("status = ? AND expiry_date < ?", models.POLICY_STATUS_ACTIVE, before).
		Order("expiry_date ASC").Limit(limit).Find(&policies).Error
	return policies, err
}

func (r *policyRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Policy{}).Count(&count).Error
	return count, err
}
