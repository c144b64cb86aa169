package repository

import (
	"github.com/cardinsa/cardinsa/app/models"
	"gorm.io/gorm"
)

// claimRepository implements the ClaimRepository interface
type claimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates a new claim repository instance
func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(claim *models.Claim) error {
	return r.db.Create(claim).Error
}

func (r *claimRepository) GetByID(id uint) (*models.Claim, error) {
	var claim models.Claim
	err := r.db.First(&claim, id).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) GetByClaimNumber(number string) (*models.Claim, error) {
	var claim models.Claim
	err := r.db.Where("claim_number = ?", number).First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) GetByMemberID(memberID uint, offset, limit int) ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.Where("member_id = ?", memberID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&claims).Error
	return claims, err
}

func (r *claimRepository) GetByPolicyID(policyID uint) ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.Where("policy_id = ?", policyID).Order("service_date DESC").Find(&claims).Error
	return claims, err
}

func (r *claimRepository) GetByStatus(companyID uint, status string, offset, limit int) ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.Where("company_id = ? AND status = ?", companyID, status).
		Order("submitted_at ASC").Offset(offset).Limit(limit).Find(&claims).Error
	return claims, err
}

func (r *claimRepository) Update(claim *models.Claim) error {
	return r.db.Save(claim).Error
}

func (r *claimRepository) AddDocument(doc *models.ClaimDocument) error {
	return r.db.Create(doc).Error
}

func (r *claimRepository) GetDocuments(claimID uint) ([]models.ClaimDocument, error) {
	var docs []models.ClaimDocument
	err := r.db.Where("claim_id = ?", claimID).Order("created_at ASC").Find(&docs).Error
	return docs, err
}

func (r *claimRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Claim{}).Count(&count).Error
	return count, err
}
