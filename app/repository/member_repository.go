package repository

import (
	"strings"

	"github.com/cardinsa/cardinsa/app/models"
	"gorm.io/gorm"
)

// memberRepository implements the MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository instance
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(member *models.Member) error {
	return r.db.Create(member).Error
}

func (r *memberRepository) GetByID(id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.First(&member, id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) GetByMemberNumber(number string) (*models.Member, error) {
	var member models.Member
	err := r.db.Where("member_number = ?", number).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) GetByCompanyID(companyID uint, offset, limit int) ([]models.Member, error) {
	var members []models.Member
	err := r.db.Where("company_id = ?", companyID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&members).Error
	return members, err
}

func (r *memberRepository) Update(member *models.Member) error {
	return r.db.Save(member).Error
}

// Delete soft deletes a member by their ID
func (r *memberRepository) Delete(id uint) error {
	return r.db.Delete(&models.Member{}, id).Error
}

// Search searches a tenant's members by name, email or member number
func (r *memberRepository) Search(companyID uint, query string) ([]models.Member, error) {
	var members []models.Member
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("company_id = ?", companyID).
		Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR member_number ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern).
		Find(&members).Error
	return members, err
}

func (r *memberRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Count(&count).Error
	return count, err
}

func (r *memberRepository) CountByCompanyID(companyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}
