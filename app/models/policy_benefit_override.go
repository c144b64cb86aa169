package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// PolicyBenefitOverride adjusts a schedule's limit, coinsurance or copay for
// a single policy, within an effective window and with an approval reference.
// Nil fields keep the schedule value.
type PolicyBenefitOverride struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	PolicyID           uint       `gorm:"not null;index:idx_override_policy_schedule,priority:1" json:"policy_id" validate:"required"`
	BenefitScheduleID  uint       `gorm:"not null;index:idx_override_policy_schedule,priority:2" json:"benefit_schedule_id" validate:"required"`
	LimitAmount        *float64   `gorm:"type:decimal(14,2);default:null" json:"limit_amount"`
	LimitCount         *int       `gorm:"default:null" json:"limit_count"`
	CoinsurancePercent *float64   `gorm:"type:decimal(5,2);default:null" json:"coinsurance_percent"`
	CopayAmount        *float64   `gorm:"type:decimal(14,2);default:null" json:"copay_amount"`
	EffectiveDate      time.Time  `gorm:"type:date;not null" json:"effective_date" validate:"required"`
	ExpiryDate         *time.Time `gorm:"type:date;default:null" json:"expiry_date"`
	ApprovedBy         *uint      `gorm:"default:null" json:"approved_by"`
	ApprovalReference  string     `gorm:"type:varchar(100)" json:"approval_reference" validate:"max=100"`
	IsActive           bool       `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *PolicyBenefitOverride) Validate() error {
	v := validator.New()

	return v.Struct(o)
}

// IsEffectiveAt reports whether the override applies at the given time
func (o *PolicyBenefitOverride) IsEffectiveAt(at time.Time) bool {
	if !o.IsActive || o.ApprovedBy == nil {
		return false
	}
	if at.Before(o.EffectiveDate) {
		return false
	}
	if o.ExpiryDate != nil && !at.Before(*o.ExpiryDate) {
		return false
	}
	return true
}
