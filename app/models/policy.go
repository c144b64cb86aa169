package models

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	POLICY_STATUS_DRAFT     = "draft"
	POLICY_STATUS_PENDING   = "pending"
	POLICY_STATUS_ACTIVE    = "active"
	POLICY_STATUS_SUSPENDED = "suspended"
	POLICY_STATUS_EXPIRED   = "expired"
	POLICY_STATUS_CANCELLED = "cancelled"
)

var (
	ErrPolicyDatesReversed = errors.New("policy effective date must be before expiry date")
	ErrPolicyRenewalEarly  = errors.New("policy renewal date must be after effective date")
)

// Policy is a member's contract under a plan. CompanyName is denormalized
// from the owning company and refreshed by the company service on rename.
type Policy struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CompanyID     uint       `gorm:"not null;index" json:"company_id" validate:"required"`
	CompanyName   string     `gorm:"type:varchar(200)" json:"company_name"`
	MemberID      uint       `gorm:"not null;index" json:"member_id" validate:"required"`
	PlanID        uint       `gorm:"not null;index" json:"plan_id" validate:"required"`
	PolicyNumber  string     `gorm:"uniqueIndex;type:varchar(50);not null" json:"policy_number" validate:"required,max=50"`
	Status        string     `gorm:"type:varchar(50);default:'draft';index" json:"status" validate:"oneof=draft pending active suspended expired cancelled"`
	EffectiveDate time.Time  `gorm:"type:date;not null" json:"effective_date" validate:"required"`
	ExpiryDate    time.Time  `gorm:"type:date;not null" json:"expiry_date" validate:"required"`
	RenewalDate   *time.Time `gorm:"type:date;default:null" json:"renewal_date"`
	PremiumAmount float64    `gorm:"type:decimal(14,2);default:0" json:"premium_amount" validate:"gte=0"`
	ActivatedAt   *time.Time `gorm:"type:timestamp;default:null" json:"activated_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Validate enforces struct tags plus the date-ordering rules applied on
// every policy write.
func (p *Policy) Validate() error {
	v := validator.New()
	if err := v.Struct(p); err != nil {
		return err
	}

	if !p.EffectiveDate.Before(p.ExpiryDate) {
		return ErrPolicyDatesReversed
	}
	if p.RenewalDate != nil && !p.RenewalDate.After(p.EffectiveDate) {
		return ErrPolicyRenewalEarly
	}
	return nil
}

// IsActive reports whether the policy status is active
func (p *Policy) IsActive() bool {
	return p.Status == POLICY_STATUS_ACTIVE
}

// IsInForce reports whether the policy is active and the given time falls
// inside its coverage window
func (p *Policy) IsInForce(at time.Time) bool {
	return p.IsActive() && !at.Before(p.EffectiveDate) && at.Before(p.ExpiryDate)
}
