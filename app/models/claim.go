package models

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	CLAIM_STATUS_DRAFT          = "draft"
	CLAIM_STATUS_SUBMITTED      = "submitted"
	CLAIM_STATUS_PENDING_REVIEW = "pending_review"
	CLAIM_STATUS_APPROVED       = "approved"
	CLAIM_STATUS_REJECTED       = "rejected"
	CLAIM_STATUS_PAID           = "paid"
	CLAIM_STATUS_REVERSED       = "reversed"
)

var (
	ErrClaimAmountNotPositive = errors.New("claim amount must be greater than zero")
	ErrClaimReserveTooLow     = errors.New("reserved amount must not be less than claim amount")
)

// Claim is a member's request for reimbursement against a policy benefit.
type Claim struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	CompanyID         uint       `gorm:"not null;index" json:"company_id" validate:"required"`
	MemberID          uint       `gorm:"not null;index" json:"member_id" validate:"required"`
	PolicyID          uint       `gorm:"not null;index" json:"policy_id" validate:"required"`
	BenefitScheduleID *uint      `gorm:"index;default:null" json:"benefit_schedule_id"`
	ClaimNumber       string     `gorm:"uniqueIndex;type:varchar(50);not null" json:"claim_number" validate:"required,max=50"`
	ClaimAmount       float64    `gorm:"type:decimal(14,2);not null" json:"claim_amount"`
	ReservedAmount    *float64   `gorm:"type:decimal(14,2);default:null" json:"reserved_amount"`
	ApprovedAmount    *float64   `gorm:"type:decimal(14,2);default:null" json:"approved_amount"`
	FraudScore        float64    `gorm:"type:decimal(4,3);default:0" json:"fraud_score" validate:"gte=0,lte=1"`
	Status            string     `gorm:"type:varchar(50);default:'draft';index" json:"status" validate:"oneof=draft submitted pending_review approved rejected paid reversed"`
	ServiceDate       time.Time  `gorm:"type:date;not null" json:"service_date" validate:"required"`
	Diagnosis         string     `gorm:"type:varchar(255)" json:"diagnosis" validate:"max=255"`
	ProviderName      string     `gorm:"type:varchar(200)" json:"provider_name" validate:"max=200"`
	SubmittedAt       *time.Time `gorm:"type:timestamp;default:null" json:"submitted_at"`
	DecidedAt         *time.Time `gorm:"type:timestamp;default:null" json:"decided_at"`
	DecidedBy         *uint      `gorm:"default:null" json:"decided_by"`
	DecisionReason    string     `gorm:"type:text" json:"decision_reason"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Validate enforces struct tags plus the amount rules applied on every
// claim write: positive claim amount, and a reserve that covers it.
func (c *Claim) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	if c.ClaimAmount <= 0 {
		return ErrClaimAmountNotPositive
	}
	if c.ReservedAmount != nil && *c.ReservedAmount < c.ClaimAmount {
		return ErrClaimReserveTooLow
	}
	return nil
}

// IsOpen reports whether the claim still awaits a decision
func (c *Claim) IsOpen() bool {
	switch c.Status {
	case CLAIM_STATUS_DRAFT, CLAIM_STATUS_SUBMITTED, CLAIM_STATUS_PENDING_REVIEW:
		return true
	}
	return false
}

// MarkSubmitted moves the claim into the submitted state
func (c *Claim) MarkSubmitted() {
	now := time.Now()
	c.Status = CLAIM_STATUS_SUBMITTED
	c.SubmittedAt = &now
}

// MarkDecided records a decision outcome on the claim
func (c *Claim) MarkDecided(status string, decidedBy *uint, reason string) {
	now := time.Now()
	c.Status = status
	c.DecidedAt = &now
	c.DecidedBy = decidedBy
	c.DecisionReason = reason
}
