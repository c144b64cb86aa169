package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	QUOTE_STATUS_OPEN     = "open"
	QUOTE_STATUS_ACCEPTED = "accepted"
	QUOTE_STATUS_DECLINED = "declined"
	QUOTE_STATUS_EXPIRED  = "expired"
)

// Quote is a pre-policy premium quotation with an expiry. Quotes past their
// expiry are swept to expired by the workflow manager.
type Quote struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CompanyID     uint      `gorm:"not null;index" json:"company_id" validate:"required"`
	MemberID      *uint     `gorm:"index;default:null" json:"member_id"`
	PlanID        uint      `gorm:"not null" json:"plan_id" validate:"required"`
	QuoteNumber   string    `gorm:"uniqueIndex;type:varchar(50);not null" json:"quote_number" validate:"required,max=50"`
	PremiumAmount float64   `gorm:"type:decimal(14,2);default:0" json:"premium_amount" validate:"gte=0"`
	Status        string    `gorm:"type:varchar(50);default:'open';index" json:"status" validate:"oneof=open accepted declined expired"`
	ExpiresAt     time.Time `gorm:"type:timestamp;not null;index" json:"expires_at" validate:"required"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (q *Quote) Validate() error {
	v := validator.New()

	return v.Struct(q)
}

// IsExpired reports whether the quote has passed its expiry without acceptance
func (q *Quote) IsExpired(at time.Time) bool {
	return q.Status == QUOTE_STATUS_OPEN && at.After(q.ExpiresAt)
}
