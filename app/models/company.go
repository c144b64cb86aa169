package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	COMPANY_STATUS_ACTIVE    = "active"
	COMPANY_STATUS_SUSPENDED = "suspended"
	COMPANY_STATUS_CLOSED    = "closed"
)

// Company is a tenant of the platform. Every domain record carries its
// CompanyID; the company name is denormalized onto policies for reporting.
type Company struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`
	Code        string `gorm:"uniqueIndex;type:varchar(50);not null" json:"code" validate:"required,min=2,max=50"`
	CountryCode string `gorm:"type:varchar(2)" json:"country_code" validate:"omitempty,len=2"`
	ContactMail string `gorm:"type:varchar(200)" json:"contact_mail" validate:"omitempty,email"`
	Status      string `gorm:"type:varchar(50);default:'active';index" json:"status" validate:"oneof=active suspended closed"`
	// Denormalized counters flushed from Redis by the workflow manager
	ClaimsSubmittedCount   int64 `gorm:"default:0" json:"claims_submitted_count"`
	PoliciesActivatedCount int64 `gorm:"default:0" json:"policies_activated_count"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Company) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// IsActive reports whether the tenant may transact
func (c *Company) IsActive() bool {
	return c.Status == COMPANY_STATUS_ACTIVE
}
