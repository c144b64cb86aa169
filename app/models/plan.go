package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	PLAN_STATUS_ACTIVE  = "active"
	PLAN_STATUS_RETIRED = "retired"
)

// Plan is a product definition a tenant sells; benefit limits hang off it
// via PlanBenefitSchedule rows.
type Plan struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CompanyID   uint   `gorm:"not null;index" json:"company_id" validate:"required"`
	Name        string `gorm:"type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`
	Code        string `gorm:"uniqueIndex;type:varchar(50);not null" json:"code" validate:"required,max=50"`
	Description string `gorm:"type:text" json:"description" validate:"max=2000"`
	Status      string `gorm:"type:varchar(50);default:'active';index" json:"status" validate:"oneof=active retired"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
