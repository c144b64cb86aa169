package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Benefit accounting periods
const (
	PERIOD_ANNUAL   = "annual"
	PERIOD_LIFETIME = "lifetime"
	PERIOD_MONTHLY  = "monthly"
)

// Coverage types a schedule can apply to
const (
	COVERAGE_INPATIENT  = "inpatient"
	COVERAGE_OUTPATIENT = "outpatient"
	COVERAGE_DENTAL     = "dental"
	COVERAGE_OPTICAL    = "optical"
	COVERAGE_MATERNITY  = "maternity"
	COVERAGE_PHARMACY   = "pharmacy"
)

// PlanBenefitSchedule defines a covered benefit's limit, coinsurance, copay
// and preapproval rule for a plan/coverage/category combination.
type PlanBenefitSchedule struct {
	ID                  uint    `gorm:"primaryKey" json:"id"`
	PlanID              uint    `gorm:"not null;index:idx_schedule_plan_coverage,priority:1" json:"plan_id" validate:"required"`
	CoverageType        string  `gorm:"type:varchar(50);not null;index:idx_schedule_plan_coverage,priority:2" json:"coverage_type" validate:"required,oneof=inpatient outpatient dental optical maternity pharmacy"`
	BenefitCategory     string  `gorm:"type:varchar(100);not null" json:"benefit_category" validate:"required,max=100"`
	BenefitType         string  `gorm:"type:varchar(100);not null;index" json:"benefit_type" validate:"required,max=100"`
	LimitAmount         float64 `gorm:"type:decimal(14,2);default:0" json:"limit_amount" validate:"gte=0"`
	LimitCount          int     `gorm:"default:0" json:"limit_count" validate:"gte=0"` // 0 = no visit-count limit
	CoinsurancePercent  float64 `gorm:"type:decimal(5,2);default:0" json:"coinsurance_percent" validate:"gte=0,lte=100"`
	CopayAmount         float64 `gorm:"type:decimal(14,2);default:0" json:"copay_amount" validate:"gte=0"`
	RequiresPreapproval bool    `gorm:"default:false" json:"requires_preapproval"`
	PeriodType          string  `gorm:"type:varchar(20);default:'annual'" json:"period_type" validate:"oneof=annual lifetime monthly"`
	IsActive            bool    `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *PlanBenefitSchedule) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

// HasAmountLimit reports whether the schedule caps spend at all.
// A zero limit means the benefit is not amount-limited.
func (s *PlanBenefitSchedule) HasAmountLimit() bool {
	return s.LimitAmount > 0
}

// HasCountLimit reports whether the schedule caps visit/service counts
func (s *PlanBenefitSchedule) HasCountLimit() bool {
	return s.LimitCount > 0
}
