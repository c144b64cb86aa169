package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUsageNegativeAmount = errors.New("benefit usage amounts must not be negative")
	ErrUsageNegativeCount  = errors.New("benefit usage counts must not be negative")
)

// MemberBenefitUsage is the member-facing accounting row tracking how much
// of a benefit limit has been consumed within a period. RemainingAmount,
// UtilizationPercentage and IsExhausted are derived values; the BeforeSave
// hook keeps them consistent on every write unless ManualOverride is set
// (case management can then pin remaining independently of used).
type MemberBenefitUsage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyID   uint      `gorm:"not null;index" json:"company_id"`
	MemberID    uint      `gorm:"not null;index:idx_usage_member_period,priority:1" json:"member_id"`
	PolicyID    uint      `gorm:"not null;index" json:"policy_id"`
	PlanID      uint      `gorm:"not null" json:"plan_id"`
	BenefitType string    `gorm:"type:varchar(100);not null;index:idx_usage_member_period,priority:2" json:"benefit_type"`
	PeriodType  string    `gorm:"type:varchar(20);default:'annual'" json:"period_type"`
	PeriodStart time.Time `gorm:"type:date;not null;index:idx_usage_member_period,priority:3" json:"period_start"`
	PeriodEnd   time.Time `gorm:"type:date;not null" json:"period_end"`

	BenefitLimit          float64 `gorm:"type:decimal(14,2);default:0" json:"benefit_limit"`
	UsedAmount            float64 `gorm:"type:decimal(14,2);default:0" json:"used_amount"`
	RemainingAmount       float64 `gorm:"type:decimal(14,2);default:0" json:"remaining_amount"`
	LimitCount            int     `gorm:"default:0" json:"limit_count"`
	UsedCount             int     `gorm:"default:0" json:"used_count"`
	RemainingCount        int     `gorm:"default:0" json:"remaining_count"`
	UtilizationPercentage float64 `gorm:"type:decimal(5,2);default:0" json:"utilization_percentage"`
	IsExhausted           bool    `gorm:"default:false;index" json:"is_exhausted"`
	ManualOverride        bool    `gorm:"default:false" json:"manual_override"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RecomputeDerived refreshes RemainingAmount, RemainingCount,
// UtilizationPercentage and IsExhausted from the limit and used values.
// Utilization is 0 when the limit is 0 (unlimited benefit).
func (u *MemberBenefitUsage) RecomputeDerived() {
	if !u.ManualOverride {
		u.RemainingAmount = u.BenefitLimit - u.UsedAmount
		if u.RemainingAmount < 0 {
			u.RemainingAmount = 0
		}
		u.RemainingCount = u.LimitCount - u.UsedCount
		if u.RemainingCount < 0 {
			u.RemainingCount = 0
		}
	}

	if u.BenefitLimit > 0 {
		u.UtilizationPercentage = u.UsedAmount / u.BenefitLimit * 100
	} else {
		u.UtilizationPercentage = 0
	}

	u.IsExhausted = (u.BenefitLimit > 0 && u.RemainingAmount <= 0) ||
		(u.LimitCount > 0 && u.RemainingCount <= 0)
}

// BeforeSave validates non-negativity and maintains the derived columns
func (u *MemberBenefitUsage) BeforeSave(tx *gorm.DB) error {
	if u.UsedAmount < 0 || u.RemainingAmount < 0 {
		return ErrUsageNegativeAmount
	}
	if u.UsedCount < 0 || u.RemainingCount < 0 {
		return ErrUsageNegativeCount
	}
	u.RecomputeDerived()
	return nil
}

// Apply debits the usage row by the given amount and count. The amount is
// clamped so UsedAmount never exceeds a positive limit; the clamped
// (actually applied) amount is returned.
func (u *MemberBenefitUsage) Apply(amount float64, count int) float64 {
	applied := amount
	if u.BenefitLimit > 0 && u.UsedAmount+amount > u.BenefitLimit {
		applied = u.BenefitLimit - u.UsedAmount
		if applied < 0 {
			applied = 0
		}
	}
	u.UsedAmount += applied
	u.UsedCount += count
	u.RecomputeDerived()
	return applied
}

// Reverse credits a previously applied amount and count back to the row
func (u *MemberBenefitUsage) Reverse(amount float64, count int) {
	u.UsedAmount -= amount
	if u.UsedAmount < 0 {
		u.UsedAmount = 0
	}
	u.UsedCount -= count
	if u.UsedCount < 0 {
		u.UsedCount = 0
	}
	u.RecomputeDerived()
}
