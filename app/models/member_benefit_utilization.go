package models

import (
	"time"

	"gorm.io/gorm"
)

// MemberBenefitUtilization is the schedule-keyed ledger consumed by
// remaining-benefit lookups. One row per (member, policy, schedule, period).
// Remaining values are maintained against the limits passed in by the
// benefits service, since the schedule (or an approved override) owns them.
type MemberBenefitUtilization struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	MemberID          uint      `gorm:"not null;index:idx_util_member_schedule,priority:1" json:"member_id"`
	PolicyID          uint      `gorm:"not null;index" json:"policy_id"`
	BenefitScheduleID uint      `gorm:"not null;index:idx_util_member_schedule,priority:2" json:"benefit_schedule_id"`
	PeriodType        string    `gorm:"type:varchar(20);default:'annual';index:idx_util_member_schedule,priority:3" json:"period_type"`
	PeriodStart       time.Time `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd         time.Time `gorm:"type:date;not null" json:"period_end"`

	UtilizedAmount  float64 `gorm:"type:decimal(14,2);default:0" json:"utilized_amount"`
	UtilizedCount   int     `gorm:"default:0" json:"utilized_count"`
	RemainingAmount float64 `gorm:"type:decimal(14,2);default:0" json:"remaining_amount"`
	RemainingCount  int     `gorm:"default:0" json:"remaining_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SetRemaining recomputes remaining values from the effective limits
func (u *MemberBenefitUtilization) SetRemaining(limitAmount float64, limitCount int) {
	u.RemainingAmount = limitAmount - u.UtilizedAmount
	if u.RemainingAmount < 0 {
		u.RemainingAmount = 0
	}
	u.RemainingCount = limitCount - u.UtilizedCount
	if u.RemainingCount < 0 {
		u.RemainingCount = 0
	}
}

// BeforeSave rejects negative utilization
func (u *MemberBenefitUtilization) BeforeSave(tx *gorm.DB) error {
	if u.UtilizedAmount < 0 || u.RemainingAmount < 0 {
		return ErrUsageNegativeAmount
	}
	if u.UtilizedCount < 0 || u.RemainingCount < 0 {
		return ErrUsageNegativeCount
	}
	return nil
}
