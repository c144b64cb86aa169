package models

import "time"

// Alert thresholds in percent; 100 doubles as "exhausted"
const (
	ALERT_THRESHOLD_50        = 50
	ALERT_THRESHOLD_80        = 80
	ALERT_THRESHOLD_90        = 90
	ALERT_THRESHOLD_EXHAUSTED = 100
)

const (
	ALERT_CHANNEL_EMAIL = "email"
	ALERT_CHANNEL_SMS   = "sms"
)

// BenefitAlertLog records a threshold-crossing notification sent to a member
// for a benefit usage row. One row per (usage, threshold).
type BenefitAlertLog struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UsageID   uint       `gorm:"not null;index:idx_alert_usage_threshold,priority:1" json:"usage_id"`
	MemberID  uint       `gorm:"not null;index" json:"member_id"`
	Threshold int        `gorm:"not null;index:idx_alert_usage_threshold,priority:2" json:"threshold"`
	Channel   string     `gorm:"type:varchar(20);default:'email'" json:"channel"`
	Message   string     `gorm:"type:text" json:"message"`
	SentAt    *time.Time `gorm:"type:timestamp;default:null" json:"sent_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsExhaustionAlert reports whether this alert marks full exhaustion
func (a *BenefitAlertLog) IsExhaustionAlert() bool {
	return a.Threshold >= ALERT_THRESHOLD_EXHAUSTED
}
