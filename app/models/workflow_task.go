package models

import "time"

// Workflow types produced by status-transition automation
const (
	WORKFLOW_TYPE_ACTIVATION   = "activation"
	WORKFLOW_TYPE_CLAIM_INTAKE = "claim_intake"
	WORKFLOW_TYPE_QUOTE_EXPIRY = "quote_expiry"
)

const (
	WORKFLOW_STATUS_PENDING    = "pending"
	WORKFLOW_STATUS_PROCESSING = "processing"
	WORKFLOW_STATUS_COMPLETED  = "completed"
	WORKFLOW_STATUS_FAILED     = "failed"
	WORKFLOW_STATUS_RETRYING   = "retrying"
)

// WorkflowTask is the durable workflow_queue row. The Redis queue drives
// execution; this table is the system of record consulted by operators.
type WorkflowTask struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TaskID       string     `gorm:"uniqueIndex;type:varchar(36);not null" json:"task_id"`
	CompanyID    uint       `gorm:"index" json:"company_id"`
	EntityType   string     `gorm:"type:varchar(50);not null;index:idx_workflow_entity,priority:1" json:"entity_type"`
	EntityID     uint       `gorm:"not null;index:idx_workflow_entity,priority:2" json:"entity_id"`
	WorkflowType string     `gorm:"type:varchar(50);not null;index" json:"workflow_type"`
	Priority     int        `gorm:"default:5" json:"priority"`
	Status       string     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	RetryCount   int        `gorm:"default:0" json:"retry_count"`
	MaxRetries   int        `gorm:"default:3" json:"max_retries"`
	ErrorMsg     string     `gorm:"type:text" json:"error_msg"`
	StartedAt    *time.Time `gorm:"type:timestamp;default:null" json:"started_at"`
	CompletedAt  *time.Time `gorm:"type:timestamp;default:null" json:"completed_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
