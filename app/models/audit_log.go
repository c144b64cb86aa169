package models

import "time"

const (
	AUDIT_OP_INSERT = "INSERT"
	AUDIT_OP_UPDATE = "UPDATE"
	AUDIT_OP_DELETE = "DELETE"
)

// AuditLog captures a before/after snapshot of a domain record mutation
// together with the acting user and request IP.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CompanyID uint   `gorm:"index" json:"company_id"`
	TableName string `gorm:"type:varchar(100);not null;index:idx_audit_table_record,priority:1" json:"table_name"`
	RecordID  uint   `gorm:"not null;index:idx_audit_table_record,priority:2" json:"record_id"`
	Operation string `gorm:"type:varchar(10);not null" json:"operation"`
	OldData   string `gorm:"type:text" json:"old_data"` // JSON snapshot, empty on INSERT
	NewData   string `gorm:"type:text" json:"new_data"` // JSON snapshot, empty on DELETE
	ActorID   *uint  `gorm:"index;default:null" json:"actor_id"`
	ActorName string `gorm:"type:varchar(150)" json:"actor_name"`
	IPAddress string `gorm:"type:varchar(45)" json:"ip_address"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
