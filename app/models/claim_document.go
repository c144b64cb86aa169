package models

import "time"

// ClaimDocument is attachment metadata for a claim; the bytes live in
// S3-compatible object storage under ObjectKey.
type ClaimDocument struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ClaimID     uint   `gorm:"not null;index" json:"claim_id"`
	FileName    string `gorm:"type:varchar(255);not null" json:"file_name"`
	ObjectKey   string `gorm:"type:varchar(512);not null" json:"object_key"`
	ContentType string `gorm:"type:varchar(100)" json:"content_type"`
	FileSize    int64  `gorm:"default:0" json:"file_size"`
	UploadedBy  *uint  `gorm:"default:null" json:"uploaded_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
