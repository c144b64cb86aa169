package repository

import (
	"github.com/cardinsa/cardinsa/app/models"
	"gorm.io/gorm"
)

// auditRepository implements the AuditRepository interface
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository instance
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *auditRepository) GetByRecord(tableName string, recordID uint) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.Where("table_name = ? AND record_id = ?", tableName, recordID).
		Order("created_at ASC").Find(&entries).Error
	return entries, err
}

func (r *auditRepository) List(offset, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}
