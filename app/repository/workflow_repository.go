package repository

import (
	"time"

	"github.com/cardinsa/cardinsa/app/models"
	"gorm.io/gorm"
)

// workflowRepository implements the WorkflowRepository interface
type workflowRepository struct {
	db *gorm.DB
}

// NewWorkflowRepository creates a new workflow repository instance
func NewWorkflowRepository(db *gorm.DB) WorkflowRepository {
	return &workflowRepository{db: db}
}

func (r *workflowRepository) Create(task *models.WorkflowTask) error {
	return r.db.Create(task).Error
}

func (r *workflowRepository) GetByTaskID(taskID string) (*models.WorkflowTask, error) {
	var task models.WorkflowTask
	err := r.db.Where("task_id = ?", taskID).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *workflowRepository) GetByEntity(entityType string, entityID uint) ([]models.WorkflowTask, error) {
	var tasks []models.WorkflowTask
	err := r.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *workflowRepository) GetByStatus(status string, offset, limit int) ([]models.WorkflowTask, error) {
	var tasks []models.WorkflowTask
	err := r.db.Where("status = ?", status).
		Order("priority ASC, created_at ASC").Offset(offset).Limit(limit).Find(&tasks).Error
	return tasks, err
}

// UpdateStatus moves a task row to the given status, stamping started/completed
// timestamps and bumping the retry counter on failure.
func (r *workflowRepository) UpdateStatus(taskID string, status string, errorMsg string) error {
	updates := map[string]any{"status": status, "error_msg": errorMsg}
	now := time.Now()
	switch status {
	case models.WORKFLOW_STATUS_PROCESSING:
		updates["started_at"] = now
	case models.WORKFLOW_STATUS_COMPLETED:
		updates["completed_at"] = now
	case models.WORKFLOW_STATUS_FAILED, models.WORKFLOW_STATUS_RETRYING:
		updates["retry_count"] = gorm.Expr("retry_count + 1")
	}
	return r.db.Model(&models.WorkflowTask{}).Where("task_id = ?", taskID).Updates(updates).Error
}

func (r *workflowRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.WorkflowTask{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
