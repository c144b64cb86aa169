package workflow

import (
	"encoding/json"
	"time"
)

// TaskType defines the type of workflow task
type TaskType string

const (
	TaskTypePolicyActivation TaskType = "activation"
	TaskTypeClaimIntake      TaskType = "claim_intake"
	TaskTypeQuoteExpiry      TaskType = "quote_expiry"
)

// TaskStatus defines the status of a workflow task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusRetrying   TaskStatus = "retrying"
)

// Task is the Redis-side envelope driving execution. The durable
// workflow_queue row shares the task ID and mirrors the status.
type Task struct {
	ID          string                 `json:"id"`
	Type        TaskType               `json:"type"`
	Status      TaskStatus             `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// PolicyActivationPayload carries the policy that just entered the active state
type PolicyActivationPayload struct {
	PolicyID  uint `json:"policy_id"`
	CompanyID uint `json:"company_id"`
}

// ToMap converts the payload to a map for storage
func (p PolicyActivationPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"policy_id":  p.PolicyID,
		"company_id": p.CompanyID,
	}
}

// PolicyActivationPayloadFromMap creates a payload from a map
func PolicyActivationPayloadFromMap(data map[string]interface{}) (*PolicyActivationPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload PolicyActivationPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// ClaimIntakePayload carries a freshly submitted claim into review routing
type ClaimIntakePayload struct {
	ClaimID   uint   `json:"claim_id"`
	CompanyID uint   `json:"company_id"`
	ClaimNum  string `json:"claim_number"`
}

// ToMap converts the payload to a map for storage
func (p ClaimIntakePayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"claim_id":     p.ClaimID,
		"company_id":   p.CompanyID,
		"claim_number": p.ClaimNum,
	}
}

// ClaimIntakePayloadFromMap creates a payload from a map
func ClaimIntakePayloadFromMap(data map[string]interface{}) (*ClaimIntakePayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload ClaimIntakePayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// QuoteExpiryPayload carries a quote past its expiry timestamp
type QuoteExpiryPayload struct {
	QuoteID uint `json:"quote_id"`
}

// ToMap converts the payload to a map for storage
func (p QuoteExpiryPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"quote_id": p.QuoteID,
	}
}

// QuoteExpiryPayloadFromMap creates a payload from a map
func QuoteExpiryPayloadFromMap(data map[string]interface{}) (*QuoteExpiryPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload QuoteExpiryPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the task can be retried
func (t *Task) IsRetryable() bool {
	return t.Status == TaskStatusFailed && t.RetryCount < t.MaxRetries
}

// MarkAsProcessing updates the task status to processing
func (t *Task) MarkAsProcessing() {
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.UpdatedAt = now
	t.ProcessedAt = &now
}

// MarkAsCompleted updates the task status to completed
func (t *Task) MarkAsCompleted() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.UpdatedAt = now
	t.CompletedAt = &now
	t.ErrorMsg = ""
}

// MarkAsFailed updates the task status to failed
func (t *Task) MarkAsFailed(errorMsg string) {
	t.Status = TaskStatusFailed
	t.UpdatedAt = time.Now()
	t.ErrorMsg = errorMsg
	t.RetryCount++
}

// MarkAsRetrying updates the task status to retrying
func (t *Task) MarkAsRetrying() {
	t.Status = TaskStatusRetrying
	t.UpdatedAt = time.Now()
}
