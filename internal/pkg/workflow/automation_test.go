package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cardinsa/cardinsa/app/models"
)

type fakeTaskStore struct {
	rows []*models.WorkflowTask
}

func (f *fakeTaskStore) Create(task *models.WorkflowTask) error {
	f.rows = append(f.rows, task)
	return nil
}

func (f *fakeTaskStore) GetByTaskID(taskID string) (*models.WorkflowTask, error) {
	for _, t := range f.rows {
		if t.TaskID == taskID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTaskStore) GetByEntity(entityType string, entityID uint) ([]models.WorkflowTask, error) {
	var out []models.WorkflowTask
	for _, t := range f.rows {
		if t.EntityType == entityType && t.EntityID == entityID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) GetByStatus(status string, offset, limit int) ([]models.WorkflowTask, error) {
	return nil, nil
}

func (f *fakeTaskStore) UpdateStatus(taskID string, status string, errorMsg string) error {
	for _, t := range f.rows {
		if t.TaskID == taskID {
			t.Status = status
			t.ErrorMsg = errorMsg
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeTaskStore) CountByStatus(status string) (int64, error) {
	var n int64
	for _, t := range f.rows {
		if t.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeEnqueuer struct {
	enqueued []*Task
}

func (f *fakeEnqueuer) EnqueueTask(taskID string, taskType TaskType, payload map[string]interface{}) (*Task, error) {
	task := &Task{ID: taskID, Type: taskType, Status: TaskStatusPending, Payload: payload}
	f.enqueued = append(f.enqueued, task)
	return task, nil
}

func testPolicy(status string) *models.Policy {
	return &models.Policy{
		ID:            42,
		CompanyID:     7,
		MemberID:      3,
		PlanID:        1,
		PolicyNumber:  "POL-42",
		Status:        status,
		EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestPolicyActivationEnqueuesExactlyOneTask(t *testing.T) {
	store := &fakeTaskStore{}
	queue := &fakeEnqueuer{}
	automation := NewAutomation(store, queue)

	policy := testPolicy(models.POLICY_STATUS_ACTIVE)
	require.NoError(t, automation.PolicyStatusChanged(policy, models.POLICY_STATUS_PENDING))

	require.Len(t, store.rows, 1)
	row := store.rows[0]
	assert.Equal(t, models.WORKFLOW_TYPE_ACTIVATION, row.WorkflowType)
	assert.Equal(t, EntityTypePolicy, row.EntityType)
	assert.Equal(t, uint(42), row.EntityID)
	assert.Equal(t, uint(7), row.CompanyID)
	assert.Equal(t, models.WORKFLOW_STATUS_PENDING, row.Status)
	assert.NotEmpty(t, row.TaskID)

	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, TaskTypePolicyActivation, queue.enqueued[0].Type)
	// redis task and durable row share the ID
	assert.Equal(t, row.TaskID, queue.enqueued[0].ID)
}

func TestPolicyActivationIgnoresOtherTransitions(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"active to active", models.POLICY_STATUS_ACTIVE, models.POLICY_STATUS_ACTIVE},
		{"draft to pending", models.POLICY_STATUS_DRAFT, models.POLICY_STATUS_PENDING},
		{"active to suspended", models.POLICY_STATUS_ACTIVE, models.POLICY_STATUS_SUSPENDED},
		{"active to expired", models.POLICY_STATUS_ACTIVE, models.POLICY_STATUS_EXPIRED},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeTaskStore{}
			queue := &fakeEnqueuer{}
			automation := NewAutomation(store, queue)

			policy := testPolicy(tt.to)
			require.NoError(t, automation.PolicyStatusChanged(policy, tt.from))

			assert.Empty(t, store.rows)
			assert.Empty(t, queue.enqueued)
		})
	}
}

func TestPolicyActivationSuppressesDuplicateOpenTask(t *testing.T) {
	store := &fakeTaskStore{}
	queue := &fakeEnqueuer{}
	automation := NewAutomation(store, queue)

	policy := testPolicy(models.POLICY_STATUS_ACTIVE)
	require.NoError(t, automation.PolicyStatusChanged(policy, models.POLICY_STATUS_PENDING))
	require.NoError(t, automation.PolicyStatusChanged(policy, models.POLICY_STATUS_PENDING))

	assert.Len(t, store.rows, 1)
	assert.Len(t, queue.enqueued, 1)
}

func TestPolicyActivationAllowsNewTaskAfterCompletion(t *testing.T) {
	store := &fakeTaskStore{}
	queue := &fakeEnqueuer{}
	automation := NewAutomation(store, queue)

	policy := testPolicy(models.POLICY_STATUS_ACTIVE)
	require.NoError(t, automation.PolicyStatusChanged(policy, models.POLICY_STATUS_PENDING))
	require.NoError(t, store.UpdateStatus(store.rows[0].TaskID, models.WORKFLOW_STATUS_COMPLETED, ""))

	// policy went suspended and came back
	require.NoError(t, automation.PolicyStatusChanged(policy, models.POLICY_STATUS_SUSPENDED))

	assert.Len(t, store.rows, 2)
	assert.Len(t, queue.enqueued, 2)
}

func TestClaimSubmittedEnqueuesIntakeTask(t *testing.T) {
	store := &fakeTaskStore{}
	queue := &fakeEnqueuer{}
	automation := NewAutomation(store, queue)

	claim := &models.Claim{ID: 11, CompanyID: 7, ClaimNumber: "CLM-AB12CD34"}
	require.NoError(t, automation.ClaimSubmitted(claim))

	require.Len(t, store.rows, 1)
	assert.Equal(t, models.WORKFLOW_TYPE_CLAIM_INTAKE, store.rows[0].WorkflowType)
	assert.Equal(t, EntityTypeClaim, store.rows[0].EntityType)
	assert.Equal(t, uint(11), store.rows[0].EntityID)

	require.Len(t, queue.enqueued, 1)
	payload, err := ClaimIntakePayloadFromMap(queue.enqueued[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, uint(11), payload.ClaimID)
	assert.Equal(t, "CLM-AB12CD34", payload.ClaimNum)
}

func TestQuoteExpiredDedupesOpenTasks(t *testing.T) {
	store := &fakeTaskStore{}
	queue := &fakeEnqueuer{}
	automation := NewAutomation(store, queue)

	quote := &models.Quote{ID: 5, CompanyID: 7, Status: models.QUOTE_STATUS_OPEN}
	require.NoError(t, automation.QuoteExpired(quote))
	require.NoError(t, automation.QuoteExpired(quote))

	assert.Len(t, store.rows, 1)
	assert.Len(t, queue.enqueued, 1)
	assert.Equal(t, models.WORKFLOW_TYPE_QUOTE_EXPIRY, store.rows[0].WorkflowType)
}
