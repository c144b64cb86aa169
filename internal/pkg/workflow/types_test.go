package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskType(t *testing.T) {
	tests := []struct {
		name     string
		taskType TaskType
		expected string
	}{
		{"Policy Activation", TaskTypePolicyActivation, "activation"},
		{"Claim Intake", TaskTypeClaimIntake, "claim_intake"},
		{"Quote Expiry", TaskTypeQuoteExpiry, "quote_expiry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.taskType))
		})
	}
}

func TestTaskStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   TaskStatus
		expected string
	}{
		{"Pending", TaskStatusPending, "pending"},
		{"Processing", TaskStatusProcessing, "processing"},
		{"Completed", TaskStatusCompleted, "completed"},
		{"Failed", TaskStatusFailed, "failed"},
		{"Retrying", TaskStatusRetrying, "retrying"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.status))
		})
	}
}

func TestTask_IsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		task      *Task
		retryable bool
	}{
		{
			name: "Failed task with retries remaining",
			task: &Task{
				Status:     TaskStatusFailed,
				RetryCount: 1,
				MaxRetries: 3,
			},
			retryable: true,
		},
		{
			name: "Failed task with no retries remaining",
			task: &Task{
				Status:     TaskStatusFailed,
				RetryCount: 3,
				MaxRetries: 3,
			},
			retryable: false,
		},
		{
			name: "Completed task",
			task: &Task{
				Status:     TaskStatusCompleted,
				RetryCount: 1,
				MaxRetries: 3,
			},
			retryable: false,
		},
		{
			name: "Pending task",
			task: &Task{
				Status:     TaskStatusPending,
				RetryCount: 0,
				MaxRetries: 3,
			},
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, tt.task.IsRetryable())
		})
	}
}

func TestTask_MarkAsProcessing(t *testing.T) {
	task := &Task{
		Status: TaskStatusPending,
	}

	beforeTime := time.Now()
	task.MarkAsProcessing()
	afterTime := time.Now()

	assert.Equal(t, TaskStatusProcessing, task.Status)
	assert.True(t, task.UpdatedAt.After(beforeTime) || task.UpdatedAt.Equal(beforeTime))
	assert.True(t, task.UpdatedAt.Before(afterTime) || task.UpdatedAt.Equal(afterTime))
	assert.NotNil(t, task.ProcessedAt)
}

func TestTask_MarkAsCompleted(t *testing.T) {
	task := &Task{
		Status:   TaskStatusProcessing,
		ErrorMsg: "some error",
	}

	task.MarkAsCompleted()

	assert.Equal(t, TaskStatusCompleted, task.Status)
	assert.NotNil(t, task.CompletedAt)
	assert.Empty(t, task.ErrorMsg)
}

func TestTask_MarkAsFailed(t *testing.T) {
	task := &Task{
		Status:     TaskStatusProcessing,
		RetryCount: 1,
	}

	task.MarkAsFailed("processing failed")

	assert.Equal(t, TaskStatusFailed, task.Status)
	assert.Equal(t, "processing failed", task.ErrorMsg)
	assert.Equal(t, 2, task.RetryCount)
}

func TestTask_MarkAsRetrying(t *testing.T) {
	task := &Task{
		Status: TaskStatusFailed,
	}

	task.MarkAsRetrying()

	assert.Equal(t, TaskStatusRetrying, task.Status)
}

func TestPayloadRoundTrip(t *testing.T) {
	t.Run("PolicyActivationPayload", func(t *testing.T) {
		original := PolicyActivationPayload{PolicyID: 42, CompanyID: 7}

		data := original.ToMap()
		result, err := PolicyActivationPayloadFromMap(data)
		require.NoError(t, err)

		assert.Equal(t, &original, result)
	})

	t.Run("ClaimIntakePayload", func(t *testing.T) {
		original := ClaimIntakePayload{ClaimID: 11, CompanyID: 7, ClaimNum: "CLM-AB12CD34"}

		data := original.ToMap()
		result, err := ClaimIntakePayloadFromMap(data)
		require.NoError(t, err)

		assert.Equal(t, &original, result)
	})

	t.Run("QuoteExpiryPayload", func(t *testing.T) {
		original := QuoteExpiryPayload{QuoteID: 5}

		data := original.ToMap()
		result, err := QuoteExpiryPayloadFromMap(data)
		require.NoError(t, err)

		assert.Equal(t, &original, result)
	})
}

func TestPayloadFromMap_InvalidData(t *testing.T) {
	data := map[string]interface{}{
		"policy_id": make(chan int), // channels can't be marshaled to JSON
	}

	payload, err := PolicyActivationPayloadFromMap(data)
	assert.Error(t, err)
	assert.Nil(t, payload)
}
