package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cardinsa/cardinsa/internal/pkg/cache"
)

const (
	// Redis key prefixes
	TaskKeyPrefix     = "task:"
	TaskQueueKey      = "workflow_queue"
	TaskProcessingKey = "workflow_processing"
	TaskStatsKey      = "workflow_stats"

	// Task settings
	DefaultMaxRetries = 3
	TaskTTL           = 24 * time.Hour // Tasks expire after 24 hours
)

// Queue manages workflow tasks using Redis
type Queue struct {
	client     *redis.Client
	workers    int
	workerPool chan struct{}
	stopCh     chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool
}

// NewQueue creates a new workflow queue
func NewQueue(workers int) *Queue {
	if workers <= 0 {
		workers = 3 // Default number of workers
	}

	return &Queue{
		client:     cache.GetClient(),
		workers:    workers,
		workerPool: make(chan struct{}, workers),
		stopCh:     make(chan struct{}),
	}
}

// Start starts the workflow queue workers
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}

	q.running = true
	log.Infof("[Workflow] Starting %d workers", q.workers)

	// Initialize worker pool
	for i := 0; i < q.workers; i++ {
		q.workerPool <- struct{}{}
	}

	// Start workers
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	// Start stuck-processing sweeper (recovers tasks stuck in processing due to crashes)
	q.wg.Add(1)
	go q.stuckSweeper(10*time.Minute, 1*time.Minute)
}

// Stop stops the workflow queue workers
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running {
		return
	}

	log.Info("[Workflow] Stopping workers...")
	close(q.stopCh)
	q.running = false
	q.wg.Wait()
	log.Info("[Workflow] All workers stopped")
}

// stuckSweeper periodically scans the processing list and requeues tasks stuck for longer than maxAge
func (q *Queue) stuckSweeper(maxAge time.Duration, interval time.Duration) {
	defer q.wg.Done()
	log.Infof("[Workflow] Stuck sweeper running (maxAge=%s, interval=%s)", maxAge, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ctx := context.Background()
	for {
		select {
		case <-q.stopCh:
			log.Info("[Workflow] Stuck sweeper stopping")
			return
		case <-ticker.C:
			ids, err := q.client.LRange(ctx, TaskProcessingKey, 0, -1).Result()
			if err != nil {
				log.Errorf("[Workflow] Sweeper LRange error: %v", err)
				continue
			}
			now := time.Now()
			for _, id := range ids {
				taskKey := TaskKeyPrefix + id
				data, err := q.client.Get(ctx, taskKey).Result()
				if err != nil {
					// Task data missing; remove from processing list
					if err != redis.Nil {
						log.Errorf("[Workflow] Sweeper Get error for %s: %v", id, err)
					}
					_ = q.client.LRem(ctx, TaskProcessingKey, 1, id).Err()
					continue
				}
				var task Task
				if uerr := json.Unmarshal([]byte(data), &task); uerr != nil {
					log.Errorf("[Workflow] Sweeper unmarshal error for %s: %v", id, uerr)
					_ = q.client.LRem(ctx, TaskProcessingKey, 1, id).Err()
					continue
				}
				if task.Status != TaskStatusProcessing {
					// Clean up stray entry
					_ = q.client.LRem(ctx, TaskProcessingKey, 1, id).Err()
					continue
				}
				// Determine when processing started
				started := task.ProcessedAt
				if started == nil || started.IsZero() {
					tmp := task.UpdatedAt
					if tmp.IsZero() {
						tmp = task.CreatedAt
					}
					started = &tmp
				}
				if now.Sub(*started) > maxAge {
					log.Warnf("[Workflow] Recovering stuck task %s (type=%s), age=%s", task.ID, task.Type, now.Sub(*started))
					task.Status = TaskStatusPending
					task.ErrorMsg = "recovered by sweeper"
					task.UpdatedAt = now
					q.updateTask(ctx, &task)
					// Move from processing back to pending
					_ = q.client.LRem(ctx, TaskProcessingKey, 1, id).Err()
					_ = q.client.RPush(ctx, TaskQueueKey, id).Err()
				}
			}
		}
	}
}

// worker processes tasks from the queue
func (q *Queue) worker(id int) {
	defer q.wg.Done()
	log.Infof("[Workflow] Worker %d started", id)

	ctx := context.Background()

	for {
		select {
		case <-q.stopCh:
			log.Infof("[Workflow] Worker %d stopping", id)
			return
		default:
			// Acquire worker slot
			<-q.workerPool

			// Try to get a task from the queue
			task, err := q.dequeueTask(ctx)
			if err != nil {
				if err != redis.Nil {
					log.Errorf("[Workflow] Worker %d: Error dequeuing task: %v", id, err)
				}
				// Release worker slot and wait before retry
				q.workerPool <- struct{}{}
				time.Sleep(time.Second)
				continue
			}

			if task != nil {
				log.Infof("[Workflow] Worker %d processing task %s (Type: %s)", id, task.ID, task.Type)
				q.processTask(ctx, task)
			}

			// Release worker slot
			q.workerPool <- struct{}{}
		}
	}
}

// EnqueueTask adds a new task to the queue. An empty taskID gets a fresh
// UUID; callers that keep a durable row pass its task ID so both sides
// stay joined.
func (q *Queue) EnqueueTask(taskID string, taskType TaskType, payload map[string]interface{}) (*Task, error) {
	ctx := context.Background()

	if taskID == "" {
		taskID = uuid.New().String()
	}

	task := &Task{
		ID:         taskID,
		Type:       taskType,
		Status:     TaskStatusPending,
		Payload:    payload,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: DefaultMaxRetries,
	}

	// Store task data
	taskData, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}

	taskKey := TaskKeyPrefix + task.ID

	// Use a pipeline for atomic operations
	pipe := q.client.Pipeline()
	pipe.Set(ctx, taskKey, taskData, TaskTTL)
	pipe.LPush(ctx, TaskQueueKey, task.ID)
	pipe.HIncrBy(ctx, TaskStatsKey, string(TaskStatusPending), 1)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Infof("[Workflow] Enqueued task %s (Type: %s)", task.ID, task.Type)
	return task, nil
}

// dequeueTask gets the next task from the queue
func (q *Queue) dequeueTask(ctx context.Context) (*Task, error) {
	// Move task from pending queue to processing queue atomically
	result, err := q.client.BRPopLPush(ctx, TaskQueueKey, TaskProcessingKey, time.Second).Result()
	if err != nil {
		return nil, err
	}

	taskID := result
	taskKey := TaskKeyPrefix + taskID

	// Get task data
	taskData, err := q.client.Get(ctx, taskKey).Result()
	if err != nil {
		// Task data not found, remove from processing queue
		q.client.LRem(ctx, TaskProcessingKey, 1, taskID)
		return nil, fmt.Errorf("task data not found for ID %s", taskID)
	}

	var task Task
	if err := json.Unmarshal([]byte(taskData), &task); err != nil {
		// Invalid task data, remove from processing queue
		q.client.LRem(ctx, TaskProcessingKey, 1, taskID)
		return nil, fmt.Errorf("failed to unmarshal task %s: %w", taskID, err)
	}

	return &task, nil
}

// processTask processes a single task and mirrors the outcome to the
// durable workflow_queue row.
func (q *Queue) processTask(ctx context.Context, task *Task) {
	task.MarkAsProcessing()
	q.updateTask(ctx, task)
	syncDurableRow(task)

	var err error
	switch task.Type {
	case TaskTypePolicyActivation:
		err = q.processPolicyActivationTask(ctx, task)
	case TaskTypeClaimIntake:
		err = q.processClaimIntakeTask(ctx, task)
	case TaskTypeQuoteExpiry:
		err = q.processQuoteExpiryTask(ctx, task)
	default:
		err = fmt.Errorf("unknown task type: %s", task.Type)
	}

	if err != nil {
		log.Errorf("[Workflow] Task %s failed: %v", task.ID, err)
		task.MarkAsFailed(err.Error())

		// Check if task can be retried
		if task.IsRetryable() {
			log.Infof("[Workflow] Retrying task %s (Attempt %d/%d)", task.ID, task.RetryCount, task.MaxRetries)
			task.MarkAsRetrying()
			q.updateTask(ctx, task)

			// Re-enqueue for retry after a delay
			time.AfterFunc(time.Minute*time.Duration(task.RetryCount), func() {
				q.client.LPush(ctx, TaskQueueKey, task.ID)
			})
		} else {
			log.Errorf("[Workflow] Task %s permanently failed after %d retries", task.ID, task.RetryCount)
			q.updateTaskStats(ctx, TaskStatusFailed, 1)
		}
	} else {
		log.Infof("[Workflow] Task %s completed successfully", task.ID)
		task.MarkAsCompleted()
		q.updateTaskStats(ctx, TaskStatusCompleted, 1)
		// Remove completed task from Redis entirely
		q.removeCompletedTask(ctx, task.ID)
	}

	if task.Status != TaskStatusCompleted {
		q.updateTask(ctx, task)
	}
	syncDurableRow(task)
	q.removeFromProcessing(ctx, task.ID)
}

// updateTask updates task data in Redis
func (q *Queue) updateTask(ctx context.Context, task *Task) {
	taskData, err := json.Marshal(task)
	if err != nil {
		log.Errorf("[Workflow] Failed to marshal task %s: %v", task.ID, err)
		return
	}

	taskKey := TaskKeyPrefix + task.ID
	if err := q.client.Set(ctx, taskKey, taskData, TaskTTL).Err(); err != nil {
		log.Errorf("[Workflow] Failed to update task %s: %v", task.ID, err)
	}
}

// removeFromProcessing removes a task from the processing queue
func (q *Queue) removeFromProcessing(ctx context.Context, taskID string) {
	if err := q.client.LRem(ctx, TaskProcessingKey, 1, taskID).Err(); err != nil {
		log.Errorf("[Workflow] Failed to remove task %s from processing queue: %v", taskID, err)
	}
}

// removeCompletedTask completely removes a completed task from Redis
func (q *Queue) removeCompletedTask(ctx context.Context, taskID string) {
	taskKey := TaskKeyPrefix + taskID
	if err := q.client.Del(ctx, taskKey).Err(); err != nil {
		log.Errorf("[Workflow] Failed to remove completed task %s from Redis: %v", taskID, err)
	} else {
		log.Debugf("[Workflow] Successfully removed completed task %s from Redis", taskID)
	}
}

// updateTaskStats updates task statistics
func (q *Queue) updateTaskStats(ctx context.Context, status TaskStatus, delta int64) {
	if err := q.client.HIncrBy(ctx, TaskStatsKey, string(status), delta).Err(); err != nil {
		log.Errorf("[Workflow] Failed to update task stats: %v", err)
	}
}

// GetTask retrieves a task by ID
func (q *Queue) GetTask(ctx context.Context, taskID string) (*Task, error) {
	taskKey := TaskKeyPrefix + taskID
	taskData, err := q.client.Get(ctx, taskKey).Result()
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal([]byte(taskData), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}

	return &task, nil
}

// GetTaskStats returns statistics about task statuses
func (q *Queue) GetTaskStats(ctx context.Context) (map[TaskStatus]int64, error) {
	stats, err := q.client.HGetAll(ctx, TaskStatsKey).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[TaskStatus]int64)
	for status, count := range stats {
		if countInt, err := json.Number(count).Int64(); err == nil {
			result[TaskStatus(status)] = countInt
		}
	}

	return result, nil
}

// GetQueueSize returns the number of pending tasks
func (q *Queue) GetQueueSize(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, TaskQueueKey).Result()
}

// GetProcessingSize returns the number of tasks being processed
func (q *Queue) GetProcessingSize(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, TaskProcessingKey).Result()
}
