package workflow

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/cardinsa/cardinsa/app/repository"
	"github.com/cardinsa/cardinsa/internal/pkg/env"
	"github.com/cardinsa/cardinsa/internal/pkg/metrics/counter"
)

// Manager manages the global workflow queue and background sweeps
type Manager struct {
	queue              *Queue
	quoteExpiryTicker  *time.Ticker
	counterFlushTicker *time.Ticker
	stopCh             chan struct{}
	wg                 sync.WaitGroup
	mu                 sync.Mutex
	running            bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global workflow manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := env.GetEnvInt("WORKFLOW_WORKER_COUNT", 5)
		if workerCount < 1 {
			workerCount = 5
		}

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed workflow queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// GetAutomation returns transition automation wired to the global stores
// and this manager's queue.
func (m *Manager) GetAutomation() *Automation {
	return NewAutomation(repository.GetGlobalRepositories().Workflow, m.queue)
}

// Start starts the workflow queue and background sweeps
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[Workflow Manager] Starting workflow queue and background sweeps")

	// Start the workflow queue
	m.queue.Start()

	// Quote expiry sweep interval, configurable in minutes
	sweepMinutes := env.GetEnvInt("QUOTE_EXPIRY_SWEEP_MINUTES", 10)
	if sweepMinutes < 1 {
		sweepMinutes = 10
	}
	sweepInterval := time.Duration(sweepMinutes) * time.Minute
	m.quoteExpiryTicker = time.NewTicker(sweepInterval)
	m.wg.Add(1)
	go m.quoteExpiryWorker()

	// Start counter flush worker (Redis -> DB) every 5 seconds
	m.counterFlushTicker = time.NewTicker(5 * time.Second)
	m.wg.Add(1)
	go m.counterFlushWorker()

	log.Info("[Workflow Manager] Started successfully")
}

// Stop stops the workflow queue and background sweeps
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Workflow Manager] Stopping workflow queue and background sweeps...")

	if m.quoteExpiryTicker != nil {
		m.quoteExpiryTicker.Stop()
	}
	if m.counterFlushTicker != nil {
		m.counterFlushTicker.Stop()
	}

	// Signal workers to stop. The closed channel stays in place until the
	// next Start recreates it; nilling it here would hang a worker whose
	// select re-evaluates mid-shutdown.
	close(m.stopCh)
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	// Stop the workflow queue
	m.queue.Stop()

	log.Info("[Workflow Manager] Stopped successfully")
}

// quoteExpiryWorker periodically enqueues expiry tasks for quotes that sat
// open past their expiry timestamp.
func (m *Manager) quoteExpiryWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[Workflow Manager] Quote expiry worker stopping")
			return
		case <-m.quoteExpiryTicker.C:
			if err := m.sweepExpiredQuotesOnce(); err != nil {
				log.Errorf("[Workflow Manager] Quote expiry sweep error: %v", err)
			}
		}
	}
}

// counterFlushWorker periodically flushes pending counters from Redis to DB
func (m *Manager) counterFlushWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[Workflow Manager] Counter flush worker stopping")
			return
		case <-m.counterFlushTicker.C:
			if err := m.flushCountersOnce(); err != nil {
				log.Errorf("[Workflow Manager] Counter flush error: %v", err)
			}
		}
	}
}

func (m *Manager) sweepExpiredQuotesOnce() error {
	repos := repository.GetGlobalRepositories()
	quotes, err := repos.Quote.ListOpenExpiredBefore(time.Now(), 200)
	if err != nil {
		return err
	}

	automation := m.GetAutomation()
	for i := range quotes {
		if err := automation.QuoteExpired(&quotes[i]); err != nil {
			log.Errorf("[Workflow Manager] Failed to enqueue expiry for quote %d: %v", quotes[i].ID, err)
		}
	}
	return nil
}

func (m *Manager) flushCountersOnce() error {
	// Flush Redis -> DB (batched CASE update)
	return counter.FlushAll()
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// SweepExpiredQuotesOnce exposes a manual trigger for a single sweep (admin use).
func (m *Manager) SweepExpiredQuotesOnce() error {
	return m.sweepExpiredQuotesOnce()
}
