// Package audit provides asynchronous audit event recording and the query
// surface over the append-only event log.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/models"
	"github.com/dookan/catalog-backend/repositories"
)

// Recorder appends audit events to the log in the background. Record never
// blocks the caller: when the buffer is full the event is dropped with a
// warning. The audit log is best-effort; it must never slow a mutation down.
type Recorder struct {
	auditRepo   repositories.AuditRepository
	logger      *zap.Logger
	eventChan   chan *models.AuditEvent
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	started     bool
	mu          sync.Mutex
}

// RecorderConfig holds configuration for the Recorder
type RecorderConfig struct {
	BufferSize  int // Size of the event buffer channel
	WorkerCount int // Number of concurrent insert workers
}

// DefaultRecorderConfig returns the default configuration
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		BufferSize:  10000,
		WorkerCount: 4,
	}
}

// NewRecorder creates a new Recorder instance
func NewRecorder(auditRepo repositories.AuditRepository, logger *zap.Logger, config RecorderConfig) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())

	return &Recorder{
		auditRepo:   auditRepo,
		logger:      logger,
		eventChan:   make(chan *models.AuditEvent, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the background insert workers
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return fmt.Errorf("audit recorder already started")
	}

	for i := 0; i < r.workerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.started = true
	r.logger.Info("started audit recorder",
		zap.Int("worker_count", r.workerCount),
		zap.Int("buffer_size", r.bufferSize))

	return nil
}

// Stop gracefully stops the recorder, draining pending events until the
// timeout elapses.
func (r *Recorder) Stop(timeout time.Duration) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return fmt.Errorf("audit recorder not started")
	}
	r.mu.Unlock()

	r.logger.Info("stopping audit recorder", zap.Int("pending_events", len(r.eventChan)))

	close(r.eventChan)

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("audit recorder stopped gracefully")
		r.cancel()
		return nil
	case <-time.After(timeout):
		r.cancel()
		return fmt.Errorf("audit recorder stop timeout after %v", timeout)
	}
}

// Record queues an event for insertion. It returns immediately; a full
// buffer or an insert failure is logged, never surfaced to the caller.
func (r *Recorder) Record(event *models.AuditEvent) {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		r.logger.Warn("audit recorder not started, dropping event",
			zap.String("kind", string(event.Kind)),
			zap.String("product_id", event.ProductID))
		return
	}
	r.mu.Unlock()

	select {
	case r.eventChan <- event:
	default:
		r.logger.Warn("audit event buffer full, dropping event",
			zap.String("kind", string(event.Kind)),
			zap.String("product_id", event.ProductID),
			zap.String("actor_id", event.ActorID))
	}
}

// worker drains events from the channel and inserts them
func (r *Recorder) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("audit worker started", zap.Int("worker_id", id))

	for event := range r.eventChan {
		if err := r.insert(event); err != nil {
			r.logger.Warn("failed to insert audit event",
				zap.Int("worker_id", id),
				zap.String("kind", string(event.Kind)),
				zap.String("product_id", event.ProductID),
				zap.Error(err))
		}
	}

	r.logger.Debug("audit worker stopped", zap.Int("worker_id", id))
}

func (r *Recorder) insert(event *models.AuditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.auditRepo.Insert(ctx, event)
}

// Stats represents recorder statistics
type Stats struct {
	BufferSize    int
	PendingEvents int
	WorkerCount   int
	Started       bool
}

// GetStats returns statistics about the recorder
func (r *Recorder) GetStats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Stats{
		BufferSize:    r.bufferSize,
		PendingEvents: len(r.eventChan),
		WorkerCount:   r.workerCount,
		Started:       r.started,
	}
}
