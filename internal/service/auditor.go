package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/model"
)

const (
	DefaultAuditQueueSize = 256
	defaultAuditTimeout   = 5 * time.Second
)

type auditJob struct {
	ctx       context.Context
	rec       model.InvocationRecord
	eventType string
	data      map[string]any

	// done marks a flush barrier rather than a record.
	done chan struct{}
}

// Auditor writes invocation records and events from a single background
// worker so neither side channel runs on the reply path. Jobs that do not
// fit in the queue are dropped and logged.
type Auditor struct {
	recorder Recorder
	events   EventPublisher
	logger   Logger
	timeout  time.Duration

	mu      sync.RWMutex
	closed  bool
	jobs    chan auditJob
	stopped chan struct{}
}

type AuditorOption func(*Auditor)

func WithAuditLogger(l Logger) AuditorOption {
	return func(a *Auditor) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithAuditTimeout bounds each ledger write and each event publish.
func WithAuditTimeout(d time.Duration) AuditorOption {
	return func(a *Auditor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// NewAuditor starts the worker. Either recorder or events may be nil.
// Call Close to drain the queue and stop the worker.
func NewAuditor(recorder Recorder, events EventPublisher, queueSize int, opts ...AuditorOption) *Auditor {
	if queueSize <= 0 {
		queueSize = DefaultAuditQueueSize
	}
	a := &Auditor{
		recorder: recorder,
		events:   events,
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		timeout:  defaultAuditTimeout,
		jobs:     make(chan auditJob, queueSize),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	go a.run()
	return a
}

// Submit queues one record and its event without blocking.
func (a *Auditor) Submit(ctx context.Context, rec model.InvocationRecord, eventType string, data map[string]any) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.logger.ErrorContext(ctx, "audit dropped after close", "invocation_id", rec.ID)
		return
	}

	select {
	case a.jobs <- auditJob{ctx: ctx, rec: rec, eventType: eventType, data: data}:
	default:
		a.logger.ErrorContext(ctx, "audit queue full, dropping invocation", "invocation_id", rec.ID)
	}
}

// Flush waits until every job submitted before the call has been handled.
func (a *Auditor) Flush(ctx context.Context) error {
	done := make(chan struct{})

	a.mu.RLock()
	if a.closed {
		a.mu.RUnlock()
		return nil
	}
	select {
	case a.jobs <- auditJob{done: done}:
	case <-ctx.Done():
		a.mu.RUnlock()
		return ctx.Err()
	}
	a.mu.RUnlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for the queue to drain. It is safe to
// call more than once.
func (a *Auditor) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.jobs)
	}
	a.mu.Unlock()

	select {
	case <-a.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Auditor) run() {
	defer close(a.stopped)
	for job := range a.jobs {
		if job.done != nil {
			close(job.done)
			continue
		}
		a.handle(job)
	}
}

func (a *Auditor) handle(job auditJob) {
	// Detach from the request so a finished reply does not cancel the write,
	// but keep its values for request-scoped logging.
	base := context.WithoutCancel(job.ctx)

	if a.recorder != nil {
		ctx, cancel := context.WithTimeout(base, a.timeout)
		if err := a.recorder.SaveInvocation(ctx, job.rec); err != nil {
			a.logger.ErrorContext(ctx, "failed to record invocation", "invocation_id", job.rec.ID, "error", err)
		}
		cancel()
	}

	if a.events != nil {
		ctx, cancel := context.WithTimeout(base, a.timeout)
		if err := a.events.Publish(ctx, job.eventType, job.data); err != nil {
			a.logger.ErrorContext(ctx, "failed to publish event", "event_type", job.eventType, "error", err)
		}
		cancel()
	}
}
