// Package generation implements the bounded-queue, single-worker background
// pipeline that turns a registered spec into a client kit on disk. See
// spec.md §4.3.
package generation

import (
	"container/list"
	"crypto/rand"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/shaibachar/cpp-mcp-gateway/internal/gatewaymetrics"
	"github.com/shaibachar/cpp-mcp-gateway/internal/kitwriter"
)

// DefaultCapacity and DefaultMaxRetries mirror the original gateway's
// defaults (spec.md §4.3).
const (
	DefaultCapacity   = 32
	DefaultMaxRetries = 3
)

// Task is a unit of generation work: materialize the client kit for one
// registered spec. ID is a ULID minted at enqueue time for log
// correlation only — it is not part of the manifest format and plays no
// role in identity or dedup (spec.md §3's GenerationTask is {version,
// spec_path} alone).
type Task struct {
	ID       string
	Version  string
	SpecPath string
}

// Generator produces a client kit from a Task. KitWriter satisfies this.
type Generator interface {
	Generate(task kitwriter.Task) error
}

// Stats is a snapshot of the worker's queue/run state (spec.md §4.3 stats()).
type Stats struct {
	QueueDepth int
	Active     int
	Capacity   int
	Running    bool
	Stopping   bool
}

// Worker is a single background worker draining a bounded FIFO queue, with
// linear retry/backoff per task. One sync.Mutex guards {queue, active,
// running, stopping}; one sync.Cond signals both "task available" and "task
// completed" (spec.md §9's condition-variable fan-out, preserved as a single
// condvar with broadcast-on-completion).
type Worker struct {
	generator  Generator
	capacity   int
	maxRetries int
	metrics    *gatewaymetrics.Sink
	logger     *zap.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	queue    *list.List
	active   int
	running  bool
	stopping bool
	wg       sync.WaitGroup
}

// New returns a Worker that writes kits via generator. capacity <= 0 uses
// DefaultCapacity; maxRetries <= 0 uses DefaultMaxRetries.
func New(generator Generator, capacity, maxRetries int, metrics *gatewaymetrics.Sink, logger *zap.Logger) *Worker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Worker{
		generator:  generator,
		capacity:   capacity,
		maxRetries: maxRetries,
		metrics:    metrics,
		logger:     logger,
		queue:      list.New(),
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Start brings the worker to running. Idempotent; a second call is a no-op.
func (w *Worker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.stopping = false
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop()
}

// Enqueue appends task to the queue if there is room, returning whether it
// was accepted. Callable from any producer goroutine.
func (w *Worker) Enqueue(task Task) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopping {
		return false
	}
	if w.queue.Len() >= w.capacity {
		return false
	}

	if task.ID == "" {
		task.ID = newTaskID()
	}
	w.queue.PushBack(task)
	w.cond.Signal()
	return true
}

// WaitForIdle blocks until the queue is empty and no task is in flight.
func (w *Worker) WaitForIdle() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.queue.Len() > 0 || w.active > 0 {
		w.cond.Wait()
	}
}

// Stop requests an orderly drain: tasks already enqueued complete before the
// worker exits. After Stop returns, Enqueue is a no-op that reports not
// accepted. A second concurrent Stop is not internally guarded (spec.md §9
// Q3) — callers must serialize start/stop.
func (w *Worker) Stop() {
	w.mu.Lock()
	w.stopping = true
	w.mu.Unlock()
	w.cond.Broadcast()

	w.wg.Wait()

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// Stats returns a snapshot of the queue/run state.
func (w *Worker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{
		QueueDepth: w.queue.Len(),
		Active:     w.active,
		Capacity:   w.capacity,
		Running:    w.running,
		Stopping:   w.stopping,
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	w.logger.Info("generation worker started")

	for {
		w.mu.Lock()
		for !w.stopping && w.queue.Len() == 0 {
			w.cond.Wait()
		}
		if w.stopping && w.queue.Len() == 0 {
			w.mu.Unlock()
			break
		}

		front := w.queue.Front()
		w.queue.Remove(front)
		task := front.Value.(Task)
		w.active++
		w.mu.Unlock()

		w.runWithRetries(task)

		w.mu.Lock()
		w.active--
		w.mu.Unlock()
		w.cond.Broadcast()
	}

	w.logger.Info("generation worker stopped")
}

// runWithRetries invokes the generator with the spec's linear backoff
// schedule (50 × attempt ms), implemented on github.com/cenkalti/backoff/v4
// via a custom BackOff that reproduces that exact schedule.
func (w *Worker) runWithRetries(task Task) bool {
	start := time.Now()
	attempt := 0

	operation := func() error {
		attempt++
		err := w.generator.Generate(kitwriter.Task{Version: task.Version, SpecPath: task.SpecPath})
		if err != nil {
			w.logger.Error("generation attempt failed",
				zap.String("task_id", task.ID),
				zap.Int("attempt", attempt),
				zap.String("spec_path", task.SpecPath),
				zap.Error(err))
		}
		return err
	}

	policy := backoff.WithMaxRetries(&linearBackOff{}, uint64(w.maxRetries-1))
	err := backoff.Retry(operation, policy)

	elapsedMs := time.Since(start).Milliseconds()
	w.metrics.RecordGenerationLatencyMs(elapsedMs)

	if err != nil {
		w.logger.Error("exhausted retries", zap.String("task_id", task.ID), zap.String("spec_path", task.SpecPath))
		w.metrics.RecordGenerationFailure()
		return false
	}

	w.logger.Info("generated client kit",
		zap.String("task_id", task.ID),
		zap.String("version", task.Version),
		zap.Int("attempt", attempt))
	w.metrics.RecordGenerationSuccess()
	return true
}

// linearBackOff reproduces spec.md's 50×attempt ms linear schedule as a
// backoff.BackOff. NextBackOff is called once per failed attempt by
// backoff.Retry, so the running attempt count doubles as the multiplier.
type linearBackOff struct {
	attempt int
}

func (l *linearBackOff) NextBackOff() time.Duration {
	l.attempt++
	return time.Duration(50*l.attempt) * time.Millisecond
}

func (l *linearBackOff) Reset() {
	l.attempt = 0
}

func newTaskID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return ""
	}
	return id.String()
}
