// Package dispatcher implements Dispatcher: the runtime-facing facade over
// RuntimeRegistry that lists known operations and executes them under
// bounded concurrency admission control. See spec.md §4.8.
package dispatcher

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shaibachar/cpp-mcp-gateway/internal/gatewaymetrics"
)

// DefaultMaxConcurrent mirrors the original gateway's admission-control
// default (spec.md §4.8).
const DefaultMaxConcurrent = 16

// OperationView is the subset of registry.OperationDescriptor the dispatcher
// renders — kept local so this package does not bind to registry's concrete
// type.
type OperationView struct {
	Version     string
	KitName     string
	OperationID string
}

// Registry is the subset of registry.RuntimeRegistry the Dispatcher drives:
// a fresh reload before every list/execute, then a lookup.
type Registry interface {
	Load() error
	ListOperations() []OperationView
	FindOperation(opID string) (OperationView, bool)
}

// Dispatcher serializes admission to a bounded number of concurrently
// executing operations via a mutex-guarded counter (spec.md §8 invariant 8).
type Dispatcher struct {
	Registry      Registry
	MaxConcurrent int
	Metrics       *gatewaymetrics.Sink

	mu     sync.Mutex
	active int
}

// New returns a Dispatcher. maxConcurrent <= 0 uses DefaultMaxConcurrent.
func New(registry Registry, maxConcurrent int, metrics *gatewaymetrics.Sink) *Dispatcher {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Dispatcher{Registry: registry, MaxConcurrent: maxConcurrent, Metrics: metrics}
}

// ListOperations reloads the registry and renders one line per operation:
// "<op_id> (version: <version>, kit: <kit_name>)".
func (d *Dispatcher) ListOperations() string {
	d.Metrics.RecordDispatchListRequest()

	if err := d.Registry.Load(); err != nil {
		return ""
	}

	operations := d.Registry.ListOperations()
	sort.Slice(operations, func(i, j int) bool { return operations[i].OperationID < operations[j].OperationID })

	lines := make([]string, 0, len(operations))
	for _, op := range operations {
		lines = append(lines, fmt.Sprintf("%s (version: %s, kit: %s)", op.OperationID, op.Version, op.KitName))
	}
	return strings.Join(lines, "\n")
}

// ExecuteOperation admits, reloads the registry, looks up opID, and releases
// the admitted slot on every exit path.
func (d *Dispatcher) ExecuteOperation(opID, payload string) string {
	d.Metrics.RecordDispatchExecuteRequest()

	if !d.admit() {
		d.Metrics.RecordDispatchExecuteRejected()
		return "Backpressure: too many concurrent operations"
	}
	start := time.Now()
	defer d.release(start)

	if err := d.Registry.Load(); err != nil {
		d.Metrics.RecordDispatchExecuteNotFound()
		return fmt.Sprintf("Operation not found: %s", opID)
	}

	op, ok := d.Registry.FindOperation(opID)
	if !ok {
		d.Metrics.RecordDispatchExecuteNotFound()
		return fmt.Sprintf("Operation not found: %s", opID)
	}

	d.Metrics.RecordDispatchExecuteSuccess()
	return fmt.Sprintf("Executed %s for version %s with payload: %s", opID, op.Version, payload)
}

func (d *Dispatcher) admit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active >= d.MaxConcurrent {
		return false
	}
	d.active++
	return true
}

func (d *Dispatcher) release(start time.Time) {
	d.mu.Lock()
	d.active--
	d.mu.Unlock()
	d.Metrics.RecordDispatchExecuteLatencyMs(time.Since(start).Milliseconds())
}
