// Package gatewaymetrics implements the MetricsSink the core components
// record against: monotonic counters plus running latency sums, rendered to
// a Prometheus-style text form. The sink is optional everywhere it is
// consumed — a nil *Sink is safe to call into and every method is a no-op.
package gatewaymetrics

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Sink accumulates the counters the gateway pipeline records. All fields are
// accessed only through atomic operations so a rendered snapshot is cheap to
// take but not a cross-counter-consistent view under concurrent load.
type Sink struct {
	registrationsTotal                int64
	registrationsFailed               int64
	registrationsValidationFailed     int64
	generationEnqueued                int64
	generationQueueFull               int64
	generationSuccess                 int64
	generationFailure                 int64
	generationLatencyMsTotal          int64
	generationLatencySamples          int64
	registryLoads                     int64
	registryLoadLatencyMsTotal        int64
	registryLoadLatencySamples        int64
	dispatchListRequests              int64
	dispatchExecuteRequests           int64
	dispatchExecuteSuccess            int64
	dispatchExecuteNotFound           int64
	dispatchExecuteRejected           int64
	dispatchExecuteLatencyMsTotal     int64
	dispatchExecuteLatencySamples     int64
}

// New returns a fresh, zeroed Sink.
func New() *Sink {
	return &Sink{}
}

func (s *Sink) RecordRegistrationAttempt() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.registrationsTotal, 1)
}

func (s *Sink) RecordRegistrationFailure() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.registrationsFailed, 1)
}

func (s *Sink) RecordRegistrationValidationFailure() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.registrationsValidationFailed, 1)
}

func (s *Sink) RecordGenerationEnqueued() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.generationEnqueued, 1)
}

func (s *Sink) RecordGenerationQueueFull() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.generationQueueFull, 1)
}

func (s *Sink) RecordGenerationSuccess() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.generationSuccess, 1)
}

func (s *Sink) RecordGenerationFailure() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.generationFailure, 1)
}

func (s *Sink) RecordGenerationLatencyMs(durationMs int64) {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.generationLatencyMsTotal, durationMs)
	atomic.AddInt64(&s.generationLatencySamples, 1)
}

func (s *Sink) RecordRegistryLoad(durationMs int64) {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.registryLoads, 1)
	atomic.AddInt64(&s.registryLoadLatencyMsTotal, durationMs)
	atomic.AddInt64(&s.registryLoadLatencySamples, 1)
}

func (s *Sink) RecordDispatchListRequest() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.dispatchListRequests, 1)
}

func (s *Sink) RecordDispatchExecuteRequest() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.dispatchExecuteRequests, 1)
}

func (s *Sink) RecordDispatchExecuteSuccess() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.dispatchExecuteSuccess, 1)
}

func (s *Sink) RecordDispatchExecuteNotFound() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.dispatchExecuteNotFound, 1)
}

func (s *Sink) RecordDispatchExecuteRejected() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.dispatchExecuteRejected, 1)
}

func (s *Sink) RecordDispatchExecuteLatencyMs(durationMs int64) {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.dispatchExecuteLatencyMsTotal, durationMs)
	atomic.AddInt64(&s.dispatchExecuteLatencySamples, 1)
}

// Snapshot is a point-in-time read of every counter. It is not atomic across
// fields; under concurrent load, sum(success)+sum(not_found)+sum(rejected)
// is not guaranteed to equal sum(requests).
type Snapshot struct {
	RegistrationsTotal                int64
	RegistrationsFailed               int64
	RegistrationsValidationFailed     int64
	GenerationEnqueued                int64
	GenerationQueueFull                int64
	GenerationSuccess                 int64
	GenerationFailure                 int64
	GenerationLatencyMsTotal          int64
	GenerationLatencySamples          int64
	RegistryLoads                     int64
	RegistryLoadLatencyMsTotal        int64
	RegistryLoadLatencySamples        int64
	DispatchListRequests              int64
	DispatchExecuteRequests           int64
	DispatchExecuteSuccess            int64
	DispatchExecuteNotFound           int64
	DispatchExecuteRejected           int64
	DispatchExecuteLatencyMsTotal     int64
	DispatchExecuteLatencySamples     int64
}

// Snapshot reads every counter. A nil Sink returns a zero Snapshot.
func (s *Sink) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		RegistrationsTotal:            atomic.LoadInt64(&s.registrationsTotal),
		RegistrationsFailed:           atomic.LoadInt64(&s.registrationsFailed),
		RegistrationsValidationFailed: atomic.LoadInt64(&s.registrationsValidationFailed),
		GenerationEnqueued:            atomic.LoadInt64(&s.generationEnqueued),
		GenerationQueueFull:           atomic.LoadInt64(&s.generationQueueFull),
		GenerationSuccess:             atomic.LoadInt64(&s.generationSuccess),
		GenerationFailure:             atomic.LoadInt64(&s.generationFailure),
		GenerationLatencyMsTotal:      atomic.LoadInt64(&s.generationLatencyMsTotal),
		GenerationLatencySamples:      atomic.LoadInt64(&s.generationLatencySamples),
		RegistryLoads:                 atomic.LoadInt64(&s.registryLoads),
		RegistryLoadLatencyMsTotal:    atomic.LoadInt64(&s.registryLoadLatencyMsTotal),
		RegistryLoadLatencySamples:    atomic.LoadInt64(&s.registryLoadLatencySamples),
		DispatchListRequests:          atomic.LoadInt64(&s.dispatchListRequests),
		DispatchExecuteRequests:       atomic.LoadInt64(&s.dispatchExecuteRequests),
		DispatchExecuteSuccess:        atomic.LoadInt64(&s.dispatchExecuteSuccess),
		DispatchExecuteNotFound:       atomic.LoadInt64(&s.dispatchExecuteNotFound),
		DispatchExecuteRejected:       atomic.LoadInt64(&s.dispatchExecuteRejected),
		DispatchExecuteLatencyMsTotal: atomic.LoadInt64(&s.dispatchExecuteLatencyMsTotal),
		DispatchExecuteLatencySamples: atomic.LoadInt64(&s.dispatchExecuteLatencySamples),
	}
}

// RenderPrometheus renders the snapshot as "<metric_name> <value>\n" lines,
// one per counter, with latency sums accompanied by a "_count" line. Metric
// names match the original cpp-mcp-gateway's Prometheus export.
func (s *Sink) RenderPrometheus() string {
	snap := s.Snapshot()
	var b strings.Builder
	line := func(name string, value int64) {
		fmt.Fprintf(&b, "%s %d\n", name, value)
	}

	line("cpp_mcp_registrations_total", snap.RegistrationsTotal)
	line("cpp_mcp_registrations_failed_total", snap.RegistrationsFailed)
	line("cpp_mcp_registrations_validation_failed_total", snap.RegistrationsValidationFailed)
	line("cpp_mcp_generation_enqueued_total", snap.GenerationEnqueued)
	line("cpp_mcp_generation_queue_full_total", snap.GenerationQueueFull)
	line("cpp_mcp_generation_success_total", snap.GenerationSuccess)
	line("cpp_mcp_generation_failure_total", snap.GenerationFailure)
	line("cpp_mcp_generation_latency_ms_total", snap.GenerationLatencyMsTotal)
	line("cpp_mcp_generation_latency_ms_count", snap.GenerationLatencySamples)
	line("cpp_mcp_registry_loads_total", snap.RegistryLoads)
	line("cpp_mcp_registry_load_latency_ms_total", snap.RegistryLoadLatencyMsTotal)
	line("cpp_mcp_registry_load_latency_ms_count", snap.RegistryLoadLatencySamples)
	line("cpp_mcp_mcp_list_requests_total", snap.DispatchListRequests)
	line("cpp_mcp_mcp_execute_requests_total", snap.DispatchExecuteRequests)
	line("cpp_mcp_mcp_execute_success_total", snap.DispatchExecuteSuccess)
	line("cpp_mcp_mcp_execute_not_found_total", snap.DispatchExecuteNotFound)
	line("cpp_mcp_mcp_execute_rejected_total", snap.DispatchExecuteRejected)
	line("cpp_mcp_mcp_execute_latency_ms_total", snap.DispatchExecuteLatencyMsTotal)
	line("cpp_mcp_mcp_execute_latency_ms_count", snap.DispatchExecuteLatencySamples)

	return b.String()
}
