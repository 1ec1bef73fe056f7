// Package registry implements RuntimeRegistry: the in-memory operation
// index rebuilt from the client-kit tree on disk. See spec.md §4.7.
package registry

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shaibachar/cpp-mcp-gateway/internal/gatewaymetrics"
	"github.com/shaibachar/cpp-mcp-gateway/internal/kitwriter"
)

// OperationDescriptor is one entry of the operation index: where an
// operation id resolves to, and which kit/manifest produced it.
type OperationDescriptor struct {
	Version      string
	KitName      string
	OperationID  string
	ManifestPath string
}

// Stats summarizes the last successful Load.
type Stats struct {
	OperationCount   int
	LastLoadLatencyMs int64
}

// RuntimeRegistry holds the operation index built from walking
// clientKitRoot. Load fully replaces the index each call; there is no
// incremental update (spec.md §4.7, §8 invariant 7).
type RuntimeRegistry struct {
	ClientKitRoot string
	Metrics       *gatewaymetrics.Sink

	mu    sync.RWMutex
	index map[string]OperationDescriptor
	stats Stats
}

// New returns a RuntimeRegistry rooted at clientKitRoot with an empty index.
func New(clientKitRoot string, metrics *gatewaymetrics.Sink) *RuntimeRegistry {
	return &RuntimeRegistry{
		ClientKitRoot: clientKitRoot,
		Metrics:       metrics,
		index:         make(map[string]OperationDescriptor),
	}
}

// Load walks ClientKitRoot/<version>/<kit>/manifest.txt, skipping any kit
// directory that has no manifest.txt (invariant I1: a manifest-less
// directory is not a valid kit), and replaces the in-memory index wholesale.
// When the same operation id appears in more than one manifest, the last one
// visited wins (spec.md open question Q1, decided in favor of the
// original's behavior: no conflict detection).
func (r *RuntimeRegistry) Load() error {
	start := time.Now()

	next := make(map[string]OperationDescriptor)

	versionDirs, err := os.ReadDir(r.ClientKitRoot)
	if err != nil {
		if os.IsNotExist(err) {
			r.swap(next, time.Since(start).Milliseconds())
			return nil
		}
		return fmt.Errorf("read client kit root %s: %w", r.ClientKitRoot, err)
	}

	for _, versionEntry := range versionDirs {
		if !versionEntry.IsDir() {
			continue
		}
		version := versionEntry.Name()
		versionPath := filepath.Join(r.ClientKitRoot, version)

		kitDirs, err := os.ReadDir(versionPath)
		if err != nil {
			continue
		}

		for _, kitEntry := range kitDirs {
			if !kitEntry.IsDir() {
				continue
			}
			kitName := kitEntry.Name()
			manifestPath := filepath.Join(versionPath, kitName, kitwriter.ManifestFile)

			if _, err := os.Stat(manifestPath); err != nil {
				continue
			}

			operations, err := parseManifestOperations(manifestPath)
			if err != nil {
				continue
			}

			for _, opID := range operations {
				next[opID] = OperationDescriptor{
					Version:      version,
					KitName:      kitName,
					OperationID:  opID,
					ManifestPath: manifestPath,
				}
			}
		}
	}

	r.swap(next, time.Since(start).Milliseconds())
	return nil
}

func (r *RuntimeRegistry) swap(next map[string]OperationDescriptor, latencyMs int64) {
	r.mu.Lock()
	r.index = next
	r.stats = Stats{OperationCount: len(next), LastLoadLatencyMs: latencyMs}
	r.mu.Unlock()
	r.Metrics.RecordRegistryLoad(latencyMs)
}

// ListOperations returns a snapshot copy of every known operation
// descriptor, in no particular order.
func (r *RuntimeRegistry) ListOperations() []OperationDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]OperationDescriptor, 0, len(r.index))
	for _, desc := range r.index {
		out = append(out, desc)
	}
	return out
}

// FindOperation looks up opID in the current index.
func (r *RuntimeRegistry) FindOperation(opID string) (OperationDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.index[opID]
	return desc, ok
}

// Stats returns a copy of the last Load's result.
func (r *RuntimeRegistry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// parseManifestOperations reads a kit manifest and returns the operation ids
// listed on its "operation:<id>" lines, in file order.
func parseManifestOperations(manifestPath string) ([]string, error) {
	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var operations []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if rest, ok := strings.CutPrefix(line, "operation:"); ok {
			if rest != "" {
				operations = append(operations, rest)
			}
		}
	}
	return operations, scanner.Err()
}
