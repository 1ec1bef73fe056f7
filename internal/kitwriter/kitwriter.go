// Package kitwriter materializes a single client kit directory — a manifest
// and a route cache summarizing the operations derivable from one
// registered spec under one version. See spec.md §4.4.
package kitwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shaibachar/cpp-mcp-gateway/internal/fsutil"
)

// Task identifies the spec to materialize a kit for.
type Task struct {
	Version  string
	SpecPath string
}

// DefaultOperation is substituted when extraction yields no operation ids,
// so a manifest is never operation-empty.
const DefaultOperation = "default_operation"

// ManifestFile and RouteCacheFile are the fixed filenames a kit directory
// contains.
const (
	ManifestFile   = "manifest.txt"
	RouteCacheFile = "routes.cache"
)

// Writer materializes client kits under clientkitRoot.
type Writer struct {
	ClientKitRoot string
}

// New returns a Writer rooted at clientKitRoot.
func New(clientKitRoot string) *Writer {
	return &Writer{ClientKitRoot: clientKitRoot}
}

// KitName returns the basename of specPath without its extension — the
// deterministic kit directory name for a given spec file.
func KitName(specPath string) string {
	base := filepath.Base(specPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputDir returns the kit directory for (version, specPath) under root.
func OutputDir(root, version, specPath string) string {
	return filepath.Join(root, version, KitName(specPath))
}

// Generate materializes the kit directory for task. Any failure removes the
// partially created kit directory before returning, so no half-written kit
// persists past a completed (failed) attempt.
func (w *Writer) Generate(task Task) error {
	if _, err := os.Stat(task.SpecPath); err != nil {
		return fmt.Errorf("spec file missing: %s", task.SpecPath)
	}

	kitName := KitName(task.SpecPath)
	outputDir := filepath.Join(w.ClientKitRoot, task.Version, kitName)

	if err := fsutil.EnsureDirectory(outputDir); err != nil {
		return fmt.Errorf("create client kit directory %s: %w", outputDir, err)
	}

	content, err := fsutil.ReadFile(task.SpecPath)
	if err != nil {
		_ = os.RemoveAll(outputDir)
		return fmt.Errorf("read spec %s: %w", task.SpecPath, err)
	}

	operations := ExtractOperationIDs(content)
	if len(operations) == 0 {
		operations = []string{DefaultOperation}
	}

	manifestPath := filepath.Join(outputDir, ManifestFile)
	if err := fsutil.WriteFile(manifestPath, renderManifest(task, operations)); err != nil {
		_ = os.RemoveAll(outputDir)
		return fmt.Errorf("write manifest: %w", err)
	}

	cachePath := filepath.Join(outputDir, RouteCacheFile)
	if err := fsutil.WriteFile(cachePath, renderRouteCache(kitName, operations)); err != nil {
		_ = os.RemoveAll(outputDir)
		return fmt.Errorf("write route cache: %w", err)
	}

	return nil
}

func renderManifest(task Task, operations []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "version:%s\n", task.Version)
	fmt.Fprintf(&b, "spec:%s\n", task.SpecPath)
	for _, op := range operations {
		fmt.Fprintf(&b, "operation:%s\n", op)
	}
	return []byte(b.String())
}

func renderRouteCache(kitName string, operations []string) []byte {
	var b strings.Builder
	for _, op := range operations {
		fmt.Fprintf(&b, "%s -> %s\n", op, kitName)
	}
	return []byte(b.String())
}
