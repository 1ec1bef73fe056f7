package kitwriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return path
}

func TestGenerateWritesManifestAndRouteCache(t *testing.T) {
	root := t.TempDir()
	specDir := t.TempDir()
	specPath := writeSpec(t, specDir, "spec.yaml", "openapi: 3.0.0\npaths:\n  /hello:\n    get:\n      operationId: sayHello\n")

	w := New(root)
	if err := w.Generate(Task{Version: "v1", SpecPath: specPath}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	outputDir := OutputDir(root, "v1", specPath)
	manifest, err := os.ReadFile(filepath.Join(outputDir, ManifestFile))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(manifest), "\n"), "\n")
	if lines[0] != "version:v1" {
		t.Errorf("expected version line, got %q", lines[0])
	}
	if lines[1] != "spec:"+specPath {
		t.Errorf("expected spec line, got %q", lines[1])
	}
	if lines[2] != "operation:sayHello" {
		t.Errorf("expected operation line, got %q", lines[2])
	}

	cache, err := os.ReadFile(filepath.Join(outputDir, RouteCacheFile))
	if err != nil {
		t.Fatalf("read route cache: %v", err)
	}
	if strings.TrimSpace(string(cache)) != "sayHello -> spec" {
		t.Errorf("unexpected route cache: %q", cache)
	}
}

func TestGenerateDefaultsOperationWhenNoneFound(t *testing.T) {
	root := t.TempDir()
	specDir := t.TempDir()
	specPath := writeSpec(t, specDir, "empty.yaml", "openapi: 3.0.0\ninfo:\n  title: Example\n")

	w := New(root)
	if err := w.Generate(Task{Version: "v1", SpecPath: specPath}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	outputDir := OutputDir(root, "v1", specPath)
	manifest, err := os.ReadFile(filepath.Join(outputDir, ManifestFile))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if !strings.Contains(string(manifest), "operation:"+DefaultOperation+"\n") {
		t.Errorf("expected default operation line, got %q", manifest)
	}
}

func TestGenerateMissingSpecFails(t *testing.T) {
	root := t.TempDir()
	w := New(root)
	err := w.Generate(Task{Version: "v1", SpecPath: filepath.Join(root, "nope.yaml")})
	if err == nil {
		t.Fatal("expected error for missing spec")
	}
}

func TestGenerateCleansUpOnManifestWriteFailure(t *testing.T) {
	root := t.TempDir()
	specDir := t.TempDir()
	specPath := writeSpec(t, specDir, "spec.yaml", "openapi: 3.0.0\n")

	outputDir := OutputDir(root, "v1", specPath)
	// Force the manifest write to fail by pre-creating manifest.txt as a
	// directory, so opening it for writing errors out.
	if err := os.MkdirAll(filepath.Join(outputDir, ManifestFile), 0o755); err != nil {
		t.Fatalf("seed conflicting manifest dir: %v", err)
	}

	w := New(root)
	if err := w.Generate(Task{Version: "v1", SpecPath: specPath}); err == nil {
		t.Fatal("expected error when manifest write fails")
	}

	if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
		t.Fatalf("expected kit directory to be removed after failure, stat err: %v", err)
	}
}
