package registration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shaibachar/cpp-mcp-gateway/internal/generation"
	"github.com/shaibachar/cpp-mcp-gateway/internal/specvalidator"
)

type fakeQueue struct {
	accept bool
	tasks  []generation.Task
}

func (f *fakeQueue) Enqueue(task generation.Task) bool {
	if !f.accept {
		return false
	}
	f.tasks = append(f.tasks, task)
	return true
}

func newService(t *testing.T, queue Enqueuer) (*Service, string) {
	t.Helper()
	mappingsRoot := t.TempDir()
	svc := New(mappingsRoot, specvalidator.New(0), queue, nil, nil)
	return svc, mappingsRoot
}

func writeTempSpec(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return path
}

const validSpec = "openapi: 3.0.0\npaths:\n  /hi:\n    get:\n      operationId: sayHi\n"

func TestRegisterSpecRejectsMissingVersion(t *testing.T) {
	svc, _ := newService(t, &fakeQueue{accept: true})
	specPath := writeTempSpec(t, validSpec)

	got := svc.RegisterSpec("", specPath)
	if got.OK || got.Message != "Version is required" {
		t.Errorf("got %+v", got)
	}
}

func TestRegisterSpecRejectsMissingSourceFile(t *testing.T) {
	svc, mappingsRoot := newService(t, &fakeQueue{accept: true})
	missing := filepath.Join(mappingsRoot, "nope.yaml")

	got := svc.RegisterSpec("v1", missing)
	if got.OK {
		t.Errorf("expected rejection for missing source, got %+v", got)
	}
}

func TestRegisterSpecRejectsInvalidContent(t *testing.T) {
	svc, _ := newService(t, &fakeQueue{accept: true})
	specPath := writeTempSpec(t, "not a spec at all")

	got := svc.RegisterSpec("v1", specPath)
	if got.OK {
		t.Errorf("expected rejection for invalid content, got %+v", got)
	}
}

func TestRegisterSpecSucceedsAndEnqueues(t *testing.T) {
	queue := &fakeQueue{accept: true}
	svc, mappingsRoot := newService(t, queue)
	specPath := writeTempSpec(t, validSpec)

	got := svc.RegisterSpec("v1", specPath)
	if !got.OK {
		t.Fatalf("expected success, got %+v", got)
	}
	if _, err := os.Stat(got.StoredPath); err != nil {
		t.Errorf("expected stored spec at %s: %v", got.StoredPath, err)
	}
	if filepath.Dir(got.StoredPath) != filepath.Join(mappingsRoot, "v1") {
		t.Errorf("expected stored path under mappings/v1, got %s", got.StoredPath)
	}
	if len(queue.tasks) != 1 || queue.tasks[0].Version != "v1" {
		t.Errorf("expected one enqueued task for v1, got %+v", queue.tasks)
	}
}

func TestRegisterSpecUndoesCopyWhenQueueFull(t *testing.T) {
	queue := &fakeQueue{accept: false}
	svc, _ := newService(t, queue)
	specPath := writeTempSpec(t, validSpec)

	got := svc.RegisterSpec("v1", specPath)
	if got.OK || got.Message != "Generation queue is full; try again later" {
		t.Fatalf("expected queue-full rejection, got %+v", got)
	}

	entries, err := os.ReadDir(filepath.Join(svc.MappingsRoot, "v1"))
	if err != nil {
		t.Fatalf("read version dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected persisted copy to be undone, found %v", entries)
	}
}

func TestListSpecsFindsRegisteredFiles(t *testing.T) {
	queue := &fakeQueue{accept: true}
	svc, _ := newService(t, queue)
	specPath := writeTempSpec(t, validSpec)

	if got := svc.RegisterSpec("v1", specPath); !got.OK {
		t.Fatalf("setup registration failed: %+v", got)
	}

	matches, err := svc.ListSpecs("**/*.yaml")
	if err != nil {
		t.Fatalf("ListSpecs: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %v", matches)
	}
}
