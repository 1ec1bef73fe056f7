// Package registration implements RegistrationService: the entry point that
// accepts an incoming spec file, validates it, persists it under the
// mappings root, and enqueues it for client-kit generation. See spec.md
// §4.2, §4.6.
package registration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/shaibachar/cpp-mcp-gateway/internal/fsutil"
	"github.com/shaibachar/cpp-mcp-gateway/internal/gatewaymetrics"
	"github.com/shaibachar/cpp-mcp-gateway/internal/generation"
	"github.com/shaibachar/cpp-mcp-gateway/internal/specvalidator"
)

// Enqueuer is the subset of generation.Worker the service depends on.
type Enqueuer interface {
	Enqueue(task generation.Task) bool
}

// Result is the outcome of a RegisterSpec call.
type Result struct {
	OK         bool
	Message    string
	StoredPath string
}

// Service is RegistrationService: spec.md §4.6's ordered validation and
// persistence pipeline.
type Service struct {
	MappingsRoot string
	Validator    *specvalidator.Validator
	Queue        Enqueuer
	Metrics      *gatewaymetrics.Sink
	Logger       *zap.Logger
}

// New returns a Service. A nil logger is replaced with a no-op logger.
func New(mappingsRoot string, validator *specvalidator.Validator, queue Enqueuer, metrics *gatewaymetrics.Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		MappingsRoot: mappingsRoot,
		Validator:    validator,
		Queue:        queue,
		Metrics:      metrics,
		Logger:       logger,
	}
}

// RegisterSpec runs the ordered checks from spec.md §4.6: version present,
// source readable, content valid, mappings directory available, copy
// persisted, generation enqueued. Any failure short-circuits with that
// step's literal message; a queue-full rejection undoes the persisted copy
// so a later retry of the same call starts clean.
func (s *Service) RegisterSpec(version, sourcePath string) Result {
	s.Metrics.RecordRegistrationAttempt()

	if version == "" {
		return s.fail("Version is required")
	}

	info, err := os.Stat(sourcePath)
	if err != nil || info.IsDir() {
		return s.fail(fmt.Sprintf("Spec file not found: %s", sourcePath))
	}

	content, err := fsutil.ReadFile(sourcePath)
	if err != nil {
		return s.fail("Failed to read spec file")
	}

	validation := s.Validator.Validate(content)
	if !validation.OK {
		s.Metrics.RecordRegistrationValidationFailure()
		return s.fail(validation.Message)
	}

	versionDir := filepath.Join(s.MappingsRoot, version)
	if err := fsutil.EnsureDirectory(versionDir); err != nil {
		return s.fail("Unable to create mappings directory")
	}

	storedPath, err := filepath.Abs(filepath.Join(versionDir, filepath.Base(sourcePath)))
	if err != nil {
		storedPath = filepath.Join(versionDir, filepath.Base(sourcePath))
	}
	if err := fsutil.CopyFileTo(sourcePath, storedPath); err != nil {
		return s.fail("Failed to persist spec to mappings")
	}

	task := generation.Task{Version: version, SpecPath: storedPath}
	if !s.Queue.Enqueue(task) {
		_ = os.Remove(storedPath)
		s.Metrics.RecordGenerationQueueFull()
		return s.fail("Generation queue is full; try again later")
	}

	s.Metrics.RecordGenerationEnqueued()
	s.Logger.Info("registered spec",
		zap.String("version", version),
		zap.String("source", sourcePath),
		zap.String("stored", storedPath))

	return Result{OK: true, Message: "Registration accepted", StoredPath: storedPath}
}

// ListSpecs is a supplemental, non-load-bearing operation that globs the
// mappings root for spec files matching pattern (e.g. "*/*.yaml"). It does
// not participate in registration or generation; it exists purely to let
// operators and tooling discover what has already been registered.
func (s *Service) ListSpecs(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**/*.yaml"
	}
	matches, err := doublestar.Glob(os.DirFS(s.MappingsRoot), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob mappings root with pattern %q: %w", pattern, err)
	}
	return matches, nil
}

func (s *Service) fail(message string) Result {
	s.Metrics.RecordRegistrationFailure()
	s.Logger.Warn("registration rejected", zap.String("reason", message))
	return Result{OK: false, Message: message}
}
