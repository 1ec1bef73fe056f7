package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shaibachar/cpp-mcp-gateway/internal/config"
	"github.com/shaibachar/cpp-mcp-gateway/internal/dispatcher"
	"github.com/shaibachar/cpp-mcp-gateway/internal/fsutil"
	"github.com/shaibachar/cpp-mcp-gateway/internal/gatewaylog"
	"github.com/shaibachar/cpp-mcp-gateway/internal/gatewaymetrics"
	"github.com/shaibachar/cpp-mcp-gateway/internal/generation"
	"github.com/shaibachar/cpp-mcp-gateway/internal/kitwriter"
	"github.com/shaibachar/cpp-mcp-gateway/internal/registration"
	"github.com/shaibachar/cpp-mcp-gateway/internal/registry"
	"github.com/shaibachar/cpp-mcp-gateway/internal/specvalidator"
)

// app bundles every wired component a CLI command needs. Each invocation of
// the gateway binary builds a fresh app, runs one operation to completion,
// and tears the worker back down — the long-running daemon shape described
// in spec.md §4.3 is the same pipeline, just kept alive across many calls
// instead of one.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *gatewaymetrics.Sink
	worker     *generation.Worker
	service    *registration.Service
	reg        *registry.RuntimeRegistry
	dispatcher *dispatcher.Dispatcher
}

// dispatcherRegistry adapts *registry.RuntimeRegistry to dispatcher.Registry,
// translating registry.OperationDescriptor to dispatcher.OperationView.
type dispatcherRegistry struct {
	reg *registry.RuntimeRegistry
}

func (r dispatcherRegistry) Load() error {
	return r.reg.Load()
}

func (r dispatcherRegistry) ListOperations() []dispatcher.OperationView {
	descriptors := r.reg.ListOperations()
	views := make([]dispatcher.OperationView, len(descriptors))
	for i, d := range descriptors {
		views[i] = dispatcher.OperationView{Version: d.Version, KitName: d.KitName, OperationID: d.OperationID}
	}
	return views
}

func (r dispatcherRegistry) FindOperation(opID string) (dispatcher.OperationView, bool) {
	desc, ok := r.reg.FindOperation(opID)
	if !ok {
		return dispatcher.OperationView{}, false
	}
	return dispatcher.OperationView{Version: desc.Version, KitName: desc.KitName, OperationID: desc.OperationID}, true
}

func newApp() (*app, error) {
	cfg, err := config.Load(nil)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := gatewaylog.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	if err := fsutil.EnsureDirectory(cfg.MappingsRoot); err != nil {
		return nil, fmt.Errorf("prepare mappings root: %w", err)
	}
	if err := fsutil.EnsureDirectory(cfg.ClientKitRoot); err != nil {
		return nil, fmt.Errorf("prepare client kit root: %w", err)
	}

	metrics := gatewaymetrics.New()
	writer := kitwriter.New(cfg.ClientKitRoot)
	worker := generation.New(writer, cfg.QueueCapacity, cfg.MaxRetries, metrics, logger)
	worker.Start()

	validator := specvalidator.New(cfg.MaxSpecBytes)
	service := registration.New(cfg.MappingsRoot, validator, worker, metrics, logger)

	reg := registry.New(cfg.ClientKitRoot, metrics)
	if err := reg.Load(); err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	disp := dispatcher.New(dispatcherRegistry{reg: reg}, cfg.MaxConcurrentOps, metrics)

	return &app{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		worker:     worker,
		service:    service,
		reg:        reg,
		dispatcher: disp,
	}, nil
}

// close drains the generation worker and flushes logs. Callers that
// registered a spec should WaitForIdle before close so the kit is
// materialized before the process exits.
func (a *app) close() {
	a.worker.Stop()
	_ = a.logger.Sync()
}
