package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MappingsRoot != defaultMappingsRoot {
		t.Errorf("Default MappingsRoot = %q, want %q", cfg.MappingsRoot, defaultMappingsRoot)
	}
	if cfg.ClientKitRoot != defaultClientKitRoot {
		t.Errorf("Default ClientKitRoot = %q, want %q", cfg.ClientKitRoot, defaultClientKitRoot)
	}
	if cfg.QueueCapacity != defaultQueueCapacity {
		t.Errorf("Default QueueCapacity = %d, want %d", cfg.QueueCapacity, defaultQueueCapacity)
	}
	if cfg.MaxRetries != defaultMaxRetries {
		t.Errorf("Default MaxRetries = %d, want %d", cfg.MaxRetries, defaultMaxRetries)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Default LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestMergeOverridesNonZeroFieldsOnly(t *testing.T) {
	dst := Default()
	src := &Config{
		MappingsRoot: "/custom/mappings",
		MaxRetries:   7,
	}

	result := merge(dst, src)

	if result.MappingsRoot != "/custom/mappings" {
		t.Errorf("MappingsRoot = %q, want /custom/mappings", result.MappingsRoot)
	}
	if result.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, want 7", result.MaxRetries)
	}
	// Untouched fields retain dst's (default) values.
	if result.ClientKitRoot != defaultClientKitRoot {
		t.Errorf("ClientKitRoot = %q, want unchanged default %q", result.ClientKitRoot, defaultClientKitRoot)
	}
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	t.Setenv("CPP_MCP_MAPPINGS_ROOT", "/env/mappings")
	t.Setenv("CPP_MCP_MAX_QUEUE_SIZE", "64")
	t.Setenv("GATEWAY_LOG_LEVEL", "debug")

	cfg := applyEnv(Default())

	if cfg.MappingsRoot != "/env/mappings" {
		t.Errorf("MappingsRoot = %q, want /env/mappings", cfg.MappingsRoot)
	}
	if cfg.QueueCapacity != 64 {
		t.Errorf("QueueCapacity = %d, want 64", cfg.QueueCapacity)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestApplyEnvIgnoresInvalidInt(t *testing.T) {
	t.Setenv("CPP_MCP_MAX_RETRIES", "not-a-number")

	cfg := applyEnv(Default())

	if cfg.MaxRetries != defaultMaxRetries {
		t.Errorf("MaxRetries = %d, want default %d when env value is invalid", cfg.MaxRetries, defaultMaxRetries)
	}
}

func TestLoadReadsProjectConfigOverDefault(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := "mappings_root: /project/mappings\nmax_retries: 5\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}
	t.Setenv("CPP_MCP_CONFIG", configPath)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MappingsRoot != "/project/mappings" {
		t.Errorf("MappingsRoot = %q, want /project/mappings", cfg.MappingsRoot)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	// Fields absent from the project file keep their defaults.
	if cfg.ClientKitRoot != defaultClientKitRoot {
		t.Errorf("ClientKitRoot = %q, want default %q", cfg.ClientKitRoot, defaultClientKitRoot)
	}
}

func TestLoadFlagOverridesTakePrecedence(t *testing.T) {
	t.Setenv("CPP_MCP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CPP_MCP_MAPPINGS_ROOT", "/env/mappings")

	flags := &Config{MappingsRoot: "/flag/mappings"}
	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MappingsRoot != "/flag/mappings" {
		t.Errorf("MappingsRoot = %q, want flag override /flag/mappings", cfg.MappingsRoot)
	}
}

func TestResolveTracksSourcePerField(t *testing.T) {
	t.Setenv("CPP_MCP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("GATEWAY_LOG_LEVEL", "warn")

	rc := Resolve(&Config{MaxRetries: 9})

	if rc.LogLevel.Value != "warn" || rc.LogLevel.Source != SourceEnv {
		t.Errorf("LogLevel = %+v, want value=warn source=environment", rc.LogLevel)
	}
	if rc.MaxRetries.Value != 9 || rc.MaxRetries.Source != SourceFlag {
		t.Errorf("MaxRetries = %+v, want value=9 source=flag", rc.MaxRetries)
	}
	if rc.ClientKitRoot.Source != SourceDefault {
		t.Errorf("ClientKitRoot source = %v, want default", rc.ClientKitRoot.Source)
	}
}
