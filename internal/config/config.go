// Package config provides configuration management for the gateway.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (CPP_MCP_*, GATEWAY_*)
// 3. Project config (.cpp-mcp/config.yaml in cwd)
// 4. Home config (~/.cpp-mcp/config.yaml)
// 5. Defaults
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all gateway configuration.
type Config struct {
	// MappingsRoot is where registered spec files are persisted, one
	// directory per version.
	MappingsRoot string `yaml:"mappings_root" json:"mappings_root"`

	// ClientKitRoot is where generated client kits (manifest + route cache)
	// are written, and where RuntimeRegistry.Load reads them back from.
	ClientKitRoot string `yaml:"clientkit_root" json:"clientkit_root"`

	// QueueCapacity bounds the generation worker's pending-task queue.
	QueueCapacity int `yaml:"queue_capacity" json:"queue_capacity"`

	// MaxConcurrentOps bounds how many Dispatcher.ExecuteOperation calls may
	// be in flight at once.
	MaxConcurrentOps int `yaml:"max_concurrent_ops" json:"max_concurrent_ops"`

	// MaxRetries bounds generation attempts per task before giving up.
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// MaxSpecBytes bounds the size of an accepted spec payload.
	MaxSpecBytes int `yaml:"max_spec_bytes" json:"max_spec_bytes"`

	// LogFile is where structured logs are written, in addition to stderr.
	LogFile string `yaml:"log_file" json:"log_file"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default config values.
const (
	defaultMappingsRoot     = ".cpp-mcp/mappings"
	defaultClientKitRoot    = ".cpp-mcp/clientkits"
	defaultQueueCapacity    = 32
	defaultMaxConcurrentOps = 16
	defaultMaxRetries       = 3
	defaultMaxSpecBytes     = 10 * 1024 * 1024
	defaultLogFile          = "logs/gateway.log"
	defaultLogLevel         = "info"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		MappingsRoot:     defaultMappingsRoot,
		ClientKitRoot:    defaultClientKitRoot,
		QueueCapacity:    defaultQueueCapacity,
		MaxConcurrentOps: defaultMaxConcurrentOps,
		MaxRetries:       defaultMaxRetries,
		MaxSpecBytes:     defaultMaxSpecBytes,
		LogFile:          defaultLogFile,
		LogLevel:         defaultLogLevel,
	}
}

// Load loads configuration with proper precedence:
// flags > env > project > home > defaults.
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	if homeConfig, _ := loadFromPath(homeConfigPath()); homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}

	if projectConfig, _ := loadFromPath(projectConfigPath()); projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cpp-mcp", "config.yaml")
}

// projectConfigPath returns the project config path, or CPP_MCP_CONFIG if
// set as an explicit override.
func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("CPP_MCP_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".cpp-mcp", "config.yaml")
}

// loadFromPath loads config from a YAML file.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("CPP_MCP_MAPPINGS_ROOT"); v != "" {
		cfg.MappingsRoot = v
	}
	if v := os.Getenv("CPP_MCP_CLIENTKIT_ROOT"); v != "" {
		cfg.ClientKitRoot = v
	}
	if v, ok := getEnvInt("CPP_MCP_MAX_QUEUE_SIZE"); ok {
		cfg.QueueCapacity = v
	}
	if v, ok := getEnvInt("CPP_MCP_MAX_CONCURRENT_OPS"); ok {
		cfg.MaxConcurrentOps = v
	}
	if v, ok := getEnvInt("CPP_MCP_MAX_RETRIES"); ok {
		cfg.MaxRetries = v
	}
	if v, ok := getEnvInt("CPP_MCP_MAX_SPEC_BYTES"); ok {
		cfg.MaxSpecBytes = v
	}
	if v := os.Getenv("GATEWAY_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("GATEWAY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

// getEnvInt returns the int value and whether the env var was set and valid.
func getEnvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// merge merges src into dst, with src's non-zero values taking precedence.
func merge(dst, src *Config) *Config {
	if src.MappingsRoot != "" {
		dst.MappingsRoot = src.MappingsRoot
	}
	if src.ClientKitRoot != "" {
		dst.ClientKitRoot = src.ClientKitRoot
	}
	if src.QueueCapacity != 0 {
		dst.QueueCapacity = src.QueueCapacity
	}
	if src.MaxConcurrentOps != 0 {
		dst.MaxConcurrentOps = src.MaxConcurrentOps
	}
	if src.MaxRetries != 0 {
		dst.MaxRetries = src.MaxRetries
	}
	if src.MaxSpecBytes != 0 {
		dst.MaxSpecBytes = src.MaxSpecBytes
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	return dst
}

// Source represents where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceHome    Source = "~/.cpp-mcp/config.yaml"
	SourceProject Source = ".cpp-mcp/config.yaml"
	SourceEnv     Source = "environment"
	SourceFlag    Source = "flag"
)

type resolved struct {
	Value  interface{} `json:"value"`
	Source Source      `json:"source"`
}

// ResolvedConfig shows config values with their sources.
type ResolvedConfig struct {
	MappingsRoot     resolved `json:"mappings_root"`
	ClientKitRoot    resolved `json:"clientkit_root"`
	QueueCapacity    resolved `json:"queue_capacity"`
	MaxConcurrentOps resolved `json:"max_concurrent_ops"`
	MaxRetries       resolved `json:"max_retries"`
	LogFile          resolved `json:"log_file"`
	LogLevel         resolved `json:"log_level"`
}

// resolveStringField resolves a string through the precedence chain.
func resolveStringField(home, project, env, flag, def string) resolved {
	result := resolved{Value: def, Source: SourceDefault}
	if home != "" {
		result = resolved{Value: home, Source: SourceHome}
	}
	if project != "" {
		result = resolved{Value: project, Source: SourceProject}
	}
	if env != "" {
		result = resolved{Value: env, Source: SourceEnv}
	}
	if flag != "" {
		result = resolved{Value: flag, Source: SourceFlag}
	}
	return result
}

// resolveIntField resolves an int through the precedence chain; zero means
// "not set" at every level except def.
func resolveIntField(home, project, env, flag, def int) resolved {
	result := resolved{Value: def, Source: SourceDefault}
	if home != 0 {
		result = resolved{Value: home, Source: SourceHome}
	}
	if project != 0 {
		result = resolved{Value: project, Source: SourceProject}
	}
	if env != 0 {
		result = resolved{Value: env, Source: SourceEnv}
	}
	if flag != 0 {
		result = resolved{Value: flag, Source: SourceFlag}
	}
	return result
}

// Resolve returns configuration with source tracking, using the same
// precedence chain as Load.
func Resolve(flags *Config) *ResolvedConfig {
	homeConfig, _ := loadFromPath(homeConfigPath())
	projectConfig, _ := loadFromPath(projectConfigPath())
	if homeConfig == nil {
		homeConfig = &Config{}
	}
	if projectConfig == nil {
		projectConfig = &Config{}
	}
	if flags == nil {
		flags = &Config{}
	}

	env := applyEnv(&Config{})

	return &ResolvedConfig{
		MappingsRoot: resolveStringField(homeConfig.MappingsRoot, projectConfig.MappingsRoot,
			env.MappingsRoot, flags.MappingsRoot, defaultMappingsRoot),
		ClientKitRoot: resolveStringField(homeConfig.ClientKitRoot, projectConfig.ClientKitRoot,
			env.ClientKitRoot, flags.ClientKitRoot, defaultClientKitRoot),
		QueueCapacity: resolveIntField(homeConfig.QueueCapacity, projectConfig.QueueCapacity,
			env.QueueCapacity, flags.QueueCapacity, defaultQueueCapacity),
		MaxConcurrentOps: resolveIntField(homeConfig.MaxConcurrentOps, projectConfig.MaxConcurrentOps,
			env.MaxConcurrentOps, flags.MaxConcurrentOps, defaultMaxConcurrentOps),
		MaxRetries: resolveIntField(homeConfig.MaxRetries, projectConfig.MaxRetries,
			env.MaxRetries, flags.MaxRetries, defaultMaxRetries),
		LogFile: resolveStringField(homeConfig.LogFile, projectConfig.LogFile,
			env.LogFile, flags.LogFile, defaultLogFile),
		LogLevel: resolveStringField(homeConfig.LogLevel, projectConfig.LogLevel,
			env.LogLevel, flags.LogLevel, defaultLogLevel),
	}
}
