// Package gatewaylog configures the gateway's structured logger: a console
// sink and a file sink, mirroring the original gateway's two-sink spdlog
// setup (see original_source/src/logging.cpp) but built on
// go.uber.org/zap.
package gatewaylog

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogFile and DefaultLogLevel match the original gateway's defaults,
// read from the same environment variable names.
const (
	DefaultLogFile  = "logs/gateway.log"
	DefaultLogLevel = "info"

	envLogFile  = "GATEWAY_LOG_FILE"
	envLogLevel = "GATEWAY_LOG_LEVEL"
)

// ParseLevel maps a level string to a zapcore.Level, defaulting to info for
// anything unrecognized (matching the original's fallback behavior).
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a logger that writes to both stderr and logFile at level,
// creating logFile's parent directory if needed. The console sink uses a
// human-readable console encoder with colored levels; the file sink uses a
// JSON encoder. Both write ISO8601 timestamps.
func New(logFile, level string) (*zap.Logger, error) {
	if logFile == "" {
		logFile = DefaultLogFile
	}
	zapLevel := ParseLevel(level)

	if dir := filepath.Dir(logFile); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	consoleEncoderCfg := zap.NewProductionEncoderConfig()
	consoleEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileEncoderCfg := zap.NewProductionEncoderConfig()
	fileEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderCfg), zapcore.AddSync(os.Stderr), zapLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderCfg), zapcore.AddSync(file), zapLevel),
	)

	return zap.New(core), nil
}

// NewFromEnv reads GATEWAY_LOG_FILE and GATEWAY_LOG_LEVEL, falling back to
// the package defaults, and calls New.
func NewFromEnv() (*zap.Logger, error) {
	logFile := os.Getenv(envLogFile)
	if logFile == "" {
		logFile = DefaultLogFile
	}
	level := os.Getenv(envLogLevel)
	if level == "" {
		level = DefaultLogLevel
	}
	return New(logFile, level)
}
