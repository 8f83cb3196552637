package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	mu     sync.RWMutex
)

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "NECKSCAN_LOG_LEVEL"

// LogFileEnvVar redirects log output to a file instead of stderr.
const LogFileEnvVar = "NECKSCAN_LOG_FILE"

// Options controls logger construction.
type Options struct {
	Level string // debug, info, warn, error; empty = silent
	File  string // output path; empty = stderr
}

// Initialize creates a new logger with the specified options.
// Empty fields fall back to NECKSCAN_LOG_LEVEL / NECKSCAN_LOG_FILE.
// If no level is found anywhere, logging is disabled (silent mode).
func Initialize(opts Options) error {
	if opts.Level == "" {
		opts.Level = os.Getenv(LogLevelEnvVar)
	}
	if opts.File == "" {
		opts.File = os.Getenv(LogFileEnvVar)
	}

	if opts.Level == "" {
		setLogger(zap.NewNop())
		return nil
	}

	output := "stderr"
	if opts.File != "" {
		output = opts.File
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(opts.Level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if opts.File == "" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	setLogger(built)
	return nil
}

// InitializeFromEnv initializes the logger purely from environment variables.
func InitializeFromEnv() error {
	return Initialize(Options{})
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Unknown level - use info when explicitly set to something
		return zapcore.InfoLevel
	}
}

func setLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetLogger replaces the global logger. Tests use this with zaptest/observer cores.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	setLogger(l)
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l == nil {
		// Silent until initialized so the TUI never gets stray output
		return zap.NewNop()
	}
	return l
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogTransition logs a session state change
func LogTransition(sessionID string, from, to string, requestID uint64) {
	Debug("Session transition",
		zap.String("session", sessionID),
		zap.String("from", from),
		zap.String("to", to),
		zap.Uint64("request_id", requestID),
	)
}

// LogAnalysisRequest logs an outbound analysis call
func LogAnalysisRequest(model string, mimeType string, size int) {
	Info("Analysis request",
		zap.String("model", model),
		zap.String("mime_type", mimeType),
		zap.Int("image_bytes", size),
	)
}

// LogAnalysisResponse logs the outcome of an analysis call
func LogAnalysisResponse(model string, elapsed time.Duration, err error) {
	if err != nil {
		Warn("Analysis failed",
			zap.String("model", model),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return
	}
	Info("Analysis completed",
		zap.String("model", model),
		zap.Duration("elapsed", elapsed),
	)
}

// LogConnection logs a websocket connection event
func LogConnection(remoteAddr string, sessionID string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("session", sessionID),
		zap.String("event", event),
	)
}

// LogStaleResponse logs a discarded analysis outcome
func LogStaleResponse(sessionID string, requestID, currentID uint64) {
	Debug("Discarding stale analysis response",
		zap.String("session", sessionID),
		zap.Uint64("request_id", requestID),
		zap.Uint64("current_id", currentID),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = GetLogger().Sync()
}
