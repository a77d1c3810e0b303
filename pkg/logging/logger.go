/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Logging system for Relish. Provides structured logging with optional
timestamped log files and text, JSON or custom output, plus helpers for the events of
a synthesis run.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelTrace   LogLevel = "trace"
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
)

// LogFormat represents the logging format
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"
	LogFormatText   LogFormat = "text"
	LogFormatCustom LogFormat = "custom"
)

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	Level     LogLevel  `json:"level" mapstructure:"level"`
	Format    LogFormat `json:"format" mapstructure:"format"`
	OutputDir string    `json:"output_dir" mapstructure:"output_dir"` // Empty disables the log file
	Timestamp bool      `json:"timestamp" mapstructure:"timestamp"`
	Caller    bool      `json:"caller" mapstructure:"caller"`
	Colors    bool      `json:"colors" mapstructure:"colors"`

	Output io.Writer `json:"-" mapstructure:"-"` // Console writer, stderr when nil
}

// DefaultLoggerConfig returns a console configuration. Colors are enabled when
// stderr is a terminal.
func DefaultLoggerConfig() *LoggerConfig {
	fd := os.Stderr.Fd()
	return &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatCustom,
		Timestamp: true,
		Colors:    isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// Validate checks the LoggerConfig for invalid values
func (c *LoggerConfig) Validate() error {
	switch c.Format {
	case LogFormatJSON, LogFormatText, LogFormatCustom:
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

// Logger wraps a logrus logger configured from a LoggerConfig
type Logger struct {
	config     *LoggerConfig
	logger     *logrus.Logger
	fileHandle *os.File
	logFile    string
	startTime  time.Time
}

// NewLogger creates a new logger instance
func NewLogger(config *LoggerConfig) (*Logger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	l := &Logger{
		config:    config,
		logger:    logrus.New(),
		startTime: time.Now(),
	}
	if err := l.setup(); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return l, nil
}

// setup configures the logger with the given configuration
func (l *Logger) setup() error {
	level, err := logrus.ParseLevel(string(l.config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logger.SetLevel(level)
	l.logger.SetReportCaller(l.config.Caller)
	l.setFormatter()

	var out io.Writer = os.Stderr
	if l.config.Output != nil {
		out = l.config.Output
	}
	l.logger.SetOutput(out)

	return l.setupFileOutput(out)
}

// setFormatter configures the log formatter
func (l *Logger) setFormatter() {
	callerPrettyfier := func(f *runtime.Frame) (string, string) {
		return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
	}

	switch l.config.Format {
	case LogFormatJSON:
		l.logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:  time.RFC3339,
			DisableTimestamp: !l.config.Timestamp,
			CallerPrettyfier: callerPrettyfier,
		})
	case LogFormatText:
		l.logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    l.config.Timestamp,
			DisableTimestamp: !l.config.Timestamp,
			TimestampFormat:  time.RFC3339,
			ForceColors:      l.config.Colors,
			DisableColors:    !l.config.Colors,
			CallerPrettyfier: callerPrettyfier,
		})
	default:
		l.logger.SetFormatter(&CustomFormatter{
			Timestamp: l.config.Timestamp,
			Caller:    l.config.Caller,
			Colors:    l.config.Colors,
			Prefixes:  true,
		})
	}
}

// setupFileOutput adds a timestamped log file next to the console output
func (l *Logger) setupFileOutput(console io.Writer) error {
	if l.config.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(l.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := l.startTime.Format("2006-01-02_15-04-05.000")
	path := filepath.Join(l.config.OutputDir, fmt.Sprintf("relish_%s.log", timestamp))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	l.fileHandle = file
	l.logFile = path
	l.logger.SetOutput(io.MultiWriter(console, file))

	l.logger.WithFields(logrus.Fields{
		"start_time": l.startTime.Format(time.RFC3339),
		"log_file":   path,
		"level":      l.config.Level,
		"format":     l.config.Format,
	}).Debug("Logging initialized")
	return nil
}

// LogFile returns the path of the log file, empty without one
func (l *Logger) LogFile() string {
	return l.logFile
}

// Close flushes and closes the log file
func (l *Logger) Close() error {
	if l.fileHandle == nil {
		return nil
	}
	l.logger.WithField("uptime", time.Since(l.startTime)).Debug("Logging stopped")
	err := l.fileHandle.Close()
	l.fileHandle = nil
	return err
}

// GetLogger returns the underlying logrus logger
func (l *Logger) GetLogger() *logrus.Logger {
	return l.logger
}

// LogRound logs the decomposed candidate of a refinement round
func (l *Logger) LogRound(round int, candidate string, programs []string) {
	l.logger.WithFields(logrus.Fields{
		"round":     round,
		"candidate": candidate,
		"programs":  programs,
	}).Info("Round candidate")
}

// LogCandidate logs a candidate program at debug level
func (l *Logger) LogCandidate(size int, candidate string) {
	l.logger.WithFields(logrus.Fields{
		"size":      size,
		"candidate": candidate,
	}).Debug("Candidate extracted")
}

// LogSizeIncrease logs a raised size limit
func (l *Logger) LogSizeIncrease(limit int) {
	l.logger.WithField("limit", limit).Info("Size limit increased")
}

// LogEnumeration logs the outcome of an enumeration
func (l *Logger) LogEnumeration(grammar string, bound, results int, duration time.Duration) {
	l.logger.WithFields(logrus.Fields{
		"grammar":  grammar,
		"bound":    bound,
		"results":  results,
		"duration": duration,
	}).Info("Enumeration finished")
}

// LogResult logs the solution of a synthesis run
func (l *Logger) LogResult(task string, solution []string, rounds int, duration time.Duration) {
	l.logger.WithFields(logrus.Fields{
		"task":     task,
		"solution": solution,
		"rounds":   rounds,
		"duration": duration,
	}).Info("Synthesis result")
}
