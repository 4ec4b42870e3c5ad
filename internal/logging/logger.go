package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config holds logger configuration
type Config struct {
	Level      string // logrus level name (default: info)
	Format     string // "text" or "json"
	Output     string // "stdout", "stderr" or a file path (default: stderr)
	MaxSize    int64  // Max size in bytes before rotation (default: 10MB)
	MaxBackups int    // Number of old log files to keep (default: 3)
}

// Logger wraps logrus.Logger and owns the log file, if any
type Logger struct {
	*logrus.Logger
	config Config
	file   *os.File
	mu     sync.Mutex
}

// New creates a logger from the given configuration
func New(config Config) (*Logger, error) {
	// Set defaults
	if config.MaxSize == 0 {
		config.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 3
	}
	if config.Output == "" {
		config.Output = "stderr"
	}

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		if config.Level != "" {
			return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
		}
		level = logrus.InfoLevel
	}

	logger := &Logger{Logger: logrus.New(), config: config}
	logger.SetLevel(level)

	switch strings.ToLower(config.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	out, err := logger.openOutput()
	if err != nil {
		return nil, err
	}
	logger.SetOutput(out)
	return logger, nil
}

func (l *Logger) openOutput() (io.Writer, error) {
	switch strings.ToLower(l.config.Output) {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}

	// Ensure directory exists
	dir := filepath.Dir(l.config.Output)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	if err := l.rotateIfNeeded(); err != nil {
		return nil, fmt.Errorf("failed to rotate logs: %w", err)
	}

	file, err := os.OpenFile(l.config.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", l.config.Output, err)
	}
	l.file = file
	return file, nil
}

// rotateIfNeeded shifts file.N to file.N+1 and the current file to file.1
// once it reaches MaxSize
func (l *Logger) rotateIfNeeded() error {
	info, err := os.Stat(l.config.Output)
	if os.IsNotExist(err) {
		return nil // File doesn't exist yet
	}
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	if info.Size() < l.config.MaxSize {
		return nil // No rotation needed
	}

	// The oldest backup is overwritten by the rename below
	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", l.config.Output, i)
		newPath := fmt.Sprintf("%s.%d", l.config.Output, i+1)
		if _, err := os.Stat(oldPath); err == nil {
			os.Rename(oldPath, newPath) // Ignore error, file might not exist
		}
	}

	backupPath := fmt.Sprintf("%s.1", l.config.Output)
	if err := os.Rename(l.config.Output, backupPath); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return nil
}

// FilePath returns the log file path, or "" when logging to a stream
func (l *Logger) FilePath() string {
	if l.file == nil {
		return ""
	}
	return l.config.Output
}

// Close closes the log file if one is open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.SetOutput(io.Discard)
		return err
	}
	return nil
}

// Install makes l the standard logrus logger used by package-level calls
func (l *Logger) Install() {
	std := logrus.StandardLogger()
	std.SetLevel(l.GetLevel())
	std.SetFormatter(l.Formatter)
	std.SetOutput(l.Out)
}

// Discard returns a logger that drops every entry, for tests and library use
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
