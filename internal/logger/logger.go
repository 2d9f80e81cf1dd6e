package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel converts a string to a Level, INFO when unknown
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand for creating a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      Level  // Minimum log level
	FilePath   string // Path to log file
	MaxSize    int64  // Max size in bytes before rotation (default: 10MB)
	MaxAge     int    // Max age in days (default: 7)
	MaxBackups int    // Max number of backup files (default: 5)
	Console    bool   // Enable console logging
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	logPath := filepath.Join(home, ".awaree", "logs", "awaree.log")

	return Config{
		Level:      INFO,
		FilePath:   logPath,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    false, // Keeps the TUI screen clean
	}
}

// Logger is the main logger instance
type Logger struct {
	config Config
	file   *rotatingFile
	zl     zerolog.Logger
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Init initializes the global logger
func Init(config Config) error {
	var err error
	once.Do(func() {
		globalLogger, err = New(config)
	})
	return err
}

// New creates a new logger instance
func New(config Config) (*Logger, error) {
	l := &Logger{config: config}

	var writers []io.Writer
	if config.FilePath != "" {
		file, err := openRotating(config)
		if err != nil {
			return nil, err
		}
		l.file = file
		writers = append(writers, file)
	}
	if config.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	l.zl = zerolog.New(out).
		Level(config.Level.zerolog()).
		With().
		Timestamp().
		Logger()
	return l, nil
}

// NewWriter returns a logger writing JSON lines to w, used in tests
func NewWriter(w io.Writer, level Level) *Logger {
	return &Logger{
		config: Config{Level: level},
		zl:     zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger(),
	}
}

// Nop returns a logger that drops everything
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) log(ev *zerolog.Event, msg string, fields []Field) {
	if ev == nil {
		return
	}
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			ev = ev.AnErr(f.Key, err)
			continue
		}
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}

// WithFields creates a new logger with preset fields
func (l *Logger) WithFields(fields ...Field) *Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &Logger{
		config: l.config,
		file:   l.file,
		zl:     ctx.Logger(),
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(l.zl.Debug(), msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(l.zl.Info(), msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(l.zl.Warn(), msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(l.zl.Error(), msg, fields)
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// rotatingFile is an append-only log file that rolls over by size and age
type rotatingFile struct {
	config Config
	mu     sync.Mutex
	file   *os.File
}

func openRotating(config Config) (*rotatingFile, error) {
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	r := &rotatingFile{config: config, file: file}
	if err := r.rotateIfNeeded(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// Write appends p, rotating first when the file is too big or too old
func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// a failed rotation still leaves the live file open for appending
	if err := r.rotateIfNeeded(); err != nil && r.file == nil {
		return 0, err
	}
	return r.file.Write(p)
}

func (r *rotatingFile) rotateIfNeeded() error {
	if r.file == nil {
		return r.reopen()
	}
	info, err := r.file.Stat()
	if err != nil {
		return err
	}
	if r.config.MaxSize > 0 && info.Size() >= r.config.MaxSize {
		return r.rotate()
	}
	if r.config.MaxAge > 0 && info.Size() > 0 &&
		time.Since(info.ModTime()) > time.Duration(r.config.MaxAge)*24*time.Hour {
		return r.rotate()
	}
	return nil
}

func (r *rotatingFile) rotate() error {
	r.file.Close()

	for i := r.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", r.config.FilePath, i)
		newPath := fmt.Sprintf("%s.%d", r.config.FilePath, i+1)
		os.Rename(oldPath, newPath)
	}

	if _, err := os.Stat(r.config.FilePath); err == nil {
		if err := os.Rename(r.config.FilePath, r.config.FilePath+".1"); err != nil {
			return errors.Join(err, r.reopen())
		}
	}
	return r.reopen()
}

// reopen opens the live path in append mode. r.file is nil when it fails.
func (r *rotatingFile) reopen() error {
	file, err := os.OpenFile(r.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		r.file = nil
		return err
	}
	r.file = file
	return nil
}

func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// Global logger functions

// Default returns the global logger, or a no-op logger before Init
func Default() *Logger {
	if globalLogger != nil {
		return globalLogger
	}
	return Nop()
}

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	Default().Debug(msg, fields...)
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	Default().Info(msg, fields...)
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	Default().Warn(msg, fields...)
}

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) {
	Default().Error(msg, fields...)
}

// WithFields creates a new logger with preset fields using the global logger
func WithFields(fields ...Field) *Logger {
	return Default().WithFields(fields...)
}

// Close closes the global logger
func Close() error {
	if globalLogger != nil {
		return globalLogger.Close()
	}
	return nil
}
