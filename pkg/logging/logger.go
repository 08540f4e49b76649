// Package logging provides component loggers for mcp-web-browser.
//
// Every logger shares one zap core configured by Configure: a console sink on
// stderr (stdout carries the MCP stdio transport and must stay clean) and a
// JSON file sink rotated by lumberjack at
// ~/.mcp-web-browser/logs/<run-id>-mcp-web-browser.log.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOff disables the log file when used as Options.File.
const FileOff = "off"

// Options configures the shared logging core.
type Options struct {
	// Level is debug, info, warn or error; anything else means info
	Level string

	// Format of the console sink: console or json
	Format string

	// File is the log file path; empty uses the default location
	File string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Console receives human readable output; nil means stderr
	Console io.Writer
}

// Logger writes leveled, component tagged messages.
type Logger struct {
	sugar     *zap.SugaredLogger
	component string
	sessionID string
	logPath   string
	closeOnce sync.Once
}

type core struct {
	zap     *zap.Logger
	logPath string
	file    *lumberjack.Logger
}

var (
	// Run id shared by every logger in this process
	sessionID     string
	sessionIDOnce sync.Once

	mu      sync.Mutex
	current *core
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// DefaultLogDirectory returns ~/.mcp-web-browser/logs.
func DefaultLogDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".mcp-web-browser", "logs"), nil
}

func defaultLogPath() (string, error) {
	dir, err := DefaultLogDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s-mcp-web-browser.log", getSessionID())), nil
}

// Configure replaces the shared core. If the log file cannot be prepared the
// core still logs to the console and the error is returned so the caller can
// report it.
func Configure(opts Options) error {
	c, err := build(opts)

	mu.Lock()
	prev := current
	current = c
	mu.Unlock()

	if prev != nil {
		release(prev)
	}
	return err
}

func build(opts Options) (*core, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil || opts.Level == "" {
		level.SetLevel(zap.InfoLevel)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	cores := []zapcore.Core{
		zapcore.NewCore(encoder(opts.Format), zapcore.Lock(zapcore.AddSync(console)), level),
	}

	c := &core{}
	var fileErr error
	if opts.File != FileOff {
		path, err := prepareFile(opts.File)
		if err != nil {
			fileErr = err
		} else {
			c.file = &lumberjack.Logger{
				Filename:   path,
				MaxSize:    positive(opts.MaxSizeMB, 10),
				MaxBackups: opts.MaxBackups,
				MaxAge:     opts.MaxAgeDays,
				Compress:   opts.Compress,
			}
			c.logPath = path
			cores = append(cores, zapcore.NewCore(encoder("json"), zapcore.AddSync(c.file), level))
		}
	}

	c.zap = zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).
		With(zap.String("session", getSessionID()))
	if fileErr != nil {
		c.zap.Warn("file logging disabled, falling back to stderr", zap.Error(fileErr))
	}
	return c, fileErr
}

// prepareFile resolves the log path and checks it can be written, since
// lumberjack only opens the file on first write.
func prepareFile(path string) (string, error) {
	if path == "" {
		p, err := defaultLogPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}
	return path, f.Close()
}

func encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	if format == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + name + "]")
	}
	return zapcore.NewConsoleEncoder(cfg)
}

func positive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func release(c *core) {
	_ = c.zap.Sync()
	if c.file != nil {
		_ = c.file.Close()
	}
}

// Shutdown flushes and closes the shared core. Loggers created afterwards
// start a fresh default core.
func Shutdown() {
	mu.Lock()
	c := current
	current = nil
	mu.Unlock()

	if c != nil {
		release(c)
	}
}

func shared() (*core, error) {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return current, nil
	}
	c, err := build(Options{})
	current = c
	return c, err
}

// NewLogger creates a logger for a component. Without a prior Configure the
// default options apply. If the log file cannot be used the returned logger
// writes to stderr only and the error is returned alongside it.
func NewLogger(component string) (*Logger, error) {
	c, err := shared()
	return &Logger{
		sugar:     c.zap.Named(component).Sugar(),
		component: component,
		sessionID: getSessionID(),
		logPath:   c.logPath,
	}, err
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar(), sessionID: getSessionID()}
}

// Printf logs a formatted message at info level
func (l *Logger) Printf(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// With returns a child logger carrying the key/value pairs on every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		sugar:     l.sugar.With(keysAndValues...),
		component: l.component,
		sessionID: l.sessionID,
		logPath:   l.logPath,
	}
}

// Component returns the component name.
func (l *Logger) Component() string {
	return l.component
}

// SessionID returns the run id shared by all loggers.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the log file path, or "" when logging to stderr only.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close flushes buffered entries. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		err = l.sugar.Sync()
		// stderr reports EINVAL/ENOTTY on sync
		if err != nil && isStdSyncError(err) {
			err = nil
		}
	})
	return err
}

func isStdSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}

// GetSessionID returns the current run id.
func GetSessionID() string {
	return getSessionID()
}
