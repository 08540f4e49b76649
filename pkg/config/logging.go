package config

import (
	"fmt"
	"strings"
	"sync"
)

const (
	// SectionIDLogging is the identifier for the logging section
	SectionIDLogging = "logging"

	defaultLogLevel   = "info"
	defaultLogFormat  = "console"
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 5
	defaultMaxAgeDays = 7
	defaultCompress   = false
)

// LoggingSettings is a snapshot of the logging section.
type LoggingSettings struct {
	Level  string
	Format string

	// File is the log file path; empty uses the default location and "off"
	// disables the file sink
	File string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// LoggingSection configures diagnostics written to stderr and the log file.
type LoggingSection struct {
	settings LoggingSettings
	mu       sync.RWMutex
}

func defaultLoggingSettings() LoggingSettings {
	return LoggingSettings{
		Level:      defaultLogLevel,
		Format:     defaultLogFormat,
		MaxSizeMB:  defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAgeDays: defaultMaxAgeDays,
		Compress:   defaultCompress,
	}
}

// NewLoggingSection creates a logging section with default settings.
func NewLoggingSection() *LoggingSection {
	return &LoggingSection{settings: defaultLoggingSettings()}
}

func (s *LoggingSection) ID() string { return SectionIDLogging }

func (s *LoggingSection) Title() string { return "Logging" }

func (s *LoggingSection) Description() string {
	return "Configure log level, console format and log file rotation."
}

// Data returns the current configuration data.
func (s *LoggingSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.settings
	return map[string]interface{}{
		"level":        l.Level,
		"format":       l.Format,
		"file":         l.File,
		"max_size_mb":  l.MaxSizeMB,
		"max_backups":  l.MaxBackups,
		"max_age_days": l.MaxAgeDays,
		"compress":     l.Compress,
	}
}

// SetData updates the configuration from the provided data.
func (s *LoggingSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	var err error
	for key, value := range data {
		switch key {
		case "level":
			next.Level, err = asString(key, value)
			next.Level = strings.ToLower(next.Level)
		case "format":
			next.Format, err = asString(key, value)
			next.Format = strings.ToLower(next.Format)
		case "file":
			next.File, err = asString(key, value)
		case "max_size_mb":
			next.MaxSizeMB, err = asInt(key, value)
		case "max_backups":
			next.MaxBackups, err = asInt(key, value)
		case "max_age_days":
			next.MaxAgeDays, err = asInt(key, value)
		case "compress":
			next.Compress, err = asBool(key, value)
		default:
			continue
		}
		if err != nil {
			return err
		}
	}

	s.settings = next
	return nil
}

// Validate validates the current configuration.
func (s *LoggingSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.settings
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q, expected debug, info, warn or error", l.Level)
	}
	switch l.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q, expected console or json", l.Format)
	}
	if l.MaxSizeMB <= 0 {
		return fmt.Errorf("max_size_mb must be positive, got %d", l.MaxSizeMB)
	}
	if l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return fmt.Errorf("max_backups and max_age_days cannot be negative")
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *LoggingSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = defaultLoggingSettings()
}

// Settings returns a copy of the current settings.
func (s *LoggingSection) Settings() LoggingSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetLevel overrides the log level.
func (s *LoggingSection) SetLevel(level string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Level = strings.ToLower(level)
}

// SetFile overrides the log file path.
func (s *LoggingSection) SetFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.File = path
}
