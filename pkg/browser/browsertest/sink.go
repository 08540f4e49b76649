package browsertest

import (
	"fmt"
	"strings"
	"sync"
)

// Sink records diagnostic messages as "LEVEL message" lines.
type Sink struct {
	mu    sync.Mutex
	lines []string
}

func (s *Sink) add(level, format string, v ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, level+" "+fmt.Sprintf(format, v...))
}

func (s *Sink) Debugf(format string, v ...interface{}) { s.add("DEBUG", format, v...) }
func (s *Sink) Infof(format string, v ...interface{})  { s.add("INFO", format, v...) }
func (s *Sink) Warnf(format string, v ...interface{})  { s.add("WARN", format, v...) }
func (s *Sink) Errorf(format string, v ...interface{}) { s.add("ERROR", format, v...) }

// Lines returns every recorded line.
func (s *Sink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Contains reports whether any recorded line contains substr.
func (s *Sink) Contains(substr string) bool {
	for _, l := range s.Lines() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}
