package logformat

import (
	"strings"

	"github.com/TimelordUK/logpage/internal/config"
)

// Level is a log severity detected from line content
type Level int

const (
	LevelUnknown Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"", "trace", "debug", "info", "warn", "error", "fatal"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return ""
	}
	return levelNames[l]
}

// LevelDetector detects log levels from line content
type LevelDetector struct {
	// most severe first, so "ERROR ... INFO" reads as an error
	rules []levelRule
}

type levelRule struct {
	level    Level
	patterns []string
}

// NewLevelDetector creates a detector from config
func NewLevelDetector(cfg *config.LogLevelConfig) *LevelDetector {
	return &LevelDetector{
		rules: []levelRule{
			{LevelFatal, cfg.FatalPatterns},
			{LevelError, cfg.ErrorPatterns},
			{LevelWarn, cfg.WarnPatterns},
			{LevelInfo, cfg.InfoPatterns},
			{LevelDebug, cfg.DebugPatterns},
			{LevelTrace, cfg.TracePatterns},
		},
	}
}

// Detect returns the log level for a line
func (d *LevelDetector) Detect(line string) Level {
	for _, rule := range d.rules {
		for _, pattern := range rule.patterns {
			if strings.Contains(line, pattern) {
				return rule.level
			}
		}
	}
	return LevelUnknown
}
