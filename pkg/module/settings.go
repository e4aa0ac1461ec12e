package module

import (
	"fmt"
	"strings"
)

// LogLevel selects which log calls are displayed.
//
// The three values are display presets rather than points on a severity scale:
// none shows nothing, warn shows only Warn calls, info shows Info and Warn calls.
type LogLevel string

const (
	LogLevelNone LogLevel = "none"
	LogLevelWarn LogLevel = "warn"
	LogLevelInfo LogLevel = "info"
)

// ParseLogLevel converts user input into a LogLevel.
func ParseLogLevel(value string) (LogLevel, error) {
	switch level := LogLevel(strings.ToLower(strings.TrimSpace(value))); level {
	case LogLevelNone, LogLevelWarn, LogLevelInfo:
		return level, nil
	case "":
		return LogLevelInfo, nil
	default:
		return "", fmt.Errorf("unknown log level %q (expected none, info or warn)", value)
	}
}

// Selection chooses which registered modules run. It is one of All, Only or Skip.
type Selection interface {
	isSelection()
}

// All selects every registered module.
type All struct{}

// Only selects the modules whose names are listed.
type Only struct {
	Names []string
}

// Skip selects every module except the ones listed.
type Skip struct {
	Names []string
}

func (All) isSelection()  {}
func (Only) isSelection() {}
func (Skip) isSelection() {}

// SelectAll returns the All selection.
func SelectAll() Selection { return All{} }

// SelectOnly returns an Only selection for names.
func SelectOnly(names ...string) Selection { return Only{Names: names} }

// SelectSkip returns a Skip selection for names.
func SelectSkip(names ...string) Selection { return Skip{Names: names} }

// Settings is the run intent parsed from the command line.
type Settings struct {
	DryRun   bool
	Modules  Selection
	LogLevel LogLevel
}

// DefaultSettings runs every module for real at info level.
func DefaultSettings() Settings {
	return Settings{
		DryRun:   false,
		Modules:  All{},
		LogLevel: LogLevelInfo,
	}
}
