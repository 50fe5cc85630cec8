package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Log levels, ordered by verbosity.
const (
	None    = 0
	Error   = 1
	Warning = 2
	Info    = 3
	Debug   = 4
)

var currentLevel atomic.Int32

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.SetOutput(os.Stderr)
	currentLevel.Store(Info)
}

// SetLevel sets the global logging level.
func SetLevel(level int) {
	currentLevel.Store(int32(level))
}

// GetLevel returns the current logging level.
func GetLevel() int {
	return int(currentLevel.Load())
}

// ParseLevel converts a level name to its integer level.
func ParseLevel(levelStr string) (int, error) {
	switch strings.ToLower(levelStr) {
	case "none":
		return None, nil
	case "error":
		return Error, nil
	case "warn", "warning":
		return Warning, nil
	case "info":
		return Info, nil
	case "debug":
		return Debug, nil
	default:
		return Info, fmt.Errorf("invalid log level string: '%s'", levelStr)
	}
}

// SetupLogging initializes the global level from a level name.
// Unknown names fall back to Info with a warning. Returns the level in effect.
func SetupLogging(levelStr string) int {
	level, err := ParseLevel(levelStr)
	if err != nil {
		Logf(Warning, "Invalid log level '%s' provided, defaulting to 'info'. %v", levelStr, err)
		level = Info
	}
	SetLevel(level)
	return level
}

// Logf logs a formatted message if the given level is enabled.
func Logf(level int, format string, v ...interface{}) {
	if int32(level) <= currentLevel.Load() {
		prefix := ""
		switch level {
		case Error:
			prefix = "[ERROR] "
		case Warning:
			prefix = "[WARN]  "
		case Info:
			prefix = "[INFO]  "
		case Debug:
			prefix = "[DEBUG] "
		}
		// Call depth 2 keeps the caller's file/line in the output.
		log.Output(2, fmt.Sprintf(prefix+format, v...))
	}
}
