// Package log is a small leveled logger over the standard library logger.
// While the TUI owns the terminal, output is redirected with SetOutput.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
)

// Level is the severity of a message.
type Level uint32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name. Unknown names yield
// LevelInfo and false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO", "":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

var (
	currentLevel atomic.Uint32
	logger       = stdlog.New(os.Stderr, "", stdlog.Ldate|stdlog.Ltime|stdlog.Lmicroseconds)
)

func init() {
	SetLevel(LevelInfo)
}

func SetLevel(level Level) { currentLevel.Store(uint32(level)) }

func GetLevel() Level { return Level(currentLevel.Load()) }

// SetOutput redirects all messages. Use io.Discard to silence logging.
func SetOutput(w io.Writer) { logger.SetOutput(w) }

// Std exposes the underlying logger, e.g. for tea.LogToFileWith.
func Std() *stdlog.Logger { return logger }

func logf(level Level, format string, v ...any) {
	if level < GetLevel() {
		return
	}
	logger.Printf("[%-5s] %s", level, fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...any) { logf(LevelDebug, format, v...) }
func Infof(format string, v ...any)  { logf(LevelInfo, format, v...) }
func Warnf(format string, v ...any)  { logf(LevelWarn, format, v...) }
func Errorf(format string, v ...any) { logf(LevelError, format, v...) }

func Debug(v ...any) { logf(LevelDebug, "%s", fmt.Sprint(v...)) }
func Info(v ...any)  { logf(LevelInfo, "%s", fmt.Sprint(v...)) }
func Warn(v ...any)  { logf(LevelWarn, "%s", fmt.Sprint(v...)) }
func Error(v ...any) { logf(LevelError, "%s", fmt.Sprint(v...)) }

// Fatalf logs at error level regardless of the current level and exits.
func Fatalf(format string, v ...any) {
	logger.Printf("[%-5s] %s", LevelError, fmt.Sprintf(format, v...))
	os.Exit(1)
}
