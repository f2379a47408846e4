// jsonlog.go - Structured logging with leveled key/value fields.
//
// Emits JSON lines when LBG_LOG_FORMAT=json (or LBG_ENV=production) and a
// readable key=value form otherwise.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// LogLevel represents the severity of a log entry.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var levelRank = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
}

// Logger writes leveled, structured log entries.
type Logger struct {
	output     io.Writer
	minLevel   LogLevel
	enableJSON bool
}

type logEntry struct {
	Level   LogLevel       `json:"level"`
	Time    string         `json:"time"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// DefaultLogger is the process-wide logger instance.
var DefaultLogger *Logger

func init() {
	enableJSON := os.Getenv("LBG_LOG_FORMAT") == "json" || os.Getenv("LBG_ENV") == "production"
	DefaultLogger = &Logger{
		output:     os.Stdout,
		minLevel:   logLevelFromEnv(),
		enableJSON: enableJSON,
	}
}

func logLevelFromEnv() LogLevel {
	switch os.Getenv("LBG_LOG_LEVEL") {
	case "debug":
		return LogLevelDebug
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

func (l *Logger) log(level LogLevel, msg string, fields map[string]any, err error) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	entry := logEntry{
		Level:   level,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Message: msg,
		Fields:  fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	if l.enableJSON {
		data, _ := json.Marshal(entry)
		fmt.Fprintln(l.output, string(data))
		return
	}

	fmt.Fprintf(l.output, "[%s] %s %s", entry.Level, entry.Time, entry.Message)
	for k, v := range entry.Fields {
		fmt.Fprintf(l.output, " %s=%v", k, v)
	}
	if entry.Error != "" {
		fmt.Fprintf(l.output, " error=%s", entry.Error)
	}
	fmt.Fprintln(l.output)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields map[string]any) { l.log(LogLevelDebug, msg, fields, nil) }

// Info logs an info message.
func (l *Logger) Info(msg string, fields map[string]any) { l.log(LogLevelInfo, msg, fields, nil) }

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields map[string]any) { l.log(LogLevelWarn, msg, fields, nil) }

// Error logs an error message with its underlying cause.
func (l *Logger) Error(msg string, fields map[string]any, err error) {
	l.log(LogLevelError, msg, fields, err)
}

// Package-level helpers writing through DefaultLogger.

func Debug(msg string, fields map[string]any) { DefaultLogger.Debug(msg, fields) }

func Info(msg string, fields map[string]any) { DefaultLogger.Info(msg, fields) }

func Warn(msg string, fields map[string]any) { DefaultLogger.Warn(msg, fields) }

func Error(msg string, fields map[string]any, err error) { DefaultLogger.Error(msg, fields, err) }
