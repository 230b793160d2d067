package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Logger provides structured logging for journald. It is safe for use from
// concurrent request handlers.
type Logger struct {
	mu     sync.Mutex
	writer io.Writer
}

// New creates a new logger instance
func New() *Logger {
	return &Logger{
		writer: os.Stdout,
	}
}

// NewWithWriter creates a logger with a custom writer
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		writer: w,
	}
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...Field) {
	l.log("INFO", msg, fields...)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...Field) {
	l.log("ERROR", msg, fields...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log("WARNING", msg, fields...)
}

// Debug logs debug messages
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log("DEBUG", msg, fields...)
}

func (l *Logger) log(level, msg string, fields ...Field) {
	var b strings.Builder
	fmt.Fprintf(&b, "LEVEL=%s MESSAGE=%s", level, msg)
	for _, field := range fields {
		fmt.Fprintf(&b, " %s=%v", field.Key, field.Value)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintln(l.writer, b.String())
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter(io.Discard)
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new field (shorthand)
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Common field constructors
func Action(value string) Field     { return F("ACTION", value) }
func Status(value string) Field     { return F("STATUS", value) }
func Reservation(value int64) Field { return F("RESERVATION", value) }
func Room(value int64) Field        { return F("ROOM", value) }
func User(value int64) Field        { return F("USER", value) }
func Count(value int) Field         { return F("COUNT", value) }
func Error(value error) Field       { return F("ERROR", value) }
func Reason(value string) Field     { return F("REASON", value) }

// Method is the HTTP request method.
func Method(value string) Field { return F("METHOD", value) }

// Path is the matched route pattern, not the raw URL.
func Path(value string) Field { return F("PATH", value) }

func HTTPStatus(value int) Field   { return F("HTTP_STATUS", value) }
func RequestID(value string) Field { return F("REQUEST_ID", value) }

// Latency is the request duration in milliseconds.
func Latency(value int64) Field { return F("LATENCY_MS", value) }
