// Package logging provides structured JSON logging for all TernDB
// components. Log lines carry a timestamp, level, message and an
// optional field map.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is the structured logging interface shared by all components
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger that carries the given fields on every line
	With(fields ...Field) Logger
	SetLevel(level Level)
}

// entry is the wire shape of one log line
type entry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// JSONLogger writes one JSON object per line. The level is atomic so
// it can be changed while other goroutines are logging.
type JSONLogger struct {
	mu     sync.Mutex
	writer io.Writer
	level  atomic.Int32
	bound  []Field
}

// NewJSONLogger creates a logger writing to the given writer
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	l := &JSONLogger{writer: writer}
	l.level.Store(int32(level))
	return l
}

func (l *JSONLogger) emit(level Level, msg string, fields []Field) {
	if level < Level(l.level.Load()) {
		return
	}

	var fieldMap map[string]any
	if len(l.bound)+len(fields) > 0 {
		fieldMap = make(map[string]any, len(l.bound)+len(fields))
		for _, f := range l.bound {
			fieldMap[f.Key] = f.Value
		}
		for _, f := range fields {
			fieldMap[f.Key] = f.Value
		}
	}

	line := entry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
		Fields:  fieldMap,
	}

	data, err := json.Marshal(line)
	if err != nil {
		l.mu.Lock()
		fmt.Fprintf(l.writer, `{"level":"ERROR","msg":"unloggable entry: %v"}`+"\n", err)
		l.mu.Unlock()
		return
	}

	l.mu.Lock()
	l.writer.Write(data)
	l.writer.Write([]byte("\n"))
	l.mu.Unlock()
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.emit(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.emit(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.emit(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.emit(ErrorLevel, msg, fields) }

func (l *JSONLogger) With(fields ...Field) Logger {
	bound := make([]Field, 0, len(l.bound)+len(fields))
	bound = append(bound, l.bound...)
	bound = append(bound, fields...)

	child := &JSONLogger{writer: l.writer, bound: bound}
	child.level.Store(l.level.Load())
	return child
}

func (l *JSONLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }
func (NopLogger) SetLevel(Level)         {}

var (
	defaultLogger Logger
	defaultOnce   sync.Once
	defaultMu     sync.RWMutex
)

// DefaultLogger is the process-wide logger. The initial level comes
// from TERNDB_LOG_LEVEL.
func DefaultLogger() Logger {
	defaultOnce.Do(func() {
		level := InfoLevel
		if s := os.Getenv("TERNDB_LOG_LEVEL"); s != "" {
			level = ParseLevel(s)
		}
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = NewJSONLogger(os.Stdout, level)
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger
func SetDefaultLogger(logger Logger) {
	defaultOnce.Do(func() {})
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// Package-level helpers on the default logger

func Debug(msg string, fields ...Field) { DefaultLogger().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { DefaultLogger().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { DefaultLogger().Warn(msg, fields...) }

// ErrorLog avoids colliding with the Error field constructor
func ErrorLog(msg string, fields ...Field) { DefaultLogger().Error(msg, fields...) }

func With(fields ...Field) Logger { return DefaultLogger().With(fields...) }
