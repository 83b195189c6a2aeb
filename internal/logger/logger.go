// ABOUTME: Structured logging front end used by the CLI, HTTP and MCP servers.
// ABOUTME: Field-based interface backed by charmbracelet/log with a shared level.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Logger defines the logging interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	Named(name string) Logger
	With(fields ...Field) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// Field constructors.
func String(key, val string) Field                 { return Field{Key: key, Value: val} }
func Int(key string, val int) Field                { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field        { return Field{Key: key, Value: val} }
func Bool(key string, val bool) Field              { return Field{Key: key, Value: val} }
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }
func Any(key string, val interface{}) Field        { return Field{Key: key, Value: val} }
func Error(err error) Field                        { return Field{Key: "error", Value: err} }

var (
	global Logger
	mu     sync.RWMutex

	// level is shared by every logger derived from the global one.
	level atomic.Int64
)

func init() {
	level.Store(int64(log.InfoLevel))
}

// charmLogger implements Logger using charmbracelet/log. The backend always
// logs at debug; filtering happens against the shared level.
type charmLogger struct {
	l    *log.Logger
	name string
}

// Init initializes the global logger writing to w.
func Init(w io.Writer) error {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           log.DebugLevel,
		Prefix:          "scout",
	})

	mu.Lock()
	global = &charmLogger{l: l, name: "scout"}
	mu.Unlock()
	return nil
}

// Get returns the global logger, initializing it on stderr if needed.
func Get() Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	_ = Init(os.Stderr)
	return Get()
}

// Named creates a named logger.
func Named(name string) Logger {
	return Get().Named(name)
}

// SetLevelString parses and sets the logging level.
// Accepts: debug, info, warn/warning, error (case-insensitive).
func SetLevelString(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		level.Store(int64(log.DebugLevel))
	case "", "info":
		level.Store(int64(log.InfoLevel))
	case "warn", "warning":
		level.Store(int64(log.WarnLevel))
	case "error":
		level.Store(int64(log.ErrorLevel))
	default:
		return fmt.Errorf("unknown log level: %s", s)
	}
	return nil
}

// Level returns the current level name.
func Level() string {
	return log.Level(level.Load()).String()
}

func enabled(l log.Level) bool {
	return int64(l) >= level.Load()
}

func (c *charmLogger) Named(name string) Logger {
	full := c.name + "/" + name
	return &charmLogger{l: c.l.WithPrefix(full), name: full}
}

func (c *charmLogger) With(fields ...Field) Logger {
	return &charmLogger{l: c.l.With(keyvals(fields)...), name: c.name}
}

func (c *charmLogger) Debug(msg string, fields ...Field) {
	if enabled(log.DebugLevel) {
		c.l.Debug(msg, keyvals(fields)...)
	}
}

func (c *charmLogger) Info(msg string, fields ...Field) {
	if enabled(log.InfoLevel) {
		c.l.Info(msg, keyvals(fields)...)
	}
}

func (c *charmLogger) Warn(msg string, fields ...Field) {
	if enabled(log.WarnLevel) {
		c.l.Warn(msg, keyvals(fields)...)
	}
}

func (c *charmLogger) Error(msg string, fields ...Field) {
	if enabled(log.ErrorLevel) {
		c.l.Error(msg, keyvals(fields)...)
	}
}

// keyvals converts our Field type to alternating key/value pairs.
func keyvals(fields []Field) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
func (n nopLogger) Named(string) Logger  { return n }
func (n nopLogger) With(...Field) Logger { return n }
