package observability

import (
	"fmt"
	"log"
	"os"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field          { return stringField{key, value} }
func Int(key string, value int) Field         { return intField{key, value} }
func Float64(key string, value float64) Field { return float64Field{key, value} }
func Error(key string, err error) Field       { return errorField{key, err} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// StderrLogger writes one line per entry to stderr, fields appended as
// key=value pairs after the message.
type StderrLogger struct {
	l     *log.Logger
	bound []Field
}

func NewStderrLogger() *StderrLogger {
	return &StderrLogger{l: log.New(os.Stderr, "", log.LstdFlags)}
}

func (s *StderrLogger) emit(level, msg string, fields []Field) {
	line := level + " " + msg
	for _, f := range s.bound {
		line += fmt.Sprintf(" %s=%v", f.Key(), f.Value())
	}
	for _, f := range fields {
		line += fmt.Sprintf(" %s=%v", f.Key(), f.Value())
	}
	s.l.Println(line)
}

func (s *StderrLogger) Debug(msg string, fields ...Field) { s.emit("DEBUG", msg, fields) }
func (s *StderrLogger) Info(msg string, fields ...Field)  { s.emit("INFO", msg, fields) }
func (s *StderrLogger) Warn(msg string, fields ...Field)  { s.emit("WARN", msg, fields) }
func (s *StderrLogger) Error(msg string, fields ...Field) { s.emit("ERROR", msg, fields) }

func (s *StderrLogger) With(fields ...Field) Logger {
	bound := make([]Field, 0, len(s.bound)+len(fields))
	bound = append(bound, s.bound...)
	bound = append(bound, fields...)
	return &StderrLogger{l: s.l, bound: bound}
}

// Standard metric names emitted by the toolkit.
const (
	MetricRasterizeTime = "flip.rasterize.duration"
	MetricPageCount     = "flip.pages.count"
	MetricRenderTime    = "flip.render.duration"
	MetricArtifactBytes = "flip.artifact.bytes"
	MetricConvertTime   = "flip.convert.duration"
)
