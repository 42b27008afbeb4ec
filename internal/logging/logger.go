// Package logging defines the structured-logging contract every other
// package in this module logs through, adapted from the teacher's
// sdk/contracts/logger.go — same level enum, same Field-builder shape — but
// backed by go.uber.org/zap's real structured fields instead of hand-rolled
// JSON formatting.
package logging

import "time"

// Level is the severity of a log entry.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// Destination names where log entries are written.
type Destination string

const (
	ConsoleDestination Destination = "console"
	FileDestination    Destination = "file"
)

// Field is a single structured log attribute. Each method returns a new
// Field rather than mutating one, mirroring zap.Field's value semantics.
type Field interface {
	Bool(key string, val bool) Field
	Int(key string, val int) Field
	Int64(key string, val int64) Field
	Uint32(key string, val uint32) Field
	Uint64(key string, val uint64) Field
	Float64(key string, val float64) Field
	String(key string, val string) Field
	Duration(key string, val time.Duration) Field
	Time(key string, val time.Time) Field
	Error(key string, val error) Field
}

// Logger is the structured-logging contract consumed throughout the module.
type Logger interface {
	Info(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// Field starts a new structured field builder.
	Field() Field

	SetLevel(level Level)
	SetDestination(dest Destination, filePath ...string) error

	// With returns a child Logger that always carries the given field,
	// useful for tagging every log line a component emits (e.g. "component":
	// "receiverqueue") the way zap.Logger.With does.
	With(fields ...Field) Logger
}
