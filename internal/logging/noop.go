package logging

import "time"

// noopField is a Field that discards every value — the building block of
// NewNoop, used by tests across the module that don't care about log output.
type noopField struct{}

func (noopField) Bool(string, bool) Field            { return noopField{} }
func (noopField) Int(string, int) Field              { return noopField{} }
func (noopField) Int64(string, int64) Field          { return noopField{} }
func (noopField) Uint32(string, uint32) Field        { return noopField{} }
func (noopField) Uint64(string, uint64) Field        { return noopField{} }
func (noopField) Float64(string, float64) Field      { return noopField{} }
func (noopField) String(string, string) Field        { return noopField{} }
func (noopField) Duration(string, time.Duration) Field { return noopField{} }
func (noopField) Time(string, time.Time) Field        { return noopField{} }
func (noopField) Error(string, error) Field           { return noopField{} }

type noopLogger struct{}

// NewNoop returns a Logger that discards everything. Production code should
// prefer NewZapLogger; this exists for tests that construct a Queue/Scheduler
// without caring about log output.
func NewNoop() Logger { return noopLogger{} }

func (noopLogger) Info(string, ...Field)  {}
func (noopLogger) Debug(string, ...Field) {}
func (noopLogger) Warn(string, ...Field)  {}
func (noopLogger) Error(string, ...Field) {}
func (noopLogger) Fatal(string, ...Field) {}
func (noopLogger) Field() Field           { return noopField{} }
func (noopLogger) SetLevel(Level)         {}
func (noopLogger) SetDestination(Destination, ...string) error { return nil }
func (noopLogger) With(...Field) Logger   { return noopLogger{} }
