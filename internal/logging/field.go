package logging

import (
	"time"

	"go.uber.org/zap"
)

// zapFieldBuilder implements Field by accumulating zap.Field values. Each
// builder method appends to and returns a new slice, so the zero value is a
// valid, empty builder — mirroring the teacher's zapField builder in
// internal/logger/logger_wrapper.go, generalized from a single key/value pair
// to an accumulating chain.
type zapFieldBuilder struct {
	fields []zap.Field
}

func (b zapFieldBuilder) append(f zap.Field) zapFieldBuilder {
	next := make([]zap.Field, len(b.fields), len(b.fields)+1)
	copy(next, b.fields)
	return zapFieldBuilder{fields: append(next, f)}
}

func (b zapFieldBuilder) Bool(key string, val bool) Field       { return b.append(zap.Bool(key, val)) }
func (b zapFieldBuilder) Int(key string, val int) Field         { return b.append(zap.Int(key, val)) }
func (b zapFieldBuilder) Int64(key string, val int64) Field     { return b.append(zap.Int64(key, val)) }
func (b zapFieldBuilder) Uint32(key string, val uint32) Field   { return b.append(zap.Uint32(key, val)) }
func (b zapFieldBuilder) Uint64(key string, val uint64) Field   { return b.append(zap.Uint64(key, val)) }
func (b zapFieldBuilder) Float64(key string, val float64) Field { return b.append(zap.Float64(key, val)) }
func (b zapFieldBuilder) String(key string, val string) Field   { return b.append(zap.String(key, val)) }
func (b zapFieldBuilder) Duration(key string, val time.Duration) Field {
	return b.append(zap.Duration(key, val))
}
func (b zapFieldBuilder) Time(key string, val time.Time) Field { return b.append(zap.Time(key, val)) }
func (b zapFieldBuilder) Error(key string, val error) Field {
	if key == "error" {
		return b.append(zap.Error(val))
	}
	return b.append(zap.NamedError(key, val))
}

func toZapFields(fields []Field) []zap.Field {
	var out []zap.Field
	for _, f := range fields {
		if b, ok := f.(zapFieldBuilder); ok {
			out = append(out, b.fields...)
		}
	}
	return out
}
