package props

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Codec converts values of type T to and from their string form.
type Codec[T any] interface {
	Format(value T) string
	Parse(s string) (T, error)
}

// CodecFuncs adapts a pair of functions to Codec.
type CodecFuncs[T any] struct {
	FormatFunc func(T) string
	ParseFunc  func(string) (T, error)
}

// Format implements Codec.
func (c CodecFuncs[T]) Format(value T) string {
	return c.FormatFunc(value)
}

// Parse implements Codec.
func (c CodecFuncs[T]) Parse(s string) (T, error) {
	return c.ParseFunc(s)
}

// IntCodec formats int64 values in base 10.
func IntCodec() Codec[int64] {
	return CodecFuncs[int64]{
		FormatFunc: func(v int64) string { return strconv.FormatInt(v, 10) },
		ParseFunc: func(s string) (int64, error) {
			return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		},
	}
}

// FloatCodec formats float64 values with the shortest exact representation.
func FloatCodec() Codec[float64] {
	return CodecFuncs[float64]{
		FormatFunc: func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
		ParseFunc: func(s string) (float64, error) {
			return strconv.ParseFloat(strings.TrimSpace(s), 64)
		},
	}
}

// BoolCodec accepts the inputs understood by strconv.ParseBool.
func BoolCodec() Codec[bool] {
	return CodecFuncs[bool]{
		FormatFunc: strconv.FormatBool,
		ParseFunc: func(s string) (bool, error) {
			return strconv.ParseBool(strings.TrimSpace(s))
		},
	}
}

// StringCodec stores input verbatim.
func StringCodec() Codec[string] {
	return CodecFuncs[string]{
		FormatFunc: func(v string) string { return v },
		ParseFunc:  func(s string) (string, error) { return s, nil },
	}
}

// DurationCodec uses time.Duration's textual form ("1m30s"). A bare integer
// is read as nanoseconds, which is how encoding/json renders a Duration.
func DurationCodec() Codec[time.Duration] {
	return CodecFuncs[time.Duration]{
		FormatFunc: func(v time.Duration) string { return v.String() },
		ParseFunc: func(s string) (time.Duration, error) {
			s = strings.TrimSpace(s)
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return time.Duration(n), nil
			}
			return time.ParseDuration(s)
		},
	}
}

// StringsCodec joins list items with commas. Items are trimmed on parse and
// an empty input yields an empty list.
func StringsCodec() Codec[[]string] {
	return CodecFuncs[[]string]{
		FormatFunc: func(v []string) string { return strings.Join(v, ",") },
		ParseFunc: func(s string) ([]string, error) {
			if strings.TrimSpace(s) == "" {
				return []string{}, nil
			}
			parts := strings.Split(s, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts, nil
		},
	}
}

// JSONCodec encodes arbitrary values with encoding/json.
func JSONCodec[T any]() Codec[T] {
	return CodecFuncs[T]{
		FormatFunc: func(v T) string {
			buf, err := json.Marshal(v)
			if err != nil {
				return ""
			}
			return string(buf)
		},
		ParseFunc: func(s string) (T, error) {
			var out T
			err := json.Unmarshal([]byte(s), &out)
			return out, err
		},
	}
}
