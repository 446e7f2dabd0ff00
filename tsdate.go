// Package tsdate converts Unix timestamps into "YYYY-MM-DD HH:MM:SS" date strings.
package tsdate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ===================== ERRORS =====================

// ErrInvalidTimestamp is matched by every error returned from this package.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Reason tells why a timestamp was rejected.
type Reason int

const (
	ReasonNotNumeric Reason = iota
	ReasonNotFinite
	ReasonOutOfRange
)

func (r Reason) String() string {
	switch r {
	case ReasonNotNumeric:
		return "not a number"
	case ReasonNotFinite:
		return "not a finite number"
	case ReasonOutOfRange:
		return "out of range"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// InvalidTimestampError describes a value that cannot be turned into a date.
type InvalidTimestampError struct {
	Value  string
	Reason Reason
	Err    error
}

func (e *InvalidTimestampError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid timestamp %q: %s: %v", e.Value, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid timestamp %q: %s", e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidTimestamp.
func (e *InvalidTimestampError) Is(target error) bool { return target == ErrInvalidTimestamp }

func (e *InvalidTimestampError) Unwrap() error { return e.Err }

func invalid(value string, reason Reason, err error) error {
	return &InvalidTimestampError{Value: value, Reason: reason, Err: err}
}

// ===================== TIMESTAMP =====================

// Layout is the output format of every formatted timestamp.
const Layout = "2006-01-02 15:04:05"

const (
	// 0001-01-01 00:00:00 UTC and 9999-12-31 23:59:59 UTC.
	minUnix int64 = -62135596800
	maxUnix int64 = 253402300799

	// Zone offsets can move the wall clock by up to a day either way,
	// the exact year check happens after localization.
	slack = 2 * 24 * 60 * 60
)

// Timestamp is a number of whole seconds elapsed since 1970-01-01T00:00:00Z.
type Timestamp int64

// Now returns the current time as a Timestamp.
func Now() Timestamp { return Timestamp(time.Now().Unix()) }

// Time returns the instant as a time.Time in the local zone.
func (t Timestamp) Time() time.Time { return time.Unix(int64(t), 0) }

func (t Timestamp) String() string { return strconv.FormatInt(int64(t), 10) }

// FromInt validates a whole number of seconds.
func FromInt(sec int64) (Timestamp, error) {
	return fromInt(sec, strconv.FormatInt(sec, 10))
}

func fromInt(sec int64, raw string) (Timestamp, error) {
	if sec < minUnix-slack || sec > maxUnix+slack {
		return 0, invalid(raw, ReasonOutOfRange, nil)
	}
	return Timestamp(sec), nil
}

// FromFloat validates a number of seconds with an optional fraction.
// The fraction is floored away, so -0.5 belongs to second -1.
func FromFloat(sec float64) (Timestamp, error) {
	return fromFloat(sec, strconv.FormatFloat(sec, 'g', -1, 64))
}

func fromFloat(sec float64, raw string) (Timestamp, error) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return 0, invalid(raw, ReasonNotFinite, nil)
	}
	whole := math.Floor(sec)
	if whole < float64(minUnix-slack) || whole > float64(maxUnix+slack) {
		return 0, invalid(raw, ReasonOutOfRange, nil)
	}
	return Timestamp(int64(whole)), nil
}

// Parse reads a timestamp from decimal text such as "1702621996" or
// "1702621996.4947057". Surrounding white space is ignored.
func Parse(s string) (Timestamp, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return 0, invalid(s, ReasonNotNumeric, nil)
	}
	if sec, err := strconv.ParseInt(text, 10, 64); err == nil {
		return fromInt(sec, text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, invalid(text, ReasonOutOfRange, nil)
		}
		return 0, invalid(text, ReasonNotNumeric, nil)
	}
	return fromFloat(f, text)
}

// FromValue converts any Go integer or floating point value, a json.Number
// or a Timestamp. Every other type, strings included, is not numeric.
func FromValue(v interface{}) (Timestamp, error) {
	switch x := v.(type) {
	case Timestamp:
		return fromInt(int64(x), x.String())
	case int:
		return FromInt(int64(x))
	case int8:
		return FromInt(int64(x))
	case int16:
		return FromInt(int64(x))
	case int32:
		return FromInt(int64(x))
	case int64:
		return FromInt(x)
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return fromUint(uint64(x))
	case uint16:
		return fromUint(uint64(x))
	case uint32:
		return fromUint(uint64(x))
	case uint64:
		return fromUint(x)
	case float32:
		return fromFloat(float64(x), strconv.FormatFloat(float64(x), 'g', -1, 32))
	case float64:
		return FromFloat(x)
	case json.Number:
		return Parse(string(x))
	default:
		return 0, invalid(fmt.Sprintf("%v", v), ReasonNotNumeric, fmt.Errorf("unsupported type %T", v))
	}
}

func fromUint(sec uint64) (Timestamp, error) {
	if sec > math.MaxInt64 {
		return 0, invalid(strconv.FormatUint(sec, 10), ReasonOutOfRange, nil)
	}
	return FromInt(int64(sec))
}

// ===================== FORMATTER =====================

// Formatter renders timestamps in a fixed time zone. It is safe for
// concurrent use.
type Formatter struct {
	loc *time.Location
}

// NewFormatter creates a Formatter for loc. A nil loc stands for the process
// local zone as it is when Format is called.
func NewFormatter(loc *time.Location) *Formatter {
	return &Formatter{loc: loc}
}

// Location returns the zone the formatter renders in.
func (f *Formatter) Location() *time.Location {
	if f == nil || f.loc == nil {
		return time.Local
	}
	return f.loc
}

// Format renders ts as "YYYY-MM-DD HH:MM:SS".
func (f *Formatter) Format(ts Timestamp) (string, error) {
	return f.format(ts, ts.String())
}

// FormatValue normalizes v with FromValue and renders it.
func (f *Formatter) FormatValue(v interface{}) (string, error) {
	ts, err := FromValue(v)
	if err != nil {
		return "", err
	}
	return f.format(ts, fmt.Sprintf("%v", v))
}

// FormatString parses s with Parse and renders it.
func (f *Formatter) FormatString(s string) (string, error) {
	ts, err := Parse(s)
	if err != nil {
		return "", err
	}
	return f.format(ts, strings.TrimSpace(s))
}

func (f *Formatter) format(ts Timestamp, raw string) (string, error) {
	t := time.Unix(int64(ts), 0).In(f.Location())
	if y := t.Year(); y < 1 || y > 9999 {
		return "", invalid(raw, ReasonOutOfRange, fmt.Errorf("year %d in %s", y, f.Location()))
	}
	return t.Format(Layout), nil
}

// ===================== HELPERS =====================

// TimestampToDate renders timestamp, a number of seconds since the epoch,
// as "YYYY-MM-DD HH:MM:SS" in the process local time zone.
func TimestampToDate(timestamp interface{}) (string, error) {
	return NewFormatter(nil).FormatValue(timestamp)
}

// TimestampToDateIn is TimestampToDate with an explicit zone.
func TimestampToDateIn(timestamp interface{}, loc *time.Location) (string, error) {
	return NewFormatter(loc).FormatValue(timestamp)
}
