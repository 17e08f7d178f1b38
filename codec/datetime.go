package codec

import (
	"fmt"
	"sync"
	"time"

	"github.com/reoring/recordkit"
)

// DateTimeID is the registry id of DateTime.
const DateTimeID = "datetime"

// DateTime is a string-encoded timestamp. It keeps the raw string it was
// decoded from; the codec validates it on decode and Time returns the cached
// result. Re-encoding always emits the raw string, so "01:23:45.6789Z" never
// becomes "01:23:45.678900Z".
type DateTime struct {
	raw  string
	lazy *lazyTime
}

type lazyTime struct {
	once sync.Once
	t    time.Time
	err  error
}

// NewDateTime wraps s without parsing it.
func NewDateTime(s string) DateTime { return DateTime{raw: s, lazy: &lazyTime{}} }

// DateTimeOf formats t in UTC with microsecond precision.
func DateTimeOf(t time.Time) DateTime {
	t = t.UTC().Truncate(time.Microsecond)
	d := NewDateTime(t.Format("2006-01-02T15:04:05.000000Z07:00"))
	d.lazy.once.Do(func() { d.lazy.t = t })
	return d
}

// String returns the raw form.
func (d DateTime) String() string { return d.raw }

// Equal compares raw forms.
func (d DateTime) Equal(o DateTime) bool { return d.raw == o.raw }

// Time parses the raw form on first use and caches the result. Fractional
// seconds are truncated to microseconds; zone-less values are UTC.
func (d DateTime) Time() (time.Time, error) {
	if d.lazy == nil {
		return parseDateTime(d.raw)
	}
	d.lazy.once.Do(func() { d.lazy.t, d.lazy.err = parseDateTime(d.raw) })
	return d.lazy.t, d.lazy.err
}

var _dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDateTime(s string) (time.Time, error) {
	for _, layout := range _dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Truncate(time.Microsecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO 8601 date-time %q", s)
}

func decodeDateTime(raw any) (DateTime, error) {
	switch v := raw.(type) {
	case string:
		d := NewDateTime(v)
		if _, err := d.Time(); err != nil {
			return DateTime{}, err
		}
		return d, nil
	case time.Time:
		return DateTimeOf(v), nil
	default:
		return DateTime{}, fmt.Errorf("expected date-time string, got %T", raw)
	}
}

func encodeDateTime(d DateTime) (any, error) {
	if d.raw == "" {
		return nil, fmt.Errorf("empty date-time")
	}
	if _, err := d.Time(); err != nil {
		return nil, err
	}
	return d.raw, nil
}

func init() {
	recordkit.MustRegisterCodec(recordkit.NewCodec(DateTimeID, decodeDateTime, encodeDateTime))
}
