package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/reoring/recordkit"
)

// DurationID is the registry id of Duration.
const DurationID = "duration"

// Duration is a string-encoded time span in "[-][D day[s], ]H:MM:SS[.ffffff]"
// form (for example "1:23:45.67" or "-1 day, 23:59:59"). Go duration syntax
// ("90m") is accepted as well. Like DateTime, it keeps the raw string; the
// codec checks it when decoding and caches the parsed span.
type Duration struct {
	raw  string
	lazy *lazyDuration
}

type lazyDuration struct {
	once sync.Once
	d    time.Duration
	err  error
}

// NewDuration wraps s without parsing it.
func NewDuration(s string) Duration { return Duration{raw: s, lazy: &lazyDuration{}} }

// DurationOf formats d with microsecond precision.
func DurationOf(d time.Duration) Duration {
	d = d.Truncate(time.Microsecond)
	out := NewDuration(formatDuration(d))
	out.lazy.once.Do(func() { out.lazy.d = d })
	return out
}

// String returns the raw form.
func (d Duration) String() string { return d.raw }

// Equal compares raw forms.
func (d Duration) Equal(o Duration) bool { return d.raw == o.raw }

// Duration parses the raw form on first use and caches the result.
func (d Duration) Duration() (time.Duration, error) {
	if d.lazy == nil {
		return parseDuration(d.raw)
	}
	d.lazy.once.Do(func() { d.lazy.d, d.lazy.err = parseDuration(d.raw) })
	return d.lazy.d, d.lazy.err
}

const _day = 24 * time.Hour

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, invalidDuration(s)
		}
		return d, nil
	}
	var days int64
	clock, prefixed := s, false
	if i := strings.Index(s, ","); i >= 0 {
		f := strings.Fields(s[:i])
		if len(f) != 2 || (f[1] != "day" && f[1] != "days") {
			return 0, invalidDuration(s)
		}
		n, err := strconv.ParseInt(f[0], 10, 64)
		if err != nil || n > math.MaxInt64/int64(_day) || n < math.MinInt64/int64(_day) {
			return 0, invalidDuration(s)
		}
		days, prefixed = n, true
		clock = strings.TrimSpace(s[i+1:])
	}
	// a sign is only allowed on the clock when there is no day prefix
	neg := !prefixed && strings.HasPrefix(clock, "-")
	if neg {
		clock = clock[1:]
	}
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, invalidDuration(s)
	}
	sec, frac, hasFrac := strings.Cut(parts[2], ".")
	h, ok1 := digits(parts[0])
	m, ok2 := digits(parts[1])
	sv, ok3 := digits(sec)
	if !ok1 || !ok2 || !ok3 || m >= 60 || sv >= 60 || h > math.MaxInt64/int64(time.Hour) {
		return 0, invalidDuration(s)
	}
	var nanos int64
	if hasFrac {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		n, ok := digits(frac + strings.Repeat("0", 9-len(frac)))
		if !ok || frac == "" {
			return 0, invalidDuration(s)
		}
		nanos = n
	}
	total := time.Duration(h) * time.Hour
	for _, part := range []time.Duration{time.Duration(m) * time.Minute, time.Duration(sv) * time.Second, time.Duration(nanos)} {
		var ok bool
		if total, ok = addDuration(total, part); !ok {
			return 0, invalidDuration(s)
		}
	}
	if neg {
		total = -total
	}
	total, ok := addDuration(time.Duration(days)*_day, total)
	if !ok {
		return 0, invalidDuration(s)
	}
	return total, nil
}

func invalidDuration(s string) error { return fmt.Errorf("invalid duration %q", s) }

// digits parses an unsigned run of ASCII digits.
func digits(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

func addDuration(a, b time.Duration) (time.Duration, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}

// formatDuration renders d the way the parser reads it: negative spans borrow
// whole days so the clock part stays positive.
func formatDuration(d time.Duration) string {
	us := d.Microseconds()
	const usPerDay = int64(_day / time.Microsecond)
	days := us / usPerDay
	rem := us % usPerDay
	if rem < 0 {
		days--
		rem += usPerDay
	}
	h := rem / int64(time.Hour/time.Microsecond)
	rem %= int64(time.Hour / time.Microsecond)
	m := rem / int64(time.Minute/time.Microsecond)
	rem %= int64(time.Minute / time.Microsecond)
	s := rem / 1e6
	frac := rem % 1e6
	out := fmt.Sprintf("%d:%02d:%02d", h, m, s)
	if frac != 0 {
		out += fmt.Sprintf(".%06d", frac)
	}
	if days != 0 {
		unit := "days"
		if days == 1 || days == -1 {
			unit = "day"
		}
		out = fmt.Sprintf("%d %s, %s", days, unit, out)
	}
	return out
}

func decodeDuration(raw any) (Duration, error) {
	switch v := raw.(type) {
	case string:
		d := NewDuration(v)
		if _, err := d.Duration(); err != nil {
			return Duration{}, err
		}
		return d, nil
	case time.Duration:
		return DurationOf(v), nil
	default:
		return Duration{}, fmt.Errorf("expected duration string, got %T", raw)
	}
}

func encodeDuration(d Duration) (any, error) {
	if d.raw == "" {
		return nil, fmt.Errorf("empty duration")
	}
	if _, err := d.Duration(); err != nil {
		return nil, err
	}
	return d.raw, nil
}

func init() {
	recordkit.MustRegisterCodec(recordkit.NewCodec(DurationID, decodeDuration, encodeDuration))
}
