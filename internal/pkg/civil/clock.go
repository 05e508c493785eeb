package civil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ISTOffset is the civil offset used for every attendance computation (UTC+05:30).
const ISTOffset = 5*time.Hour + 30*time.Minute

const MinutesPerDay = 24 * 60

// Date is a calendar day without a time component. It is the partition key of
// attendance records.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t as read in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock converts absolute instants to civil days and times of day in a single
// fixed offset. It never consults the host's local time zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a clock for the given fixed offset. A nil now falls back to time.Now.
func NewClock(offset time.Duration, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{
		loc: time.FixedZone(zoneName(offset), int(offset/time.Second)),
		now: now,
	}
}

// NewISTClock returns the clock used by the service.
func NewISTClock(now func() time.Time) *Clock {
	return NewClock(ISTOffset, now)
}

func zoneName(offset time.Duration) string {
	if offset == ISTOffset {
		return "IST"
	}
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, int(offset.Hours()), int(offset.Minutes())%60)
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// DayKey returns the civil date of the instant in the clock's offset.
func (c *Clock) DayKey(instant time.Time) Date {
	return DateOf(instant.In(c.loc))
}

// Midnight reconstructs the reference instant of a day: local midnight in the
// clock's offset. The result depends only on d.
func (c *Clock) Midnight(d Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, c.loc)
}

// TimeOfDayMinutes returns minutes since local midnight, in [0, 1440). Seconds
// are truncated and never move a boundary.
func (c *Clock) TimeOfDayMinutes(instant time.Time) int {
	local := instant.In(c.loc)
	return local.Hour()*60 + local.Minute()
}

// TimeString formats the local time of day as HH:MM:SS.
func (c *Clock) TimeString(instant time.Time) string {
	return instant.In(c.loc).Format(time.TimeOnly)
}

// ResolveDay interprets a caller supplied day. "YYYY-MM-DD" is taken as the
// civil date itself, an RFC3339 instant is canonicalized, and an empty value
// means today.
func (c *Clock) ResolveDay(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return c.DayKey(c.now()), nil
	}
	if d, err := ParseDate(raw); err == nil {
		return d, nil
	}
	instant, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", raw)
	}
	return c.DayKey(instant), nil
}

// ParseTimeOfDay converts a stored "HH:MM:SS" or legacy "HH:MM" string into
// minutes since midnight.
func ParseTimeOfDay(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("invalid second in %q", s)
		}
	}
	return h*60 + m, nil
}
