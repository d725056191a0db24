package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - Calendar date used for grouping and reporting
// =============================================================================

// TimePoint is a wall-clock calendar date. Values built through the
// constructors are normalized to midnight UTC, so they compare with == and
// can be used as map keys.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the wall-clock date of t in t's own location.
func DateOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool  { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool  { return tp.Time.After(other.Time) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint {
	return TimePoint{Time: tp.Time.AddDate(0, 0, n)}
}

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

// At combines this date with the wall-clock time c in loc. On a DST
// transition day the result keeps c's reading, not the elapsed time since
// midnight.
func (tp TimePoint) At(c ClockTime, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(tp.Year(), tp.Month(), tp.Day(), c.Hour(), c.Minute(), c.Second(), c.Nanosecond(), loc)
}

func (tp TimePoint) String() string {
	return tp.Time.Format("2006-01-02")
}

// =============================================================================
// CLOCK TIME - Time of day, independent of any date
// =============================================================================

// ClockTime is a wall-clock reading, stored as hours, minutes and seconds
// past 00:00. It is not an elapsed offset from midnight.
type ClockTime time.Duration

// NewClockTime builds a clock time from hour and minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return NewClockTime(t.Hour(), t.Minute()), nil
}

// ClockOf returns the wall-clock time of day of t.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond()))
}

func (c ClockTime) Before(other ClockTime) bool { return c < other }
func (c ClockTime) Hour() int                   { return int(time.Duration(c) / time.Hour) }
func (c ClockTime) Minute() int                 { return int(time.Duration(c)%time.Hour) / int(time.Minute) }
func (c ClockTime) Second() int                 { return int(time.Duration(c)%time.Minute) / int(time.Second) }
func (c ClockTime) Nanosecond() int             { return int(time.Duration(c) % time.Second) }

// TruncateMinute drops seconds and below.
func (c ClockTime) TruncateMinute() ClockTime {
	return ClockTime(time.Duration(c).Truncate(time.Minute))
}

// Within reports whether c falls in [from, to], compared at minute
// resolution so 23:59:40 is inside a range ending at 23:59.
func (c ClockTime) Within(from, to ClockTime) bool {
	m := c.TruncateMinute()
	return m >= from && m <= to
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// AbsDuration returns |d|.
func AbsDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
