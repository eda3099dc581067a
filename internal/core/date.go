package core

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day component. All comparisons in
// overdue detection and recurrence dedup happen at day granularity, in UTC,
// to avoid timezone-dependent off-by-one bugs.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to UTC midnight.
func DateOf(t time.Time) Date {
	return NewDate(t.UTC().Year(), int(t.UTC().Month()), t.UTC().Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Before reports whether d is strictly earlier than other, day granularity.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// Equal reports whether d and other name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == `""` || s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NextDueDate advances a due date by one recurrence period. Month-based
// periods keep the day-of-month, clamping to the last day of the target
// month when it is shorter (Jan 31 -> Feb 28/29). An empty period means
// monthly, matching the default on created payments.
func NextDueDate(d Date, period Period) Date {
	switch period {
	case Weekly:
		return Date{Time: d.AddDate(0, 0, 7)}
	case Biweekly:
		return Date{Time: d.AddDate(0, 0, 14)}
	case Semiannual:
		return addMonthsClamped(d, 6)
	case Annual:
		return addMonthsClamped(d, 12)
	default:
		return addMonthsClamped(d, 1)
	}
}

func addMonthsClamped(d Date, months int) Date {
	year, month, day := d.Date()
	// Anchor on the first of the month so AddDate cannot normalize past the
	// target month, then clamp the day.
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	last := lastDayOfMonth(first.Year(), first.Month())
	if day > last {
		day = last
	}
	return NewDate(first.Year(), int(first.Month()), day)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
