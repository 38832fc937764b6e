package kernel

import (
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time without a date, stored as minutes after midnight.
// Business hours and delivery slot boundaries are TimeOfDay values.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return 0, errs.NewValueIsOutOfRangeError("hour", hour, 0, 23)
	}
	if minute < 0 || minute > 59 {
		return 0, errs.NewValueIsOutOfRangeError("minute", minute, 0, 59)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS" (seconds are dropped).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute())
		}
	}
	return 0, errs.NewValueIsInvalidErrorWithCause("time of day", fmt.Errorf("%q is not HH:MM", s))
}

// MustTimeOfDay parses s and panics on failure. Intended for fixtures.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayOf extracts the wall-clock part of t in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Window is the half-open interval [Start, End) of a day.
// When End is not after Start the window wraps past midnight.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Contains reports whether t falls inside the window.
// A window whose Start equals End covers the whole day.
func (w Window) Contains(t TimeOfDay) bool {
	t = TimeOfDay(((int(t) % minutesPerDay) + minutesPerDay) % minutesPerDay)
	switch {
	case w.Start == w.End:
		return true
	case w.Start < w.End:
		return t >= w.Start && t < w.End
	default:
		return t >= w.Start || t < w.End
	}
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}
