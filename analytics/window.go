package analytics

import "time"

// Window is a half-open time range [Start, End). A zero Start or End
// leaves that side unbounded.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !t.Before(w.End) {
		return false
	}
	return true
}

// IsZero reports whether both bounds are open, i.e. the window spans
// the project's full history.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// LastDuration returns [now-d, now).
func LastDuration(now time.Time, d time.Duration) Window {
	return Window{Start: now.Add(-d), End: now}
}

// LastHours returns [now-hours*1h, now).
func LastHours(now time.Time, hours int) Window {
	return LastDuration(now, time.Duration(hours)*time.Hour)
}

// CurrentVsPrevious returns two adjacent, non-overlapping windows of
// equal length, ending at now and at now-size. Every week-over-week
// comparison is built on this pair.
func CurrentVsPrevious(now time.Time, size time.Duration) (current, previous Window) {
	current = Window{Start: now.Add(-size), End: now}
	previous = Window{Start: now.Add(-2 * size), End: now.Add(-size)}
	return current, previous
}

// DailyBuckets returns count calendar-day windows in now's location,
// most recent last. The final bucket is the day containing now, so
// bucket boundaries stay stable when now is re-derived within the same
// calendar day.
func DailyBuckets(now time.Time, count int) []Window {
	windows := make([]Window, count)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	for i := count - 1; i >= 0; i-- {
		start := end.AddDate(0, 0, -1)
		windows[i] = Window{Start: start, End: end}
		end = start
	}
	return windows
}

// HourlyBuckets returns count hour-aligned windows, most recent last.
// The final bucket is the hour containing now.
func HourlyBuckets(now time.Time, count int) []Window {
	windows := make([]Window, count)
	end := now.Truncate(time.Hour).Add(time.Hour)
	for i := count - 1; i >= 0; i-- {
		start := end.Add(-time.Hour)
		windows[i] = Window{Start: start, End: end}
		end = start
	}
	return windows
}
