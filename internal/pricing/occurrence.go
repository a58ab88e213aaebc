package pricing

import "time"

// dateOnly truncates an instant to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CountOccurrences counts the calendar dates in [start, end] whose weekday is
// day. When excludeStart is true the scan begins one day after start. Both
// bounds are inclusive and compared on UTC calendar dates; an effective start
// past end yields zero.
func CountOccurrences(start, end time.Time, day time.Weekday, excludeStart bool) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, ErrInvalidDate
	}

	current := dateOnly(start)
	if excludeStart {
		current = current.AddDate(0, 0, 1)
	}
	last := dateOnly(end)

	count := 0
	for !current.After(last) {
		if current.Weekday() == day {
			count++
		}
		current = current.AddDate(0, 0, 1)
	}
	return count, nil
}
