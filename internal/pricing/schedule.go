package pricing

import "time"

// WeeklySchedule flags which weekdays an item bills on.
type WeeklySchedule struct {
	Monday    bool
	Tuesday   bool
	Wednesday bool
	Thursday  bool
	Friday    bool
	Saturday  bool
	Sunday    bool
}

// weekOrder is the canonical iteration order for schedule expansion.
var weekOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Active reports whether the schedule bills on the given weekday.
func (s WeeklySchedule) Active(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	default:
		return false
	}
}

// ActiveDays returns the billed weekdays in canonical Monday..Sunday order.
func (s WeeklySchedule) ActiveDays() []time.Weekday {
	days := make([]time.Weekday, 0, len(weekOrder))
	for _, day := range weekOrder {
		if s.Active(day) {
			days = append(days, day)
		}
	}
	return days
}

// DayName returns the lowercase weekday name used in schedule entries.
func DayName(day time.Weekday) string {
	switch day {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}
