package pricing

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidDate is returned when a period bound does not resolve to a usable instant.
	ErrInvalidDate = errors.New("invalid start or end date")
	// ErrInvalidPeriodUnit is returned for period units other than day, month, or year.
	ErrInvalidPeriodUnit = errors.New(`invalid period type, must be "day", "month", or "year"`)
)

// PeriodUnit is the granularity of a billing period length.
type PeriodUnit string

const (
	UnitDay   PeriodUnit = "day"
	UnitMonth PeriodUnit = "month"
	UnitYear  PeriodUnit = "year"
)

// ParsePeriodUnit normalises a textual unit into a PeriodUnit.
func ParsePeriodUnit(value string) (PeriodUnit, error) {
	switch PeriodUnit(strings.ToLower(strings.TrimSpace(value))) {
	case UnitDay:
		return UnitDay, nil
	case UnitMonth:
		return UnitMonth, nil
	case UnitYear:
		return UnitYear, nil
	default:
		return "", ErrInvalidPeriodUnit
	}
}

// PeriodSpec describes how far the billing window extends from its start.
// Length is a signed offset; negative lengths produce an end before the start,
// which downstream counting treats as an empty range.
type PeriodSpec struct {
	Length int
	Unit   PeriodUnit
}

// AddPeriod derives the period end instant from start plus length units.
// Month and year addition use Go's normalised calendar arithmetic, so
// Jan 31 + 1 month lands on Mar 3 (Mar 2 in leap years) rather than a
// clamped month end. The clock component of start is preserved.
func AddPeriod(start time.Time, length int, unit PeriodUnit) (time.Time, error) {
	if start.IsZero() {
		return time.Time{}, ErrInvalidDate
	}
	switch unit {
	case UnitDay:
		return start.AddDate(0, 0, length), nil
	case UnitMonth:
		return start.AddDate(0, length, 0), nil
	case UnitYear:
		return start.AddDate(length, 0, 0), nil
	default:
		return time.Time{}, ErrInvalidPeriodUnit
	}
}
