package pricing

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParsePeriodUnit(t *testing.T) {
	for _, value := range []string{"day", "Month", " YEAR "} {
		if _, err := ParsePeriodUnit(value); err != nil {
			t.Fatalf("expected %q to parse, got %v", value, err)
		}
	}
	if _, err := ParsePeriodUnit("fortnight"); !errors.Is(err, ErrInvalidPeriodUnit) {
		t.Fatalf("expected ErrInvalidPeriodUnit, got %v", err)
	}
}

func TestAddPeriodDays(t *testing.T) {
	end, err := AddPeriod(date(2024, time.January, 1), 10, UnitDay)
	if err != nil {
		t.Fatalf("add period: %v", err)
	}
	if !end.Equal(date(2024, time.January, 11)) {
		t.Fatalf("expected Jan 11, got %v", end)
	}
}

func TestAddPeriodMonths(t *testing.T) {
	end, err := AddPeriod(date(2024, time.January, 1), 1, UnitMonth)
	if err != nil {
		t.Fatalf("add period: %v", err)
	}
	if !end.Equal(date(2024, time.February, 1)) {
		t.Fatalf("expected Feb 1, got %v", end)
	}
}

// Month addition uses normalised calendar arithmetic: overflowing days spill
// into the next month rather than clamping to month end.
func TestAddPeriodMonthEndRollover(t *testing.T) {
	end, err := AddPeriod(date(2023, time.January, 31), 1, UnitMonth)
	if err != nil {
		t.Fatalf("add period: %v", err)
	}
	if !end.Equal(date(2023, time.March, 3)) {
		t.Fatalf("expected Mar 3 for Jan 31 + 1 month, got %v", end)
	}

	end, err = AddPeriod(date(2024, time.January, 31), 1, UnitMonth)
	if err != nil {
		t.Fatalf("add period: %v", err)
	}
	if !end.Equal(date(2024, time.March, 2)) {
		t.Fatalf("expected Mar 2 in a leap year, got %v", end)
	}
}

func TestAddPeriodYears(t *testing.T) {
	end, err := AddPeriod(date(2024, time.February, 29), 1, UnitYear)
	if err != nil {
		t.Fatalf("add period: %v", err)
	}
	if !end.Equal(date(2025, time.March, 1)) {
		t.Fatalf("expected Mar 1 for leap day + 1 year, got %v", end)
	}
}

func TestAddPeriodNegativeLength(t *testing.T) {
	end, err := AddPeriod(date(2024, time.January, 15), -7, UnitDay)
	if err != nil {
		t.Fatalf("add period: %v", err)
	}
	if !end.Equal(date(2024, time.January, 8)) {
		t.Fatalf("expected Jan 8, got %v", end)
	}
}

func TestAddPeriodErrors(t *testing.T) {
	if _, err := AddPeriod(time.Time{}, 1, UnitDay); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for zero start, got %v", err)
	}
	if _, err := AddPeriod(date(2024, time.January, 1), 1, PeriodUnit("week")); !errors.Is(err, ErrInvalidPeriodUnit) {
		t.Fatalf("expected ErrInvalidPeriodUnit, got %v", err)
	}
}

func TestAddPeriodPreservesClock(t *testing.T) {
	start := time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)
	end, err := AddPeriod(start, 1, UnitMonth)
	if err != nil {
		t.Fatalf("add period: %v", err)
	}
	if end.Hour() != 9 || end.Minute() != 30 {
		t.Fatalf("expected clock preserved, got %v", end)
	}
}
