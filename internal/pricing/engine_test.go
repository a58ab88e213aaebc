package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSchedulePrice(t *testing.T) {
	if got := SchedulePrice(dec("10"), 5); !got.Equal(dec("50")) {
		t.Fatalf("expected 50, got %s", got)
	}
	if got := SchedulePrice(dec("10"), 0); !got.IsZero() {
		t.Fatalf("expected 0 for zero occurrences, got %s", got)
	}
	// Half cents round away from zero on the exact decimal value.
	if got := SchedulePrice(dec("0.015"), 1); !got.Equal(dec("0.02")) {
		t.Fatalf("expected 0.02, got %s", got)
	}
	if got := SchedulePrice(dec("3.335"), 3); !got.Equal(dec("10.01")) {
		t.Fatalf("expected 10.01, got %s", got)
	}
}

func TestExpandItemSingleWeekday(t *testing.T) {
	item, err := ExpandItem(ItemInput{
		Reference: "mag-001",
		UnitPrice: dec("10"),
		Schedule:  WeeklySchedule{Monday: true},
	}, date(2024, time.January, 1), date(2024, time.February, 1), false)
	if err != nil {
		t.Fatalf("expand item: %v", err)
	}
	if len(item.Schedules) != 1 {
		t.Fatalf("expected one schedule entry, got %d", len(item.Schedules))
	}
	entry := item.Schedules[0]
	if entry.DayOfWeek != "monday" || entry.CountOfDays != 5 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !entry.SchedulePrice.Equal(dec("50")) {
		t.Fatalf("expected schedule price 50, got %s", entry.SchedulePrice)
	}
	if !item.ItemTotal.Equal(dec("50")) {
		t.Fatalf("expected item total 50, got %s", item.ItemTotal)
	}
}

func TestExpandItemCanonicalOrder(t *testing.T) {
	item, err := ExpandItem(ItemInput{
		Reference: "mag-002",
		UnitPrice: dec("1"),
		Schedule:  WeeklySchedule{Sunday: true, Wednesday: true, Monday: true},
	}, date(2024, time.January, 1), date(2024, time.January, 7), false)
	if err != nil {
		t.Fatalf("expand item: %v", err)
	}
	want := []string{"monday", "wednesday", "sunday"}
	if len(item.Schedules) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(item.Schedules))
	}
	for i, day := range want {
		if item.Schedules[i].DayOfWeek != day {
			t.Fatalf("expected entry %d to be %s, got %s", i, day, item.Schedules[i].DayOfWeek)
		}
	}
}

func TestExpandItemNoActiveDayFallback(t *testing.T) {
	item, err := ExpandItem(ItemInput{
		Reference: "mag-003",
		UnitPrice: dec("20"),
		Schedule:  WeeklySchedule{},
	}, date(2024, time.January, 1), date(2024, time.February, 1), false)
	if err != nil {
		t.Fatalf("expand item: %v", err)
	}
	if len(item.Schedules) != 0 {
		t.Fatalf("expected no schedule entries, got %d", len(item.Schedules))
	}
	if !item.ItemTotal.Equal(dec("20")) {
		t.Fatalf("expected fallback item total 20, got %s", item.ItemTotal)
	}
}

func TestExpandItemZeroSumFallback(t *testing.T) {
	// An active weekday that never occurs in the window also triggers the
	// fallback: the accumulated total is zero, not positive.
	item, err := ExpandItem(ItemInput{
		Reference: "mag-004",
		UnitPrice: dec("7.5"),
		Schedule:  WeeklySchedule{Friday: true},
	}, date(2024, time.January, 1), date(2024, time.January, 3), false)
	if err != nil {
		t.Fatalf("expand item: %v", err)
	}
	if len(item.Schedules) != 1 || item.Schedules[0].CountOfDays != 0 {
		t.Fatalf("expected one empty entry, got %+v", item.Schedules)
	}
	if !item.ItemTotal.Equal(dec("7.5")) {
		t.Fatalf("expected fallback to unit price, got %s", item.ItemTotal)
	}
}

func TestTotalSumsItemTotals(t *testing.T) {
	items := []Item{
		{ItemTotal: dec("50")},
		{ItemTotal: dec("20")},
	}
	if got := Total(items); !got.Equal(dec("70")) {
		t.Fatalf("expected 70, got %s", got)
	}
	reversed := []Item{items[1], items[0]}
	if got := Total(reversed); !got.Equal(dec("70")) {
		t.Fatalf("total should be order independent, got %s", got)
	}
	if got := Total(nil); !got.IsZero() {
		t.Fatalf("expected 0 for no items, got %s", got)
	}
}

func TestEngineRunScenario(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	result, err := Engine{}.Run(start, PeriodSpec{Length: 1, Unit: UnitMonth}, false, []ItemInput{
		{Reference: "mag-001", UnitPrice: dec("10"), Schedule: WeeklySchedule{Monday: true}},
		{Reference: "mag-002", UnitPrice: dec("20"), Schedule: WeeklySchedule{}},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.PeriodEnd.Equal(date(2024, time.February, 1)) {
		t.Fatalf("expected period end Feb 1, got %v", result.PeriodEnd)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if !result.Items[0].ItemTotal.Equal(dec("50")) {
		t.Fatalf("expected first item total 50, got %s", result.Items[0].ItemTotal)
	}
	if !result.Items[1].ItemTotal.Equal(dec("20")) {
		t.Fatalf("expected fallback item total 20, got %s", result.Items[1].ItemTotal)
	}
	if !result.TotalPrice.Equal(dec("70")) {
		t.Fatalf("expected total 70, got %s", result.TotalPrice)
	}
}

func TestEngineRunPreservesInputOrder(t *testing.T) {
	start := date(2024, time.January, 1)
	result, err := Engine{}.Run(start, PeriodSpec{Length: 7, Unit: UnitDay}, false, []ItemInput{
		{Reference: "b", UnitPrice: dec("1"), Schedule: WeeklySchedule{Monday: true}},
		{Reference: "a", UnitPrice: dec("1"), Schedule: WeeklySchedule{Tuesday: true}},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Items[0].Reference != "b" || result.Items[1].Reference != "a" {
		t.Fatalf("expected input order preserved, got %s, %s", result.Items[0].Reference, result.Items[1].Reference)
	}
}

func TestEngineRunInvalidUnit(t *testing.T) {
	_, err := Engine{}.Run(date(2024, time.January, 1), PeriodSpec{Length: 1, Unit: PeriodUnit("week")}, false, nil)
	if err == nil {
		t.Fatal("expected error for invalid unit")
	}
}

func TestEngineRunNegativeLength(t *testing.T) {
	result, err := Engine{}.Run(date(2024, time.January, 15), PeriodSpec{Length: -1, Unit: UnitMonth}, false, []ItemInput{
		{Reference: "mag-001", UnitPrice: dec("10"), Schedule: WeeklySchedule{Monday: true}},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// End before start: no occurrences, so the fallback applies.
	if result.Items[0].Schedules[0].CountOfDays != 0 {
		t.Fatalf("expected 0 occurrences, got %d", result.Items[0].Schedules[0].CountOfDays)
	}
	if !result.Items[0].ItemTotal.Equal(dec("10")) {
		t.Fatalf("expected fallback total, got %s", result.Items[0].ItemTotal)
	}
}
