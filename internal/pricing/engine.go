package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleEntry prices one billed weekday of one item over the period.
type ScheduleEntry struct {
	DayOfWeek     string
	CountOfDays   int
	SchedulePrice decimal.Decimal
}

// ItemInput is an item before expansion: identity, unit price, and its weekly
// billing pattern. Description is carried through untouched for catalog-driven
// callers.
type ItemInput struct {
	Reference   string
	Description string
	UnitPrice   decimal.Decimal
	Schedule    WeeklySchedule
}

// Item is a fully priced item. ItemTotal and Schedules are derived by
// ExpandItem and never assigned independently.
type Item struct {
	Reference   string
	Description string
	UnitPrice   decimal.Decimal
	ItemTotal   decimal.Decimal
	Schedules   []ScheduleEntry
}

// Result is the product of one engine run.
type Result struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalPrice  decimal.Decimal
	Items       []Item
}

// SchedulePrice prices one weekday over the period: round2(unitPrice * occurrences).
// Rounding is half away from zero on the exact decimal value.
func SchedulePrice(unitPrice decimal.Decimal, occurrences int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(occurrences))).Round(2)
}

// ExpandItem walks the item's weekly schedule in canonical order, pricing each
// active weekday. When nothing accumulates a strictly positive total, either
// because no weekday is active or the prices sum to zero, the item total falls
// back to the unit price itself, unrounded.
func ExpandItem(in ItemInput, start, end time.Time, excludeStart bool) (Item, error) {
	entries := make([]ScheduleEntry, 0, 7)
	total := decimal.Zero

	for _, day := range in.Schedule.ActiveDays() {
		count, err := CountOccurrences(start, end, day, excludeStart)
		if err != nil {
			return Item{}, err
		}
		price := SchedulePrice(in.UnitPrice, count)
		entries = append(entries, ScheduleEntry{
			DayOfWeek:     DayName(day),
			CountOfDays:   count,
			SchedulePrice: price,
		})
		total = total.Add(price)
	}

	itemTotal := in.UnitPrice
	if total.IsPositive() {
		itemTotal = total.Round(2)
	}

	return Item{
		Reference:   in.Reference,
		Description: in.Description,
		UnitPrice:   in.UnitPrice,
		ItemTotal:   itemTotal,
		Schedules:   entries,
	}, nil
}

// Total sums item totals into the grand total with final rounding.
func Total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.ItemTotal)
	}
	return sum.Round(2)
}

// Engine is the composition root for a pricing run. It holds no state; every
// run owns its data exclusively.
type Engine struct{}

// Run computes the period end once, expands every item over the same window,
// and aggregates the grand total. Any failure aborts the run; partial results
// are never returned.
func (Engine) Run(start time.Time, spec PeriodSpec, excludeStart bool, items []ItemInput) (Result, error) {
	end, err := AddPeriod(start, spec.Length, spec.Unit)
	if err != nil {
		return Result{}, err
	}

	priced := make([]Item, 0, len(items))
	for _, in := range items {
		item, err := ExpandItem(in, start, end, excludeStart)
		if err != nil {
			return Result{}, err
		}
		priced = append(priced, item)
	}

	return Result{
		PeriodStart: start,
		PeriodEnd:   end,
		TotalPrice:  Total(priced),
		Items:       priced,
	}, nil
}
