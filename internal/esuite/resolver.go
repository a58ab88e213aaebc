package esuite

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/pricing-api/internal/pricing"
)

// ResolutionError reports a product that could not be resolved against the
// catalog: missing from the lookup, no price in the requested currency, or no
// daily schedule record.
type ResolutionError struct {
	ProductReference string
	Reason           string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.ProductReference)
}

const (
	reasonNoProduct  = "eSuite product lookup could not find productReference"
	reasonNoCurrency = "eSuite product lookup could not find currency match for productReference"
	reasonNoDaily    = "eSuite product schedule lookup returned no daily schedule for productReference"
)

// scheduleLookupConcurrency caps the schedule fan-out per request.
const scheduleLookupConcurrency = 8

// ProductRef identifies one requested product and the currency to price it in.
type ProductRef struct {
	ProductReference string
	Currency         string
}

// Resolver turns product references into priced, scheduled engine inputs.
type Resolver struct {
	Client *Client
}

// Resolve fetches catalog pricing for all references in one request, then
// fans out one schedule lookup per reference. The first failure cancels the
// remaining lookups and aborts resolution; no partial result is returned.
func (r Resolver) Resolve(ctx context.Context, refs []ProductRef) ([]pricing.ItemInput, error) {
	queryRefs := make([]string, 0, len(refs))
	for _, ref := range refs {
		queryRefs = append(queryRefs, ref.ProductReference)
	}
	products, err := r.Client.Products(ctx, queryRefs)
	if err != nil {
		return nil, err
	}

	byRef := make(map[string]Product, len(products))
	for _, p := range products {
		byRef[p.ProductReference] = p
	}

	items := make([]pricing.ItemInput, len(refs))
	for i, ref := range refs {
		product, ok := byRef[ref.ProductReference]
		if !ok {
			return nil, &ResolutionError{ProductReference: ref.ProductReference, Reason: reasonNoProduct}
		}
		price, ok := priceFor(product, ref.Currency)
		if !ok {
			return nil, &ResolutionError{ProductReference: ref.ProductReference, Reason: reasonNoCurrency}
		}
		items[i] = pricing.ItemInput{
			Reference:   ref.ProductReference,
			Description: product.Name,
			UnitPrice:   price.Amount,
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scheduleLookupConcurrency)
	for i := range items {
		g.Go(func() error {
			schedules, err := r.Client.Schedules(ctx, items[i].Reference)
			if err != nil {
				return err
			}
			daily, ok := dailyScheduleOf(schedules)
			if !ok {
				return &ResolutionError{ProductReference: items[i].Reference, Reason: reasonNoDaily}
			}
			items[i].Schedule = pricing.WeeklySchedule{
				Monday:    daily.Monday,
				Tuesday:   daily.Tuesday,
				Wednesday: daily.Wednesday,
				Thursday:  daily.Thursday,
				Friday:    daily.Friday,
				Saturday:  daily.Saturday,
				Sunday:    daily.Sunday,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func priceFor(product Product, currency string) (Price, bool) {
	for _, price := range product.Pricing {
		if price.Currency == currency {
			return price, true
		}
	}
	return Price{}, false
}

// dailyScheduleOf picks the first record typed "Daily" that actually carries
// daily flags.
func dailyScheduleOf(schedules []ProductSchedule) (DailySchedule, bool) {
	for _, s := range schedules {
		if s.ScheduleType == "Daily" && s.DailySchedule != nil {
			return *s.DailySchedule, true
		}
	}
	return DailySchedule{}, false
}
