package pricing

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/pricing-api/internal/common"
	"github.com/noah-isme/pricing-api/internal/obs"
)

// InstantLayout is the wire format for period bounds: RFC 3339 with
// millisecond precision, matching ISO-8601 datetime strings.
const InstantLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatInstant renders an instant for a response body.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// Handler exposes the direct-input pricing endpoint.
type Handler struct {
	Engine Engine
}

type scheduleFlagsRequest struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

func (s scheduleFlagsRequest) toSchedule() WeeklySchedule {
	return WeeklySchedule{
		Monday:    s.Monday,
		Tuesday:   s.Tuesday,
		Wednesday: s.Wednesday,
		Thursday:  s.Thursday,
		Friday:    s.Friday,
		Saturday:  s.Saturday,
		Sunday:    s.Sunday,
	}
}

type calculateItemRequest struct {
	ItemReference string                `json:"itemReference" validate:"required"`
	UnitPrice     *decimal.Decimal      `json:"unitPrice" validate:"required"`
	Schedule      *scheduleFlagsRequest `json:"schedule" validate:"required"`
}

type calculateRequest struct {
	PeriodStartDate   string                 `json:"periodStartDate" validate:"required"`
	PeriodLength      *int                   `json:"periodLength" validate:"required"`
	PeriodType        string                 `json:"periodType" validate:"required,oneof=day month year"`
	ExcludeCurrentDay bool                   `json:"excludeCurrentDay"`
	Items             []calculateItemRequest `json:"items" validate:"required,dive"`
}

type scheduleResponse struct {
	DayOfWeek     string  `json:"dayOfWeek"`
	CountOfDays   int     `json:"countOfDays"`
	SchedulePrice float64 `json:"schedulePrice"`
}

type itemResponse struct {
	ItemReference string             `json:"itemReference"`
	UnitPrice     float64            `json:"unitPrice"`
	ItemTotal     float64            `json:"itemTotal"`
	Schedules     []scheduleResponse `json:"schedules"`
}

type calculateResponse struct {
	PeriodStartDate string         `json:"periodStartDate"`
	PeriodEndDate   string         `json:"periodEndDate"`
	TotalPrice      float64        `json:"totalPrice"`
	Items           []itemResponse `json:"items"`
}

// Calculate handles POST /api/v1/calculate-schedule-price.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.JSONValidationFailure(w, common.DecodeErrors(err))
		return
	}
	if errs := common.Validate(req); errs != nil {
		common.JSONValidationFailure(w, errs)
		return
	}

	start, err := time.Parse(time.RFC3339, req.PeriodStartDate)
	if err != nil {
		common.JSONValidationFailure(w, []common.ValidationError{
			{Path: "periodStartDate", Message: "Invalid datetime string!"},
		})
		return
	}

	unit, err := ParsePeriodUnit(req.PeriodType)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	inputs := make([]ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		inputs = append(inputs, ItemInput{
			Reference: item.ItemReference,
			UnitPrice: *item.UnitPrice,
			Schedule:  item.Schedule.toSchedule(),
		})
	}

	result, err := h.Engine.Run(start, PeriodSpec{Length: *req.PeriodLength, Unit: unit}, req.ExcludeCurrentDay, inputs)
	if err != nil {
		countRun("calculate-schedule-price", "error")
		common.JSONError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	countRun("calculate-schedule-price", "ok")

	items := make([]itemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		schedules := make([]scheduleResponse, 0, len(item.Schedules))
		for _, entry := range item.Schedules {
			schedules = append(schedules, scheduleResponse{
				DayOfWeek:     entry.DayOfWeek,
				CountOfDays:   entry.CountOfDays,
				SchedulePrice: entry.SchedulePrice.InexactFloat64(),
			})
		}
		items = append(items, itemResponse{
			ItemReference: item.Reference,
			UnitPrice:     item.UnitPrice.InexactFloat64(),
			ItemTotal:     item.ItemTotal.InexactFloat64(),
			Schedules:     schedules,
		})
	}

	common.JSON(w, http.StatusOK, calculateResponse{
		PeriodStartDate: req.PeriodStartDate,
		PeriodEndDate:   FormatInstant(result.PeriodEnd),
		TotalPrice:      result.TotalPrice.InexactFloat64(),
		Items:           items,
	})
}

const internalErrorMessage = "Internal Server Error. Please try again later."

func countRun(endpoint, result string) {
	if obs.PricingRunsTotal != nil {
		obs.PricingRunsTotal.WithLabelValues(endpoint, result).Inc()
	}
}
