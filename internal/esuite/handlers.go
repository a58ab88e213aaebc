package esuite

import (
	"errors"
	"net/http"
	"time"

	"github.com/noah-isme/pricing-api/internal/common"
	"github.com/noah-isme/pricing-api/internal/obs"
	"github.com/noah-isme/pricing-api/internal/pricing"
)

// Handler exposes the catalog-driven pricing endpoint. For this variant the
// period always starts now and the current day is always excluded.
type Handler struct {
	Resolver Resolver
	Engine   pricing.Engine
	Now      func() time.Time
}

type customParameter struct {
	ParameterReference string `json:"ParameterReference"`
	ParameterName      string `json:"ParameterName"`
	ParameterValue     string `json:"ParameterValue"`
}

type productReferenceRequest struct {
	ProductID               *int              `json:"ProductId"`
	ProductReference        string            `json:"ProductReference" validate:"required"`
	GrossAmount             *float64          `json:"grossAmount"`
	NetAmount               *float64          `json:"netAmount"`
	TaxAmount               *float64          `json:"taxAmount"`
	Currency                string            `json:"Currency" validate:"required"`
	CustomProductParameters []customParameter `json:"CustomProductParameters"`
	CustomLineItemParams    []customParameter `json:"CustomLineItemParameters"`
}

// calcRequest mirrors the upstream cart shape. Billing and customer fields are
// accepted for compatibility but not consumed by the price calculation.
type calcRequest struct {
	AccountID         *int                      `json:"AccountId"`
	AccountReference  string                    `json:"AccountReference"`
	ClientUserID      string                    `json:"ClientUserId"`
	EmailAddress      string                    `json:"EmailAddress"`
	PaymentMethod     string                    `json:"PaymentMethod"`
	Currency          string                    `json:"Currency"`
	ServiceID         *int                      `json:"ServiceId"`
	ContractReference string                    `json:"ContractReference"`
	FrequencyUnit     *int                      `json:"FrequencyUnit" validate:"required"`
	FrequencyPeriod   string                    `json:"FrequencyPeriod" validate:"required,oneof=Days Months Years"`
	CartReference     string                    `json:"cartReference"`
	ProductReferences []productReferenceRequest `json:"ProductReferences" validate:"required,dive"`
	CustomSubParams   []customParameter         `json:"CustomSubscriptionParameters"`
}

type productReferenceResponse struct {
	ProductReference string  `json:"productReference"`
	GrossAmount      float64 `json:"grossAmount"`
	NetAmount        float64 `json:"netAmount"`
	TaxAmount        float64 `json:"taxAmount"`
	Description      string  `json:"description"`
}

type calcResponse struct {
	ProductReferences []productReferenceResponse `json:"productReferences"`
}

// frequencyUnits maps the upstream frequency period names onto period units.
var frequencyUnits = map[string]pricing.PeriodUnit{
	"Days":   pricing.UnitDay,
	"Months": pricing.UnitMonth,
	"Years":  pricing.UnitYear,
}

// Calculate handles POST /api/v1/esuite-calc-schedule-price.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calcRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.JSONValidationFailure(w, common.DecodeErrors(err))
		return
	}
	if errs := common.Validate(req); errs != nil {
		common.JSONValidationFailure(w, errs)
		return
	}

	refs := make([]ProductRef, 0, len(req.ProductReferences))
	for _, pr := range req.ProductReferences {
		refs = append(refs, ProductRef{
			ProductReference: pr.ProductReference,
			Currency:         pr.Currency,
		})
	}

	inputs, err := h.Resolver.Resolve(r.Context(), refs)
	if err != nil {
		h.writeError(w, err)
		return
	}

	start := h.now().UTC()
	spec := pricing.PeriodSpec{Length: *req.FrequencyUnit, Unit: frequencyUnits[req.FrequencyPeriod]}
	result, err := h.Engine.Run(start, spec, true, inputs)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]productReferenceResponse, 0, len(result.Items))
	for _, item := range result.Items {
		out = append(out, productReferenceResponse{
			ProductReference: item.Reference,
			GrossAmount:      item.ItemTotal.InexactFloat64(),
			NetAmount:        item.ItemTotal.InexactFloat64(),
			TaxAmount:        0.0,
			Description:      item.Description,
		})
	}

	countRun("ok")
	common.JSON(w, http.StatusOK, calcResponse{ProductReferences: out})
}

func countRun(result string) {
	if obs.PricingRunsTotal != nil {
		obs.PricingRunsTotal.WithLabelValues("esuite-calc-schedule-price", result).Inc()
	}
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// writeError maps resolution and engine failures onto 500 responses. The
// message names the offending product for resolution errors and stays generic
// otherwise.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	countRun("error")
	var resErr *ResolutionError
	switch {
	case errors.As(err, &resErr):
		if obs.ResolutionFailuresTotal != nil {
			obs.ResolutionFailuresTotal.WithLabelValues(resolutionLabel(resErr)).Inc()
		}
		common.JSONError(w, http.StatusInternalServerError, resErr.Error())
	case errors.Is(err, ErrUpstream):
		common.JSONError(w, http.StatusInternalServerError, ErrUpstream.Error())
	default:
		common.JSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func resolutionLabel(err *ResolutionError) string {
	switch err.Reason {
	case reasonNoProduct:
		return "product_not_found"
	case reasonNoCurrency:
		return "currency_not_found"
	case reasonNoDaily:
		return "no_daily_schedule"
	default:
		return "other"
	}
}
