package esuite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/pricing-api/internal/obs"
	"github.com/noah-isme/pricing-api/internal/resilience"
)

// ErrUpstream indicates the eSuite API was unreachable or returned a body
// that could not be decoded.
var ErrUpstream = errors.New("error calling eSuite API")

// Price is one currency entry of a product's pricing list.
type Price struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// Product is a catalog entry as returned by the products lookup.
type Product struct {
	ProductReference string  `json:"productReference"`
	Name             string  `json:"name"`
	Pricing          []Price `json:"pricing"`
}

// DailySchedule carries the weekly on/off flags of a daily schedule record.
type DailySchedule struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

// ProductSchedule is one schedule record of a product. Only records whose
// ScheduleType is "Daily" carry a DailySchedule payload.
type ProductSchedule struct {
	ScheduleType  string         `json:"scheduleType"`
	DailySchedule *DailySchedule `json:"dailySchedule"`
}

// ClientConfig configures an eSuite API client. MaxAttempts below 2 disables
// retries; the circuit breaker is always active. Logger, when set, records
// breaker state transitions.
type ClientConfig struct {
	Host           string
	ClientID       string
	ClientPassword string
	Version        string
	Timeout        time.Duration
	MaxAttempts    int
	Logger         *zerolog.Logger
}

// Breaker thresholds for the catalog upstream: trip after half of the last
// ten calls fail, probe again after 30s.
const (
	breakerMinCalls  = 10
	breakerTripRatio = 0.5
	breakerCoolOff   = 30 * time.Second
)

// Client talks to the eSuite product catalog. It is constructed once with its
// credentials and shared; per-request headers are derived from it rather than
// from process-wide state.
type Client struct {
	host           string
	clientID       string
	clientPassword string
	version        string
	http           *http.Client
	call           resilience.HTTPClient
}

// NewClient builds a Client with an instrumented transport and a circuit
// breaker guarding the upstream.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	breaker := resilience.NewBreaker(breakerMinCalls, breakerTripRatio, breakerCoolOff).WithTarget("esuite")
	if cfg.Logger != nil {
		breaker = breaker.WithLogger(*cfg.Logger)
	}
	return &Client{
		host:           strings.TrimRight(strings.TrimSpace(cfg.Host), "/"),
		clientID:       cfg.ClientID,
		clientPassword: cfg.ClientPassword,
		version:        cfg.Version,
		http:           httpClient,
		call: resilience.HTTPClient{
			Client:      httpClient,
			Breaker:     breaker,
			MaxAttempts: cfg.MaxAttempts,
			BaseBackoff: 100 * time.Millisecond,
			Jitter:      0.2,
		},
	}
}

// Products fetches catalog entries for the given product references in a
// single request. A 204 from upstream yields an empty slice.
func (c *Client) Products(ctx context.Context, refs []string) ([]Product, error) {
	query := make([]string, 0, len(refs))
	for _, ref := range refs {
		query = append(query, "productReferences="+url.QueryEscape(ref))
	}
	endpoint := fmt.Sprintf("%s/api/products?%s", c.host, strings.Join(query, "&"))

	var products []Product
	if err := c.getJSON(ctx, "products", endpoint, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Schedules fetches the schedule records of one product. A 204 from upstream
// yields nil.
func (c *Client) Schedules(ctx context.Context, ref string) ([]ProductSchedule, error) {
	endpoint := fmt.Sprintf("%s/api/products/%s/schedules", c.host, url.PathEscape(ref))

	var schedules []ProductSchedule
	if err := c.getJSON(ctx, "schedules", endpoint, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// Ping checks catalog reachability. Any HTTP response counts as reachable;
// only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.host+"/api/products", nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-ClientId", c.clientID)
	req.Header.Set("X-ClientPassword", c.clientPassword)
	req.Header.Set("X-Version", c.version)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *Client) getJSON(ctx context.Context, operation, endpoint string, dst any) error {
	start := time.Now()
	defer func() {
		if obs.CatalogRequestLatency != nil {
			obs.CatalogRequestLatency.WithLabelValues(operation).Observe(obs.DurationMillis(time.Since(start)))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ClientId", c.clientID)
	req.Header.Set("X-ClientPassword", c.clientPassword)
	req.Header.Set("X-Version", c.version)

	resp, err := c.call.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return ErrUpstream
	}
	return nil
}
