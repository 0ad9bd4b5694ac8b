package googlemaps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"zone-matrix-service/internal/domain"
	"zone-matrix-service/internal/platform/obs"
	"zone-matrix-service/internal/ports"
)

// DepartureMode selects the departure_time sent with every batch.
type DepartureMode string

const (
	DepartNow     DepartureMode = "now"
	DepartMorning DepartureMode = "morning"
	DepartEvening DepartureMode = "evening"
)

// Config carries everything a Provider needs. APIKey and Ledger are
// mandatory; zero values elsewhere fall back to the documented defaults.
type Config struct {
	APIKey  string
	BaseURL string
	// Language for localized road names in responses.
	Language string

	ElementCeiling      int
	PricePerThousandUSD float64
	MonthlyLimitUSD     float64
	PacingDelay         time.Duration

	Mode        DepartureMode
	MorningHour int
	EveningHour int

	// OutputName is recorded in the ledger so a spend line can be traced
	// back to the artifact it produced.
	OutputName string

	Ledger  ports.LedgerStore
	Timeout time.Duration
}

// Provider implements MatrixSource against the Google Distance Matrix API.
//
// Every element returned by the API is billed, so the provider plans the
// whole run up front, refuses it outright when the monthly budget would be
// crossed, executes batches strictly one at a time with a pacing delay, and
// records the spend in the ledger only after the final batch succeeded.
type Provider struct {
	session  *http.Client
	apiKey   string
	baseURL  string
	language string

	elementCeiling      int
	pricePerThousandUSD float64
	monthlyLimitUSD     float64
	pacing              time.Duration

	mode        DepartureMode
	morningHour int
	eveningHour int
	outputName  string

	ledger ports.LedgerStore

	// now and sleep are replaceable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	lastStats *domain.BatchStats
}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingCredential
	}
	if cfg.Ledger == nil {
		return nil, errors.New("google provider requires a ledger store")
	}
	if cfg.ElementCeiling < 1 {
		return nil, fmt.Errorf("element ceiling must be at least 1, got %d", cfg.ElementCeiling)
	}
	if cfg.PricePerThousandUSD < 0 || cfg.MonthlyLimitUSD < 0 {
		return nil, errors.New("pricing values must not be negative")
	}
	switch cfg.Mode {
	case DepartNow, DepartMorning, DepartEvening:
	case "":
		cfg.Mode = DepartNow
	default:
		return nil, fmt.Errorf("unknown departure mode %q", cfg.Mode)
	}
	if cfg.MorningHour < 0 || cfg.MorningHour > 23 || cfg.EveningHour < 0 || cfg.EveningHour > 23 {
		return nil, errors.New("departure hours must be between 0 and 23")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com"
	}
	language := cfg.Language
	if language == "" {
		language = "fr"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Provider{
		session:             &http.Client{Timeout: timeout},
		apiKey:              cfg.APIKey,
		baseURL:             strings.TrimRight(baseURL, "/"),
		language:            language,
		elementCeiling:      cfg.ElementCeiling,
		pricePerThousandUSD: cfg.PricePerThousandUSD,
		monthlyLimitUSD:     cfg.MonthlyLimitUSD,
		pacing:              cfg.PacingDelay,
		mode:                cfg.Mode,
		morningHour:         cfg.MorningHour,
		eveningHour:         cfg.EveningHour,
		outputName:          cfg.OutputName,
		ledger:              cfg.Ledger,
		now:                 time.Now,
		sleep:               sleepCtx,
	}, nil
}

// Name identifies the source in artifact metadata and logs.
func (p *Provider) Name() string { return "google" }

// Plan exposes the batch partition for a run over n points without touching
// the network. The dry-run path prints this before anything is spent.
func (p *Provider) Plan(n int) (domain.BatchPlan, domain.CostEstimate, error) {
	plan, err := domain.PlanBatches(n, p.elementCeiling)
	if err != nil {
		return domain.BatchPlan{}, domain.CostEstimate{}, err
	}
	return plan, domain.EstimateCost(plan.TotalElements(), p.pricePerThousandUSD), nil
}

// FullMatrix runs the complete batched fetch. The rules, in order:
// budget check before the first call, strictly sequential paced batches,
// any failure aborts with no ledger entry, one ledger entry on full success.
func (p *Provider) FullMatrix(ctx context.Context, points []domain.Coordinates) (_ *domain.TravelMatrix, err error) {
	defer obs.Time(ctx, "google.FullMatrix")(&err)

	if len(points) == 0 {
		return nil, errors.New("matrix requires at least one point")
	}

	plan, est, err := p.Plan(len(points))
	if err != nil {
		return nil, err
	}

	led, err := p.ledger.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load spend ledger: %w", err)
	}
	runAt := p.now()
	spent := led.MonthlySpend(runAt)
	if spent+est.CostUSD > p.monthlyLimitUSD {
		return nil, &domain.BudgetExceededError{
			SpentUSD:     spent,
			ProjectedUSD: est.CostUSD,
			LimitUSD:     p.monthlyLimitUSD,
		}
	}

	departure, label := p.departure(runAt)

	tm := domain.NewTravelMatrix(plan.N)
	for i, rect := range plan.Rects {
		if i > 0 {
			if err := p.sleep(ctx, p.pacing); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.fetchBatch(ctx, points, rect, departure, tm); err != nil {
			return nil, fmt.Errorf("batch %d/%d: %w", i+1, len(plan.Rects), err)
		}
	}

	tm.Durations.ForceZeroDiagonal()
	tm.Distances.ForceZeroDiagonal()

	p.mu.Lock()
	p.lastStats = &domain.BatchStats{
		Batches:   len(plan.Rects),
		Elements:  plan.TotalElements(),
		CostUSD:   est.CostUSD,
		Departure: label,
	}
	p.mu.Unlock()

	entry := domain.LedgerEntry{
		Date:     runAt,
		Elements: plan.TotalElements(),
		CostUSD:  est.CostUSD,
		Mode:     string(p.mode),
		Output:   p.outputName,
	}
	if err := p.ledger.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("record spend (calls already billed): %w", err)
	}

	return tm, nil
}

// LastRunStats reports the stats of the most recent successful run.
func (p *Provider) LastRunStats() *domain.BatchStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastStats == nil {
		return nil
	}
	stats := *p.lastStats
	return &stats
}

// departure returns the departure_time query value and a human label for
// the run stats.
func (p *Provider) departure(from time.Time) (string, string) {
	switch p.mode {
	case DepartMorning:
		at := nextWeekdayAt(from, p.morningHour)
		return fmt.Sprintf("%d", at.Unix()), at.Format(time.RFC3339)
	case DepartEvening:
		at := nextWeekdayAt(from, p.eveningHour)
		return fmt.Sprintf("%d", at.Unix()), at.Format(time.RFC3339)
	default:
		return "now", "now"
	}
}

// nextWeekdayAt finds the next Monday-to-Friday instant at the given hour
// strictly after from, in from's location.
func nextWeekdayAt(from time.Time, hour int) time.Time {
	at := time.Date(from.Year(), from.Month(), from.Day(), hour, 0, 0, 0, from.Location())
	if !at.After(from) {
		at = at.AddDate(0, 0, 1)
	}
	for at.Weekday() == time.Saturday || at.Weekday() == time.Sunday {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
