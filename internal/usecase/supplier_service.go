package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/supplierlens/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Fetch outcome labels used for logging and metrics
const (
	OutcomeOK            = "ok"
	OutcomeEmpty         = "empty"
	OutcomeError         = "error"
	OutcomeTimeout       = "timeout"
	OutcomeNotConfigured = "not_configured"
)

// FetchRecorder receives per-source and per-search observations
type FetchRecorder interface {
	ObserveFetch(source, outcome string, elapsed time.Duration)
	ObserveResults(count int)
}

// SupplierServiceConfig holds configuration for the supplier service
type SupplierServiceConfig struct {
	FetchTimeout time.Duration
	MaxResults   int
	RankingRates RateTable
	MarginRates  RateTable
	Logger       *slog.Logger
	Recorder     FetchRecorder
}

// FetchOutcome is the tagged result of one fetcher run.
// Err is kept for observability; Listings is empty whenever Err is set.
type FetchOutcome struct {
	Source   string
	Listings []domain.RawListing
	Err      error
	Elapsed  time.Duration
}

// Outcome returns the label describing how the fetch ended
func (o FetchOutcome) Outcome() string {
	switch {
	case o.Err == nil && len(o.Listings) > 0:
		return OutcomeOK
	case o.Err == nil:
		return OutcomeEmpty
	case errors.Is(o.Err, domain.ErrSourceNotConfigured):
		return OutcomeNotConfigured
	case errors.Is(o.Err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}

// SupplierService fans a search out to every applicable supplier source and
// ranks what comes back
type SupplierService struct {
	fetchers     []domain.SupplierFetcher
	preprocessor *QueryPreprocessor
	fetchTimeout time.Duration
	maxResults   int
	rankingRates RateTable
	marginRates  RateTable
	logger       *slog.Logger
	recorder     FetchRecorder
}

// NewSupplierService creates a new supplier service with dependencies
func NewSupplierService(fetchers []domain.SupplierFetcher, config SupplierServiceConfig) *SupplierService {
	fetchTimeout := config.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 25 * time.Second
	}

	maxResults := config.MaxResults
	if maxResults <= 0 || maxResults > MaxSuppliers {
		maxResults = MaxSuppliers
	}

	rankingRates := config.RankingRates
	if len(rankingRates) == 0 {
		rankingRates = DefaultRankingRates()
	}

	marginRates := config.MarginRates
	if len(marginRates) == 0 {
		marginRates = DefaultMarginRates()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SupplierService{
		fetchers:     fetchers,
		preprocessor: NewQueryPreprocessor(logger),
		fetchTimeout: fetchTimeout,
		maxResults:   maxResults,
		rankingRates: rankingRates,
		marginRates:  marginRates,
		logger:       logger,
		recorder:     config.Recorder,
	}
}

// Sources returns the names of every registered fetcher
func (s *SupplierService) Sources() []string {
	names := make([]string, 0, len(s.fetchers))
	for _, f := range s.fetchers {
		names = append(names, f.Name())
	}
	return names
}

// FindSuppliers searches every applicable source for cheaper offers of the queried product.
// Flow: validate -> select fetchers -> fetch in parallel -> normalize -> rank -> margin -> dedupe -> truncate
func (s *SupplierService) FindSuppliers(ctx context.Context, query *domain.SearchQuery) (*domain.SearchResult, error) {
	if query == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	q := *query
	q.RetailCurrency = q.Currency()
	if q.HasTitle() {
		q.Keywords = s.preprocessor.PreprocessQuery(q.Title)
	}

	active := SelectFetchers(q, s.fetchers)
	platforms := make([]string, 0, len(active))
	for _, f := range active {
		platforms = append(platforms, f.Name())
	}

	s.logger.Info("supplier search started",
		"title", q.Title,
		"keywords", q.Keywords,
		"has_image", q.HasImage(),
		"method", string(q.Method),
		"sources", platforms)

	outcomes := s.fetchAll(ctx, q, active)

	var working []domain.SupplierListing
	for _, outcome := range outcomes {
		for _, raw := range outcome.Listings {
			working = append(working, NormalizeListing(raw))
		}
	}

	if len(working) == 0 {
		s.logger.Info("supplier search found nothing", "sources", platforms)
		s.observeResults(0)
		return BuildResult(q, nil, platforms), nil
	}

	RankByPrice(working, s.rankingRates)
	ApplyMargins(working, q.RetailPrice, q.RetailCurrency, s.marginRates)
	suppliers := Truncate(Deduplicate(working), s.maxResults)

	s.logger.Info("supplier search finished",
		"candidates", len(working),
		"returned", len(suppliers),
		"best_platform", suppliers[0].Platform,
		"best_price", suppliers[0].Price.Amount)
	s.observeResults(len(suppliers))

	return BuildResult(q, suppliers, platforms), nil
}

// SelectFetchers returns the fetchers that apply to a query, in registry order.
// The catalog always runs, image-capable sources need an image and an image
// method, and text-only sources need a title and a text method.
func SelectFetchers(query domain.SearchQuery, fetchers []domain.SupplierFetcher) []domain.SupplierFetcher {
	active := make([]domain.SupplierFetcher, 0, len(fetchers))
	for _, f := range fetchers {
		caps := f.Capabilities()
		switch {
		case caps.Has(domain.CapabilityCatalog):
			active = append(active, f)
		case caps.Has(domain.CapabilityImageSearch):
			if query.HasImage() && query.Method.AllowsImage() {
				active = append(active, f)
			}
		case caps.Has(domain.CapabilityTextSearch):
			if query.HasTitle() && query.Method.AllowsText() {
				active = append(active, f)
			}
		}
	}
	return active
}

// fetchAll runs every fetcher concurrently and waits for all of them to settle.
// Each goroutine writes only its own slot, so outcomes keep registry order.
func (s *SupplierService) fetchAll(ctx context.Context, query domain.SearchQuery, fetchers []domain.SupplierFetcher) []FetchOutcome {
	outcomes := make([]FetchOutcome, len(fetchers))

	var g errgroup.Group
	for i, f := range fetchers {
		g.Go(func() error {
			outcomes[i] = s.runFetcher(ctx, f, query)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// runFetcher calls one fetcher under its own timeout and turns every failure,
// panics included, into an outcome with no listings
func (s *SupplierService) runFetcher(ctx context.Context, f domain.SupplierFetcher, query domain.SearchQuery) (outcome FetchOutcome) {
	outcome.Source = f.Name()
	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("%w: panic: %v", domain.ErrSourceFailure, r)
		}
		if outcome.Err != nil {
			outcome.Listings = nil
		}
		outcome.Elapsed = time.Since(start)
		s.report(outcome)
	}()

	outcome.Listings, outcome.Err = f.Fetch(fetchCtx, query)
	return outcome
}

func (s *SupplierService) report(outcome FetchOutcome) {
	label := outcome.Outcome()
	attrs := []any{
		"source", outcome.Source,
		"outcome", label,
		"listings", len(outcome.Listings),
		"elapsed", outcome.Elapsed,
	}

	switch label {
	case OutcomeNotConfigured:
		s.logger.Debug("source skipped", attrs...)
	case OutcomeError, OutcomeTimeout:
		s.logger.Warn("source failed", append(attrs, "error", outcome.Err)...)
	default:
		s.logger.Debug("source finished", attrs...)
	}

	if s.recorder != nil {
		s.recorder.ObserveFetch(outcome.Source, label, outcome.Elapsed)
	}
}

func (s *SupplierService) observeResults(count int) {
	if s.recorder != nil {
		s.recorder.ObserveResults(count)
	}
}
