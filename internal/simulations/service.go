// Package simulations implements the scenario-simulation orchestration
// service: it validates scenario parameters, pulls historical records from
// the data store, runs the pure engine over them, and assembles the
// summary and economic analysis for the API layer. Completed analyses are
// announced on the event queue for the external narrative service.
package simulations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"stresscast/internal/datasource"
	"stresscast/internal/engine"
	"stresscast/internal/types"
)

// SimulationResponse is the full outcome of one scenario run.
type SimulationResponse struct {
	RunID        string                   `json:"run_id"`
	Domain       types.Domain             `json:"domain"`
	Scenario     types.Scenario           `json:"scenario"`
	DailyResults []types.SimulationResult `json:"daily_results"`
	Summary      types.SummaryStatistics  `json:"summary"`
	Economics    types.EconomicAnalysis   `json:"economics"`
	GeneratedAt  time.Time                `json:"generated_at"`
}

// DomainOutlook is one sector's slice of the combined outlook.
type DomainOutlook struct {
	Domain    types.Domain            `json:"domain"`
	Summary   types.SummaryStatistics `json:"summary"`
	Economics types.EconomicAnalysis  `json:"economics"`
}

// OutlookResponse is the combined three-domain baseline outlook. Domains are
// listed in canonical order (energy, water, agriculture).
type OutlookResponse struct {
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Domains     []DomainOutlook `json:"domains"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Publisher announces completed analyses to downstream consumers.
// Publishing is best-effort: the simulation response never depends on it.
type Publisher interface {
	PublishAnalysisReady(ctx context.Context, payload types.AnalysisReadyPayload) error
}

// MetricsRecorder records simulation telemetry.
type MetricsRecorder interface {
	RecordSimulation(ctx context.Context, domain types.Domain, duration time.Duration, resultCount int)
	RecordUpstreamFailure(ctx context.Context, domain types.Domain)
}

// Service orchestrates scenario simulations against the historical data
// store. It is stateless between requests; the only cross-request state in
// the platform lives behind the injected collaborators.
type Service struct {
	store     datasource.Store
	costs     map[types.Domain]types.CostConstants
	publisher Publisher
	metrics   MetricsRecorder
	logger    *slog.Logger
	clock     types.Clock
}

// NewService creates a simulation Service. The publisher and metrics
// recorder are optional; logger and clock default when nil.
func NewService(
	store datasource.Store,
	costs map[types.Domain]types.CostConstants,
	publisher Publisher,
	metrics MetricsRecorder,
	logger *slog.Logger,
	clock types.Clock,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = types.RealClock{}
	}
	return &Service{
		store:     store,
		costs:     costs,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		clock:     clock,
	}
}

// Run executes one scenario end to end:
//  1. Validate the scenario (invalid parameters are a 400, not a panic).
//  2. Fetch the region directory and the domain's daily records.
//  3. Simulate, summarize, and price the outcome with the domain's cost
//     constants.
//  4. Record telemetry and publish analysis.ready (both best-effort).
//
// A window with zero historical records is a well-formed empty response,
// not an error.
func (s *Service) Run(ctx context.Context, sc types.Scenario) (*SimulationResponse, error) {
	started := s.clock.Now()

	resp, err := s.simulate(ctx, sc)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordSimulation(ctx, sc.Domain, s.clock.Now().Sub(started), resp.Summary.ResultCount)
	}
	s.publishAnalysisReady(ctx, resp)

	return resp, nil
}

// Outlook runs a neutral baseline scenario (no parameter adjustments) for
// every domain concurrently over the given window. Any domain failing fails
// the outlook: a partially missing picture is worse than an explicit error.
func (s *Service) Outlook(ctx context.Context, startDate, endDate string) (*OutlookResponse, error) {
	outlooks := make([]DomainOutlook, len(types.AllDomains))

	g, gCtx := errgroup.WithContext(ctx)
	for i, domain := range types.AllDomains {
		i, domain := i, domain
		g.Go(func() error {
			resp, err := s.simulate(gCtx, types.Scenario{
				Domain:    domain,
				StartDate: startDate,
				EndDate:   endDate,
			})
			if err != nil {
				return fmt.Errorf("%s outlook: %w", domain, err)
			}
			outlooks[i] = DomainOutlook{
				Domain:    domain,
				Summary:   resp.Summary,
				Economics: resp.Economics,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &OutlookResponse{
		StartDate:   startDate,
		EndDate:     endDate,
		Domains:     outlooks,
		GeneratedAt: s.clock.Now(),
	}, nil
}

// simulate is the shared core of Run and Outlook: validate, fetch, run the
// engine, assemble the response. No telemetry, no publishing.
func (s *Service) simulate(ctx context.Context, sc types.Scenario) (*SimulationResponse, error) {
	if vr := engine.ValidateScenario(sc); !vr.IsValid {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidScenario, vr.Error, nil)
	}

	start, end, err := sc.DateRange()
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidDate, "scenario dates must use YYYY-MM-DD", err)
	}

	regions, err := s.store.ListRegions(ctx)
	if err != nil {
		s.recordUpstreamFailure(ctx, sc.Domain)
		return nil, upstreamErr("failed to load region directory", err)
	}
	regionNames := make(map[string]string, len(regions))
	for _, r := range regions {
		regionNames[r.ID] = r.Name
	}

	observations, err := s.fetchObservations(ctx, sc.Domain, start, end)
	if err != nil {
		return nil, err
	}

	profile := engine.ProfileFor(sc.Domain)
	results := engine.Simulate(profile, sc, observations, regionNames)
	summary := engine.Summarize(profile, results)
	economics := engine.Analyze(summary, s.costs[sc.Domain])

	return &SimulationResponse{
		RunID:        "run_" + uuid.NewString(),
		Domain:       sc.Domain,
		Scenario:     sc,
		DailyResults: results,
		Summary:      summary,
		Economics:    economics,
		GeneratedAt:  s.clock.Now(),
	}, nil
}

// fetchObservations pulls the domain's records for the window and adapts
// them to the simulator's input shape.
func (s *Service) fetchObservations(ctx context.Context, domain types.Domain, start, end time.Time) ([]engine.Observation, error) {
	switch domain {
	case types.DomainEnergy:
		records, err := s.store.EnergyRecords(ctx, start, end)
		if err != nil {
			s.recordUpstreamFailure(ctx, domain)
			return nil, upstreamErr("failed to load energy records", err)
		}
		return engine.EnergyObservations(records), nil
	case types.DomainWater:
		records, err := s.store.WaterRecords(ctx, start, end)
		if err != nil {
			s.recordUpstreamFailure(ctx, domain)
			return nil, upstreamErr("failed to load water records", err)
		}
		return engine.WaterObservations(records), nil
	case types.DomainAgriculture:
		records, err := s.store.AgricultureRecords(ctx, start, end)
		if err != nil {
			s.recordUpstreamFailure(ctx, domain)
			return nil, upstreamErr("failed to load agriculture records", err)
		}
		return engine.AgricultureObservations(records), nil
	default:
		return nil, types.NewAppError(types.ErrCodeValidationInvalidDomain,
			fmt.Sprintf("unknown domain %q", domain), nil)
	}
}

// publishAnalysisReady announces the completed run. Failures are logged and
// swallowed: the caller already has its response.
func (s *Service) publishAnalysisReady(ctx context.Context, resp *SimulationResponse) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishAnalysisReady(ctx, types.AnalysisReadyPayload{
		RunID:     resp.RunID,
		Domain:    resp.Domain,
		Scenario:  resp.Scenario,
		Summary:   resp.Summary,
		Economics: resp.Economics,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish analysis.ready event",
			"run_id", resp.RunID,
			"domain", resp.Domain,
			"error", err,
		)
	}
}

// recordUpstreamFailure counts a failed history fetch against the domain.
func (s *Service) recordUpstreamFailure(ctx context.Context, domain types.Domain) {
	if s.metrics != nil {
		s.metrics.RecordUpstreamFailure(ctx, domain)
	}
}

// upstreamErr maps a data-store failure onto the upstream error code while
// preserving an already-classified upstream error untouched.
func upstreamErr(message string, err error) error {
	var appErr *types.AppError
	if errors.As(err, &appErr) && appErr.Code == types.ErrCodeUpstreamHistory {
		return err
	}
	return types.NewAppError(types.ErrCodeUpstreamHistory, message, err)
}
