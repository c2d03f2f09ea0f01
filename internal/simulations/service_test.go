package simulations

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"stresscast/internal/types"
)

// --- Mock Dependencies ---

// mockClock is a test clock that returns a fixed time.
type mockClock struct {
	now time.Time
}

func (c *mockClock) Now() time.Time { return c.now }

// mockStore implements datasource.Store with scriptable data.
type mockStore struct {
	regions     []types.Region
	energy      []types.EnergyRecord
	water       []types.WaterRecord
	agriculture []types.AgricultureRecord

	regionsErr error
	recordsErr error
}

func (m *mockStore) ListRegions(_ context.Context) ([]types.Region, error) {
	return m.regions, m.regionsErr
}

func (m *mockStore) EnergyRecords(_ context.Context, _, _ time.Time) ([]types.EnergyRecord, error) {
	return m.energy, m.recordsErr
}

func (m *mockStore) WaterRecords(_ context.Context, _, _ time.Time) ([]types.WaterRecord, error) {
	return m.water, m.recordsErr
}

func (m *mockStore) AgricultureRecords(_ context.Context, _, _ time.Time) ([]types.AgricultureRecord, error) {
	return m.agriculture, m.recordsErr
}

// mockPublisher records published payloads.
type mockPublisher struct {
	published []types.AnalysisReadyPayload
	err       error
}

func (m *mockPublisher) PublishAnalysisReady(_ context.Context, p types.AnalysisReadyPayload) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, p)
	return nil
}

// mockMetrics records simulation telemetry calls.
type mockMetrics struct {
	domains          []types.Domain
	counts           []int
	upstreamFailures []types.Domain
}

func (m *mockMetrics) RecordSimulation(_ context.Context, domain types.Domain, _ time.Duration, resultCount int) {
	m.domains = append(m.domains, domain)
	m.counts = append(m.counts, resultCount)
}

func (m *mockMetrics) RecordUpstreamFailure(_ context.Context, domain types.Domain) {
	m.upstreamFailures = append(m.upstreamFailures, domain)
}

// --- Helper Functions ---

func testCosts() map[types.Domain]types.CostConstants {
	constants := types.CostConstants{
		InfrastructureUnitCostUSD: 400000,
		UnitShortageCostUSD:       1,
		StressDayCostUSD:          10000,
		DiscountRate:              0.05,
		EscalationRate:            0.05,
	}
	return map[types.Domain]types.CostConstants{
		types.DomainEnergy:      constants,
		types.DomainWater:       constants,
		types.DomainAgriculture: constants,
	}
}

func waterScenario() types.Scenario {
	return types.Scenario{
		Domain:    types.DomainWater,
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	}
}

func testRegions() []types.Region {
	return []types.Region{
		{ID: "nrt", Name: "Northern Territory"},
		{ID: "sth", Name: "Southern Basin"},
	}
}

func testWaterRecords() []types.WaterRecord {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return []types.WaterRecord{
		{RegionID: "nrt", Date: day, DemandML: 165000, SupplyML: 145000, ReservoirPct: 72},
		{RegionID: "sth", Date: day, DemandML: 120000, SupplyML: 130000, ReservoirPct: 81},
	}
}

func newTestService(store *mockStore, pub *mockPublisher, met *mockMetrics) *Service {
	clock := &mockClock{now: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)}
	var publisher Publisher
	if pub != nil {
		publisher = pub
	}
	var metrics MetricsRecorder
	if met != nil {
		metrics = met
	}
	return NewService(store, testCosts(), publisher, metrics, nil, clock)
}

// --- Run Tests ---

func TestRun_InvalidScenario(t *testing.T) {
	svc := newTestService(&mockStore{}, nil, nil)

	sc := waterScenario()
	sc.ConservationPct = 150

	_, err := svc.Run(context.Background(), sc)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want AppError", err)
	}
	if appErr.Code != types.ErrCodeValidationInvalidScenario {
		t.Errorf("code = %s, want %s", appErr.Code, types.ErrCodeValidationInvalidScenario)
	}
	if !strings.Contains(appErr.Message, "conservation_pct") {
		t.Errorf("message %q should name the offending field", appErr.Message)
	}
}

func TestRun_WaterScenario(t *testing.T) {
	store := &mockStore{regions: testRegions(), water: testWaterRecords()}
	pub := &mockPublisher{}
	met := &mockMetrics{}
	svc := newTestService(store, pub, met)

	resp, err := svc.Run(context.Background(), waterScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(resp.RunID, "run_") {
		t.Errorf("run ID = %q, want run_ prefix", resp.RunID)
	}
	if resp.Domain != types.DomainWater {
		t.Errorf("domain = %s", resp.Domain)
	}
	if len(resp.DailyResults) != 2 {
		t.Fatalf("daily results = %d, want 2", len(resp.DailyResults))
	}
	if resp.DailyResults[0].RegionName != "Northern Territory" {
		t.Errorf("region name = %q, want directory name", resp.DailyResults[0].RegionName)
	}
	if resp.Summary.ResultCount != 2 {
		t.Errorf("result count = %d, want 2", resp.Summary.ResultCount)
	}
	// nrt is short 20000 ML with a 72% reservoir buffer; sth has surplus.
	if resp.Summary.MaxStress <= 0 || resp.Summary.MaxStress >= 0.2 {
		t.Errorf("max stress = %v, want mild shortfall", resp.Summary.MaxStress)
	}
	if resp.Summary.TotalUnmetDemand != 20000 {
		t.Errorf("total unmet = %v, want 20000", resp.Summary.TotalUnmetDemand)
	}

	if len(pub.published) != 1 {
		t.Fatalf("published events = %d, want 1", len(pub.published))
	}
	if pub.published[0].RunID != resp.RunID {
		t.Errorf("published run ID = %q, want %q", pub.published[0].RunID, resp.RunID)
	}
	if len(met.domains) != 1 || met.domains[0] != types.DomainWater || met.counts[0] != 2 {
		t.Errorf("metrics calls = %v / %v", met.domains, met.counts)
	}
}

func TestRun_EmptyWindow(t *testing.T) {
	store := &mockStore{regions: testRegions()}
	svc := newTestService(store, nil, nil)

	resp, err := svc.Run(context.Background(), waterScenario())
	if err != nil {
		t.Fatalf("empty window must not fail: %v", err)
	}
	if len(resp.DailyResults) != 0 {
		t.Errorf("daily results = %d, want 0", len(resp.DailyResults))
	}
	if resp.Summary.AvgStress != 0 || resp.Summary.ResultCount != 0 {
		t.Errorf("summary = %+v, want all-zero", resp.Summary)
	}
	if resp.Economics.InfrastructureInvestmentUSD != 0 {
		t.Errorf("investment = %v, want 0", resp.Economics.InfrastructureInvestmentUSD)
	}
}

func TestRun_StoreFailurePropagatesAsUpstream(t *testing.T) {
	store := &mockStore{regions: testRegions(), recordsErr: errors.New("connection refused")}
	svc := newTestService(store, nil, nil)

	_, err := svc.Run(context.Background(), waterScenario())
	if err == nil {
		t.Fatal("expected upstream error")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want AppError", err)
	}
	if appErr.Code != types.ErrCodeUpstreamHistory {
		t.Errorf("code = %s, want %s", appErr.Code, types.ErrCodeUpstreamHistory)
	}
}

func TestRun_StoreFailureRecordsUpstreamMetric(t *testing.T) {
	store := &mockStore{regions: testRegions(), recordsErr: errors.New("connection refused")}
	metrics := &mockMetrics{}
	svc := newTestService(store, nil, metrics)

	_, err := svc.Run(context.Background(), waterScenario())
	if err == nil {
		t.Fatal("expected upstream error")
	}

	if len(metrics.upstreamFailures) != 1 {
		t.Fatalf("upstream failure metrics = %d, want 1", len(metrics.upstreamFailures))
	}
	if metrics.upstreamFailures[0] != types.DomainWater {
		t.Errorf("upstream failure domain = %q, want water", metrics.upstreamFailures[0])
	}
	if len(metrics.domains) != 0 {
		t.Error("failed run must not record a simulation metric")
	}
}

func TestRun_RegionDirectoryFailureRecordsUpstreamMetric(t *testing.T) {
	store := &mockStore{regionsErr: errors.New("timeout")}
	metrics := &mockMetrics{}
	svc := newTestService(store, nil, metrics)

	_, err := svc.Run(context.Background(), waterScenario())
	if err == nil {
		t.Fatal("expected upstream error")
	}
	if len(metrics.upstreamFailures) != 1 {
		t.Fatalf("upstream failure metrics = %d, want 1", len(metrics.upstreamFailures))
	}
}

func TestRun_RegionDirectoryFailurePropagatesAsUpstream(t *testing.T) {
	store := &mockStore{regionsErr: errors.New("timeout")}
	svc := newTestService(store, nil, nil)

	_, err := svc.Run(context.Background(), waterScenario())
	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeUpstreamHistory {
		t.Fatalf("error = %v, want upstream AppError", err)
	}
}

func TestRun_PublisherFailureDoesNotFailRun(t *testing.T) {
	store := &mockStore{regions: testRegions(), water: testWaterRecords()}
	pub := &mockPublisher{err: errors.New("queue unavailable")}
	svc := newTestService(store, pub, nil)

	resp, err := svc.Run(context.Background(), waterScenario())
	if err != nil {
		t.Fatalf("publish failure must not fail the run: %v", err)
	}
	if resp == nil || len(resp.DailyResults) != 2 {
		t.Errorf("response = %+v", resp)
	}
}

func TestRun_UnknownRegionFallsBackToID(t *testing.T) {
	store := &mockStore{
		regions: testRegions(),
		water: []types.WaterRecord{
			{RegionID: "zzz", Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), DemandML: 100, SupplyML: 90, ReservoirPct: 50},
		},
	}
	svc := newTestService(store, nil, nil)

	resp, err := svc.Run(context.Background(), waterScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.DailyResults[0].RegionName != "zzz" {
		t.Errorf("region name = %q, want ID fallback", resp.DailyResults[0].RegionName)
	}
}

// --- Outlook Tests ---

func TestOutlook_AllDomains(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	store := &mockStore{
		regions: testRegions(),
		energy: []types.EnergyRecord{
			{RegionID: "nrt", Date: day, DemandMWh: 5000, SupplyMWh: 5200},
		},
		water: testWaterRecords(),
		agriculture: []types.AgricultureRecord{
			{RegionID: "sth", Date: day, IrrigationDemandML: 8000, IrrigationSupplyML: 7000},
		},
	}
	svc := newTestService(store, nil, nil)

	resp, err := svc.Outlook(context.Background(), "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Domains) != 3 {
		t.Fatalf("domains = %d, want 3", len(resp.Domains))
	}
	want := []types.Domain{types.DomainEnergy, types.DomainWater, types.DomainAgriculture}
	for i, d := range want {
		if resp.Domains[i].Domain != d {
			t.Errorf("domains[%d] = %s, want %s", i, resp.Domains[i].Domain, d)
		}
	}
	if resp.Domains[0].Summary.ResultCount != 1 {
		t.Errorf("energy result count = %d, want 1", resp.Domains[0].Summary.ResultCount)
	}
	// Agriculture is short 1000 ML of irrigation on its only day (stress
	// 0.125), below the critical threshold, so unmet demand still registers.
	if resp.Domains[2].Summary.TotalUnmetDemand != 1000 {
		t.Errorf("agriculture unmet = %v, want 1000", resp.Domains[2].Summary.TotalUnmetDemand)
	}
	if resp.StartDate != "2026-03-01" || resp.EndDate != "2026-03-31" {
		t.Errorf("window = %s..%s", resp.StartDate, resp.EndDate)
	}
}

func TestOutlook_DomainFailureFailsOutlook(t *testing.T) {
	store := &mockStore{regions: testRegions(), recordsErr: errors.New("down")}
	svc := newTestService(store, nil, nil)

	_, err := svc.Outlook(context.Background(), "2026-03-01", "2026-03-31")
	if err == nil {
		t.Fatal("expected outlook to fail when a domain fails")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeUpstreamHistory {
		t.Fatalf("error = %v, want upstream AppError", err)
	}
}

func TestOutlook_BadDatesRejected(t *testing.T) {
	svc := newTestService(&mockStore{}, nil, nil)

	_, err := svc.Outlook(context.Background(), "2026-03-31", "2026-03-01")
	if err == nil {
		t.Fatal("expected validation error for inverted window")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeValidationInvalidScenario {
		t.Fatalf("error = %v, want validation AppError", err)
	}
}
