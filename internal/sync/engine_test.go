package sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelops/skywatch/internal/api"
	"github.com/kestrelops/skywatch/internal/state"
)

const waitFor = 2 * time.Second

// stubBackend is a controllable api.Backend for engine tests. Gates let a
// test hold individual fetches in flight and release them on cue.
type stubBackend struct {
	mu             gosync.Mutex
	droneCalls     int
	alertCalls     int
	statsCalls     int
	telemetryCalls int
	ackCalls       int
	mockCalls      int

	drones []api.Drone
	alerts []api.Alert
	stats  api.Stats

	dronesErr error
	alertsErr error
	statsErr  error
	ackErr    error
	mockErr   error

	telemetry     map[string]*api.TelemetryRecord
	telemetryErr  error
	cycleGate     chan struct{}
	telemetryGate map[string]chan struct{}
}

var _ api.Backend = (*stubBackend)(nil)

func (b *stubBackend) ListDrones(context.Context) ([]api.Drone, error) {
	b.mu.Lock()
	b.droneCalls++
	gate := b.cycleGate
	drones, err := b.drones, b.dronesErr
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return drones, err
}

func (b *stubBackend) ListAlerts(context.Context) ([]api.Alert, error) {
	b.mu.Lock()
	b.alertCalls++
	gate := b.cycleGate
	alerts, err := b.alerts, b.alertsErr
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return alerts, err
}

func (b *stubBackend) FetchStats(context.Context) (*api.Stats, error) {
	b.mu.Lock()
	b.statsCalls++
	gate := b.cycleGate
	stats, err := b.stats, b.statsErr
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (b *stubBackend) FetchTelemetry(_ context.Context, droneID string) (*api.TelemetryRecord, error) {
	b.mu.Lock()
	b.telemetryCalls++
	gate := b.telemetryGate[droneID]
	rec := b.telemetry[droneID]
	err := b.telemetryErr
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &api.RequestError{Op: "fetch telemetry", Err: errors.New("unknown drone")}
	}
	copied := *rec
	return &copied, nil
}

func (b *stubBackend) AcknowledgeAlert(context.Context, string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ackCalls++
	return b.ackErr
}

func (b *stubBackend) GenerateMockData(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mockCalls++
	return b.mockErr
}

func (b *stubBackend) calls() (drones, alerts, stats int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.droneCalls, b.alertCalls, b.statsCalls
}

// fakeClock drives the engine's ticker by hand.
type fakeClock struct {
	ch chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{ch: make(chan time.Time)}
}

func (c *fakeClock) Now() time.Time { return time.Now() }

func (c *fakeClock) Ticker(time.Duration) Ticker { return c }

func (c *fakeClock) Chan() <-chan time.Time { return c.ch }

func (c *fakeClock) Stop() {}

func (c *fakeClock) tick() { c.ch <- time.Time{} }

func fleetBackend() *stubBackend {
	return &stubBackend{
		drones: []api.Drone{
			{DroneID: "drone-001", Name: "Alpha", Status: api.StatusOnline, BatteryPct: 80, RiskScore: 0.1},
			{DroneID: "drone-002", Name: "Bravo", Status: api.StatusWarning, BatteryPct: 15, RiskScore: 0.8},
			{DroneID: "drone-003", Name: "Charlie", Status: api.StatusOnline, BatteryPct: 50, RiskScore: 0.4},
		},
		alerts: []api.Alert{
			{ID: "alert-1", DroneID: "drone-002", Severity: api.SeverityCritical},
			{ID: "alert-2", DroneID: "drone-001", Severity: api.SeverityWarning, Acknowledged: true},
		},
		stats: api.Stats{TotalDrones: 3, Online: 2, Warning: 1, Unacknowledged: 1},
	}
}

func TestEngine_CycleAtomicOnPartialFailure(t *testing.T) {
	backend := fleetBackend()
	store := state.NewStore()
	e := New(backend, store, Options{})

	e.cycle(context.Background())
	good := store.Snapshot()
	require.Len(t, good.Drones, 3)
	require.True(t, good.HasStats)

	// Next cycle: drones and alerts still succeed, stats fails.
	backend.mu.Lock()
	backend.stats = api.Stats{TotalDrones: 99}
	backend.statsErr = errors.New("stats endpoint down")
	backend.drones = backend.drones[:1]
	backend.mu.Unlock()

	e.cycle(context.Background())

	snap := store.Snapshot()
	assert.Len(t, snap.Drones, 3, "partial cycle must not overwrite drones")
	assert.Equal(t, good.Stats, snap.Stats, "partial cycle must not overwrite stats")
	assert.Len(t, snap.Alerts, 2, "partial cycle must not overwrite alerts")
	require.Error(t, snap.LastError)
	assert.Equal(t, 1, snap.ConsecutiveFailures)

	// Recovery on the next successful cycle clears the error.
	backend.mu.Lock()
	backend.statsErr = nil
	backend.mu.Unlock()
	e.cycle(context.Background())
	snap = store.Snapshot()
	assert.NoError(t, snap.LastError)
	assert.Len(t, snap.Drones, 1)
}

func TestEngine_DropsTickWhileCycleInFlight(t *testing.T) {
	backend := fleetBackend()
	gate := make(chan struct{})
	backend.cycleGate = gate

	store := state.NewStore()
	clock := newFakeClock()
	e := New(backend, store, Options{Clock: clock})

	e.Start(context.Background())
	defer e.Stop()

	// The immediate first cycle is now blocked on the gate. Each fetch has
	// been issued exactly once.
	require.Eventually(t, func() bool {
		d, a, s := backend.calls()
		return d == 1 && a == 1 && s == 1
	}, waitFor, 10*time.Millisecond)

	// Ticks while busy are dropped: no duplicate calls are issued.
	clock.tick()
	clock.tick()
	d, a, s := backend.calls()
	assert.Equal(t, []int{1, 1, 1}, []int{d, a, s}, "busy ticks must not fan out new fetches")

	close(gate)
	require.Eventually(t, func() bool {
		return store.Snapshot().HasStats
	}, waitFor, 10*time.Millisecond)

	// With the cycle settled, the next tick runs a fresh one.
	backend.mu.Lock()
	backend.cycleGate = nil
	backend.mu.Unlock()
	clock.tick()
	require.Eventually(t, func() bool {
		d, _, _ := backend.calls()
		return d == 2
	}, waitFor, 10*time.Millisecond)
}

func TestEngine_DiscardsStaleTelemetry(t *testing.T) {
	backend := fleetBackend()
	gateA := make(chan struct{})
	backend.telemetry = map[string]*api.TelemetryRecord{
		"drone-001": {DroneID: "drone-001", TimestampMS: 1, Inference: api.Inference{AnomalyType: "voltage_sag"}},
		"drone-002": {DroneID: "drone-002", TimestampMS: 2, Inference: api.Inference{AnomalyType: "vibration"}},
	}
	backend.telemetryGate = map[string]chan struct{}{"drone-001": gateA}

	store := state.NewStore()
	e := New(backend, store, Options{})

	ctx := context.Background()
	e.Select(ctx, "drone-001")
	require.Equal(t, "drone-001", store.Snapshot().SelectedID,
		"selection must be visible before the fetch resolves")

	// Reselect before A's fetch resolves.
	e.Select(ctx, "drone-002")
	require.Eventually(t, func() bool {
		snap := store.Snapshot()
		return snap.Telemetry != nil && snap.Telemetry.DroneID == "drone-002"
	}, waitFor, 10*time.Millisecond)

	// A's fetch now resolves successfully while the engine is still live,
	// but it belongs to a superseded selection and must be dropped.
	close(gateA)
	assert.Never(t, func() bool {
		snap := store.Snapshot()
		return snap.Telemetry != nil && snap.Telemetry.DroneID == "drone-001"
	}, 300*time.Millisecond, 20*time.Millisecond)
	e.Stop()

	snap := store.Snapshot()
	require.NotNil(t, snap.Telemetry)
	assert.Equal(t, "drone-002", snap.Telemetry.DroneID)
	assert.Equal(t, "vibration", snap.Telemetry.Inference.AnomalyType)
}

func TestEngine_CycleRefreshesActiveSelection(t *testing.T) {
	backend := fleetBackend()
	backend.telemetry = map[string]*api.TelemetryRecord{
		"drone-002": {DroneID: "drone-002", TimestampMS: 2},
	}
	store := state.NewStore()
	e := New(backend, store, Options{})

	ctx := context.Background()
	e.Select(ctx, "drone-002")
	e.Stop()

	before := backend.telemetryCalls
	e2 := New(backend, store, Options{})
	// Telemetry refresh rides the cycle even when a global fetch fails.
	backend.statsErr = errors.New("stats down")
	e2.cycle(ctx)

	assert.Equal(t, before+1, backend.telemetryCalls,
		"cycle should refetch telemetry for the active selection")
	snap := store.Snapshot()
	require.NotNil(t, snap.Telemetry)
	assert.Equal(t, "drone-002", snap.Telemetry.DroneID)
	assert.Error(t, snap.LastError)
}

func TestEngine_DetailFailureDoesNotDegradeGlobalState(t *testing.T) {
	backend := fleetBackend()
	backend.telemetryErr = errors.New("telemetry 500")
	store := state.NewStore()
	e := New(backend, store, Options{})

	ctx := context.Background()
	e.cycle(ctx)
	e.Select(ctx, "drone-001")
	e.Stop()

	snap := store.Snapshot()
	assert.Error(t, snap.DetailError)
	assert.NoError(t, snap.LastError)
	assert.Equal(t, "drone-001", snap.SelectedID, "selection survives a detail failure")
}

func TestEngine_AcknowledgeIdempotent(t *testing.T) {
	backend := fleetBackend()
	store := state.NewStore()
	e := New(backend, store, Options{})

	ctx := context.Background()
	e.cycle(ctx)

	e.Acknowledge(ctx, "alert-1")
	e.Acknowledge(ctx, "alert-1")
	e.Acknowledge(ctx, "alert-2")       // already acknowledged upstream
	e.Acknowledge(ctx, "no-such-alert") // unknown
	e.Stop()

	assert.Equal(t, 1, backend.ackCalls, "only the first acknowledge may reach the backend")
	assert.Equal(t, 0, store.Snapshot().Unacknowledged())
}

func TestEngine_AcknowledgeRollsBackOnFailure(t *testing.T) {
	backend := fleetBackend()
	backend.ackErr = errors.New("ack rejected")
	store := state.NewStore()
	e := New(backend, store, Options{})

	ctx := context.Background()
	e.cycle(ctx)
	require.Equal(t, 1, store.Snapshot().Unacknowledged())

	e.Acknowledge(ctx, "alert-1")
	e.Stop()

	assert.Equal(t, 1, store.Snapshot().Unacknowledged(),
		"failed acknowledge must be rolled back")
}

func TestEngine_StopDiscardsInFlightResults(t *testing.T) {
	backend := fleetBackend()
	gate := make(chan struct{})
	backend.cycleGate = gate

	store := state.NewStore()
	clock := newFakeClock()
	e := New(backend, store, Options{Clock: clock})
	e.Start(context.Background())

	require.Eventually(t, func() bool {
		d, _, _ := backend.calls()
		return d == 1
	}, waitFor, 10*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		e.Stop()
		close(stopped)
	}()

	close(gate)
	select {
	case <-stopped:
	case <-time.After(waitFor):
		t.Fatal("Stop did not drain in-flight cycle")
	}

	snap := store.Snapshot()
	assert.Empty(t, snap.Drones, "results resolving after Stop must not mutate the store")
	assert.False(t, snap.HasStats)

	// Post-teardown operations are inert.
	e.ForceRefresh()
	e.Acknowledge(context.Background(), "alert-1")
	assert.Equal(t, 0, backend.ackCalls)
	assert.ErrorIs(t, e.GenerateMockData(context.Background()), ErrEngineStopped)
}

func TestEngine_GenerateMockDataForcesRefresh(t *testing.T) {
	backend := fleetBackend()
	store := state.NewStore()
	clock := newFakeClock()
	e := New(backend, store, Options{Clock: clock})

	e.Start(context.Background())
	defer e.Stop()

	require.Eventually(t, func() bool {
		return store.Snapshot().HasStats
	}, waitFor, 10*time.Millisecond)

	require.NoError(t, e.GenerateMockData(context.Background()))
	assert.Equal(t, 1, backend.mockCalls)

	require.Eventually(t, func() bool {
		d, _, _ := backend.calls()
		return d >= 2
	}, waitFor, 10*time.Millisecond, "mock generation should trigger a fresh cycle")
}

func TestEngine_EndToEnd(t *testing.T) {
	drones := []api.Drone{
		{DroneID: "drone-001", Name: "Alpha", Status: api.StatusOnline, BatteryPct: 80, RiskScore: 0.1},
		{DroneID: "drone-002", Name: "Bravo", Status: api.StatusWarning, BatteryPct: 15, RiskScore: 0.8},
		{DroneID: "drone-003", Name: "Charlie", Status: api.StatusOnline, BatteryPct: 50, RiskScore: 0.4},
	}
	alerts := []api.Alert{
		{ID: "alert-1", DroneID: "drone-002", Severity: api.SeverityCritical, Acknowledged: true},
		{ID: "alert-2", DroneID: "drone-002", Severity: api.SeverityWarning},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/drones":
			_ = json.NewEncoder(w).Encode(drones)
		case "/api/alerts":
			_ = json.NewEncoder(w).Encode(alerts)
		case "/api/stats":
			_ = json.NewEncoder(w).Encode(api.Stats{TotalDrones: 3, Online: 2, Warning: 1, TotalAlerts: 2, Unacknowledged: 1})
		case "/api/drones/drone-002/telemetry":
			_ = json.NewEncoder(w).Encode(api.TelemetryRecord{
				DroneID:     "drone-002",
				TimestampMS: 1700000000000,
				Inference:   api.Inference{RiskScore: 0.8, AnomalyType: "vibration", Confidence: 0.92},
				Physics:     api.Physics{Roll: 1.2, Pitch: -0.4, VibeX: 30.5},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL)
	require.NoError(t, err)

	store := state.NewStore()
	clock := newFakeClock()
	e := New(client, store, Options{Clock: clock})

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	t.Cleanup(cancel)

	e.Start(ctx)
	defer e.Stop()

	require.Eventually(t, func() bool {
		snap := store.Snapshot()
		return len(snap.Drones) == 3 && snap.HasStats
	}, waitFor, 10*time.Millisecond)

	snap := store.Snapshot()
	assert.Equal(t, 1, snap.Unacknowledged())
	assert.InDelta(t, 15, snap.Drones[1].BatteryPct, 0.001)

	e.Select(ctx, "drone-002")
	require.Eventually(t, func() bool {
		snap := store.Snapshot()
		return snap.Telemetry != nil
	}, waitFor, 10*time.Millisecond)

	snap = store.Snapshot()
	require.NotNil(t, snap.Telemetry)
	assert.Equal(t, "vibration", snap.Telemetry.Inference.AnomalyType)
	assert.InDelta(t, 0.8, snap.Telemetry.Inference.RiskScore, 0.001)
}
