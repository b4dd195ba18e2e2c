package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kestrelops/skywatch/internal/api"
	"github.com/kestrelops/skywatch/internal/state"
)

const defaultInterval = 5 * time.Second

// ErrEngineStopped is returned by operations invoked after Stop.
var ErrEngineStopped = errors.New("sync engine stopped")

// Options configure the engine.
type Options struct {
	// Interval between global refresh cycles. Defaults to 5 seconds.
	Interval time.Duration

	// Clock overrides time handling; nil uses the real clock.
	Clock Clock

	// Logger receives structured engine events. The zero value discards them.
	Logger zerolog.Logger
}

// Engine drives the repeating refresh cycle against the fleet backend and
// owns every write into the view state store: global cycles, detail fetches
// for the current selection, and optimistic mutations.
type Engine struct {
	client   api.Backend
	store    *state.Store
	clock    Clock
	interval time.Duration
	log      zerolog.Logger

	inFlight  atomic.Bool
	closed    atomic.Bool
	done      chan struct{}
	refreshCh chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates an engine writing into store via client.
func New(client api.Backend, store *state.Store, opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Engine{
		client:    client,
		store:     store,
		clock:     clock,
		interval:  interval,
		log:       opts.Logger,
		done:      make(chan struct{}),
		refreshCh: make(chan struct{}, 1),
	}
}

// Start launches the refresh loop in a background goroutine and returns
// immediately. The first cycle runs right away, not after the first tick.
func (e *Engine) Start(ctx context.Context) {
	e.wg.Add(1)
	go e.run(ctx)
}

func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	ticker := e.clock.Ticker(e.interval)
	defer ticker.Stop()

	e.log.Info().Dur("interval", e.interval).Msg("Starting sync engine")

	e.beginCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case <-ticker.Chan():
			e.beginCycle(ctx)
		case <-e.refreshCh:
			e.beginCycle(ctx)
		}
	}
}

// Stop tears the engine down: the ticker loop exits, and any still
// in-flight results are discarded before they can touch the store. Stop
// blocks until outstanding operations have drained and is safe to call
// more than once.
func (e *Engine) Stop() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.done)
		e.log.Info().Msg("Stopping sync engine")
	})
	e.wg.Wait()
}

// ForceRefresh requests a global cycle now. The request is dropped if one
// is already queued; a cycle already in flight still wins over the request
// when it fires.
func (e *Engine) ForceRefresh() {
	if e.closed.Load() {
		return
	}
	select {
	case e.refreshCh <- struct{}{}:
	default:
	}
}

// Select focuses droneID for detail view. The selection is visible in the
// store before this returns; the telemetry fetch resolves in the background
// and is discarded if the selection has moved on by then.
func (e *Engine) Select(ctx context.Context, droneID string) {
	if e.closed.Load() {
		return
	}
	gen := e.store.Select(droneID)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.fetchDetail(ctx, droneID, gen)
	}()
}

// ClearSelection drops the detail focus and its telemetry.
func (e *Engine) ClearSelection() {
	if e.closed.Load() {
		return
	}
	e.store.ClearSelection()
}

// Acknowledge optimistically marks an alert acknowledged, then confirms
// with the backend. When the alert is unknown or already acknowledged this
// is a no-op and no network call is made. On backend failure the local
// flag is rolled back to its pre-mutation value.
func (e *Engine) Acknowledge(ctx context.Context, alertID string) {
	if e.closed.Load() {
		return
	}
	if !e.store.AckAlert(alertID) {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.client.AcknowledgeAlert(ctx, alertID); err != nil {
			if e.closed.Load() {
				return
			}
			e.store.RevertAck(alertID)
			e.log.Warn().Err(err).Str("alert_id", alertID).Msg("Acknowledge failed, rolled back")
			return
		}
		e.store.ConfirmAck(alertID)
	}()
}

// GenerateMockData asks the backend to synthesize fresh sample data, then
// requests an immediate refresh so the new data shows up without waiting
// for the next tick.
func (e *Engine) GenerateMockData(ctx context.Context) error {
	if e.closed.Load() {
		return ErrEngineStopped
	}
	if err := e.client.GenerateMockData(ctx); err != nil {
		e.log.Warn().Err(err).Msg("Mock data generation failed")
		return err
	}
	e.ForceRefresh()
	return nil
}

// beginCycle starts a global cycle unless one is already in flight, in
// which case the trigger is dropped, never queued.
func (e *Engine) beginCycle(ctx context.Context) {
	if e.closed.Load() {
		return
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		e.log.Debug().Msg("Cycle already in flight, dropping tick")
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.inFlight.Store(false)
		e.cycle(ctx)
	}()
}

// cycle performs one global refresh: the three fleet resources are fetched
// concurrently and committed to the store all-or-nothing. While a selection
// is active its telemetry is refetched afterwards, regardless of how the
// global fetches went.
func (e *Engine) cycle(ctx context.Context) {
	started := e.clock.Now()

	var (
		drones    []api.Drone
		alerts    []api.Alert
		stats     *api.Stats
		dronesErr error
		alertsErr error
		statsErr  error
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		drones, dronesErr = e.client.ListDrones(ctx)
	}()
	go func() {
		defer wg.Done()
		alerts, alertsErr = e.client.ListAlerts(ctx)
	}()
	go func() {
		defer wg.Done()
		stats, statsErr = e.client.FetchStats(ctx)
	}()
	wg.Wait()

	if e.closed.Load() {
		e.log.Debug().Msg("Discarding cycle results after stop")
		return
	}

	if err := errors.Join(dronesErr, alertsErr, statsErr); err != nil {
		e.store.ApplyCycleError(fmt.Errorf("refresh failed: %w", err))
		e.log.Warn().Err(err).Msg("Global cycle failed, keeping last-known-good data")
	} else {
		e.store.ApplyCycle(drones, alerts, *stats)
		e.log.Debug().
			Int("drones", len(drones)).
			Int("alerts", len(alerts)).
			Dur("elapsed", e.clock.Now().Sub(started)).
			Msg("Global cycle committed")
	}

	if id, gen := e.store.Selection(); id != "" {
		e.fetchDetail(ctx, id, gen)
	}
}

// fetchDetail fetches telemetry for one drone and writes it back only when
// gen still matches the store's selection generation.
func (e *Engine) fetchDetail(ctx context.Context, droneID string, gen uint64) {
	rec, err := e.client.FetchTelemetry(ctx, droneID)
	if e.closed.Load() {
		e.log.Debug().Str("drone_id", droneID).Msg("Discarding telemetry after stop")
		return
	}
	if err != nil {
		if e.store.SetDetailError(gen, err) {
			e.log.Warn().Err(err).Str("drone_id", droneID).Msg("Telemetry fetch failed")
		}
		return
	}
	if !e.store.SetTelemetry(gen, rec) {
		e.log.Debug().Str("drone_id", droneID).Msg("Discarding telemetry for superseded selection")
	}
}
