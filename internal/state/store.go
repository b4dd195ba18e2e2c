package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/kestrelops/skywatch/internal/api"
)

// Snapshot represents the latest view state available to the UI.
type Snapshot struct {
	Drones   []api.Drone
	Alerts   []api.Alert
	Stats    api.Stats
	HasStats bool

	// SelectedID is the drone currently focused for detail view, if any.
	// Telemetry, when present, always belongs to SelectedID.
	SelectedID  string
	Telemetry   *api.TelemetryRecord
	DetailError error

	Loading             bool
	LastError           error
	LastUpdated         time.Time
	ConsecutiveFailures int // Number of consecutive cycle failures
}

// IsOffline returns true when the API has been unreachable for multiple cycles.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Unacknowledged counts alerts not yet acknowledged.
func (s Snapshot) Unacknowledged() int {
	n := 0
	for _, a := range s.Alerts {
		if !a.Acknowledged {
			n++
		}
	}
	return n
}

// SelectedDrone returns the summary for the current selection when it is
// still part of the fleet list.
func (s Snapshot) SelectedDrone() (api.Drone, bool) {
	if s.SelectedID == "" {
		return api.Drone{}, false
	}
	for _, d := range s.Drones {
		if d.DroneID == s.SelectedID {
			return d, true
		}
	}
	return api.Drone{}, false
}

// Store is the single source of truth for view state. All writers go
// through its mutation primitives; nothing reaches into nested fields.
type Store struct {
	mu           sync.RWMutex
	snapshot     Snapshot
	selectionGen uint64
	pendingAcks  map[string]struct{}
}

// NewStore returns a store in its initial loading state.
func NewStore() *Store {
	return &Store{
		snapshot:    Snapshot{Loading: true},
		pendingAcks: make(map[string]struct{}),
	}
}

// ApplyCycle atomically replaces drones, alerts, and stats with the results
// of one successful global cycle. Optimistic acknowledgements still awaiting
// backend confirmation are re-applied on top of the fresh alert payload so a
// refresh racing the acknowledge call cannot flip the flag back.
func (s *Store) ApplyCycle(drones []api.Drone, alerts []api.Alert, stats api.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := cloneAlerts(alerts)
	for i := range fresh {
		if _, pending := s.pendingAcks[fresh[i].ID]; pending {
			fresh[i].Acknowledged = true
		}
	}

	s.snapshot.Drones = cloneDrones(drones)
	s.snapshot.Alerts = fresh
	s.snapshot.Stats = stats
	s.snapshot.HasStats = true
	s.snapshot.Loading = false
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// ApplyCycleError records a failed global cycle. The previous drones,
// alerts, and stats are kept untouched so the UI can keep showing
// last-known-good data while degraded.
func (s *Store) ApplyCycleError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Loading = false
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// Select focuses one drone for detail view. Telemetry belonging to a
// previous selection is cleared in the same transition. The returned
// generation tags the detail fetch this selection triggers; only a write
// carrying the current generation is accepted.
func (s *Store) Select(droneID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectionGen++
	s.snapshot.SelectedID = droneID
	s.snapshot.Telemetry = nil
	s.snapshot.DetailError = nil
	return s.selectionGen
}

// ClearSelection drops the focus and its telemetry.
func (s *Store) ClearSelection() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectionGen++
	s.snapshot.SelectedID = ""
	s.snapshot.Telemetry = nil
	s.snapshot.DetailError = nil
	return s.selectionGen
}

// Selection returns the current selection and its generation.
func (s *Store) Selection() (string, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.SelectedID, s.selectionGen
}

// SetTelemetry writes a detail record if gen still matches the current
// selection generation. Stale results from a superseded selection are
// discarded and false is returned.
func (s *Store) SetTelemetry(gen uint64, rec *api.TelemetryRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.selectionGen || s.snapshot.SelectedID == "" || rec == nil {
		return false
	}
	copied := *rec
	s.snapshot.Telemetry = &copied
	s.snapshot.DetailError = nil
	return true
}

// SetDetailError records a failed detail fetch for the current selection.
// It never touches global state; the selection stays active.
func (s *Store) SetDetailError(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.selectionGen || s.snapshot.SelectedID == "" {
		return false
	}
	s.snapshot.DetailError = err
	return true
}

// AckAlert optimistically flips one alert's acknowledged flag by id.
// It reports false when the alert is unknown or already acknowledged,
// in which case nothing changes and no backend call should be made.
func (s *Store) AckAlert(alertID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snapshot.Alerts {
		if s.snapshot.Alerts[i].ID != alertID {
			continue
		}
		if s.snapshot.Alerts[i].Acknowledged {
			return false
		}
		s.snapshot.Alerts[i].Acknowledged = true
		if s.pendingAcks == nil {
			s.pendingAcks = make(map[string]struct{})
		}
		s.pendingAcks[alertID] = struct{}{}
		return true
	}
	return false
}

// ConfirmAck marks an optimistic acknowledgement as backend-confirmed.
func (s *Store) ConfirmAck(alertID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pendingAcks, alertID)
}

// RevertAck rolls back an optimistic acknowledgement after the backend
// call failed, restoring the flag to its pre-mutation value.
func (s *Store) RevertAck(alertID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pendingAcks, alertID)
	for i := range s.snapshot.Alerts {
		if s.snapshot.Alerts[i].ID == alertID {
			s.snapshot.Alerts[i].Acknowledged = false
			return
		}
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Drones = cloneDrones(s.snapshot.Drones)
	snap.Alerts = cloneAlerts(s.snapshot.Alerts)
	if s.snapshot.Telemetry != nil {
		copied := *s.snapshot.Telemetry
		snap.Telemetry = &copied
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneDrones(drones []api.Drone) []api.Drone {
	if len(drones) == 0 {
		return nil
	}
	dup := make([]api.Drone, len(drones))
	copy(dup, drones)
	return dup
}

func cloneAlerts(alerts []api.Alert) []api.Alert {
	if len(alerts) == 0 {
		return nil
	}
	dup := make([]api.Alert, len(alerts))
	copy(dup, alerts)
	return dup
}
