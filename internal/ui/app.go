package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kestrelops/skywatch/internal/prefs"
	"github.com/kestrelops/skywatch/internal/state"
)

// Controller is the action surface the UI drives on user input. It is
// implemented by *sync.Engine.
type Controller interface {
	Select(ctx context.Context, droneID string)
	ClearSelection()
	Acknowledge(ctx context.Context, alertID string)
	GenerateMockData(ctx context.Context) error
	ForceRefresh()
}

// pane identifies which panel has keyboard focus.
type pane int

const (
	paneFleet pane = iota
	paneAlerts
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Engine    Controller
	Store     *state.Store
	ThemeName string
	PrefsPath string

	// RenderTick is how often the UI re-reads the store. Defaults to 1s.
	RenderTick time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx        context.Context
	engine     Controller
	store      *state.Store
	prefsPath  string
	renderTick time.Duration

	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	snapshot    state.Snapshot
	lastUpdated time.Time

	focused     pane
	fleetCursor int
	alertCursor int

	spin     spinner.Model
	showHelp bool
	notice   string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	renderTick := opts.RenderTick
	if renderTick <= 0 {
		renderTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Midnight"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:        ctx,
		engine:     opts.Engine,
		store:      opts.Store,
		prefsPath:  prefsPath,
		renderTick: renderTick,
		theme:      GetTheme(themeName),
		keys:       DefaultKeyMap(),
		spin:       sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.renderTick),
		m.spin.Tick,
	}
	// Read the store immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		cmds = append(cmds, tickCmd(m.renderTick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.clampCursors()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case mockDoneMsg:
		if msg.err != nil {
			m.notice = "mock generation failed: " + msg.err.Error()
		} else {
			m.notice = "mock data requested"
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focused == paneFleet {
			m.focused = paneAlerts
		} else {
			m.focused = paneFleet
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.engine != nil {
			m.engine.ClearSelection()
		}
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.engine != nil {
			m.engine.ForceRefresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.GenerateMock):
		return m, mockGenCmd(m.ctx, m.engine)

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.setCursor(0)
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.setCursor(int(^uint(0) >> 1))
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.focused == paneFleet {
			if id, ok := m.highlightedDrone(); ok && m.engine != nil {
				m.engine.Select(m.ctx, id)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Acknowledge):
		if id, ok := m.highlightedAlert(); ok && m.engine != nil {
			m.engine.Acknowledge(m.ctx, id)
			if m.store != nil {
				// Re-read the store so the optimistic flip shows this frame.
				return m, fetchSnapshotCmd(m.store)
			}
		}
		return m, nil
	}

	return m, nil
}

// moveCursor shifts the cursor of the focused pane by delta, clamped.
func (m *Model) moveCursor(delta int) {
	m.setCursor(m.cursor() + delta)
}

func (m *Model) cursor() int {
	if m.focused == paneAlerts {
		return m.alertCursor
	}
	return m.fleetCursor
}

func (m *Model) setCursor(pos int) {
	limit := len(m.snapshot.Drones)
	if m.focused == paneAlerts {
		limit = len(m.snapshot.Alerts)
	}
	if pos >= limit {
		pos = limit - 1
	}
	if pos < 0 {
		pos = 0
	}
	if m.focused == paneAlerts {
		m.alertCursor = pos
	} else {
		m.fleetCursor = pos
	}
}

func (m *Model) clampCursors() {
	if m.fleetCursor >= len(m.snapshot.Drones) {
		m.fleetCursor = max(0, len(m.snapshot.Drones)-1)
	}
	if m.alertCursor >= len(m.snapshot.Alerts) {
		m.alertCursor = max(0, len(m.snapshot.Alerts)-1)
	}
}

// highlightedDrone returns the drone id under the fleet cursor.
func (m Model) highlightedDrone() (string, bool) {
	ordered := orderFleet(m.snapshot.Drones)
	if m.fleetCursor < 0 || m.fleetCursor >= len(ordered) {
		return "", false
	}
	return ordered[m.fleetCursor].DroneID, true
}

// highlightedAlert returns the alert id under the alert cursor.
func (m Model) highlightedAlert() (string, bool) {
	ordered := orderAlerts(m.snapshot.Alerts)
	if m.alertCursor < 0 || m.alertCursor >= len(ordered) {
		return "", false
	}
	return ordered[m.alertCursor].ID, true
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type mockDoneMsg struct {
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func mockGenCmd(ctx context.Context, engine Controller) tea.Cmd {
	if engine == nil {
		return nil
	}
	return func() tea.Msg {
		return mockDoneMsg{err: engine.GenerateMockData(ctx)}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
