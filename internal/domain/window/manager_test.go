package window

import (
	"sync"
	"testing"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(registry.Default(), Config{ViewportWidth: 1920, ViewportHeight: 1080}).
		WithJitter(func() float64 { return 0 })
}

func mustOpen(t *testing.T, m *Manager, app types.AppID) types.WindowInstance {
	t.Helper()
	win, err := m.Open(app)
	require.NoError(t, err)
	return win
}

func assertSortedByZ(t *testing.T, state types.WindowState) {
	t.Helper()
	for i := 1; i < len(state.Windows); i++ {
		assert.Less(t, state.Windows[i-1].ZIndex, state.Windows[i].ZIndex, "windows must be in ascending zIndex order")
	}
}

func topmost(state types.WindowState) types.WindowInstance {
	return state.Windows[len(state.Windows)-1]
}

func TestOpen(t *testing.T) {
	m := newTestManager(t)

	win := mustOpen(t, m, types.AppNotes)

	assert.Equal(t, types.AppNotes, win.AppID)
	assert.Equal(t, "Notes", win.Title)
	assert.True(t, win.IsVisible)
	assert.False(t, win.IsMinimized)
	assert.False(t, win.IsMaximized)
	assert.Equal(t, types.ZIndexBase+1, win.ZIndex)
	assert.Equal(t, types.Geometry{X: 710, Y: 340, Width: 500, Height: 400}, win.Geometry)

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, win.ID, active.ID)
}

func TestOpenJitter(t *testing.T) {
	m := NewManager(registry.Default(), Config{})

	for i := 0; i < 50; i++ {
		win := mustOpen(t, m, types.AppTerminal)
		assert.GreaterOrEqual(t, win.Geometry.X, (1920.0-700)/2-JitterRange)
		assert.Less(t, win.Geometry.X, (1920.0-700)/2+JitterRange)
		assert.GreaterOrEqual(t, win.Geometry.Y, (1080.0-450)/2-JitterRange)
		assert.Less(t, win.Geometry.Y, (1080.0-450)/2+JitterRange)
	}
}

func TestOpenSmallViewportClampsToOrigin(t *testing.T) {
	m := NewManager(registry.Default(), Config{ViewportWidth: 400, ViewportHeight: 300}).
		WithJitter(func() float64 { return -JitterRange })

	win := mustOpen(t, m, types.AppBrowser)
	assert.Equal(t, 0.0, win.Geometry.X)
	assert.Equal(t, 0.0, win.Geometry.Y)
}

func TestOpenUnknownApp(t *testing.T) {
	m := newTestManager(t)
	mustOpen(t, m, types.AppNotes)
	before := m.State()

	_, err := m.Open("calculator")
	assert.ErrorIs(t, err, ErrUnknownApp)
	assert.Equal(t, before, m.State())
}

func TestOpenAssignsUniqueIDs(t *testing.T) {
	m := newTestManager(t)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		win := mustOpen(t, m, types.AppTerminal)
		assert.False(t, seen[win.ID], "duplicate id %s", win.ID)
		seen[win.ID] = true
	}
}

func TestCloseAndReopenGetsFreshID(t *testing.T) {
	m := newTestManager(t)

	first := mustOpen(t, m, types.AppSettings)
	require.True(t, m.Close(first.ID))
	second := mustOpen(t, m, types.AppSettings)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestSingletonDeduplication(t *testing.T) {
	m := newTestManager(t)

	first := mustOpen(t, m, types.AppSettings)
	mustOpen(t, m, types.AppNotes)

	for i := 0; i < 5; i++ {
		again := mustOpen(t, m, types.AppSettings)
		assert.Equal(t, first.ID, again.ID)
	}

	state := m.State()
	count := 0
	for _, w := range state.Windows {
		if w.AppID == types.AppSettings {
			count++
		}
	}
	assert.Equal(t, 1, count)
	require.NotNil(t, state.ActiveWindowID)
	assert.Equal(t, first.ID, *state.ActiveWindowID)
	assert.Equal(t, first.ID, topmost(state).ID)
}

func TestSingletonOpenIgnoresMinimizedInstance(t *testing.T) {
	m := newTestManager(t)

	first := mustOpen(t, m, types.AppSettings)
	require.True(t, m.Maximize(first.ID))
	require.True(t, m.Minimize(first.ID))

	again := mustOpen(t, m, types.AppSettings)
	assert.NotEqual(t, first.ID, again.ID)
	assert.True(t, again.IsVisible)
	assert.False(t, again.IsMinimized)
	assert.False(t, again.IsMaximized)

	state := m.State()
	assert.Len(t, state.Windows, 2)
	require.NotNil(t, state.ActiveWindowID)
	assert.Equal(t, again.ID, *state.ActiveWindowID)
	assert.Equal(t, again.ID, topmost(state).ID)

	old, ok := m.Get(first.ID)
	require.True(t, ok)
	assert.True(t, old.IsMinimized)

	third := mustOpen(t, m, types.AppSettings)
	assert.Equal(t, again.ID, third.ID)
	assert.Len(t, m.State().Windows, 2)
}

func TestNonSingletonOpensMultiple(t *testing.T) {
	m := newTestManager(t)

	mustOpen(t, m, types.AppNotes)
	mustOpen(t, m, types.AppNotes)

	assert.Len(t, m.State().Windows, 2)
}

func TestClose(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)
	b := mustOpen(t, m, types.AppTerminal)

	require.True(t, m.Close(b.ID))

	state := m.State()
	require.Len(t, state.Windows, 1)
	assert.Equal(t, a.ID, state.Windows[0].ID)
	assert.Nil(t, state.ActiveWindowID, "closing the active window must not promote another")

	assert.False(t, m.Close(b.ID))
	assert.False(t, m.Focus(b.ID))
	assert.False(t, m.Minimize(b.ID))
}

func TestCloseInactiveKeepsActive(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)
	b := mustOpen(t, m, types.AppTerminal)

	require.True(t, m.Close(a.ID))

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, b.ID, active.ID)
}

func TestMinimize(t *testing.T) {
	m := newTestManager(t)

	win := mustOpen(t, m, types.AppNotes)
	require.True(t, m.Minimize(win.ID))

	got, _ := m.Get(win.ID)
	assert.True(t, got.IsMinimized)
	assert.False(t, got.IsVisible)
	_, ok := m.Active()
	assert.False(t, ok)

	require.True(t, m.Minimize(win.ID))
	again, _ := m.Get(win.ID)
	assert.Equal(t, got, again)
}

func TestMinimizeInactiveKeepsActive(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)
	b := mustOpen(t, m, types.AppTerminal)

	require.True(t, m.Minimize(a.ID))

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, b.ID, active.ID)
}

func TestFocus(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)
	b := mustOpen(t, m, types.AppTerminal)
	c := mustOpen(t, m, types.AppBrowser)

	for _, target := range []string{a.ID, c.ID, b.ID, a.ID, a.ID} {
		require.True(t, m.Focus(target))

		state := m.State()
		assertSortedByZ(t, state)
		assert.Equal(t, target, topmost(state).ID)
		require.NotNil(t, state.ActiveWindowID)
		assert.Equal(t, target, *state.ActiveWindowID)
		assert.Equal(t, state.HighestZIndex, topmost(state).ZIndex)
	}
}

func TestFocusMinimizedIsNoop(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)
	b := mustOpen(t, m, types.AppTerminal)
	require.True(t, m.Minimize(a.ID))
	before := m.State()

	assert.False(t, m.Focus(a.ID))
	assert.Equal(t, before, m.State())

	active, _ := m.Active()
	assert.Equal(t, b.ID, active.ID)
}

func TestFocusMissingIsNoop(t *testing.T) {
	m := newTestManager(t)
	mustOpen(t, m, types.AppNotes)
	before := m.State()

	assert.False(t, m.Focus("win_missing"))
	assert.Equal(t, before, m.State())
}

func TestZIndexNeverRepeats(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)
	b := mustOpen(t, m, types.AppTerminal)
	m.Focus(a.ID)
	m.Close(a.ID)
	c := mustOpen(t, m, types.AppBrowser)
	m.Focus(b.ID)

	state := m.State()
	seen := make(map[int]bool)
	for _, w := range state.Windows {
		assert.False(t, seen[w.ZIndex])
		seen[w.ZIndex] = true
	}
	assert.Greater(t, c.ZIndex, a.ZIndex)
	assertSortedByZ(t, state)
}

func TestMaximize(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)
	mustOpen(t, m, types.AppTerminal)

	require.True(t, m.Maximize(a.ID))

	got, _ := m.Get(a.ID)
	assert.True(t, got.IsMaximized)
	assert.True(t, got.IsVisible)
	assert.False(t, got.IsMinimized)
	assert.Equal(t, a.Geometry, got.Geometry)

	state := m.State()
	assert.Equal(t, a.ID, topmost(state).ID)
	assert.Equal(t, a.ID, *state.ActiveWindowID)
}

func TestMaximizeMinimizedWindow(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)
	require.True(t, m.Minimize(a.ID))
	require.True(t, m.Maximize(a.ID))

	got, _ := m.Get(a.ID)
	assert.False(t, got.IsMinimized)
	assert.True(t, got.IsVisible)
	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, a.ID, active.ID)
}

func TestRestoreIdempotent(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)
	mustOpen(t, m, types.AppTerminal)
	require.True(t, m.Minimize(a.ID))

	require.True(t, m.Restore(a.ID))
	once := m.State()
	require.True(t, m.Restore(a.ID))
	twice := m.State()

	stripZ := func(s types.WindowState) types.WindowState {
		out := s.Clone()
		for i := range out.Windows {
			out.Windows[i].ZIndex = 0
		}
		out.HighestZIndex = 0
		return out
	}
	assert.Equal(t, stripZ(once), stripZ(twice))

	got, _ := m.Get(a.ID)
	assert.False(t, got.IsMinimized)
	assert.False(t, got.IsMaximized)
	assert.True(t, got.IsVisible)
	assert.Equal(t, a.ID, *twice.ActiveWindowID)
	assert.Equal(t, a.ID, topmost(twice).ID)
}

func TestMoveAndResize(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)

	require.True(t, m.Move(a.ID, 10, 20))
	require.True(t, m.Resize(a.ID, 640, 480))

	got, _ := m.Get(a.ID)
	assert.Equal(t, types.Geometry{X: 10, Y: 20, Width: 640, Height: 480}, got.Geometry)

	assert.False(t, m.Move("win_missing", 1, 1))
	assert.False(t, m.Resize("win_missing", 1, 1))
}

func TestMoveResizeIgnoredWhileMaximized(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)
	require.True(t, m.Maximize(a.ID))

	assert.False(t, m.Move(a.ID, 10, 10))
	assert.False(t, m.Resize(a.ID, 1, 1))

	got, _ := m.Get(a.ID)
	assert.Equal(t, a.Geometry, got.Geometry)
}

func TestScenarioSingletonSettings(t *testing.T) {
	m := newTestManager(t)

	explorer := mustOpen(t, m, types.AppFileExplorer)
	settings := mustOpen(t, m, types.AppSettings)
	mustOpen(t, m, types.AppSettings)

	state := m.State()
	require.Len(t, state.Windows, 2)
	assert.Equal(t, settings.ID, *state.ActiveWindowID)

	e, _ := m.Get(explorer.ID)
	s, _ := m.Get(settings.ID)
	assert.Greater(t, s.ZIndex, e.ZIndex)
}

func TestScenarioMaximizeMoveRestore(t *testing.T) {
	m := newTestManager(t)

	notes := mustOpen(t, m, types.AppNotes)
	before := notes.Geometry

	require.True(t, m.Maximize(notes.ID))
	m.Move(notes.ID, 10, 10)
	got, _ := m.Get(notes.ID)
	assert.Equal(t, before, got.Geometry)

	require.True(t, m.Restore(notes.ID))
	got, _ = m.Get(notes.ID)
	assert.Equal(t, before, got.Geometry)
	assert.False(t, got.IsMaximized)
}

func TestStats(t *testing.T) {
	m := newTestManager(t)

	a := mustOpen(t, m, types.AppNotes)
	b := mustOpen(t, m, types.AppTerminal)
	c := mustOpen(t, m, types.AppBrowser)
	m.Minimize(a.ID)
	m.Maximize(b.ID)

	stats := m.Stats()
	assert.Equal(t, 3, stats.TotalWindows)
	assert.Equal(t, 2, stats.VisibleWindows)
	assert.Equal(t, 1, stats.MinimizedWindows)
	assert.Equal(t, 1, stats.MaximizedWindows)
	require.NotNil(t, stats.ActiveWindowID)
	assert.Equal(t, b.ID, *stats.ActiveWindowID)
	assert.Equal(t, types.ZIndexBase+4, stats.HighestZIndex)
	_ = c
}

func TestStateReturnsCopy(t *testing.T) {
	m := newTestManager(t)
	a := mustOpen(t, m, types.AppNotes)

	state := m.State()
	state.Windows[0].Title = "mutated"
	*state.ActiveWindowID = "other"

	got, _ := m.Get(a.ID)
	assert.Equal(t, "Notes", got.Title)
	active, _ := m.Active()
	assert.Equal(t, a.ID, active.ID)
}

func TestSubscribe(t *testing.T) {
	m := newTestManager(t)

	var events []Event
	unsubscribe := m.Subscribe(func(ev Event) {
		events = append(events, ev)
	})

	a := mustOpen(t, m, types.AppNotes)
	m.Focus(a.ID)
	m.Focus("win_missing")
	m.Maximize(a.ID)
	m.Move(a.ID, 1, 1)
	m.Close(a.ID)

	require.Len(t, events, 4)
	assert.Equal(t, []Op{OpOpen, OpFocus, OpMaximize, OpClose}, []Op{events[0].Op, events[1].Op, events[2].Op, events[3].Op})
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Seq)
		assert.Equal(t, a.ID, ev.WindowID)
	}
	assert.Len(t, events[0].State.Windows, 1)
	assert.Empty(t, events[3].State.Windows)

	unsubscribe()
	unsubscribe()
	mustOpen(t, m, types.AppNotes)
	assert.Len(t, events, 4)
}

func TestSubscriberMayCallManager(t *testing.T) {
	m := newTestManager(t)

	var got types.WindowStats
	m.Subscribe(func(ev Event) {
		got = m.Stats()
	})

	mustOpen(t, m, types.AppNotes)
	assert.Equal(t, 1, got.TotalWindows)
}

func TestConcurrentOperations(t *testing.T) {
	m := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				win, err := m.Open(types.AppTerminal)
				if err != nil {
					continue
				}
				m.Focus(win.ID)
				m.Move(win.ID, float64(j), float64(j))
				if j%2 == 0 {
					m.Close(win.ID)
				}
			}
		}()
	}
	wg.Wait()

	state := m.State()
	assert.Len(t, state.Windows, 20*12)
	assertSortedByZ(t, state)
}
