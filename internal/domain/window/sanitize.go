package window

import (
	"sort"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// Sanitize returns a copy of the state safe to restore: every window is
// visible, neither minimized nor maximized, z-indices are reassigned into
// ZIndexBase+1..ZIndexBase+n preserving stacking order, and no window is
// active.
func Sanitize(state types.WindowState) types.WindowState {
	windows := make([]types.WindowInstance, len(state.Windows))
	copy(windows, state.Windows)

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].ZIndex < windows[j].ZIndex
	})

	for i := range windows {
		windows[i].IsMinimized = false
		windows[i].IsMaximized = false
		windows[i].IsVisible = true
		windows[i].ZIndex = types.ZIndexBase + i + 1
	}

	return types.WindowState{
		Windows:       windows,
		HighestZIndex: types.ZIndexBase + len(windows),
	}
}

// filterKnown drops windows with an empty or duplicate id, an unknown app,
// or a second instance of a singleton app. The first occurrence in stacking
// order wins.
func filterKnown(state types.WindowState, lookup func(types.AppID) (types.AppDescriptor, bool)) types.WindowState {
	ordered := make([]types.WindowInstance, len(state.Windows))
	copy(ordered, state.Windows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ZIndex < ordered[j].ZIndex
	})

	seenIDs := make(map[string]bool, len(ordered))
	seenSingletons := make(map[types.AppID]bool)
	kept := make([]types.WindowInstance, 0, len(ordered))

	for _, w := range ordered {
		desc, ok := lookup(w.AppID)
		if !ok || w.ID == "" || seenIDs[w.ID] {
			continue
		}
		if desc.Singleton {
			if seenSingletons[w.AppID] {
				continue
			}
			seenSingletons[w.AppID] = true
		}
		if w.Title == "" {
			w.Title = desc.Name
		}
		seenIDs[w.ID] = true
		kept = append(kept, w)
	}

	return types.WindowState{Windows: kept, HighestZIndex: state.HighestZIndex}
}
