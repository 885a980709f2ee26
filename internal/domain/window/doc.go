// Package window implements the window manager state machine.
//
// The Manager owns every open window instance, the active window pointer and
// the z-index counter. All operations are serialized by a mutex and complete
// without I/O. Operations on unknown window ids are no-ops reported through a
// false return value.
//
// Stacking:
//   - zIndex values come from a strictly increasing counter starting at
//     types.ZIndexBase, so ties are impossible
//   - the window collection is kept sorted by ascending zIndex (draw order)
//   - focus always moves the target to the top
//
// Observers register with Subscribe and receive one Event per applied
// operation, carrying a copy of the resulting state. Events are delivered
// outside the manager lock; Seq orders them.
//
// Example Usage:
//
//	wm := window.NewManager(registry.Default(), window.Config{})
//	win, err := wm.Open(types.AppNotes)
//	wm.Maximize(win.ID)
//	wm.Restore(win.ID)
package window
