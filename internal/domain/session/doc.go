// Package session persists window manager and settings snapshots.
//
// Snapshots are written to a kv.Store as JSON envelopes under fixed keys:
//   - win11-os-app-state-storage: sanitized window collection
//   - win11-os-settings-storage: theme, wallpaper, accent color, login flag
//     and quick settings
//   - notes-app-content-<instance id>: per-window note text
//
// Persistence is best effort. Load never fails: a missing key or a corrupt
// value yields the empty default and is logged. Writes go through a circuit
// breaker and are normally driven by a Flusher, which coalesces bursts of
// state changes into a single write of the latest value and retries on the
// next change after a failure.
//
// Example Usage:
//
//	adapter := session.NewAdapter(store, nil, logger)
//	wm.Hydrate(adapter.Load(ctx))
//	flusher := session.NewFlusher("windows", adapter.Save, logger, 250*time.Millisecond)
//	go flusher.Run(ctx)
//	wm.Subscribe(func(ev window.Event) { flusher.Enqueue(ev.State) })
package session
