// Package registry provides the static catalog of application kinds.
//
// Descriptors are loaded once from a YAML manifest (embedded by default) and
// never mutated afterwards. Declaration order is preserved and drives the
// ordering of the start menu, desktop icons and taskbar.
//
// Example Usage:
//
//	reg := registry.Default()
//	desc, ok := reg.Get(types.AppNotes)
//	for _, d := range reg.Pinned() { ... }
package registry
