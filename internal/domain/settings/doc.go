// Package settings holds the shell appearance and lock screen state.
//
// The Store is the single writer of theme, wallpaper, accent color and the
// logged-in flag. Every change is published to subscribers (persistence,
// event stream). Accent colors are validated #RRGGBB values; the pressed
// shade shown on interactive elements is derived with AccentDark.
//
// Quick settings (Wi-Fi, Bluetooth, brightness, volume) ride along in the
// same snapshot. Slider levels are clamped to MinLevel..MaxLevel.
package settings
