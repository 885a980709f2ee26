package settings

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/observer"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

var (
	ErrEmptyPassword    = errors.New("Password cannot be empty.")
	ErrInvalidTheme     = errors.New("theme must be light or dark")
	ErrInvalidWallpaper = errors.New("wallpaper must not be empty")
)

// DefaultWallpapers are the selectable wallpapers, first is the default
var DefaultWallpapers = []string{
	"https://picsum.photos/1920/1080?random=1",
	"https://picsum.photos/1920/1080?random=2",
	"https://picsum.photos/1920/1080?random=3",
	"https://picsum.photos/1920/1080?random=4",
}

// AccentColors are the selectable accent colors, first is the default
var AccentColors = []string{
	"#0078D4",
	"#D13438",
	"#00B7C3",
	"#50C878",
	"#FFB900",
	"#8E44AD",
}

// Quick settings slider bounds
const (
	MinLevel = 0
	MaxLevel = 100
)

// DefaultQuickSettings is the flyout state on first start
func DefaultQuickSettings() types.QuickSettings {
	return types.QuickSettings{
		WiFi:       true,
		Bluetooth:  false,
		Brightness: 70,
		Volume:     50,
	}
}

// Defaults returns the settings used when nothing is persisted
func Defaults() types.Settings {
	return types.Settings{
		Theme:       types.ThemeLight,
		Wallpaper:   DefaultWallpapers[0],
		AccentColor: AccentColors[0],
		Quick:       DefaultQuickSettings(),
	}
}

// ClampLevel bounds a slider value to MinLevel..MaxLevel
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Event is emitted after every settings change
type Event struct {
	Seq      uint64         `json:"seq"`
	Field    string         `json:"field"`
	Settings types.Settings `json:"settings"`
}

// Store holds the appearance and login state
type Store struct {
	mu       sync.RWMutex
	settings types.Settings // Protected by mu
	seq      uint64         // Protected by mu

	listeners observer.Set[Event]
}

// NewStore creates a store with default settings
func NewStore() *Store {
	return &Store{settings: Defaults()}
}

// Subscribe registers a listener and returns its unsubscribe function
func (s *Store) Subscribe(fn func(Event)) func() {
	return s.listeners.Add(fn)
}

// Get returns the current settings
func (s *Store) Get() types.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetTheme sets the color scheme
func (s *Store) SetTheme(theme types.Theme) error {
	if theme != types.ThemeLight && theme != types.ThemeDark {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	s.update("theme", func(st *types.Settings) { st.Theme = theme })
	return nil
}

// ToggleTheme flips between light and dark and returns the new theme
func (s *Store) ToggleTheme() types.Theme {
	var next types.Theme
	s.update("theme", func(st *types.Settings) {
		next = types.ThemeDark
		if st.Theme == types.ThemeDark {
			next = types.ThemeLight
		}
		st.Theme = next
	})
	return next
}

// SetWallpaper sets the desktop wallpaper URL
func (s *Store) SetWallpaper(wallpaper string) error {
	wallpaper = strings.TrimSpace(wallpaper)
	if wallpaper == "" {
		return ErrInvalidWallpaper
	}
	s.update("wallpaper", func(st *types.Settings) { st.Wallpaper = wallpaper })
	return nil
}

// SetAccentColor sets the accent color
func (s *Store) SetAccentColor(hex string) error {
	color, err := NormalizeColor(hex)
	if err != nil {
		return err
	}
	s.update("accentColor", func(st *types.Settings) { st.AccentColor = color })
	return nil
}

// Login passes the lock screen. Any non-blank password is accepted.
func (s *Store) Login(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	s.update("isLoggedIn", func(st *types.Settings) { st.IsLoggedIn = true })
	return nil
}

// Logout returns to the lock screen
func (s *Store) Logout() {
	s.update("isLoggedIn", func(st *types.Settings) { st.IsLoggedIn = false })
}

// ToggleWiFi flips the Wi-Fi switch and returns the new state
func (s *Store) ToggleWiFi() bool {
	var on bool
	s.update("wifi", func(st *types.Settings) {
		st.Quick.WiFi = !st.Quick.WiFi
		on = st.Quick.WiFi
	})
	return on
}

// ToggleBluetooth flips the Bluetooth switch and returns the new state
func (s *Store) ToggleBluetooth() bool {
	var on bool
	s.update("bluetooth", func(st *types.Settings) {
		st.Quick.Bluetooth = !st.Quick.Bluetooth
		on = st.Quick.Bluetooth
	})
	return on
}

// SetBrightness sets the brightness slider and returns the clamped level
func (s *Store) SetBrightness(level int) int {
	level = ClampLevel(level)
	s.update("brightness", func(st *types.Settings) { st.Quick.Brightness = level })
	return level
}

// SetVolume sets the volume slider and returns the clamped level
func (s *Store) SetVolume(level int) int {
	level = ClampLevel(level)
	s.update("volume", func(st *types.Settings) { st.Quick.Volume = level })
	return level
}

// Quick returns the quick settings flyout state
func (s *Store) Quick() types.QuickSettings {
	return s.Get().Quick
}

// Palette returns the accent color and its derived pressed shade
func (s *Store) Palette() types.AccentPalette {
	accent := s.Get().AccentColor
	pressed, err := AccentDark(accent)
	if err != nil {
		// Stored accents are validated on the way in
		pressed = accent
	}
	return types.AccentPalette{Primary: accent, Pressed: pressed}
}

// Hydrate installs persisted settings, replacing invalid fields with defaults
func (s *Store) Hydrate(restored types.Settings) {
	defaults := Defaults()
	if restored.Theme != types.ThemeLight && restored.Theme != types.ThemeDark {
		restored.Theme = defaults.Theme
	}
	if strings.TrimSpace(restored.Wallpaper) == "" {
		restored.Wallpaper = defaults.Wallpaper
	}
	if color, err := NormalizeColor(restored.AccentColor); err == nil {
		restored.AccentColor = color
	} else {
		restored.AccentColor = defaults.AccentColor
	}
	// Snapshots written before the flyout existed carry the zero value
	if restored.Quick == (types.QuickSettings{}) {
		restored.Quick = defaults.Quick
	}
	restored.Quick.Brightness = ClampLevel(restored.Quick.Brightness)
	restored.Quick.Volume = ClampLevel(restored.Quick.Volume)

	s.update("hydrate", func(st *types.Settings) { *st = restored })
}

func (s *Store) update(field string, fn func(*types.Settings)) {
	s.mu.Lock()
	fn(&s.settings)
	s.seq++
	ev := Event{Seq: s.seq, Field: field, Settings: s.settings}
	s.mu.Unlock()

	s.listeners.Publish(ev)
}
