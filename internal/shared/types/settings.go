package types

// Theme is the shell color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings is the persisted shell appearance and login state
type Settings struct {
	Theme       Theme  `json:"theme"`
	Wallpaper   string `json:"wallpaper"`
	AccentColor string `json:"accentColor"`
	IsLoggedIn  bool   `json:"isLoggedIn"`

	Quick QuickSettings `json:"quickSettings"`
}

// QuickSettings is the quick settings flyout state. Levels are percentages.
type QuickSettings struct {
	WiFi       bool `json:"wifi"`
	Bluetooth  bool `json:"bluetooth"`
	Brightness int  `json:"brightness"`
	Volume     int  `json:"volume"`
}

// AccentPalette is the pair of accent shades applied to the shell
type AccentPalette struct {
	Primary string `json:"primary"`
	Pressed string `json:"pressed"`
}
