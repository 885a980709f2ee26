package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/settings"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// SettingsPatch updates any subset of the appearance settings
type SettingsPatch struct {
	Theme       *types.Theme `json:"theme"`
	Wallpaper   *string      `json:"wallpaper"`
	AccentColor *string      `json:"accentColor"`
}

// GetSettings returns the settings with the choices offered by the settings app
func (h *Handlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings":      h.settings.Get(),
		"palette":       h.settings.Palette(),
		"wallpapers":    settings.DefaultWallpapers,
		"accent_colors": settings.AccentColors,
	})
}

// UpdateSettings applies a patch. Nothing changes unless every field is valid.
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var patch SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	if patch.Theme != nil && *patch.Theme != types.ThemeLight && *patch.Theme != types.ThemeDark {
		badRequest(c, fmt.Errorf("%w: %q", settings.ErrInvalidTheme, *patch.Theme))
		return
	}
	if patch.Wallpaper != nil && strings.TrimSpace(*patch.Wallpaper) == "" {
		badRequest(c, settings.ErrInvalidWallpaper)
		return
	}
	if patch.AccentColor != nil {
		if _, err := settings.NormalizeColor(*patch.AccentColor); err != nil {
			badRequest(c, err)
			return
		}
	}

	if patch.Theme != nil {
		h.settings.SetTheme(*patch.Theme)
	}
	if patch.Wallpaper != nil {
		h.settings.SetWallpaper(*patch.Wallpaper)
	}
	if patch.AccentColor != nil {
		h.settings.SetAccentColor(*patch.AccentColor)
	}
	h.settingsResponse(c)
}

// SetTheme sets the color scheme
func (h *Handlers) SetTheme(c *gin.Context) {
	var req types.ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.settings.SetTheme(req.Theme); err != nil {
		badRequest(c, err)
		return
	}
	h.settingsResponse(c)
}

// ToggleTheme flips between light and dark
func (h *Handlers) ToggleTheme(c *gin.Context) {
	h.settings.ToggleTheme()
	h.settingsResponse(c)
}

// SetWallpaper sets the desktop wallpaper
func (h *Handlers) SetWallpaper(c *gin.Context) {
	var req types.WallpaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.settings.SetWallpaper(req.Wallpaper); err != nil {
		badRequest(c, err)
		return
	}
	h.settingsResponse(c)
}

// SetAccent sets the accent color
func (h *Handlers) SetAccent(c *gin.Context) {
	var req types.AccentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.settings.SetAccentColor(req.Color); err != nil {
		badRequest(c, err)
		return
	}
	h.settingsResponse(c)
}

// Login passes the lock screen
func (h *Handlers) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.settings.Login(req.Password); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logged_in": true})
}

// Logout returns to the lock screen
func (h *Handlers) Logout(c *gin.Context) {
	h.settings.Logout()
	c.JSON(http.StatusOK, gin.H{"success": true, "logged_in": false})
}

// GetQuickSettings returns the quick settings flyout state
func (h *Handlers) GetQuickSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"quick_settings": h.settings.Quick(),
		"min_level":      settings.MinLevel,
		"max_level":      settings.MaxLevel,
	})
}

// ToggleWiFi flips the Wi-Fi switch
func (h *Handlers) ToggleWiFi(c *gin.Context) {
	h.settings.ToggleWiFi()
	h.quickResponse(c)
}

// ToggleBluetooth flips the Bluetooth switch
func (h *Handlers) ToggleBluetooth(c *gin.Context) {
	h.settings.ToggleBluetooth()
	h.quickResponse(c)
}

// SetBrightness sets the brightness slider. Out of range levels are clamped.
func (h *Handlers) SetBrightness(c *gin.Context) {
	var req types.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.settings.SetBrightness(*req.Level)
	h.quickResponse(c)
}

// SetVolume sets the volume slider. Out of range levels are clamped.
func (h *Handlers) SetVolume(c *gin.Context) {
	var req types.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.settings.SetVolume(*req.Level)
	h.quickResponse(c)
}

func (h *Handlers) quickResponse(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"quick_settings": h.settings.Quick(),
	})
}

func (h *Handlers) settingsResponse(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"settings": h.settings.Get(),
		"palette":  h.settings.Palette(),
	})
}
