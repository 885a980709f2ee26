package session

import "strings"

const (
	AppStateKey = "win11-os-app-state-storage"
	SettingsKey = "win11-os-settings-storage"
	NotePrefix  = "notes-app-content-"
)

// NoteKey returns the storage key for a notes window's content
func NoteKey(instanceID string) string {
	return NotePrefix + instanceID
}

// IsKnownKey reports whether key belongs to a snapshot this package owns
func IsKnownKey(key string) bool {
	if key == AppStateKey || key == SettingsKey {
		return true
	}
	return strings.HasPrefix(key, NotePrefix) && len(key) > len(NotePrefix)
}
