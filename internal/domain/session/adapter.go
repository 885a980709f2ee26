package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/kv"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// SnapshotVersion is written into every envelope
const SnapshotVersion = 0

// envelope wraps a persisted value with its format version
type envelope[T any] struct {
	State   T   `json:"state"`
	Version int `json:"version"`
}

var codec = sonic.ConfigStd

// Adapter reads and writes snapshots in a kv.Store
type Adapter struct {
	store   kv.Store
	breaker *resilience.Breaker
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewAdapter creates an adapter. A nil breaker gets a default one.
func NewAdapter(store kv.Store, breaker *resilience.Breaker, logger *zap.Logger) *Adapter {
	if breaker == nil {
		breaker = resilience.New("store", resilience.Settings{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{store: store, breaker: breaker, logger: logger}
}

// WithMetrics adds metrics tracking to the adapter
func (a *Adapter) WithMetrics(metrics *monitoring.Metrics) *Adapter {
	a.metrics = metrics
	return a
}

// Save writes a sanitized window snapshot
func (a *Adapter) Save(ctx context.Context, state types.WindowState) error {
	return a.put(ctx, AppStateKey, envelope[types.WindowState]{State: window.Sanitize(state), Version: SnapshotVersion})
}

// Load returns the sanitized window snapshot, or the empty default when
// nothing usable is stored
func (a *Adapter) Load(ctx context.Context) types.WindowState {
	var env envelope[types.WindowState]
	if !a.get(ctx, AppStateKey, &env) {
		return window.Sanitize(types.WindowState{})
	}
	return window.Sanitize(env.State)
}

// SaveSettings writes the settings snapshot
func (a *Adapter) SaveSettings(ctx context.Context, settings types.Settings) error {
	return a.put(ctx, SettingsKey, envelope[types.Settings]{State: settings, Version: SnapshotVersion})
}

// LoadSettings returns the stored settings and whether any were found
func (a *Adapter) LoadSettings(ctx context.Context) (types.Settings, bool) {
	var env envelope[types.Settings]
	if !a.get(ctx, SettingsKey, &env) {
		return types.Settings{}, false
	}
	return env.State, true
}

// SaveNote writes the note text for a notes window
func (a *Adapter) SaveNote(ctx context.Context, instanceID, content string) error {
	return a.put(ctx, NoteKey(instanceID), content)
}

// LoadNote returns the stored note text, empty when none exists
func (a *Adapter) LoadNote(ctx context.Context, instanceID string) string {
	var content string
	a.get(ctx, NoteKey(instanceID), &content)
	return content
}

// DeleteNote removes the note text for a notes window
func (a *Adapter) DeleteNote(ctx context.Context, instanceID string) error {
	key := NoteKey(instanceID)
	err := a.breaker.Do(ctx, func(ctx context.Context) error {
		return a.store.Delete(ctx, key)
	})
	a.recordWrite(key, err)
	return err
}

func (a *Adapter) put(ctx context.Context, key string, value any) error {
	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return a.write(ctx, key, data)
}

func (a *Adapter) write(ctx context.Context, key string, data []byte) error {
	err := a.breaker.Do(ctx, func(ctx context.Context) error {
		return a.store.Set(ctx, key, data)
	})
	a.recordWrite(key, err)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// get decodes key into out and reports success. Failures are logged.
func (a *Adapter) get(ctx context.Context, key string, out any) bool {
	data, err := a.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		a.recordRestore(key, "missing")
		return false
	}
	if err != nil {
		a.logger.Warn("Failed to read snapshot", zap.String("key", key), zap.Error(err))
		a.recordRestore(key, "error")
		return false
	}
	if err := codec.Unmarshal(data, out); err != nil {
		a.logger.Warn("Discarding corrupt snapshot", zap.String("key", key), zap.Error(err))
		a.recordRestore(key, "corrupt")
		return false
	}
	a.recordRestore(key, "success")
	return true
}

func (a *Adapter) recordWrite(key string, err error) {
	if a.metrics != nil {
		a.metrics.RecordStoreWrite(metricKey(key), err)
	}
}

func (a *Adapter) recordRestore(key, status string) {
	if a.metrics != nil {
		a.metrics.RecordRestore(metricKey(key), status)
	}
}

// metricKey folds per-note keys into one label value
func metricKey(key string) string {
	if strings.HasPrefix(key, NotePrefix) {
		return NotePrefix
	}
	return key
}
