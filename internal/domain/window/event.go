package window

import "github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"

// Op names a window manager operation
type Op string

const (
	OpOpen     Op = "open"
	OpClose    Op = "close"
	OpMinimize Op = "minimize"
	OpMaximize Op = "maximize"
	OpRestore  Op = "restore"
	OpFocus    Op = "focus"
	OpMove     Op = "move"
	OpResize   Op = "resize"
	OpHydrate  Op = "hydrate"
)

// Event is emitted after every applied operation
type Event struct {
	Seq      uint64            `json:"seq"`
	Op       Op                `json:"op"`
	WindowID string            `json:"window_id,omitempty"`
	State    types.WindowState `json:"state"`
}

// Listener receives manager events
type Listener func(Event)
