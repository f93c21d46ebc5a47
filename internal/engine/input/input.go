// Package input translates SDL2 events into viewer actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventAction
)

// Action is something a key press asks the viewer to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionWireframe
	ActionFill
	ActionCameraForward
	ActionCameraBack
	ActionTogglePause
	ActionFaster
	ActionSlower
	ActionScreenshot
	ActionResetTime
	ActionOpenScene
)

var actionNames = [...]string{
	ActionNone:          "none",
	ActionQuit:          "quit",
	ActionWireframe:     "wireframe",
	ActionFill:          "fill",
	ActionCameraForward: "camera_forward",
	ActionCameraBack:    "camera_back",
	ActionTogglePause:   "toggle_pause",
	ActionFaster:        "faster",
	ActionSlower:        "slower",
	ActionScreenshot:    "screenshot",
	ActionResetTime:     "reset_time",
	ActionOpenScene:     "open_scene",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Repeatable reports whether holding the key should keep triggering a.
func (a Action) Repeatable() bool {
	return a == ActionCameraForward || a == ActionCameraBack
}

// DefaultBindings maps keys to actions.
var DefaultBindings = map[sdl.Keycode]Action{
	sdl.K_ESCAPE:   ActionQuit,
	sdl.K_q:        ActionQuit,
	sdl.K_w:        ActionWireframe,
	sdl.K_f:        ActionFill,
	sdl.K_UP:       ActionCameraForward,
	sdl.K_DOWN:     ActionCameraBack,
	sdl.K_SPACE:    ActionTogglePause,
	sdl.K_EQUALS:   ActionFaster,
	sdl.K_PLUS:     ActionFaster,
	sdl.K_KP_PLUS:  ActionFaster,
	sdl.K_MINUS:    ActionSlower,
	sdl.K_KP_MINUS: ActionSlower,
	sdl.K_F12:      ActionScreenshot,
	sdl.K_r:        ActionResetTime,
	sdl.K_o:        ActionOpenScene,
}

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Action Action
	Width  int
	Height int
}

// Input handles all input processing.
type Input struct {
	bindings map[sdl.Keycode]Action
	events   []Event
}

// New creates an input handler using DefaultBindings.
func New() *Input {
	return NewWithBindings(DefaultBindings)
}

// NewWithBindings creates an input handler with custom key bindings.
func NewWithBindings(bindings map[sdl.Keycode]Action) *Input {
	return &Input{
		bindings: bindings,
		events:   make([]Event, 0, 16),
	}
}

// ActionFor returns the action bound to key. Auto-repeated presses only
// trigger repeatable actions.
func (i *Input) ActionFor(key sdl.Keycode, repeat bool) Action {
	a, ok := i.bindings[key]
	if !ok {
		return ActionNone
	}
	if repeat && !a.Repeatable() {
		return ActionNone
	}
	return a
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the window was asked to close.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			if a := i.ActionFor(e.Keysym.Sym, e.Repeat != 0); a != ActionNone {
				i.events = append(i.events, Event{Type: EventAction, Action: a})
			}
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
