// Package input defines the logical controls a backend can produce and
// their mapping onto the joypad matrix.
package input

import "github.com/tmello/dotmatrix/dotmatrix/memory"

// Action is a logical control event source, decoupled from whatever
// physical key or button a backend reads.
type Action uint8

const (
	ActionRight Action = iota
	ActionLeft
	ActionUp
	ActionDown
	ActionA
	ActionB
	ActionSelect
	ActionStart
	// ActionQuit asks the frontend to stop the emulator.
	ActionQuit
)

// Handler receives action press/release transitions from a backend.
type Handler func(action Action, pressed bool)

// JoypadKey translates an action to its joypad line. The second return
// is false for actions that do not map to a button.
func (a Action) JoypadKey() (memory.JoypadKey, bool) {
	switch a {
	case ActionRight:
		return memory.JoypadRight, true
	case ActionLeft:
		return memory.JoypadLeft, true
	case ActionUp:
		return memory.JoypadUp, true
	case ActionDown:
		return memory.JoypadDown, true
	case ActionA:
		return memory.JoypadA, true
	case ActionB:
		return memory.JoypadB, true
	case ActionSelect:
		return memory.JoypadSelect, true
	case ActionStart:
		return memory.JoypadStart, true
	default:
		return 0, false
	}
}
