package memory

import "github.com/tmello/dotmatrix/dotmatrix/bit"

// JoypadKey is one of the eight physical buttons.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// Joypad models the P1 button matrix. The register is a selector: bit 4
// low maps the d-pad onto bits 0-3, bit 5 low maps the action buttons,
// both low ANDs the two groups. A low bit means pressed. Bits 6-7 always
// read as 1, and only the selection bits are writable.
type Joypad struct {
	// low nibbles, 1 = released
	buttons uint8
	dpad    uint8

	// last written selection bits (4-5)
	selection uint8

	requestInterrupt func()
}

func newJoypad(requestInterrupt func()) Joypad {
	return Joypad{
		buttons:          0x0F,
		dpad:             0x0F,
		selection:        0x30,
		requestInterrupt: requestInterrupt,
	}
}

// Read returns the P1 register value for the current selection.
func (j *Joypad) Read() uint8 {
	result := uint8(0xC0) | j.selection

	selectDpad := !bit.IsSet(4, j.selection)
	selectButtons := !bit.IsSet(5, j.selection)

	switch {
	case selectButtons && selectDpad:
		result |= j.buttons & j.dpad & 0x0F
	case selectButtons:
		result |= j.buttons & 0x0F
	case selectDpad:
		result |= j.dpad & 0x0F
	default:
		result |= 0x0F
	}

	return result
}

// Write stores the selection bits; everything else is ignored.
func (j *Joypad) Write(value uint8) {
	j.selection = value & 0x30
}

func (j *Joypad) keyBit(key JoypadKey) (group *uint8, index uint8) {
	switch key {
	case JoypadRight, JoypadLeft, JoypadUp, JoypadDown:
		return &j.dpad, uint8(key)
	default:
		return &j.buttons, uint8(key - JoypadA)
	}
}

// Press lowers the key's line and requests the joypad interrupt on the
// high-to-low transition while the key's group is selected in P1.
func (j *Joypad) Press(key JoypadKey) {
	group, index := j.keyBit(key)
	if bit.IsSet(index, *group) {
		*group = bit.Clear(index, *group)
		selectBit := uint8(5)
		if group == &j.dpad {
			selectBit = 4
		}
		if j.requestInterrupt != nil && !bit.IsSet(selectBit, j.selection) {
			j.requestInterrupt()
		}
	}
}

// Release raises the key's line.
func (j *Joypad) Release(key JoypadKey) {
	group, index := j.keyBit(key)
	*group = bit.Set(index, *group)
}
