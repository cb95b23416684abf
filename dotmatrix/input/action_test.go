package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tmello/dotmatrix/dotmatrix/memory"
)

func TestActionJoypadMapping(t *testing.T) {
	testCases := []struct {
		action Action
		key    memory.JoypadKey
	}{
		{ActionRight, memory.JoypadRight},
		{ActionLeft, memory.JoypadLeft},
		{ActionUp, memory.JoypadUp},
		{ActionDown, memory.JoypadDown},
		{ActionA, memory.JoypadA},
		{ActionB, memory.JoypadB},
		{ActionSelect, memory.JoypadSelect},
		{ActionStart, memory.JoypadStart},
	}
	for _, tC := range testCases {
		key, ok := tC.action.JoypadKey()
		assert.True(t, ok)
		assert.Equal(t, tC.key, key)
	}
}

func TestQuitIsNotAJoypadKey(t *testing.T) {
	_, ok := ActionQuit.JoypadKey()
	assert.False(t, ok)
}
