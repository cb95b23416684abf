package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmello/dotmatrix/dotmatrix/video"
)

func TestHeadlessCountsFrames(t *testing.T) {
	h := NewHeadless()
	require.NoError(t, h.Init(Config{}))

	fb := video.NewFrameBuffer()
	for range 3 {
		require.NoError(t, h.Update(fb))
	}

	assert.Equal(t, uint64(3), h.FrameCount())
	require.NoError(t, h.Cleanup())
}

func TestHeadlessFrameCallback(t *testing.T) {
	h := NewHeadless()

	var seen []*video.FrameBuffer
	h.OnFrame = func(frame *video.FrameBuffer) {
		seen = append(seen, frame)
	}

	fb := video.NewFrameBuffer()
	require.NoError(t, h.Update(fb))

	require.Len(t, seen, 1)
	assert.Same(t, fb, seen[0])
}
