// Package pool recycles the buffers the display allocates on every frame.
package pool

import (
	"bytes"
	"sync"

	"charm.land/lipgloss/v2"
)

// Buffers larger than this are dropped instead of pooled.
const maxBufferCap = 64 << 10

var buffers = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

var layerSlices = sync.Pool{
	New: func() any {
		s := make([]*lipgloss.Layer, 0, 16)
		return &s
	},
}

// GetBuffer returns an empty buffer.
func GetBuffer() *bytes.Buffer {
	return buffers.Get().(*bytes.Buffer)
}

// PutBuffer empties b and returns it to the pool. The buffer keeps its
// capacity.
func PutBuffer(b *bytes.Buffer) {
	if b == nil || b.Cap() > maxBufferCap {
		return
	}
	b.Reset()
	buffers.Put(b)
}

// GetLayerSlice returns an empty layer slice.
func GetLayerSlice() *[]*lipgloss.Layer {
	return layerSlices.Get().(*[]*lipgloss.Layer)
}

// PutLayerSlice clears s and returns it to the pool.
func PutLayerSlice(s *[]*lipgloss.Layer) {
	if s == nil {
		return
	}
	clear(*s)
	*s = (*s)[:0]
	layerSlices.Put(s)
}
