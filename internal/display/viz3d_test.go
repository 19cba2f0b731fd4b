package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestViz3DSpinOnceKeepsLatest(t *testing.T) {
	t.Parallel()

	d := NewViz3D(func() {})
	first := &Input{Timestamp: time.Unix(1, 0)}
	second := &Input{Timestamp: time.Unix(2, 0)}
	d.SpinOnce(first)
	d.SpinOnce(second)

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.Same(t, second, d.in)
}

func TestViz3DCloseDoesNotShutdownPipeline(t *testing.T) {
	t.Parallel()

	calls := 0
	d := NewViz3D(func() { calls++ })
	assert.NoError(t, d.Close())
	assert.NoError(t, d.Close())
	assert.True(t, d.closed.Load())
	assert.Zero(t, calls)
}

func TestViz3DLayoutFollowsWindow(t *testing.T) {
	t.Parallel()

	d := NewViz3D(func() {})
	w, h := d.Layout(800, 600)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}
