package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendWithoutChannels(t *testing.T) {
	t.Parallel()

	tr := NewDataChannelTransport(nil, nil, nil)

	err := tr.SendFrame([]byte("frame"))
	assert.EqualError(t, err, "frames data channel not set")
	err = tr.SendScene([]byte("{}"))
	assert.EqualError(t, err, "scene data channel not set")
}

func TestControlDispatch(t *testing.T) {
	t.Parallel()

	tr := NewDataChannelTransport(nil, nil, nil)
	assert.NotPanics(t, func() { tr.dispatchControl([]byte("dropped")) })

	var got []string
	tr.OnControl(func(data []byte) { got = append(got, string(data)) })
	tr.dispatchControl([]byte(`{"type":"shutdown"}`))
	assert.Equal(t, []string{`{"type":"shutdown"}`}, got)
}
