package peer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/viodisplay/internal/peer/peertest"
	"github.com/junsooki/viodisplay/internal/transport"
)

func loopbackPublisher(t *testing.T) (*Publisher, *peertest.Viewer) {
	t.Helper()
	viewer := peertest.NewViewer(t)
	pub, err := NewPublisher(viewer, Config{IncludeLoopback: true})
	require.NoError(t, err)
	t.Cleanup(pub.Close)
	require.NoError(t, pub.HandleOffer("viewer-1", viewer.Offer(t)))
	return pub, viewer
}

func TestPublisherOpensChannelsToViewer(t *testing.T) {
	t.Parallel()

	pub, viewer := loopbackPublisher(t)
	assert.Equal(t, "viewer-1", pub.ViewerID())

	for _, label := range []string{transport.LabelFrames, transport.LabelScene, transport.LabelControl} {
		viewer.Channel(t, label)
	}

	// Frames are unreliable; keep sending until one lands.
	frames := viewer.Received(transport.LabelFrames)
	var got []byte
	require.Eventually(t, func() bool {
		_ = pub.Transport().SendFrame([]byte("jpeg"))
		select {
		case got = <-frames:
			return true
		default:
			return false
		}
	}, 10*time.Second, 20*time.Millisecond)
	assert.Equal(t, "jpeg", string(got))
}

func TestPublisherReceivesControl(t *testing.T) {
	t.Parallel()

	pub, viewer := loopbackPublisher(t)
	control := make(chan string, 1)
	pub.Transport().OnControl(func(data []byte) { control <- string(data) })

	require.NoError(t, viewer.Channel(t, transport.LabelControl).SendText(`{"type":"shutdown"}`))
	select {
	case msg := <-control:
		assert.JSONEq(t, `{"type":"shutdown"}`, msg)
	case <-time.After(10 * time.Second):
		t.Fatal("control message never arrived")
	}
}

func TestPublisherRejectsBadOffer(t *testing.T) {
	t.Parallel()

	viewer := peertest.NewViewer(t)
	pub, err := NewPublisher(viewer, Config{})
	require.NoError(t, err)
	defer pub.Close()

	assert.Error(t, pub.HandleOffer("viewer-1", json.RawMessage(`not json`)))
	assert.Equal(t, "viewer-1", pub.ViewerID())
	assert.Error(t, pub.HandleICECandidate(json.RawMessage(`not json`)))
}
