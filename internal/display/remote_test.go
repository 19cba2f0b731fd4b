package display

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/viodisplay/internal/signaling"
)

// newSignalingServer accepts one registration and acknowledges it.
func newSignalingServer(t *testing.T) (url string, registered <-chan signaling.Message) {
	t.Helper()
	ch := make(chan signaling.Message, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var msg signaling.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		ch <- msg
		_ = conn.WriteJSON(signaling.Message{Type: signaling.TypeRegistered})
		for {
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), ch
}

func runRemote(r *Remote) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- r.Run() }()
	return errc
}

func TestRemoteViewerShutdown(t *testing.T) {
	url, registered := newSignalingServer(t)

	var calls atomic.Int32
	r := NewRemote(RemoteConfig{SignalingURL: url, PublisherID: "pub-test"}, func() { calls.Add(1) })
	errc := runRemote(r)

	select {
	case msg := <-registered:
		assert.Equal(t, signaling.TypeRegister, msg.Type)
		assert.Equal(t, "pub-test", msg.ID)
		assert.Equal(t, signaling.ClientTypePublisher, msg.ClientType)
	case <-time.After(5 * time.Second):
		t.Fatal("publisher never registered")
	}

	r.handleControl([]byte(`{"type":"noop"}`))
	r.handleControl([]byte(`not json`))
	assert.Zero(t, calls.Load())

	r.handleControl([]byte(`{"type":"shutdown"}`))
	r.handleControl([]byte(`{"type":"shutdown"}`))

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after viewer shutdown")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestRemoteCloseDoesNotShutdownPipeline(t *testing.T) {
	url, registered := newSignalingServer(t)

	var calls atomic.Int32
	r := NewRemote(RemoteConfig{SignalingURL: url}, func() { calls.Add(1) })
	errc := runRemote(r)
	<-registered

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.Zero(t, calls.Load())
}

func TestRemoteRunDialError(t *testing.T) {
	t.Parallel()

	r := NewRemote(RemoteConfig{SignalingURL: "ws://127.0.0.1:1"}, func() {})
	err := r.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote display")
}

func TestRemoteGeneratesPublisherID(t *testing.T) {
	t.Parallel()

	a := NewRemote(DefaultRemoteConfig(), func() {})
	b := NewRemote(DefaultRemoteConfig(), func() {})
	assert.True(t, strings.HasPrefix(a.PublisherID(), "display-"))
	assert.NotEqual(t, a.PublisherID(), b.PublisherID())
}

func TestRemoteSpinOnceWithoutViewer(t *testing.T) {
	t.Parallel()

	r := NewRemote(DefaultRemoteConfig(), func() {})
	assert.NotPanics(t, func() {
		r.SpinOnce(nil)
		r.SpinOnce(&Input{})
	})
}
