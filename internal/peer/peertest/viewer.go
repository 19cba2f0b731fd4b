// Package peertest provides an in-process WebRTC viewer for exercising
// publishers over loopback.
package peertest

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 10 * time.Second

// Viewer is the offering side of a loopback connection. It also acts as the
// publisher's signaler: answers and candidates sent to it are applied
// directly.
type Viewer struct {
	PC *webrtc.PeerConnection

	mu       sync.Mutex
	answered bool
	pending  []webrtc.ICECandidateInit
	channels map[string]*webrtc.DataChannel
	received map[string]chan []byte
}

// NewViewer creates a viewer gathering loopback candidates only.
func NewViewer(t testing.TB) *Viewer {
	t.Helper()
	var se webrtc.SettingEngine
	se.SetIncludeLoopbackCandidate(true)
	pc, err := webrtc.NewAPI(webrtc.WithSettingEngine(se)).NewPeerConnection(webrtc.Configuration{})
	require.NoError(t, err)
	t.Cleanup(func() { pc.Close() })

	v := &Viewer{
		PC:       pc,
		channels: make(map[string]*webrtc.DataChannel),
		received: make(map[string]chan []byte),
	}
	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		ch := v.messages(dc.Label())
		dc.OnOpen(func() {
			v.mu.Lock()
			v.channels[dc.Label()] = dc
			v.mu.Unlock()
		})
		dc.OnMessage(func(msg webrtc.DataChannelMessage) {
			select {
			case ch <- msg.Data:
			default:
			}
		})
	})
	return v
}

// Offer creates a complete (non-trickle) offer with a data channel section.
func (v *Viewer) Offer(t testing.TB) json.RawMessage {
	t.Helper()
	_, err := v.PC.CreateDataChannel("bootstrap", nil)
	require.NoError(t, err)

	offer, err := v.PC.CreateOffer(nil)
	require.NoError(t, err)
	gathered := webrtc.GatheringCompletePromise(v.PC)
	require.NoError(t, v.PC.SetLocalDescription(offer))
	select {
	case <-gathered:
	case <-time.After(waitTimeout):
		t.Fatal("ICE gathering did not complete")
	}

	data, err := json.Marshal(v.PC.LocalDescription())
	require.NoError(t, err)
	return data
}

// SendAnswer applies the publisher's answer.
func (v *Viewer) SendAnswer(_ string, payload json.RawMessage) error {
	var answer webrtc.SessionDescription
	if err := json.Unmarshal(payload, &answer); err != nil {
		return err
	}
	if err := v.PC.SetRemoteDescription(answer); err != nil {
		return err
	}
	v.mu.Lock()
	v.answered = true
	pending := v.pending
	v.pending = nil
	v.mu.Unlock()
	for _, c := range pending {
		if err := v.PC.AddICECandidate(c); err != nil {
			return err
		}
	}
	return nil
}

// SendICECandidate applies a publisher candidate, holding it until the
// answer has been applied.
func (v *Viewer) SendICECandidate(_ string, payload json.RawMessage) error {
	var c webrtc.ICECandidateInit
	if err := json.Unmarshal(payload, &c); err != nil {
		return err
	}
	v.mu.Lock()
	if !v.answered {
		v.pending = append(v.pending, c)
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()
	return v.PC.AddICECandidate(c)
}

// Channel waits for the publisher's channel with label to open.
func (v *Viewer) Channel(t testing.TB, label string) *webrtc.DataChannel {
	t.Helper()
	var dc *webrtc.DataChannel
	require.Eventually(t, func() bool {
		v.mu.Lock()
		defer v.mu.Unlock()
		dc = v.channels[label]
		return dc != nil
	}, waitTimeout, 10*time.Millisecond, "channel %q never opened", label)
	return dc
}

// Received returns the messages arriving on the channel with label.
func (v *Viewer) Received(label string) <-chan []byte {
	return v.messages(label)
}

func (v *Viewer) messages(label string) chan []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	ch, ok := v.received[label]
	if !ok {
		ch = make(chan []byte, 64)
		v.received[label] = ch
	}
	return ch
}
