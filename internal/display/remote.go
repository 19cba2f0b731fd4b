package display

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/junsooki/viodisplay/internal/encoder"
	"github.com/junsooki/viodisplay/internal/peer"
	"github.com/junsooki/viodisplay/internal/signaling"
	"github.com/junsooki/viodisplay/internal/transport"
)

// ControlShutdown is the control message type a viewer sends to stop the
// pipeline.
const ControlShutdown = "shutdown"

// ErrSignalingLost is returned by Remote.Run when the signaling server drops
// the connection; no viewer can reach the display after that.
var ErrSignalingLost = errors.New("signaling connection lost")

// ControlMessage arrives on the control data channel.
type ControlMessage struct {
	Type string `json:"type"`
}

// RemoteConfig configures the remote stream display.
type RemoteConfig struct {
	SignalingURL string
	PublisherID  string   // generated when empty
	ICEURLs      []string // STUN/TURN servers; none means host candidates only
	Loopback     bool     // offer loopback candidates to viewers on this host
	Quality      int      // JPEG quality, 1-100
	MaxWidth     int      // frames wider than this are downscaled
}

// DefaultRemoteConfig returns the configuration used when none is given.
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		SignalingURL: "ws://localhost:8080",
		ICEURLs:      append([]string(nil), peer.DefaultICEURLs...),
		Quality:      70,
		MaxWidth:     640,
	}
}

// Remote streams the visualization to a viewer over WebRTC. A viewer stops
// the pipeline by sending a ControlShutdown message.
type Remote struct {
	cfg      RemoteConfig
	enc      *encoder.JPEGEncoder
	shutdown ShutdownCallback
	once     sync.Once

	mu          sync.Mutex
	pub         *peer.Publisher
	sendFailing map[string]bool

	done     chan struct{}
	stopOnce sync.Once
}

// NewRemote creates a remote stream display. Nothing is dialed until Run.
func NewRemote(cfg RemoteConfig, onShutdown ShutdownCallback) *Remote {
	if cfg.PublisherID == "" {
		cfg.PublisherID = "display-" + uuid.NewString()[:8]
	}
	return &Remote{
		cfg:      cfg,
		enc:      encoder.NewJPEGEncoder(cfg.Quality, cfg.MaxWidth),
		shutdown:    onShutdown,
		sendFailing: make(map[string]bool),
		done:        make(chan struct{}),
	}
}

// PublisherID is the ID viewers connect to.
func (r *Remote) PublisherID() string {
	return r.cfg.PublisherID
}

// SpinOnce sends the first frame and the scene to the connected viewer,
// if any. Send failures drop the payload; the first failure on a channel
// is logged.
func (r *Remote) SpinOnce(in *Input) {
	if in == nil {
		return
	}
	pub := r.publisher()
	if pub == nil {
		return
	}
	t := pub.Transport()

	if len(in.Frames) > 0 && in.Frames[0].Image != nil {
		data, err := r.enc.Encode(in.Frames[0].Image)
		if err != nil {
			Logf("display: encode frame %q: %v", in.Frames[0].Name, err)
		} else {
			r.reportSend(transport.LabelFrames, t.SendFrame(data))
		}
	}
	scene, err := encodeScene(in)
	if err != nil {
		Logf("display: encode scene: %v", err)
		return
	}
	r.reportSend(transport.LabelScene, t.SendScene(scene))
}

// reportSend logs a send error when a channel starts failing and forgets
// it once a send succeeds again.
func (r *Remote) reportSend(label string, err error) {
	r.mu.Lock()
	failing := r.sendFailing[label]
	r.sendFailing[label] = err != nil
	r.mu.Unlock()
	if err != nil && !failing {
		Logf("display: send %s: %v", label, err)
	}
}

// Run registers with the signaling server and serves viewers until a
// viewer requests shutdown or Close is called. If the signaling server
// drops the connection first, Run returns ErrSignalingLost without invoking
// the shutdown callback.
func (r *Remote) Run() error {
	var sig *signaling.Client
	sig = signaling.NewClient(r.cfg.SignalingURL, r.cfg.PublisherID, signaling.ClientTypePublisher, signaling.Handler{
		OnRegistered: func() {
			Logf("display: remote display registered as %s", r.cfg.PublisherID)
		},
		OnOffer: func(from string, payload json.RawMessage) {
			r.handleOffer(sig, from, payload)
		},
		OnICECandidate: func(from string, payload json.RawMessage) {
			if err := r.handleICECandidate(from, payload); err != nil {
				Logf("display: handle ICE candidate: %v", err)
			}
		},
		OnViewerLeft: r.handleViewerLeft,
		OnError: func(msg string) {
			Logf("display: signaling error: %s", msg)
		},
	})
	if err := sig.Connect(); err != nil {
		return fmt.Errorf("remote display: %w", err)
	}
	var err error
	select {
	case <-r.done:
	case <-sig.Done():
		Logf("display: signaling connection lost")
		err = fmt.Errorf("remote display: %w", ErrSignalingLost)
	}
	sig.Close()
	r.setPublisher(nil)
	return err
}

// Close stops Run without invoking the shutdown callback.
func (r *Remote) Close() error {
	r.stop()
	return nil
}

func (r *Remote) handleOffer(sig peer.Signaler, from string, payload json.RawMessage) {
	Logf("display: offer from viewer %s", from)
	pub, err := peer.NewPublisher(sig, peer.Config{
		ICEURLs:         r.cfg.ICEURLs,
		IncludeLoopback: r.cfg.Loopback,
	})
	if err != nil {
		Logf("display: create publisher: %v", err)
		return
	}
	pub.Transport().OnControl(r.handleControl)
	if err := pub.HandleOffer(from, payload); err != nil {
		Logf("display: handle offer: %v", err)
		pub.Close()
		return
	}
	r.setPublisher(pub)
}

// handleICECandidate applies a candidate from the connected viewer. Late
// candidates from a replaced viewer are dropped.
func (r *Remote) handleICECandidate(from string, payload json.RawMessage) error {
	pub := r.publisher()
	if pub == nil || pub.ViewerID() != from {
		return nil
	}
	return pub.HandleICECandidate(payload)
}

// handleViewerLeft drops the connection only if viewerID is the connected
// viewer; a replaced viewer leaving must not cut off its successor.
func (r *Remote) handleViewerLeft(viewerID string) {
	Logf("display: viewer %s left", viewerID)
	r.mu.Lock()
	pub := r.pub
	if pub == nil || pub.ViewerID() != viewerID {
		r.mu.Unlock()
		return
	}
	r.pub = nil
	r.mu.Unlock()
	pub.Close()
}

func (r *Remote) handleControl(data []byte) {
	var msg ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		Logf("display: unmarshal control message: %v", err)
		return
	}
	if msg.Type == ControlShutdown {
		r.requestShutdown()
	}
}

func (r *Remote) requestShutdown() {
	r.once.Do(func() {
		Logf("display: viewer requested pipeline shutdown")
		r.shutdown()
	})
	r.stop()
}

func (r *Remote) stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *Remote) publisher() *peer.Publisher {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pub
}

// setPublisher replaces the current viewer connection, closing the old one.
func (r *Remote) setPublisher(pub *peer.Publisher) {
	r.mu.Lock()
	old := r.pub
	r.pub = pub
	r.mu.Unlock()
	if old != nil && old != pub {
		old.Close()
	}
}
