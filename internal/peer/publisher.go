package peer

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/junsooki/viodisplay/internal/transport"
)

// Signaler relays session descriptions and ICE candidates to a viewer.
type Signaler interface {
	SendAnswer(target string, payload json.RawMessage) error
	SendICECandidate(target string, payload json.RawMessage) error
}

// Publisher manages the publishing side of a WebRTC connection to one viewer.
type Publisher struct {
	pc        *webrtc.PeerConnection
	sig       Signaler
	transport *transport.DataChannelTransport

	mu     sync.Mutex
	viewer string
}

// NewPublisher creates a Publisher with its frames, scene and control
// channels. The channels are opened over the viewer's SCTP association, so
// the viewer's offer must carry a data channel section.
func NewPublisher(sig Signaler, cfg Config) (*Publisher, error) {
	pc, err := NewPeerConnection(cfg)
	if err != nil {
		return nil, err
	}

	p := &Publisher{
		pc:  pc,
		sig: sig,
	}

	// Frames and scenes are superseded by the next one; don't retransmit.
	lossy := func() *webrtc.DataChannelInit {
		ordered := false
		maxRetransmits := uint16(0)
		return &webrtc.DataChannelInit{Ordered: &ordered, MaxRetransmits: &maxRetransmits}
	}
	framesDC, err := pc.CreateDataChannel(transport.LabelFrames, lossy())
	if err != nil {
		pc.Close()
		return nil, err
	}
	sceneDC, err := pc.CreateDataChannel(transport.LabelScene, lossy())
	if err != nil {
		pc.Close()
		return nil, err
	}
	controlOrdered := true
	controlDC, err := pc.CreateDataChannel(transport.LabelControl, &webrtc.DataChannelInit{
		Ordered: &controlOrdered,
	})
	if err != nil {
		pc.Close()
		return nil, err
	}

	p.transport = transport.NewDataChannelTransport(framesDC, sceneDC, controlDC)

	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		viewer := p.ViewerID()
		if c == nil || viewer == "" {
			return
		}
		data, err := json.Marshal(c.ToJSON())
		if err != nil {
			log.Printf("marshal ICE candidate: %v", err)
			return
		}
		_ = sig.SendICECandidate(viewer, data)
	})

	return p, nil
}

// Transport returns the DataChannelTransport for sending frames and scenes.
func (p *Publisher) Transport() *transport.DataChannelTransport {
	return p.transport
}

// HandleOffer answers an offer from a viewer.
func (p *Publisher) HandleOffer(from string, payload json.RawMessage) error {
	p.mu.Lock()
	p.viewer = from
	p.mu.Unlock()

	var offer webrtc.SessionDescription
	if err := json.Unmarshal(payload, &offer); err != nil {
		return err
	}

	if err := p.pc.SetRemoteDescription(offer); err != nil {
		return err
	}

	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return err
	}

	if err := p.pc.SetLocalDescription(answer); err != nil {
		return err
	}

	answerJSON, err := json.Marshal(answer)
	if err != nil {
		return err
	}

	return p.sig.SendAnswer(from, answerJSON)
}

// HandleICECandidate adds a remote ICE candidate.
func (p *Publisher) HandleICECandidate(payload json.RawMessage) error {
	var candidate webrtc.ICECandidateInit
	if err := json.Unmarshal(payload, &candidate); err != nil {
		return err
	}
	return p.pc.AddICECandidate(candidate)
}

// ViewerID is the viewer whose offer was last handled, or "" before any.
func (p *Publisher) ViewerID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewer
}

// Close shuts down the peer connection.
func (p *Publisher) Close() {
	if p.pc != nil {
		p.pc.Close()
	}
}
