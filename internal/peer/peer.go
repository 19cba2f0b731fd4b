package peer

import (
	"log"

	"github.com/pion/webrtc/v4"
)

// DefaultICEURLs are the STUN servers used by default configurations.
var DefaultICEURLs = []string{"stun:stun.l.google.com:19302", "stun:stun1.l.google.com:19302"}

// Config selects ICE behaviour for a peer connection.
type Config struct {
	ICEURLs         []string // STUN/TURN servers; none means host candidates only
	IncludeLoopback bool     // gather loopback candidates, for viewers on the same host
}

// NewPeerConnection creates a configured PeerConnection.
func NewPeerConnection(cfg Config) (*webrtc.PeerConnection, error) {
	var se webrtc.SettingEngine
	se.SetIncludeLoopbackCandidate(cfg.IncludeLoopback)
	api := webrtc.NewAPI(webrtc.WithSettingEngine(se))

	var servers []webrtc.ICEServer
	if len(cfg.ICEURLs) > 0 {
		servers = []webrtc.ICEServer{{URLs: cfg.ICEURLs}}
	}
	pc, err := api.NewPeerConnection(webrtc.Configuration{ICEServers: servers})
	if err != nil {
		return nil, err
	}
	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		log.Printf("viewer connection state: %s", state.String())
	})
	return pc, nil
}
