package signaling

import "encoding/json"

// Message types for signaling protocol.
const (
	TypeRegister     = "register"
	TypeRegistered   = "registered"
	TypeOffer        = "offer"
	TypeAnswer       = "answer"
	TypeICECandidate = "ice-candidate"
	TypeViewerLeft   = "viewer-left"
	TypePing         = "ping"
	TypePong         = "pong"
	TypeError        = "error"
)

// ClientTypePublisher registers a client as a publishing display.
const ClientTypePublisher = "publisher"

// Message is the envelope for all signaling messages.
type Message struct {
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	ClientType string          `json:"clientType,omitempty"`
	From       string          `json:"from,omitempty"`
	Target     string          `json:"target,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Msg        string          `json:"message,omitempty"`
	Timestamp  int64           `json:"timestamp,omitempty"`
}
