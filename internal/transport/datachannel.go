package transport

import (
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"
)

// Data channel labels shared by publisher and viewers.
const (
	LabelFrames  = "frames"
	LabelScene   = "scene"
	LabelControl = "control"
)

// DataChannelTransport carries frames and scenes to a viewer and control
// messages back, over WebRTC DataChannels.
type DataChannelTransport struct {
	framesDC  *webrtc.DataChannel
	sceneDC   *webrtc.DataChannel
	controlDC *webrtc.DataChannel

	mu        sync.Mutex
	onControl func(data []byte)
}

// NewDataChannelTransport wraps the three publisher channels.
func NewDataChannelTransport(framesDC, sceneDC, controlDC *webrtc.DataChannel) *DataChannelTransport {
	t := &DataChannelTransport{
		framesDC:  framesDC,
		sceneDC:   sceneDC,
		controlDC: controlDC,
	}
	if controlDC != nil {
		controlDC.OnMessage(func(msg webrtc.DataChannelMessage) {
			t.dispatchControl(msg.Data)
		})
	}
	return t
}

func (t *DataChannelTransport) SendFrame(data []byte) error {
	return send(t.framesDC, LabelFrames, data)
}

func (t *DataChannelTransport) SendScene(data []byte) error {
	return send(t.sceneDC, LabelScene, data)
}

func (t *DataChannelTransport) OnControl(cb func(data []byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onControl = cb
}

func (t *DataChannelTransport) dispatchControl(data []byte) {
	t.mu.Lock()
	cb := t.onControl
	t.mu.Unlock()
	if cb != nil {
		cb(data)
	}
}

func send(dc *webrtc.DataChannel, label string, data []byte) error {
	if dc == nil {
		return fmt.Errorf("%s data channel not set", label)
	}
	if dc.ReadyState() != webrtc.DataChannelStateOpen {
		return fmt.Errorf("%s data channel not open", label)
	}
	return dc.Send(data)
}
