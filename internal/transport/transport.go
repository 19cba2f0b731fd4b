package transport

// FrameSender sends encoded debug frames.
type FrameSender interface {
	SendFrame(data []byte) error
}

// SceneSender sends serialized 3D scenes.
type SceneSender interface {
	SendScene(data []byte) error
}

// ControlReceiver receives control messages from a viewer.
type ControlReceiver interface {
	OnControl(callback func(data []byte))
}
