package display

import (
	"encoding/json"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Widget kinds on the wire.
const (
	kindPointCloud = "point_cloud"
	kindTrajectory = "trajectory"
	kindCamera     = "camera"
	kindText       = "text"
)

type sceneMessage struct {
	TimestampNanos int64        `json:"timestampNanos"`
	Widgets        []wireWidget `json:"widgets"`
}

type wireWidget struct {
	Name   string       `json:"name"`
	Kind   string       `json:"kind"`
	Color  [4]uint8     `json:"color"`
	Points [][3]float64 `json:"points,omitempty"`
	Text   string       `json:"text,omitempty"`
}

// encodeScene serializes the widgets of in, sorted by name.
func encodeScene(in *Input) ([]byte, error) {
	msg := sceneMessage{
		TimestampNanos: in.Timestamp.UnixNano(),
		Widgets:        make([]wireWidget, 0, len(in.Widgets)),
	}
	for name, w := range in.Widgets {
		ww := wireWidget{Name: name}
		switch v := w.(type) {
		case PointCloud:
			ww.Kind, ww.Color, ww.Points = kindPointCloud, rgba(v.Color), points(v.Points)
		case Trajectory:
			ww.Kind, ww.Color, ww.Points = kindTrajectory, rgba(v.Color), points(v.Positions)
		case CameraPose:
			apex, corners := frustum(v.Pose, frustumSize)
			ww.Kind, ww.Color, ww.Points = kindCamera, rgba(v.Color), points(append([]r3.Vec{apex}, corners[:]...))
		case Text:
			ww.Kind, ww.Color, ww.Points, ww.Text = kindText, rgba(v.Color), points([]r3.Vec{v.Position}), v.Body
		default:
			continue
		}
		msg.Widgets = append(msg.Widgets, ww)
	}
	sort.Slice(msg.Widgets, func(i, j int) bool { return msg.Widgets[i].Name < msg.Widgets[j].Name })
	return json.Marshal(msg)
}

func points(vs []r3.Vec) [][3]float64 {
	out := make([][3]float64, len(vs))
	for i, v := range vs {
		out[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return out
}

func rgba(c color.RGBA) [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, c.A}
}
