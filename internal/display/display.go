// Package display turns estimator output into something a person can look at.
// A Display is picked by Type through New or MustNew and is bound to the
// pipeline through a single ShutdownCallback.
package display

import (
	"image"
	"image/color"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Display renders pipeline output and decides on its own when the pipeline
// must stop.
type Display interface {
	// SpinOnce hands the newest payload to the display. It never blocks;
	// a payload not yet drawn is replaced by the next one.
	SpinOnce(in *Input)

	// Run blocks in the display's own loop. It returns nil once the
	// display's termination trigger fired or Close was called, and an error
	// if the display could not start or lost something it needs to keep
	// running. The shutdown callback is not invoked on the error path.
	Run() error

	// Close releases the display. Safe to call more than once.
	Close() error
}

// ShutdownCallback is invoked by a display when it decides the pipeline
// must stop, e.g. the user closed the window.
type ShutdownCallback func()

// Input is one visualization payload produced by the pipeline.
type Input struct {
	Timestamp time.Time
	Frames    []Frame
	Widgets   map[string]Widget
}

// Frame is a named 2D debug image.
type Frame struct {
	Name  string
	Image image.Image
}

// Pose is a world-from-body rigid transform.
type Pose struct {
	Rotation    r3.Rotation
	Translation r3.Vec
}

// Apply maps a body-frame point into the world frame. A zero Rotation is
// treated as the identity.
func (p Pose) Apply(v r3.Vec) r3.Vec {
	if p.Rotation == (r3.Rotation{}) {
		return r3.Add(v, p.Translation)
	}
	return r3.Add(p.Rotation.Rotate(v), p.Translation)
}

// Widget is a 3D scene element. The set of widgets is closed; see
// PointCloud, Trajectory, CameraPose and Text.
type Widget interface {
	widget()
}

// PointCloud is a set of landmarks.
type PointCloud struct {
	Points []r3.Vec
	Color  color.RGBA
}

// Trajectory is a polyline through past positions.
type Trajectory struct {
	Positions []r3.Vec
	Color     color.RGBA
}

// CameraPose draws a camera frustum at Pose.
type CameraPose struct {
	Pose  Pose
	Color color.RGBA
}

// Text is a label anchored at a world position.
type Text struct {
	Position r3.Vec
	Body     string
	Color    color.RGBA
}

func (PointCloud) widget() {}
func (Trajectory) widget() {}
func (CameraPose) widget() {}
func (Text) widget()       {}
