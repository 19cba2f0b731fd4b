package display

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	nearPlane   = 0.05
	maxPitch    = 1.5
	minDistance = 0.5
	maxDistance = 500
)

var worldUp = r3.Vec{Z: 1}

// viewCamera orbits target at distance; yaw and pitch are in radians.
type viewCamera struct {
	target   r3.Vec
	yaw      float64
	pitch    float64
	distance float64
	fov      float64 // vertical field of view
}

func defaultViewCamera() viewCamera {
	return viewCamera{
		yaw:      -0.6,
		pitch:    0.5,
		distance: 20,
		fov:      math.Pi / 3,
	}
}

func (c viewCamera) eye() r3.Vec {
	cp := math.Cos(c.pitch)
	return r3.Add(c.target, r3.Vec{
		X: c.distance * cp * math.Cos(c.yaw),
		Y: c.distance * cp * math.Sin(c.yaw),
		Z: c.distance * math.Sin(c.pitch),
	})
}

// project maps world point p onto a w×h viewport. ok is false for points
// at or behind the near plane.
func (c viewCamera) project(p r3.Vec, w, h float64) (x, y float64, ok bool) {
	eye := c.eye()
	forward := r3.Unit(r3.Sub(c.target, eye))
	right := r3.Unit(r3.Cross(forward, worldUp))
	up := r3.Cross(right, forward)

	rel := r3.Sub(p, eye)
	depth := r3.Dot(rel, forward)
	if depth <= nearPlane {
		return 0, 0, false
	}
	f := (h / 2) / math.Tan(c.fov/2)
	x = w/2 + f*r3.Dot(rel, right)/depth
	y = h/2 - f*r3.Dot(rel, up)/depth
	return x, y, true
}

func (c *viewCamera) tilt(delta float64) {
	c.pitch = math.Max(-maxPitch, math.Min(maxPitch, c.pitch+delta))
}

func (c *viewCamera) zoom(factor float64) {
	c.distance = math.Max(minDistance, math.Min(maxDistance, c.distance*factor))
}

// frustum returns the apex and image-plane corners of a camera drawn at
// pose. The body frame looks along +Z.
func frustum(pose Pose, size float64) (apex r3.Vec, corners [4]r3.Vec) {
	hw, hh := size, size*0.75
	body := [4]r3.Vec{
		{X: -hw, Y: -hh, Z: size},
		{X: hw, Y: -hh, Z: size},
		{X: hw, Y: hh, Z: size},
		{X: -hw, Y: hh, Z: size},
	}
	for i, v := range body {
		corners[i] = pose.Apply(v)
	}
	return pose.Translation, corners
}
