// Package pipeline provides a synthetic estimation source that drives a
// display with plausible VIO output.
package pipeline

import (
	"context"
	"image"
	"image/color"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/junsooki/viodisplay/internal/display"
)

// Sink receives visualization payloads.
type Sink interface {
	SpinOnce(in *display.Input)
}

// Widget names used in every payload.
const (
	WidgetLandmarks  = "landmarks"
	WidgetTrajectory = "trajectory"
	WidgetCamera     = "camera"
	WidgetLabel      = "label"
)

const (
	frameWidth    = 320
	frameHeight   = 240
	featureCount  = 60
	orbitRadius   = 5.0
	orbitHeight   = 1.0
	orbitSpeedRad = 0.2 // radians per second of simulated time
)

var (
	landmarkColor   = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	trajectoryColor = color.RGBA{R: 0x40, G: 0xc0, B: 0x40, A: 0xff}
	cameraColor     = color.RGBA{R: 0xff, G: 0xa0, B: 0x20, A: 0xff}
)

// Synthetic moves a camera on a circle through a static landmark cloud.
type Synthetic struct {
	// Configuration
	Rate          float64 // payloads per second
	MaxTrajectory int     // positions kept in the trajectory widget

	landmarks  []r3.Vec
	trajectory []r3.Vec
	step       int
	rng        *rand.Rand
}

// NewSynthetic creates a source with landmarks points drawn from seed.
func NewSynthetic(rate float64, landmarks int, seed int64) *Synthetic {
	s := &Synthetic{
		Rate:          rate,
		MaxTrajectory: 500,
		rng:           rand.New(rand.NewSource(seed)),
	}
	s.landmarks = make([]r3.Vec, landmarks)
	for i := range s.landmarks {
		s.landmarks[i] = r3.Vec{
			X: (s.rng.Float64()*2 - 1) * 10,
			Y: (s.rng.Float64()*2 - 1) * 10,
			Z: s.rng.Float64() * 3,
		}
	}
	return s
}

// Next produces the payload for the next step.
func (s *Synthetic) Next(now time.Time) *display.Input {
	rate := s.Rate
	if rate <= 0 {
		rate = 1
	}
	theta := float64(s.step) / rate * orbitSpeedRad
	s.step++

	pose := display.Pose{
		// Yaw with the orbit.
		Rotation: r3.NewRotation(theta, r3.Vec{Z: 1}),
		Translation: r3.Vec{
			X: orbitRadius * math.Cos(theta),
			Y: orbitRadius * math.Sin(theta),
			Z: orbitHeight,
		},
	}
	s.trajectory = append(s.trajectory, pose.Translation)
	if s.MaxTrajectory > 0 && len(s.trajectory) > s.MaxTrajectory {
		s.trajectory = s.trajectory[len(s.trajectory)-s.MaxTrajectory:]
	}
	trajectory := make([]r3.Vec, len(s.trajectory))
	copy(trajectory, s.trajectory)

	return &display.Input{
		Timestamp: now,
		Frames:    []display.Frame{{Name: "feature_tracks", Image: s.featureImage()}},
		Widgets: map[string]display.Widget{
			WidgetLandmarks:  display.PointCloud{Points: s.landmarks, Color: landmarkColor},
			WidgetTrajectory: display.Trajectory{Positions: trajectory, Color: trajectoryColor},
			WidgetCamera:     display.CameraPose{Pose: pose, Color: cameraColor},
			WidgetLabel:      display.Text{Position: pose.Translation, Body: "body", Color: cameraColor},
		},
	}
}

// Run feeds sink at Rate until ctx is done.
func (s *Synthetic) Run(ctx context.Context, sink Sink) error {
	rate := s.Rate
	if rate <= 0 {
		rate = 1
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			sink.SpinOnce(s.Next(now))
		}
	}
}

// featureImage draws random tracked features on a grey background.
func (s *Synthetic) featureImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frameWidth, frameHeight))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0x30, 0x30, 0x30, 0xff
	}
	for i := 0; i < featureCount; i++ {
		cx, cy := s.rng.Intn(frameWidth), s.rng.Intn(frameHeight)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				img.SetRGBA(cx+dx, cy+dy, trajectoryColor)
			}
		}
	}
	return img
}
