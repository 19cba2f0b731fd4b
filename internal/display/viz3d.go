package display

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	thumbnailWidth = 320
	frustumSize    = 0.3
)

var backgroundColor = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff}

// Viz3D renders the estimator's 3D scene in an Ebitengine window, in the
// manner of an OpenCV viz window.
type Viz3D struct {
	mu       sync.Mutex
	in       *Input
	drawnIn  *Input
	thumb    *ebiten.Image
	cam      viewCamera
	shutdown ShutdownCallback
	once     sync.Once
	closed   atomic.Bool
}

// NewViz3D creates a 3D viz display that calls onShutdown when the user
// closes the window or presses Q/Escape.
func NewViz3D(onShutdown ShutdownCallback) *Viz3D {
	return &Viz3D{
		shutdown: onShutdown,
		cam:      defaultViewCamera(),
	}
}

// SpinOnce stores in as the payload for the next frame.
func (d *Viz3D) SpinOnce(in *Input) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.in = in
}

// Run starts the Ebitengine game loop. Must be called from the main goroutine.
func (d *Viz3D) Run() error {
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("VIO 3D Viz")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	return ebiten.RunGame(d)
}

// Close ends the game loop without invoking the shutdown callback.
func (d *Viz3D) Close() error {
	d.closed.Store(true)
	return nil
}

func (d *Viz3D) requestShutdown() {
	d.once.Do(func() {
		Logf("display: 3D viz window closed, requesting pipeline shutdown")
		d.shutdown()
	})
}

// --- ebiten.Game interface ---

func (d *Viz3D) Update() error {
	if d.closed.Load() {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() ||
		inpututil.IsKeyJustPressed(ebiten.KeyQ) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		d.requestShutdown()
		return ebiten.Termination
	}
	d.captureCameraInput()
	return nil
}

func (d *Viz3D) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	d.mu.Lock()
	in := d.in
	cam := d.cam
	d.mu.Unlock()
	if in == nil {
		ebitenutil.DebugPrint(screen, "waiting for pipeline output")
		return
	}

	w := float64(screen.Bounds().Dx())
	h := float64(screen.Bounds().Dy())

	// Map iteration order is random; draw in name order so overlaps are stable.
	names := make([]string, 0, len(in.Widgets))
	for name := range in.Widgets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d.drawWidget(screen, cam, w, h, in.Widgets[name])
	}

	d.drawThumbnail(screen, in)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("t=%s  widgets=%d  [arrows] orbit  [+/-] zoom  [q] quit",
		in.Timestamp.Format("15:04:05.000"), len(in.Widgets)))
}

func (d *Viz3D) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// --- drawing ---

func (d *Viz3D) drawWidget(screen *ebiten.Image, cam viewCamera, w, h float64, wd Widget) {
	switch v := wd.(type) {
	case PointCloud:
		for _, p := range v.Points {
			x, y, ok := cam.project(p, w, h)
			if !ok {
				continue
			}
			vector.DrawFilledRect(screen, float32(x)-1, float32(y)-1, 2, 2, v.Color, false)
		}
	case Trajectory:
		drawPolyline(screen, cam, w, h, v.Positions, v.Color)
	case CameraPose:
		apex, corners := frustum(v.Pose, frustumSize)
		for i := range corners {
			drawSegment(screen, cam, w, h, apex, corners[i], v.Color)
			drawSegment(screen, cam, w, h, corners[i], corners[(i+1)%len(corners)], v.Color)
		}
	case Text:
		x, y, ok := cam.project(v.Position, w, h)
		if ok {
			ebitenutil.DebugPrintAt(screen, v.Body, int(x), int(y))
		}
	}
}

func (d *Viz3D) drawThumbnail(screen *ebiten.Image, in *Input) {
	if len(in.Frames) == 0 || in.Frames[0].Image == nil {
		return
	}
	if in != d.drawnIn {
		if d.thumb != nil {
			d.thumb.Deallocate()
		}
		d.thumb = ebiten.NewImageFromImage(in.Frames[0].Image)
		d.drawnIn = in
	}

	fw := float64(d.thumb.Bounds().Dx())
	scale := math.Min(1, thumbnailWidth/fw)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(screen.Bounds().Dx())-fw*scale-8, 8)
	screen.DrawImage(d.thumb, op)
}

func drawPolyline(screen *ebiten.Image, cam viewCamera, w, h float64, pts []r3.Vec, clr color.RGBA) {
	for i := 1; i < len(pts); i++ {
		drawSegment(screen, cam, w, h, pts[i-1], pts[i], clr)
	}
}

func drawSegment(screen *ebiten.Image, cam viewCamera, w, h float64, a, b r3.Vec, clr color.RGBA) {
	x0, y0, ok0 := cam.project(a, w, h)
	x1, y1, ok1 := cam.project(b, w, h)
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, true)
}

// --- input ---

func (d *Viz3D) captureCameraInput() {
	const step = 0.03

	d.mu.Lock()
	defer d.mu.Unlock()
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		d.cam.yaw -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		d.cam.yaw += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		d.cam.tilt(step)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		d.cam.tilt(-step)
	}
	if ebiten.IsKeyPressed(ebiten.KeyEqual) {
		d.cam.zoom(0.98)
	}
	if ebiten.IsKeyPressed(ebiten.KeyMinus) {
		d.cam.zoom(1.02)
	}
}
