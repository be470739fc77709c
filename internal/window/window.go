// Package window provides the ebiten desktop frontend.
package window

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/verte-zerg/flagball/internal/game"
	"github.com/verte-zerg/flagball/internal/model"
)

const (
	defaultWidth  = 960
	defaultHeight = 720
	title         = "flagball"

	// uint16 indices cap a single DrawTriangles call.
	maxTrianglesPerBatch = (1<<16 - 1) / 3
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Game adapts a session to ebiten's Update/Draw loop.
type Game struct {
	session *game.Session
	display model.DisplayConfig

	width  int
	height int
}

// New returns a game for the session.
func New(session *game.Session, display model.DisplayConfig) *Game {
	return &Game{
		session: session,
		display: display,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

// Run opens the window and blocks until it is closed.
func Run(session *game.Session, display model.DisplayConfig) error {
	g := New(session, display)
	if display.FPS > 0 {
		ebiten.SetTPS(display.FPS)
	}
	ebiten.SetWindowSize(defaultWidth, defaultHeight)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("failed to run window: %w", err)
	}
	return nil
}

func readInput() model.Input {
	return model.Input{
		TurnLeft:       ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		TurnRight:      ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		ChargeHeld:     ebiten.IsKeyPressed(ebiten.KeySpace),
		ChargeReleased: inpututil.IsKeyJustReleased(ebiten.KeySpace),
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.Restart()
	}
	g.session.Update(1/float64(ebiten.TPS()), readInput())
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	aspect := float64(b.Dx()) / float64(max(b.Dy(), 1))
	r := &screenRenderer{screen: screen, bg: g.session.Palette().Background}
	if err := r.Render(g.session.BuildFrame(aspect)); err != nil {
		log.Printf("failed to draw frame: %v", err)
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width = max(outsideWidth, 1)
	g.height = max(outsideHeight, 1)
	return g.width, g.height
}

type screenRenderer struct {
	screen *ebiten.Image
	bg     model.RGBA
}

// Render fills the background and submits the frame in batches.
func (r *screenRenderer) Render(frame model.Frame) error {
	r.screen.Fill(color.RGBA{R: r.bg.R, G: r.bg.G, B: r.bg.B, A: r.bg.A})
	b := r.screen.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w <= 0 || h <= 0 {
		return fmt.Errorf("empty screen")
	}
	opts := &ebiten.DrawTrianglesOptions{}
	tris := frame.Triangles
	for len(tris) > 0 {
		n := min(len(tris), maxTrianglesPerBatch)
		vertices, indices := toVertices(tris[:n], frame.Transform, w, h)
		r.screen.DrawTriangles(vertices, indices, whiteSubImage, opts)
		tris = tris[n:]
	}
	return nil
}

// toVertices maps court-space triangles to screen pixels. Clip y points up,
// screen y points down.
func toVertices(tris []model.Triangle, transform model.Affine, w, h float64) ([]ebiten.Vertex, []uint16) {
	vertices := make([]ebiten.Vertex, 0, len(tris)*3)
	indices := make([]uint16, 0, len(tris)*3)
	for _, tri := range tris {
		for _, v := range tri {
			clip := transform.Apply(model.Vec2{X: float64(v.X), Y: float64(v.Y)})
			indices = append(indices, uint16(len(vertices)))
			vertices = append(vertices, ebiten.Vertex{
				DstX:   float32((clip.X + 1) / 2 * w),
				DstY:   float32((1 - clip.Y) / 2 * h),
				SrcX:   1 + v.U,
				SrcY:   1 + v.V,
				ColorR: float32(v.Color.R) / 255,
				ColorG: float32(v.Color.G) / 255,
				ColorB: float32(v.Color.B) / 255,
				ColorA: float32(v.Color.A) / 255,
			})
		}
	}
	return vertices, indices
}

var _ game.Renderer = (*screenRenderer)(nil)
