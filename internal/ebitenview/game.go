// Package ebitenview renders a word flock in a desktop window.
package ebitenview

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/capture"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/ui"
	"github.com/tochemey/goakt/v3/log"
	"golang.org/x/image/font/basicfont"
)

var background = color.RGBA{R: 70, G: 30, B: 30, A: 255}

func toneColor(t simulation.Tone) color.RGBA {
	r, g, b := t.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// WorldFactory builds a fresh world, used by the restart button.
type WorldFactory func() (*simulation.World, error)

type Game struct {
	world    *simulation.World
	newWorld WorldFactory
	logger   log.Logger

	face      *text.GoXFace
	fontScale float64

	panel   *ui.Panel
	input   ui.Input
	paused  bool
	restart bool

	// GIF recording started with the s key
	recorder    *capture.Recorder
	recordStart time.Time
	grab        bool // Draw must hand the next frame to the recorder

	// Timing instrumentation, rolling averages in ms
	updateAvg float64
	drawAvg   float64
}

func New(world *simulation.World, newWorld WorldFactory, fontScale float64, logger log.Logger) *Game {
	if logger == nil {
		logger = log.DiscardLogger
	}
	g := &Game{
		world:     world,
		newWorld:  newWorld,
		logger:    logger,
		face:      text.NewGoXFace(basicfont.Face7x13),
		fontScale: fontScale,
		input:     ui.EbitenInput{},
	}
	g.panel = g.buildPanel()
	return g
}

// buildPanel binds the sliders to the live settings of the current world.
func (g *Game) buildPanel() *ui.Panel {
	cfg := g.world.Config()
	s := g.world.Settings()

	panel := ui.NewPanel(10, 10, 240, cfg.WorldHeight-20, "Word flock  [Tab]")
	panel.Visible = g.panel == nil || g.panel.Visible

	panel.AddSection("Rule weights")
	panel.AddSlider("Separation", 0, 10, &s.SeparationWeight)
	panel.AddSlider("Alignment", 0, 3, &s.AlignmentWeight)
	panel.AddSlider("Cohesion", 0, 3, &s.CohesionWeight)

	panel.AddSection("Physics")
	panel.AddSlider("Max speed", 0.5, 10, &s.MaxSpeed)
	panel.AddSlider("Max force", 0.005, 0.5, &s.MaxForce)
	panel.AddSlider("Separation radius", 5, 100, &s.DesiredSeparation)
	panel.AddSlider("Neighbor radius", 10, 200, &s.NeighborDist)

	panel.AddSection("Simulation")
	panel.AddCheckbox("Pause [Space]", &g.paused)
	if g.newWorld != nil {
		panel.AddButton("Restart", func() { g.restart = true })
	}
	return panel
}

// Pointer turns the mouse state into the flock pointer. Presses on the
// visible panel are not forwarded, nor are drags the panel still owns.
// The panel must have seen in before Pointer is called.
func Pointer(in ui.Input, panel *ui.Panel) flocking.Pointer {
	if !in.MousePressed() {
		return flocking.NoPointer
	}
	mx, my := in.CursorPosition()
	if panel != nil && (panel.Capturing() || panel.Contains(mx, my)) {
		return flocking.NoPointer
	}
	return flocking.Pointer{Active: true, Target: geometry.NewVector(float64(mx), float64(my))}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.panel.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) && g.recorder == nil {
		g.startRecording()
	}
	if g.recorder != nil && g.recorder.Due() {
		g.grab = true
	}
	g.panel.Update(g.input)

	if g.restart {
		g.restart = false
		w, err := g.newWorld()
		if err != nil {
			return fmt.Errorf("failed to restart world: %w", err)
		}
		g.world = w
		g.panel = g.buildPanel()
		g.logger.Info("World restarted")
	}

	if g.paused {
		return nil
	}
	return g.world.Step(Pointer(g.input, g.panel))
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)
	for _, view := range g.world.Snapshot() {
		for _, glyph := range simulation.Layout(view) {
			g.drawGlyph(screen, glyph)
		}
	}

	if g.grab {
		g.grab = false
		g.captureFrame(screen)
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\nFrame: %d\nSpeed: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.world.Frame(),
		g.world.MeanSpeed(),
		g.updateAvg,
		g.drawAvg)
	if g.recorder != nil {
		msg += fmt.Sprintf("\n\nREC %d frames", g.recorder.Len())
	}
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-130, 10)
}

func (g *Game) startRecording() {
	cfg := g.world.Config()
	d := time.Duration(cfg.CaptureSeconds * float64(time.Second))
	rec, err := capture.NewRecorder(d, cfg.TPS, cfg.CaptureFPS)
	if err != nil {
		g.logger.Errorf("cannot record: %v", err)
		return
	}
	g.recorder = rec
	g.recordStart = time.Now()
	g.logger.Infof("Recording %v of animation at %d fps", d, cfg.CaptureFPS)
}

// captureFrame copies the flock, without the panel or the overlay, into the
// recording and saves it once it is full.
func (g *Game) captureFrame(screen *ebiten.Image) {
	frame := image.NewRGBA(screen.Bounds())
	screen.ReadPixels(frame.Pix)
	g.recorder.Add(frame)
	if !g.recorder.Full() {
		return
	}

	rec, name := g.recorder, capture.FileName("wordflock", g.recordStart)
	g.recorder = nil
	go func() {
		if err := rec.Save(name); err != nil {
			g.logger.Errorf("GIF recording lost: %v", err)
			return
		}
		g.logger.Infof("Saved %d frames to %s", rec.Len(), name)
	}()
}

// drawGlyph draws one character centred on its position and rotated along the body.
func (g *Game) drawGlyph(screen *ebiten.Image, glyph simulation.Glyph) {
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.GeoM.Scale(g.fontScale, g.fontScale)
	op.GeoM.Rotate(glyph.Rotation)
	op.GeoM.Translate(glyph.Position.X, glyph.Position.Y)
	op.ColorScale.ScaleWithColor(toneColor(glyph.Tone))
	text.Draw(screen, string(glyph.Rune), g.face, op)
}

func (g *Game) Layout(w, h int) (int, int) {
	cfg := g.world.Config()
	return int(cfg.WorldWidth), int(cfg.WorldHeight)
}
