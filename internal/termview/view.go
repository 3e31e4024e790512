// Package termview renders a word flock in a terminal.
package termview

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

// toneStyle colours a glyph; the head is bold so it stands out from the trail.
func toneStyle(t simulation.Tone) tcell.Style {
	r, g, b := t.RGB()
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	if t == simulation.ToneHead {
		style = style.Bold(true)
	}
	return style
}

// View maps the world onto the terminal grid. The whole world is always
// visible; each cell covers width/cols by height/rows world units.
type View struct {
	screen tcell.Screen
	world  *simulation.World
	logger log.Logger
	tick   time.Duration

	width, height int
	pointer       flocking.Pointer
	paused        bool
}

// New wraps an initialised screen. tps is the number of frames per second.
func New(screen tcell.Screen, world *simulation.World, tps int, logger log.Logger) *View {
	if logger == nil {
		logger = log.DiscardLogger
	}
	if tps < 1 {
		tps = 30
	}
	v := &View{
		screen: screen,
		world:  world,
		logger: logger,
		tick:   time.Second / time.Duration(tps),
	}
	v.width, v.height = screen.Size()
	return v
}

// Paused reports whether space froze the simulation.
func (v *View) Paused() bool {
	return v.paused
}

// Pointer returns the pointer passed to the next Step.
func (v *View) Pointer() flocking.Pointer {
	return v.pointer
}

// ToCell maps a world position to a terminal cell.
// ok is false when the position is outside the grid.
func (v *View) ToCell(p geometry.Vector2D) (x, y int, ok bool) {
	cfg := v.world.Config()
	fx := p.X / cfg.WorldWidth * float64(v.width)
	fy := p.Y / cfg.WorldHeight * float64(v.height)
	if fx < 0 || fy < 0 || fx >= float64(v.width) || fy >= float64(v.height) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// ToWorld maps a terminal cell to the world position of its centre.
func (v *View) ToWorld(x, y int) geometry.Vector2D {
	cfg := v.world.Config()
	return geometry.NewVector(
		(float64(x)+0.5)*cfg.WorldWidth/float64(v.width),
		(float64(y)+0.5)*cfg.WorldHeight/float64(v.height),
	)
}

// HandleEvent applies one terminal event. It returns false when the user quits.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			v.paused = !v.paused
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			v.pointer = flocking.Pointer{Active: true, Target: v.ToWorld(x, y)}
		} else {
			v.pointer = flocking.NoPointer
		}

	case *tcell.EventResize:
		v.width, v.height = v.screen.Size()
		v.screen.Sync()
	}
	return true
}

// Draw renders the current world state.
func (v *View) Draw() {
	v.screen.Clear()
	for _, view := range v.world.Snapshot() {
		for _, glyph := range simulation.Layout(view) {
			if x, y, ok := v.ToCell(glyph.Position); ok {
				v.screen.SetContent(x, y, glyph.Rune, nil, toneStyle(glyph.Tone))
			}
		}
	}
	if v.paused {
		for i, r := range "paused" {
			v.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Reverse(true))
		}
	}
	v.screen.Show()
}

// Run steps and draws the world until the user quits, ctx is done or a
// frame fails.
func (v *View) Run(ctx context.Context) error {
	ticker := time.NewTicker(v.tick)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if !v.HandleEvent(ev) {
				v.logger.Infof("quit after %d frames", v.world.Frame())
				return nil
			}

		case <-ticker.C:
			if !v.paused {
				if err := v.world.Step(v.pointer); err != nil {
					return err
				}
			}
			v.Draw()
		}
	}
}
