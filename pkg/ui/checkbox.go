package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox toggles a bool it does not own.
type Checkbox struct {
	Label   string
	Value   *bool
	X, Y    float64
	Size    float64
	clicked bool // already toggled by the current press
}

func NewCheckbox(x, y float64, label string, value *bool) *Checkbox {
	return &Checkbox{
		Label: label,
		Value: value,
		X:     x,
		Y:     y,
		Size:  16,
	}
}

// Update toggles the value once per click.
func (c *Checkbox) Update(in Input) {
	if inside(in, c.X, c.Y, c.Size, c.Size) && in.MousePressed() {
		if !c.clicked {
			*c.Value = !*c.Value
			c.clicked = true
		}
	} else {
		c.clicked = false
	}
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.Size), float32(c.Size),
		2,
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
		true)

	if *c.Value {
		vector.FillRect(screen,
			float32(c.X+2), float32(c.Y+2),
			float32(c.Size-4), float32(c.Size-4),
			color.RGBA{R: 100, G: 200, B: 100, A: 255},
			true)
	}
}

func (c *Checkbox) height() float64 { return c.Size + 20 }
func (c *Checkbox) moveTo(y float64) { c.Y = y }
