package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider edits a float64 it does not own, typically a live simulation setting.
type Slider struct {
	Label    string
	Value    *float64
	Min, Max float64
	X, Y     float64
	W, H     float64

	dragging bool
}

func NewSlider(x, y, w float64, label string, min, max float64, value *float64) *Slider {
	return &Slider{
		Label: label,
		Value: value,
		Min:   min,
		Max:   max,
		X:     x,
		Y:     y,
		W:     w,
		H:     10,
	}
}

// Update moves the value while the mouse button is held on the slider.
// A drag started on the slider keeps going when the cursor leaves it.
func (s *Slider) Update(in Input) {
	if !in.MousePressed() {
		s.dragging = false
		return
	}
	if !s.dragging && !inside(in, s.X, s.Y, s.W, s.H) {
		return
	}
	s.dragging = true

	mx, _ := in.CursorPosition()
	p := (float64(mx) - s.X) / s.W
	*s.Value = min(max(s.Min+p*(s.Max-s.Min), s.Min), s.Max)
}

// Dragging reports whether a drag started on the slider is still held.
func (s *Slider) Dragging() bool {
	return s.dragging
}

// Ratio returns the position of the value between Min and Max, in [0, 1].
func (s *Slider) Ratio() float64 {
	if s.Max == s.Min {
		return 0
	}
	return min(max((*s.Value-s.Min)/(s.Max-s.Min), 0), 1)
}

func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*s.Ratio()), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}

func (s *Slider) height() float64 { return s.H + 25 }
func (s *Slider) moveTo(y float64) { s.Y = y }
