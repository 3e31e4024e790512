package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is anything the panel can stack vertically.
type Widget interface {
	Update(in Input)
	Draw(screen *ebiten.Image)
	height() float64
	moveTo(y float64)
}

type section struct {
	title string
	start int // index of the first widget of the section
	y     float64
}

// Panel is a scrollable column of widgets grouped in titled sections.
type Panel struct {
	X, Y          float64
	Width, Height float64
	Title         string
	Visible       bool
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	widgets  []Widget
	rows     []float64 // top of each widget row after the last layout
	sections []section
	content  float64 // total content height

	pressed   bool // mouse button state at the previous Update
	capturing bool // the current press began on the panel
}

func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Title:       title,
		Visible:     true,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new section; widgets added next belong to it.
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, section{title: title, start: len(p.widgets)})
}

func (p *Panel) AddSlider(label string, min, max float64, value *float64) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(s)
	return s
}

func (p *Panel) AddCheckbox(label string, value *bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.add(c)
	return c
}

func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, 20, label, onClick)
	p.add(b)
	return b
}

func (p *Panel) add(w Widget) {
	p.widgets = append(p.widgets, w)
	p.layout()
}

// Toggle shows or hides the panel.
func (p *Panel) Toggle() {
	p.Visible = !p.Visible
}

// Contains reports whether the screen point x, y is covered by the visible panel.
func (p *Panel) Contains(x, y int) bool {
	return p.Visible &&
		float64(x) >= p.X && float64(x) <= p.X+p.Width &&
		float64(y) >= p.Y && float64(y) <= p.Y+p.Height
}

// Capturing reports whether the panel owns the current press: it began on the
// panel or a slider is still being dragged, wherever the cursor is now.
func (p *Panel) Capturing() bool {
	if !p.Visible || !p.pressed {
		return false
	}
	if p.capturing {
		return true
	}
	for _, w := range p.widgets {
		if s, ok := w.(*Slider); ok && s.Dragging() {
			return true
		}
	}
	return false
}

// layout assigns every section header and widget its screen position for
// the current scroll offset.
func (p *Panel) layout() {
	top := p.Y + 30 - p.ScrollOffset
	y := top
	p.rows = p.rows[:0]
	si := 0
	for i, w := range p.widgets {
		for si < len(p.sections) && p.sections[si].start == i {
			p.sections[si].y = y
			y += 25
			si++
		}
		p.rows = append(p.rows, y)
		w.moveTo(y + 15)
		y += w.height()
	}
	for ; si < len(p.sections); si++ {
		p.sections[si].y = y
		y += 25
	}
	p.content = y - top
}

func (p *Panel) rowVisible(y float64) bool {
	return y >= p.Y+25 && y+15 <= p.Y+p.Height
}

// Update scrolls the panel and forwards input to the widgets that are on screen.
func (p *Panel) Update(in Input) {
	mx, my := in.CursorPosition()
	pressed := in.MousePressed()
	switch {
	case !pressed:
		p.capturing = false
	case !p.pressed:
		p.capturing = p.Contains(mx, my)
	}
	p.pressed = pressed

	if !p.Visible {
		p.capturing = false
		return
	}

	if dy := in.Wheel(); dy != 0 && p.Contains(mx, my) {
		maxScroll := max(p.content-p.Height+40, 0)
		p.ScrollOffset = min(max(p.ScrollOffset-dy*20, 0), maxScroll)
	}

	p.layout()
	for i, w := range p.widgets {
		if p.rowVisible(p.rows[i]) {
			w.Update(in)
		}
	}
}

func (p *Panel) Draw(screen *ebiten.Image) {
	if !p.Visible {
		return
	}

	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	for _, s := range p.sections {
		if !p.rowVisible(s.y) {
			continue
		}
		vector.FillRect(screen,
			float32(p.X+5), float32(s.y),
			float32(p.Width-10), 20,
			color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
		ebitenutil.DebugPrintAt(screen, s.title, int(p.X+10), int(s.y+3))
	}

	for i, w := range p.widgets {
		row := p.rows[i]
		if !p.rowVisible(row) {
			continue
		}
		switch w := w.(type) {
		case *Slider:
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %.3g", w.Label, *w.Value), int(p.X+10), int(row))
		case *Checkbox:
			ebitenutil.DebugPrintAt(screen, w.Label, int(w.X+w.Size+8), int(w.Y))
		}
		w.Draw(screen)
	}
}
