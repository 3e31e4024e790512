package ui

import "github.com/hajimehoshi/ebiten/v2"

// Input is the pointer state the widgets react to.
type Input interface {
	CursorPosition() (x, y int)
	MousePressed() bool
	// Wheel returns the vertical wheel delta of the current tick.
	Wheel() float64
}

// EbitenInput reads the pointer state from ebiten. Only valid inside the game loop.
type EbitenInput struct{}

func (EbitenInput) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

func (EbitenInput) MousePressed() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

func (EbitenInput) Wheel() float64 {
	_, dy := ebiten.Wheel()
	return dy
}

// inside reports whether the cursor lies in the rectangle x, y, w, h.
func inside(in Input, x, y, w, h float64) bool {
	mx, my := in.CursorPosition()
	return float64(mx) >= x && float64(mx) <= x+w &&
		float64(my) >= y && float64(my) <= y+h
}
