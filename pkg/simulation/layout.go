package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-word-flock/pkg/geometry"
)

// Tone tells a renderer which colour family a glyph belongs to.
type Tone int

const (
	ToneHead Tone = iota
	ToneEven      // trail nodes 0, 2, 4...
	ToneOdd       // trail nodes 1, 3, 5...
)

func (t Tone) String() string {
	switch t {
	case ToneHead:
		return "head"
	case ToneEven:
		return "even"
	case ToneOdd:
		return "odd"
	default:
		return "unknown"
	}
}

// RGB returns the colour of the tone. The head shares the colour of the odd
// trail nodes so a label reads as alternating red and green from the head on.
func (t Tone) RGB() (r, g, b uint8) {
	switch t {
	case ToneEven:
		return 120, 220, 120
	default:
		return 220, 120, 120
	}
}

// Glyph is one character of a label placed in world coordinates.
type Glyph struct {
	Rune     rune
	Position geometry.Vector2D
	Rotation float64 // radians, the way the glyph baseline points
	Tone     Tone
}

// Layout places the label of an agent along its body.
// The first character sits on the agent and faces backwards; character i+1
// sits on trail node i and follows the segment coming from the node before it.
func Layout(v AgentView) []Glyph {
	if len(v.Label) == 0 {
		return nil
	}
	n := min(len(v.Label)-1, len(v.Trail))
	glyphs := make([]Glyph, 0, n+1)
	glyphs = append(glyphs, Glyph{
		Rune:     v.Label[0],
		Position: v.Position,
		Rotation: v.Heading + math.Pi,
		Tone:     ToneHead,
	})

	prev := v.Position
	for i := 0; i < n; i++ {
		node := v.Trail[i]
		tone := ToneEven
		if i%2 == 1 {
			tone = ToneOdd
		}
		glyphs = append(glyphs, Glyph{
			Rune:     v.Label[i+1],
			Position: node,
			Rotation: node.Sub(prev).Heading(),
			Tone:     tone,
		})
		prev = node
	}
	return glyphs
}
