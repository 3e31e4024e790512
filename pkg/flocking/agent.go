// Package flocking implements Reynolds-style steering for a flock of word
// carrying agents: separation, alignment, cohesion, a soft border push and
// a fixed-length trail that follows each agent.
package flocking

import (
	"errors"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-word-flock/pkg/geometry"
)

// ErrEmptyLabel is returned by NewAgent when the label has no rune to draw.
var ErrEmptyLabel = errors.New("agent label must not be empty")

// Agent is a single boid of the flock. It carries a word: rune 0 is drawn at
// Pos and rune i+1 at trail node i.
// Pos, Vel and Acc are exported so renderers and tests can read them directly.
type Agent struct {
	Pos geometry.Vector2D
	Vel geometry.Vector2D
	Acc geometry.Vector2D

	label    []rune
	trail    []geometry.Vector2D
	settings *Settings
}

// NewAgent creates an agent at (x, y) carrying label.
// Both velocity components are drawn uniformly in [-1, 1) from rng; a nil rng
// leaves the agent at rest. The trail gets one node per rune after the first,
// laid out on a short horizontal line starting at the spawn point.
func NewAgent(x, y float64, label string, rng *rand.Rand, s *Settings) (*Agent, error) {
	runes := []rune(label)
	if len(runes) == 0 {
		return nil, ErrEmptyLabel
	}

	a := &Agent{
		Pos:      geometry.NewVector(x, y),
		label:    runes,
		trail:    make([]geometry.Vector2D, len(runes)-1),
		settings: s,
	}
	if rng != nil {
		a.Vel = geometry.NewVector(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	for i := range a.trail {
		a.trail[i] = geometry.NewVector(x+float64(i)/10, y)
	}
	return a, nil
}

// Label returns the word carried by the agent.
func (a *Agent) Label() string {
	return string(a.label)
}

// Runes returns the label runes. The slice must not be modified.
func (a *Agent) Runes() []rune {
	return a.label
}

// Trail returns a copy of the trail nodes, nearest to the agent first.
func (a *Agent) Trail() []geometry.Vector2D {
	out := make([]geometry.Vector2D, len(a.trail))
	copy(out, a.trail)
	return out
}

// Heading is the direction of travel in radians.
func (a *Agent) Heading() float64 {
	return a.Vel.Heading()
}

// Settings returns the shared settings the agent steers with.
func (a *Agent) Settings() *Settings {
	return a.settings
}

// ApplyForce accumulates force into the acceleration of the current frame.
func (a *Agent) ApplyForce(force geometry.Vector2D) {
	a.Acc = a.Acc.Add(force)
}

// Integrate moves the agent one frame: the accumulated acceleration is added
// to the velocity, the speed is capped, the position advances and the
// acceleration is cleared.
func (a *Agent) Integrate() {
	a.Vel = a.Vel.Add(a.Acc).Limit(a.settings.MaxSpeed)
	a.Pos = a.Pos.Add(a.Vel)
	a.Acc = geometry.Zero
}

// UpdateTrail relaxes the trail chain so that every node sits exactly
// TrailDistance from the one before it (the agent itself for node 0).
// Nodes are processed in order, each one following its freshly moved parent.
func (a *Agent) UpdateTrail() {
	link := a.settings.TrailDistance
	anchor := a.Pos
	for i := range a.trail {
		dir := a.trail[i].Sub(anchor).Normalize()
		if dir.LenSqr() == 0 {
			dir = a.behind()
		}
		a.trail[i] = anchor.Add(dir.Mul(link))
		anchor = a.trail[i]
	}
}

// behind is the unit vector opposite to the direction of travel, or +X for
// an agent at rest. It orients trail nodes that collapsed onto their parent.
func (a *Agent) behind() geometry.Vector2D {
	dir := a.Vel.Normalize().Mul(-1)
	if dir.LenSqr() == 0 {
		return geometry.NewVector(1, 0)
	}
	return dir
}

// Step runs one full frame for the agent against agents, the whole flock
// including the agent itself.
func (a *Agent) Step(agents []*Agent, p Pointer) {
	a.advance(a.ComputeSteering(agents, p))
}

// advance applies an already computed steering force and moves the agent.
func (a *Agent) advance(force geometry.Vector2D) {
	a.ApplyForce(force)
	a.Integrate()
	a.UpdateTrail()
}
