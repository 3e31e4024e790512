package flocking

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-word-flock/pkg/geometry"
)

// Settings controls the physics constants for the simulation.
// Every agent of a flock points at the same Settings, so changing a field
// between two frames retunes the whole flock.
type Settings struct {
	MaxSpeed float64 // velocity magnitude cap after every integration
	MaxForce float64 // cap of each separation, alignment and cohesion contribution

	DesiredSeparation float64 // separation radius
	NeighborDist      float64 // alignment and cohesion radius

	SeparationWeight float64
	AlignmentWeight  float64
	CohesionWeight   float64

	// BorderSoftening divides the penetration depth past a world edge.
	// The resulting force is not clamped by MaxForce.
	BorderSoftening float64

	// TrailDistance is the constant link length of the trail chain.
	TrailDistance float64

	Width  float64
	Height float64
}

// DefaultSettings returns the classic word-flock tuning for a world of the given size.
func DefaultSettings(width, height float64) Settings {
	return Settings{
		MaxSpeed:          3.0,
		MaxForce:          0.05,
		DesiredSeparation: 25.0,
		NeighborDist:      50.0,
		SeparationWeight:  5.0,
		AlignmentWeight:   0.5,
		CohesionWeight:    0.5,
		BorderSoftening:   400.0,
		TrailDistance:     15.0,
		Width:             width,
		Height:            height,
	}
}

// Validate rejects settings that would make the engine divide by zero or
// produce a world without area.
func (s *Settings) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"maxSpeed", s.MaxSpeed},
		{"maxForce", s.MaxForce},
		{"desiredSeparation", s.DesiredSeparation},
		{"neighborDist", s.NeighborDist},
		{"borderSoftening", s.BorderSoftening},
		{"trailDistance", s.TrailDistance},
		{"width", s.Width},
		{"height", s.Height},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return fmt.Errorf("invalid settings: %s must be > 0, got %v", p.name, p.value)
		}
	}
	return nil
}

// Pointer is the host's cursor state for one frame.
// When Active, cohesion of every agent seeks Target instead of the local centroid.
type Pointer struct {
	Active bool
	Target geometry.Vector2D
}

// NoPointer is the inactive pointer.
var NoPointer = Pointer{}
