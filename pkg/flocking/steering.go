package flocking

import (
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/geometry"
)

// Forces holds the four unweighted steering contributions of one frame.
type Forces struct {
	Separation geometry.Vector2D
	Alignment  geometry.Vector2D
	Cohesion   geometry.Vector2D
	Border     geometry.Vector2D
}

// Weighted combines the contributions with the weights of s.
// The border push is added as is.
func (f Forces) Weighted(s *Settings) geometry.Vector2D {
	return f.Separation.Mul(s.SeparationWeight).
		Add(f.Alignment.Mul(s.AlignmentWeight)).
		Add(f.Cohesion.Mul(s.CohesionWeight)).
		Add(f.Border)
}

// Forces computes every steering contribution against agents.
// It only reads the other agents, so it is safe to call concurrently for
// different agents as long as nobody moves during the call.
func (a *Agent) Forces(agents []*Agent, p Pointer) Forces {
	return Forces{
		Separation: a.Separate(agents),
		Alignment:  a.Align(agents),
		Cohesion:   a.Cohere(agents, p),
		Border:     a.Borders(),
	}
}

// ComputeSteering returns the weighted sum of all steering contributions.
func (a *Agent) ComputeSteering(agents []*Agent, p Pointer) geometry.Vector2D {
	return a.Forces(agents, p).Weighted(a.settings)
}

// Separate steers away from agents closer than DesiredSeparation.
// Each neighbour pushes along the unit vector pointing away from it, weighted
// by 1/d, and the pushes are averaged.
func (a *Agent) Separate(agents []*Agent) geometry.Vector2D {
	s := a.settings
	push := geometry.Zero
	count := 0

	for _, other := range agents {
		d := a.Pos.DistanceTo(other.Pos)
		// d == 0 is the agent itself
		if d > 0 && d < s.DesiredSeparation {
			away := a.Pos.Sub(other.Pos).Normalize()
			push = push.Add(div(away, d))
			count++
		}
	}

	if count > 0 {
		push = div(push, float64(count))
	}
	if push.Len() > 0 {
		return a.reynolds(push)
	}
	return geometry.Zero
}

// Align steers toward the average velocity of agents within NeighborDist.
func (a *Agent) Align(agents []*Agent) geometry.Vector2D {
	s := a.settings
	sum := geometry.Zero
	count := 0

	for _, other := range agents {
		d := a.Pos.DistanceTo(other.Pos)
		if d > 0 && d < s.NeighborDist {
			sum = sum.Add(other.Vel)
			count++
		}
	}

	if count == 0 {
		return geometry.Zero
	}
	return a.reynolds(div(sum, float64(count)))
}

// Cohere seeks the centroid of agents within NeighborDist.
// An active pointer overrides the centroid: the agent seeks the pointer target.
func (a *Agent) Cohere(agents []*Agent, p Pointer) geometry.Vector2D {
	if p.Active {
		return a.Seek(p.Target)
	}

	s := a.settings
	sum := geometry.Zero
	count := 0

	for _, other := range agents {
		d := a.Pos.DistanceTo(other.Pos)
		if d > 0 && d < s.NeighborDist {
			sum = sum.Add(other.Pos)
			count++
		}
	}

	if count == 0 {
		return geometry.Zero
	}
	return a.Seek(div(sum, float64(count)))
}

// Seek returns the steering force toward target.
// A target exactly on the agent has no direction, so the result is
// limit(-Vel, MaxForce) rather than a zero vector: the force only brakes the
// current velocity, and is zero only for an agent at rest.
func (a *Agent) Seek(target geometry.Vector2D) geometry.Vector2D {
	return a.reynolds(target.Sub(a.Pos))
}

// Borders pushes the agent back inside [0,Width]x[0,Height] proportionally
// to how far it went out. The push is not clamped by MaxForce.
func (a *Agent) Borders() geometry.Vector2D {
	s := a.settings
	push := geometry.Zero

	if a.Pos.X < 0 {
		push.X += -a.Pos.X / s.BorderSoftening
	}
	if a.Pos.Y < 0 {
		push.Y += -a.Pos.Y / s.BorderSoftening
	}
	if a.Pos.X > s.Width {
		push.X += (s.Width - a.Pos.X) / s.BorderSoftening
	}
	if a.Pos.Y > s.Height {
		push.Y += (s.Height - a.Pos.Y) / s.BorderSoftening
	}
	return push
}

// reynolds turns a desired direction into a steering force:
// steer = limit(desired*MaxSpeed - velocity, MaxForce).
func (a *Agent) reynolds(desired geometry.Vector2D) geometry.Vector2D {
	s := a.settings
	return desired.SetLen(s.MaxSpeed).Sub(a.Vel).Limit(s.MaxForce)
}

// div divides v by a neighbour count or distance already checked positive.
func div(v geometry.Vector2D, by float64) geometry.Vector2D {
	out, err := v.Div(by)
	if err != nil {
		return geometry.Zero
	}
	return out
}
