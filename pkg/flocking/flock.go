package flocking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lao-tseu-is-alive/go-word-flock/pkg/geometry"
	"golang.org/x/sync/errgroup"
)

// ErrNonFiniteState is returned by Flock.Step when an agent ends a frame with
// a NaN or infinite position or velocity. The simulation cannot recover from it.
var ErrNonFiniteState = errors.New("agent state is not finite")

// UpdateMode selects how agents observe each other within one frame.
type UpdateMode int

const (
	// UpdateSynchronous computes every steering force from the state at the
	// start of the frame, then moves every agent.
	UpdateSynchronous UpdateMode = iota
	// UpdateStaggered steps agents one after the other in insertion order;
	// later agents see the already moved earlier ones.
	UpdateStaggered
)

func (m UpdateMode) String() string {
	switch m {
	case UpdateSynchronous:
		return "synchronous"
	case UpdateStaggered:
		return "staggered"
	default:
		return fmt.Sprintf("UpdateMode(%d)", int(m))
	}
}

// ParseUpdateMode maps "synchronous" or "staggered" (case insensitive) to an UpdateMode.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "synchronous":
		return UpdateSynchronous, nil
	case "staggered":
		return UpdateStaggered, nil
	default:
		return UpdateSynchronous, fmt.Errorf("unknown update mode %q", s)
	}
}

// Flock owns the agents and drives their per-frame update.
type Flock struct {
	agents  []*Agent
	mode    UpdateMode
	workers int

	// steering forces of the current frame, reused between frames
	forces []geometry.Vector2D
}

// NewFlock creates an empty flock.
// workers bounds the goroutines computing steering in synchronous mode;
// values below 1 mean sequential.
func NewFlock(mode UpdateMode, workers int) *Flock {
	if workers < 1 {
		workers = 1
	}
	return &Flock{
		mode:    mode,
		workers: workers,
	}
}

// AddAgent appends a to the flock. Agents are updated in insertion order.
func (f *Flock) AddAgent(a *Agent) {
	f.agents = append(f.agents, a)
}

// Agents returns the agents in insertion order. The slice is owned by the flock.
func (f *Flock) Agents() []*Agent {
	return f.agents
}

// Len returns the number of agents.
func (f *Flock) Len() int {
	return len(f.agents)
}

// Mode returns the update mode of the flock.
func (f *Flock) Mode() UpdateMode {
	return f.mode
}

// Step advances every agent by one frame and checks that the flock state
// stayed finite.
func (f *Flock) Step(p Pointer) error {
	switch f.mode {
	case UpdateStaggered:
		for _, a := range f.agents {
			a.Step(f.agents, p)
		}
	default:
		if err := f.computeForces(p); err != nil {
			return err
		}
		for i, a := range f.agents {
			a.advance(f.forces[i])
		}
	}
	return f.checkFinite()
}

// computeForces fills f.forces from the pre-step state of the flock.
// Agents are only read here, so the work can be split between goroutines.
func (f *Flock) computeForces(p Pointer) error {
	n := len(f.agents)
	if cap(f.forces) < n {
		f.forces = make([]geometry.Vector2D, n)
	}
	f.forces = f.forces[:n]

	if f.workers == 1 || n < 2 {
		for i, a := range f.agents {
			f.forces[i] = a.ComputeSteering(f.agents, p)
		}
		return nil
	}

	chunk := (n + f.workers - 1) / f.workers
	var g errgroup.Group
	g.SetLimit(f.workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				f.forces[i] = f.agents[i].ComputeSteering(f.agents, p)
			}
			return nil
		})
	}
	return g.Wait()
}

func (f *Flock) checkFinite() error {
	for i, a := range f.agents {
		if !a.Pos.IsFinite() || !a.Vel.IsFinite() {
			return fmt.Errorf("agent %d %q at %v moving %v: %w", i, a.Label(), a.Pos, a.Vel, ErrNonFiniteState)
		}
	}
	return nil
}
