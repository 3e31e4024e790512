package simulation

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/lao-tseu-is-alive/go-word-flock/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/labels"
	"github.com/tochemey/goakt/v3/log"
)

// statsEvery is the number of frames between two debug stat lines (10s at 60 TPS).
const statsEvery = 600

// AgentView is a read-only copy of one agent, safe to keep across frames.
type AgentView struct {
	Label    []rune
	Position geometry.Vector2D
	Velocity geometry.Vector2D
	Heading  float64
	Trail    []geometry.Vector2D
}

// World is the simulation as seen by a host: a flock spawned from a config
// and a label pool, advanced one frame at a time.
type World struct {
	cfg      *Config
	settings *flocking.Settings
	flock    *flocking.Flock
	logger   log.Logger
	frame    uint64
}

// NewWorld spawns cfg.NumAgents agents at the centre of the world, each one
// taking its label from pool. It fails with labels.ErrPoolExhausted when the
// pool holds fewer labels than agents.
func NewWorld(cfg *Config, pool *labels.Pool, rng *rand.Rand, logger log.Logger) (*World, error) {
	if logger == nil {
		logger = log.DiscardLogger
	}

	settings := cfg.Settings()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	if pool.Len() < cfg.NumAgents {
		return nil, fmt.Errorf("need %d labels, pool holds %d: %w", cfg.NumAgents, pool.Len(), labels.ErrPoolExhausted)
	}

	w := &World{
		cfg:      cfg,
		settings: &settings,
		flock:    flocking.NewFlock(mode, cfg.Workers),
		logger:   logger,
	}

	cx, cy := cfg.WorldWidth/2, cfg.WorldHeight/2
	for i := 0; i < cfg.NumAgents; i++ {
		label, err := pool.Take()
		if err != nil {
			return nil, fmt.Errorf("failed to label agent %d: %w", i, err)
		}
		a, err := flocking.NewAgent(cx, cy, label, rng, w.settings)
		if err != nil {
			return nil, fmt.Errorf("failed to spawn agent %d: %w", i, err)
		}
		w.flock.AddAgent(a)
	}

	logger.Infof("World %vx%v spawned %d agents (%s update, %d workers)",
		cfg.WorldWidth, cfg.WorldHeight, w.flock.Len(), mode, cfg.Workers)
	return w, nil
}

// NewWorldFromConfig loads the label file named by cfg and spawns a world
// from it. A zero seed picks one from the clock.
func NewWorldFromConfig(cfg *Config, seed uint64, logger log.Logger) (*World, error) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	pool, err := labels.LoadFile(cfg.WordsFile, rng)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Debugf("loaded %d labels from %s (seed %d)", pool.Len(), cfg.WordsFile, seed)
	}
	return NewWorld(cfg, pool, rng, logger)
}

// Step advances the world by one frame.
func (w *World) Step(p flocking.Pointer) error {
	if err := w.flock.Step(p); err != nil {
		w.logger.Errorf("frame %d: %v", w.frame, err)
		return fmt.Errorf("frame %d: %w", w.frame, err)
	}
	w.frame++
	if w.frame%statsEvery == 0 {
		w.logger.Debugf("frame %d: %d agents, mean speed %.3f", w.frame, w.flock.Len(), w.MeanSpeed())
	}
	return nil
}

// Frame returns the number of completed frames.
func (w *World) Frame() uint64 {
	return w.frame
}

func (w *World) Flock() *flocking.Flock {
	return w.flock
}

func (w *World) Config() *Config {
	return w.cfg
}

// Settings returns the live settings shared by every agent.
// Fields may be changed between two calls to Step.
func (w *World) Settings() *flocking.Settings {
	return w.settings
}

// MeanSpeed returns the average velocity magnitude, 0 for an empty world.
func (w *World) MeanSpeed() float64 {
	agents := w.flock.Agents()
	if len(agents) == 0 {
		return 0
	}
	var sum float64
	for _, a := range agents {
		sum += a.Vel.Len()
	}
	return sum / float64(len(agents))
}

// Snapshot copies the state every renderer needs, in insertion order.
func (w *World) Snapshot() []AgentView {
	agents := w.flock.Agents()
	views := make([]AgentView, len(agents))
	for i, a := range agents {
		views[i] = AgentView{
			Label:    slices.Clone(a.Runes()),
			Position: a.Pos,
			Velocity: a.Vel,
			Heading:  a.Heading(),
			Trail:    a.Trail(),
		}
	}
	return views
}
