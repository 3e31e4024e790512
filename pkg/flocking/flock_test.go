package flocking

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-word-flock/pkg/geometry"
)

// buildFlock spawns n agents in a tight cluster so every rule is active.
func buildFlock(t testing.TB, mode UpdateMode, workers, n int, s *Settings) *Flock {
	t.Helper()
	rng := rand.New(rand.NewPCG(42, 1))
	f := NewFlock(mode, workers)
	for i := 0; i < n; i++ {
		a, err := NewAgent(340+rng.Float64()*40, 270+rng.Float64()*40, "wordy", rng, s)
		if err != nil {
			t.Fatalf("NewAgent returned error: %v", err)
		}
		f.AddAgent(a)
	}
	return f
}

func TestParseUpdateMode(t *testing.T) {
	tests := []struct {
		in      string
		want    UpdateMode
		wantErr bool
	}{
		{"", UpdateSynchronous, false},
		{"synchronous", UpdateSynchronous, false},
		{" Staggered ", UpdateStaggered, false},
		{"parallel", UpdateSynchronous, true},
	}
	for _, tt := range tests {
		got, err := ParseUpdateMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUpdateMode(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUpdateMode(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
	if UpdateStaggered.String() != "staggered" {
		t.Errorf("UpdateStaggered.String() = %q", UpdateStaggered.String())
	}
}

func TestFlock_AddAgent(t *testing.T) {
	s := testSettings()
	f := NewFlock(UpdateSynchronous, 0)
	a := newTestAgent(t, 1, 1, "ab", s)
	b := newTestAgent(t, 2, 2, "cd", s)
	f.AddAgent(a)
	f.AddAgent(b)

	if f.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", f.Len())
	}
	if f.Agents()[0] != a || f.Agents()[1] != b {
		t.Error("agents are not kept in insertion order")
	}
}

func TestFlock_Step_SynchronousIgnoresOrder(t *testing.T) {
	s := testSettings()
	a1 := newTestAgent(t, 100, 100, "ab", s)
	b1 := newTestAgent(t, 110, 100, "cd", s)
	c1 := newTestAgent(t, 130, 120, "ef", s)
	b1.Vel = geometry.NewVector(1, -0.5)
	c1.Vel = geometry.NewVector(-0.3, 0.8)

	clone := func(a *Agent) *Agent {
		c := *a
		c.trail = a.Trail()
		return &c
	}
	a2, b2, c2 := clone(a1), clone(b1), clone(c1)

	forward := NewFlock(UpdateSynchronous, 1)
	for _, a := range []*Agent{a1, b1, c1} {
		forward.AddAgent(a)
	}
	backward := NewFlock(UpdateSynchronous, 1)
	for _, a := range []*Agent{c2, b2, a2} {
		backward.AddAgent(a)
	}

	for frame := 0; frame < 5; frame++ {
		if err := forward.Step(NoPointer); err != nil {
			t.Fatalf("forward Step returned error: %v", err)
		}
		if err := backward.Step(NoPointer); err != nil {
			t.Fatalf("backward Step returned error: %v", err)
		}
	}

	for _, pair := range [][2]*Agent{{a1, a2}, {b1, b2}, {c1, c2}} {
		if !pair[0].Pos.Eq(pair[1].Pos) || !pair[0].Vel.Eq(pair[1].Vel) {
			t.Errorf("agent %q differs with insertion order: %v/%v vs %v/%v",
				pair[0].Label(), pair[0].Pos, pair[0].Vel, pair[1].Pos, pair[1].Vel)
		}
	}
}

func TestFlock_Step_StaggeredSeesMovedAgents(t *testing.T) {
	s := testSettings()
	sync := buildFlock(t, UpdateSynchronous, 1, 20, s)
	stag := buildFlock(t, UpdateStaggered, 1, 20, s)

	if err := sync.Step(NoPointer); err != nil {
		t.Fatalf("synchronous Step returned error: %v", err)
	}
	if err := stag.Step(NoPointer); err != nil {
		t.Fatalf("staggered Step returned error: %v", err)
	}

	// the first agent sees the same pre-step flock in both modes
	if !sync.Agents()[0].Pos.Eq(stag.Agents()[0].Pos) {
		t.Errorf("first agent differs: %v vs %v", sync.Agents()[0].Pos, stag.Agents()[0].Pos)
	}
	differs := false
	for i := range sync.Agents() {
		if !sync.Agents()[i].Vel.Eq(stag.Agents()[i].Vel) {
			differs = true
		}
	}
	if !differs {
		t.Error("staggered update produced the same frame as synchronous update")
	}
}

func TestFlock_Step_WorkersMatchSequential(t *testing.T) {
	s := testSettings()
	seq := buildFlock(t, UpdateSynchronous, 1, 50, s)
	par := buildFlock(t, UpdateSynchronous, 4, 50, s)
	pointer := Pointer{Active: true, Target: geometry.NewVector(100, 100)}

	for frame := 0; frame < 20; frame++ {
		if err := seq.Step(pointer); err != nil {
			t.Fatalf("sequential Step returned error: %v", err)
		}
		if err := par.Step(pointer); err != nil {
			t.Fatalf("parallel Step returned error: %v", err)
		}
	}
	for i := range seq.Agents() {
		if seq.Agents()[i].Pos != par.Agents()[i].Pos {
			t.Fatalf("agent %d: sequential %v vs parallel %v", i, seq.Agents()[i].Pos, par.Agents()[i].Pos)
		}
	}
}

func TestFlock_Step_VisitsEveryAgent(t *testing.T) {
	s := testSettings()
	f := NewFlock(UpdateSynchronous, 1)
	for i := 0; i < 10; i++ {
		// 60 apart: further than NeighborDist, still inside the world
		a := newTestAgent(t, 30+float64(i*60), 100, "ab", s)
		a.Vel = geometry.NewVector(1, 0)
		f.AddAgent(a)
	}
	if err := f.Step(NoPointer); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	for i, a := range f.Agents() {
		if !floatEquals(a.Pos.X, 30+float64(i*60)+1) {
			t.Errorf("agent %d at %v; want moved by exactly one frame", i, a.Pos)
		}
	}
}

func TestFlock_Step_NonFinite(t *testing.T) {
	s := testSettings()
	f := NewFlock(UpdateSynchronous, 1)
	a := newTestAgent(t, 100, 100, "ab", s)
	a.Pos = geometry.NewVector(math.NaN(), 100)
	f.AddAgent(a)
	f.AddAgent(newTestAgent(t, 200, 100, "cd", s))

	if err := f.Step(NoPointer); !errors.Is(err, ErrNonFiniteState) {
		t.Errorf("Step error = %v; want ErrNonFiniteState", err)
	}
}

func TestFlock_Step_Empty(t *testing.T) {
	f := NewFlock(UpdateSynchronous, 8)
	if err := f.Step(NoPointer); err != nil {
		t.Errorf("Step on empty flock returned error: %v", err)
	}
}

func TestSettings_Validate(t *testing.T) {
	s := DefaultSettings(720, 576)
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings rejected: %v", err)
	}
	s.BorderSoftening = 0
	if err := s.Validate(); err == nil {
		t.Error("zero border softening accepted")
	}
	s = DefaultSettings(0, 576)
	if err := s.Validate(); err == nil {
		t.Error("zero width accepted")
	}
}

func BenchmarkFlock_Step(b *testing.B) {
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers-%d", workers), func(b *testing.B) {
			s := testSettings()
			f := buildFlock(b, UpdateSynchronous, workers, 93, s)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = f.Step(NoPointer)
			}
		})
	}
}
