package metrics

import (
	"sync"
	"time"

	"birdseye/env"
)

// TrialParams is everything a trial engine receives for one trial.
type TrialParams struct {
	Iterations  int // Steps per trial
	Depth       int // Search tree depth
	Horizon     int // Simulated steps per search episode
	Plotting    bool
	Simulations int // Search episodes per step
	Figure      *Figure
	Tally       *Tally
}

// Outcome is the result of one trial as reported by the trial engine.
type Outcome struct {
	Steps         int
	Collided      bool
	Lost          bool
	MeanReward    float64
	FinalRange    float64
	EstimateError float64       // Distance between the belief mean and the source at the end
	PlanningTime  time.Duration // Total time spent searching
	Episodes      int           // Search episodes across all steps

	// Running totals over the run so far, copied from the Tally
	CumulativeCollisions int
	CumulativeLosses     int
}

// RunRecord is one row of the persisted run data.
type RunRecord struct {
	Timestamp time.Time
	Duration  time.Duration
	Outcome
}

// Tally accumulates collision and loss counts across the trials of a run.
type Tally struct {
	mu         sync.Mutex
	collisions int
	losses     int
}

func NewTally() *Tally {
	return &Tally{}
}

// Record counts one finished trial and returns the running totals.
func (t *Tally) Record(collided, lost bool) (collisions, losses int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if collided {
		t.collisions++
	}
	if lost {
		t.losses++
	}
	return t.collisions, t.losses
}

func (t *Tally) Totals() (collisions, losses int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.collisions, t.losses
}

// Frame is one plotted step of a trial.
type Frame struct {
	State     env.State
	Particles []env.State
}

// Figure collects the frames of the current trial for rendering. One figure is
// reused across the trials of a run and cleared at the start of each trial.
type Figure struct {
	frames []Frame
}

func NewFigure() *Figure {
	return &Figure{}
}

func (f *Figure) Clear() {
	f.frames = f.frames[:0]
}

func (f *Figure) Add(frame Frame) {
	f.frames = append(f.frames, frame)
}

func (f *Figure) Frames() []Frame {
	return f.frames
}
