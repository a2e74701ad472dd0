package agent

import (
	"errors"
	"fmt"
	"math"

	"birdseye/belief"
	"birdseye/env"
	"birdseye/experiments/metrics"
	"birdseye/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const DefaultParticles = 500

type Option func(e *Engine)

// Engine runs single MCTS trials: at every step it plans from the particle
// belief, acts, observes and updates the belief. An Engine is used by one
// goroutine at a time.
type Engine struct {
	rng        *rand.Rand
	particles  int
	goroutines int
}

func WithParticles(particles int) Option {
	return func(e *Engine) {
		if particles > 0 {
			e.particles = particles
		}
	}
}

func WithGoroutines(goroutines int) Option {
	return func(e *Engine) {
		if goroutines > 0 {
			e.goroutines = goroutines
		}
	}
}

func NewEngine(seed uint64, options ...Option) *Engine {
	e := &Engine{
		rng:        rand.New(rand.NewSource(seed)),
		particles:  DefaultParticles,
		goroutines: 1,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

var ErrNoModel = errors.New("environment does not provide a planning model")

// Execute runs one trial. The trial ends after params.Iterations steps or at
// the first collision or loss, whichever comes first.
func (e *Engine) Execute(environment env.Environment, params metrics.TrialParams) (metrics.Outcome, error) {
	model, ok := environment.(env.Model)
	if !ok {
		return metrics.Outcome{}, fmt.Errorf("%s: %w", environment.Name(), ErrNoModel)
	}
	if err := validate(params); err != nil {
		return metrics.Outcome{}, err
	}

	mcts := searcher.NewMCTS(model,
		searcher.WithSimulations(params.Simulations),
		searcher.WithDepth(params.Depth),
		searcher.WithHorizon(params.Horizon),
		searcher.WithGoroutines(e.goroutines),
		searcher.WithMetrics(),
	)

	state := model.Reset(e.rng)
	particles := belief.New(model, e.particles, state.Sensor, e.rng)

	figure := params.Figure
	if !params.Plotting {
		figure = nil
	}
	if figure != nil {
		figure.Clear()
		figure.Add(metrics.Frame{State: state, Particles: particles.Particles()})
	}

	var outcome metrics.Outcome
	total := 0.0
	for step := 0; step < params.Iterations; step++ {
		action, metric := mcts.Plan(particles, e.rng)
		outcome.PlanningTime += metric.Duration
		outcome.Episodes += metric.Episodes

		state = model.Transition(state, action, e.rng)
		total += model.Reward(state)
		outcome.Steps++

		particles.Update(action, model.Observe(state, e.rng))
		if figure != nil {
			figure.Add(metrics.Frame{State: state, Particles: particles.Particles()})
		}

		if model.Collided(state) {
			outcome.Collided = true
			break
		}
		if model.Lost(state) {
			outcome.Lost = true
			break
		}
	}

	x, y := particles.Mean()
	outcome.MeanReward = total / float64(outcome.Steps)
	outcome.FinalRange = state.Range()
	outcome.EstimateError = math.Hypot(x-state.Target.X, y-state.Target.Y)
	outcome.CumulativeCollisions, outcome.CumulativeLosses = params.Tally.Record(outcome.Collided, outcome.Lost)

	log.Debug().
		Int("steps", outcome.Steps).
		Bool("collided", outcome.Collided).
		Bool("lost", outcome.Lost).
		Float64("estimate_error", outcome.EstimateError).
		Msg("trial finished")
	return outcome, nil
}

func validate(params metrics.TrialParams) error {
	switch {
	case params.Iterations <= 0:
		return fmt.Errorf("iterations must be positive, got %d", params.Iterations)
	case params.Simulations <= 0:
		return fmt.Errorf("simulations must be positive, got %d", params.Simulations)
	case params.Depth <= 0:
		return fmt.Errorf("depth must be positive, got %d", params.Depth)
	case params.Tally == nil:
		return errors.New("missing tally")
	}
	return nil
}
