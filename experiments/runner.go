package experiments

import (
	"time"

	"birdseye/config"
	"birdseye/env"
	"birdseye/experiments/metrics"
)

// Horizon is the number of simulated steps per search episode handed to the engine.
const Horizon = 20

// Engine executes a single trial against an environment.
type Engine interface {
	Execute(environment env.Environment, params metrics.TrialParams) (metrics.Outcome, error)
}

// TrialHook is called after every trial with the trial index and all records
// so far. It runs before the next trial starts.
type TrialHook func(trial int, records []metrics.RunRecord) error

type RunnerOption func(r *Runner)

// Runner executes the trials of one run in order, one at a time.
type Runner struct {
	engine      Engine
	environment env.Environment
	config      config.Config
	figure      *metrics.Figure
	tally       *metrics.Tally
	now         func() time.Time
}

// WithClock replaces time.Now for timestamps and durations.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRunner(engine Engine, environment env.Environment, cfg config.Config, options ...RunnerOption) *Runner {
	r := &Runner{
		engine:      engine,
		environment: environment,
		config:      cfg,
		tally:       metrics.NewTally(),
		now:         time.Now,
	}
	if cfg.Plotting {
		r.figure = metrics.NewFigure()
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Figure is the figure shared by every trial of the run, nil without plotting.
func (r *Runner) Figure() *metrics.Figure {
	return r.figure
}

// Run executes trials 1..Trials. An engine failure stops the run with a
// *TrialExecutionError and a hook failure stops it with the hook's error; in
// both cases the records completed so far are returned.
func (r *Runner) Run(onTrialComplete TrialHook) ([]metrics.RunRecord, error) {
	records := make([]metrics.RunRecord, 0, r.config.Trials)
	params := metrics.TrialParams{
		Iterations:  r.config.Iterations,
		Depth:       r.config.Depth,
		Horizon:     Horizon,
		Plotting:    r.config.Plotting,
		Simulations: r.config.Simulations,
		Figure:      r.figure,
		Tally:       r.tally,
	}

	for i := 1; i <= r.config.Trials; i++ {
		start := r.now()
		outcome, err := r.engine.Execute(r.environment, params)
		if err != nil {
			return records, &TrialExecutionError{Trial: i, Err: err}
		}
		end := r.now()

		records = append(records, metrics.RunRecord{
			Timestamp: end,
			Duration:  end.Sub(start),
			Outcome:   outcome,
		})

		if onTrialComplete != nil {
			// Capped so the hook cannot append into the runner's backing array
			if err := onTrialComplete(i, records[:len(records):len(records)]); err != nil {
				return records, err
			}
		}
	}
	return records, nil
}
