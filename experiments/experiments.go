package experiments

import (
	"io"
	"os"
	"time"

	"birdseye/config"
	"birdseye/env"
	"birdseye/experiments/metrics"
	"birdseye/searcher/agent"

	"github.com/rs/zerolog/log"
)

// Method names the planner in result paths and headers.
const Method = "mcts"

// Sink persists the results of a run.
type Sink interface {
	WriteHeader(config any) error
	WriteRunRecords(records []metrics.RunRecord) error
	SaveVisual(trial int, fig *metrics.Figure) error
}

// SinkFactory opens the sink for one run.
type SinkFactory func(method string, startTime time.Time, numTrials int, plotting bool) (Sink, error)

// Options describes one invocation. Defaults is required; every other field
// may be left empty.
type Options struct {
	Defaults config.Layer
	File     *config.Layer // Set when a config file was supplied
	CLI      config.Layer

	Environment env.Environment // Built from the default RF collaborators when nil
	Engine      Engine          // The MCTS trial engine when nil

	ResultsDir string // Used by the default sink
	Sink       SinkFactory
	Seed       uint64
	StartTime  time.Time
	Output     io.Writer // Summary table, os.Stdout when nil
}

// Execute resolves the configuration and runs every trial, persisting the
// run data after each one.
func Execute(opts Options) error {
	var file config.Layer
	if opts.File != nil {
		file = *opts.File
	}
	cfg, err := config.Resolve(opts.Defaults, file, opts.CLI)
	if err != nil {
		return err
	}

	environment := opts.Environment
	if environment == nil {
		environment = defaultEnvironment(cfg)
	}
	engine := opts.Engine
	if engine == nil {
		engine = agent.NewEngine(opts.Seed)
	}
	startTime := opts.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}

	newSink := opts.Sink
	if newSink == nil {
		newSink = writerFactory(opts.ResultsDir)
	}
	sink, err := newSink(Method, startTime, cfg.Trials, cfg.Plotting)
	if err != nil {
		return &PersistenceError{Op: "create results sink", Err: err}
	}

	if opts.File != nil {
		if err := sink.WriteHeader(cfg); err != nil {
			return &PersistenceError{Op: "write header", Err: err}
		}
		log.Info().Interface("config", cfg).Msg("stored run header")
	}

	log.Info().Msgf("starting %s experiment with %d trials on %s...", Method, cfg.Trials, environment.Name())

	runner := NewRunner(engine, environment, cfg)
	records, err := runner.Run(func(trial int, records []metrics.RunRecord) error {
		collisionRate, lossRate := Rates(records[len(records)-1].Outcome, trial)
		log.Info().
			Int("trial", trial).
			Int("simulations", cfg.Simulations).
			Int("depth", cfg.Depth).
			Float64("collision_rate", collisionRate).
			Float64("loss_rate", lossRate).
			Msgf("completed trial %d of %d", trial, cfg.Trials)

		if err := sink.WriteRunRecords(records); err != nil {
			return &PersistenceError{Trial: trial, Op: "write run records", Err: err}
		}
		if cfg.Plotting {
			if err := sink.SaveVisual(trial, runner.Figure()); err != nil {
				return &PersistenceError{Trial: trial, Op: "save visual", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Msgf("completed %s experiment", Method)

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	RenderSummary(output, cfg, records)
	return nil
}

func defaultEnvironment(cfg config.Config) env.Environment {
	rewards := env.Rewards{
		Lambda:    cfg.Lambda,
		Collision: cfg.CollisionReward,
		Loss:      cfg.LossReward,
	}
	return env.NewRFEnv(env.NewDrone(), env.NewSimpleActions(), env.NewRFState(), rewards)
}

func writerFactory(dir string) SinkFactory {
	if dir == "" {
		dir = "results"
	}
	return func(method string, startTime time.Time, numTrials int, plotting bool) (Sink, error) {
		return metrics.NewWriter(dir, method, startTime, numTrials, plotting)
	}
}
