package main

import (
	"fmt"
	"strconv"
	"time"

	"birdseye/config"
	"birdseye/experiments"
	"birdseye/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type flags struct {
	configFile  string
	resultsDir  string
	logLevel    string
	seed        uint64
	goroutines  int
	particles   int
	lambda      float64
	collision   float64
	loss        float64
	depth       int
	simulations int
	plotting    boolFlag
	trials      int
	iterations  int
}

// boolFlag takes an explicit value (--plotting true) and only accepts boolean
// spellings.
type boolFlag bool

func (b *boolFlag) String() string { return strconv.FormatBool(bool(*b)) }
func (b *boolFlag) Type() string   { return "bool" }

func (b *boolFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("not a boolean: %q", s)
	}
	*b = boolFlag(v)
	return nil
}

func newRootCmd() *cobra.Command {
	return newCommand(&flags{})
}

func newCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "birdseye",
		Short:         "Monte Carlo Tree Search trials for RF source tracking",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.configFile, "config", "", "INI file with a [Defaults] section")
	cmd.Flags().StringVar(&f.resultsDir, "results-dir", "results", "directory for run data and visuals")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "log level")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (time based when unset)")
	cmd.Flags().IntVar(&f.goroutines, "goroutines", 1, "parallel search trees per step")
	cmd.Flags().IntVar(&f.particles, "particles", agent.DefaultParticles, "particles in the belief")

	cmd.Flags().Float64Var(&f.lambda, "lambda_arg", 0, "Lambda value")
	cmd.Flags().Float64Var(&f.collision, "collision", 0, "Reward value for collision")
	cmd.Flags().Float64Var(&f.loss, "loss", 0, "Reward value for loss function")
	cmd.Flags().IntVar(&f.depth, "depth", 0, "Tree depth")
	cmd.Flags().IntVar(&f.simulations, "simulations", 0, "Number of simulations")
	cmd.Flags().Var(&f.plotting, "plotting", "Flag to plot or not")
	cmd.Flags().IntVar(&f.trials, "trials", 0, "Number of runs")
	cmd.Flags().IntVar(&f.iterations, "iterations", 0, "Number of iterations")
	return cmd
}

func run(cmd *cobra.Command, f *flags) error {
	level, err := zerolog.ParseLevel(f.logLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	var file *config.Layer
	if f.configFile != "" {
		layer, err := config.LoadFile(f.configFile)
		if err != nil {
			return err
		}
		file = &layer
	}

	seed := f.seed
	if !cmd.Flags().Changed("seed") {
		seed = uint64(time.Now().UnixNano())
	}

	return experiments.Execute(experiments.Options{
		Defaults:   config.Defaults(),
		File:       file,
		CLI:        cliLayer(cmd, f),
		Engine:     agent.NewEngine(seed, agent.WithGoroutines(f.goroutines), agent.WithParticles(f.particles)),
		ResultsDir: f.resultsDir,
		Seed:       seed,
		StartTime:  time.Now(),
		Output:     cmd.OutOrStdout(),
	})
}

// cliLayer keeps only the flags that were given on the command line, so a
// flag's zero value never hides a file or default value.
func cliLayer(cmd *cobra.Command, f *flags) config.Layer {
	changed := cmd.Flags().Changed
	var layer config.Layer
	if changed("lambda_arg") {
		layer.Lambda = config.Value(f.lambda)
	}
	if changed("collision") {
		layer.CollisionReward = config.Value(f.collision)
	}
	if changed("loss") {
		layer.LossReward = config.Value(f.loss)
	}
	if changed("depth") {
		layer.Depth = config.Value(f.depth)
	}
	if changed("simulations") {
		layer.Simulations = config.Value(f.simulations)
	}
	if changed("plotting") {
		layer.Plotting = config.Value(bool(f.plotting))
	}
	if changed("trials") {
		layer.Trials = config.Value(f.trials)
	}
	if changed("iterations") {
		layer.Iterations = config.Value(f.iterations)
	}
	return layer
}
