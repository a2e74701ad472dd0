package experiments

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"birdseye/config"
	"birdseye/experiments/metrics"

	"github.com/stretchr/testify/require"
)

// recordingSink keeps a copy of every call it receives.
type recordingSink struct {
	headers  []any
	writes   [][]metrics.RunRecord
	visuals  []int
	failOn   int // WriteRunRecords call that fails
	method   string
	trials   int
	plotting bool
}

var errSink = errors.New("sink unavailable")

func (s *recordingSink) WriteHeader(config any) error {
	s.headers = append(s.headers, config)
	return nil
}

func (s *recordingSink) WriteRunRecords(records []metrics.RunRecord) error {
	s.writes = append(s.writes, append([]metrics.RunRecord(nil), records...))
	if len(s.writes) == s.failOn {
		return errSink
	}
	return nil
}

func (s *recordingSink) SaveVisual(trial int, fig *metrics.Figure) error {
	s.visuals = append(s.visuals, trial)
	return nil
}

func (s *recordingSink) factory() SinkFactory {
	return func(method string, startTime time.Time, numTrials int, plotting bool) (Sink, error) {
		s.method = method
		s.trials = numTrials
		s.plotting = plotting
		return s, nil
	}
}

func scenarioDefaults() config.Layer {
	return config.Layer{
		Trials:          config.Value(3),
		Simulations:     config.Value(10),
		Depth:           config.Value(5),
		Iterations:      config.Value(50),
		Plotting:        config.Value(false),
		Lambda:          config.Value(0.8),
		CollisionReward: config.Value(-2.0),
		LossReward:      config.Value(-2.0),
	}
}

func TestExecute(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		sink := &recordingSink{}
		engine := &stubEngine{}

		err := Execute(Options{
			Defaults:    scenarioDefaults(),
			Environment: stubEnv{},
			Engine:      engine,
			Sink:        sink.factory(),
			Output:      &bytes.Buffer{},
		})

		require.NoError(t, err)
		require.Equal(t, 3, engine.calls)
		require.Len(t, sink.writes, 3)
		for i, written := range sink.writes {
			require.Len(t, written, i+1, "Each write should hold every trial so far")
			if i > 0 {
				require.Equal(t, sink.writes[i-1], written[:i], "Earlier entries should never change")
			}
		}
		require.Empty(t, sink.visuals)
		require.Empty(t, sink.headers, "No header without a config file")
		require.Equal(t, Method, sink.method)
		require.Equal(t, 3, sink.trials)
		require.False(t, sink.plotting)
	})

	t.Run("command line overrides trials and plotting", func(t *testing.T) {
		sink := &recordingSink{}
		engine := &stubEngine{}

		err := Execute(Options{
			Defaults:    scenarioDefaults(),
			CLI:         config.Layer{Trials: config.Value(1), Plotting: config.Value(true)},
			Environment: stubEnv{},
			Engine:      engine,
			Sink:        sink.factory(),
			Output:      &bytes.Buffer{},
		})

		require.NoError(t, err)
		require.Equal(t, 1, engine.calls)
		require.Len(t, sink.writes, 1)
		require.Len(t, sink.writes[0], 1)
		require.Equal(t, []int{1}, sink.visuals)
		require.True(t, sink.plotting)
	})

	t.Run("engine failure on trial 2 of 3", func(t *testing.T) {
		sink := &recordingSink{}
		engine := &stubEngine{failOn: 2}

		err := Execute(Options{
			Defaults:    scenarioDefaults(),
			Environment: stubEnv{},
			Engine:      engine,
			Sink:        sink.factory(),
			Output:      &bytes.Buffer{},
		})

		var trialErr *TrialExecutionError
		require.ErrorAs(t, err, &trialErr)
		require.Equal(t, 2, trialErr.Trial)
		require.Len(t, sink.writes, 1, "Only the first trial should have been persisted")
		require.Equal(t, 2, engine.calls)
	})

	t.Run("sink failure is a persistence error", func(t *testing.T) {
		sink := &recordingSink{failOn: 2}
		engine := &stubEngine{}

		err := Execute(Options{
			Defaults:    scenarioDefaults(),
			Environment: stubEnv{},
			Engine:      engine,
			Sink:        sink.factory(),
			Output:      &bytes.Buffer{},
		})

		var persistErr *PersistenceError
		require.ErrorAs(t, err, &persistErr)
		require.Equal(t, 2, persistErr.Trial)
		require.ErrorIs(t, err, errSink)
		require.Equal(t, 2, engine.calls)
	})

	t.Run("config file writes the header once", func(t *testing.T) {
		sink := &recordingSink{}
		file := config.Layer{Depth: config.Value(7)}

		err := Execute(Options{
			Defaults:    scenarioDefaults(),
			File:        &file,
			Environment: stubEnv{},
			Engine:      &stubEngine{},
			Sink:        sink.factory(),
			Output:      &bytes.Buffer{},
		})

		require.NoError(t, err)
		require.Len(t, sink.headers, 1)
		require.Equal(t, 7, sink.headers[0].(config.Config).Depth)
	})

	t.Run("unresolved config fails before any trial", func(t *testing.T) {
		defaults := scenarioDefaults()
		defaults.Depth = nil
		engine := &stubEngine{}

		err := Execute(Options{
			Defaults:    defaults,
			Environment: stubEnv{},
			Engine:      engine,
			Sink:        (&recordingSink{}).factory(),
		})

		var cfgErr *config.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, 0, engine.calls)
	})

	t.Run("default environment, engine and writer", func(t *testing.T) {
		dir := t.TempDir()
		start := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
		output := &bytes.Buffer{}

		err := Execute(Options{
			Defaults: scenarioDefaults(),
			CLI: config.Layer{
				Trials:      config.Value(2),
				Iterations:  config.Value(3),
				Simulations: config.Value(5),
				Depth:       config.Value(2),
			},
			ResultsDir: dir,
			Seed:       1,
			StartTime:  start,
			Output:     output,
		})

		require.NoError(t, err)
		require.FileExists(t, filepath.Join(dir, Method, start.Format(metrics.StartTimeFormat), "run_data.csv"))
		require.Contains(t, output.String(), "Collision rate")
	})
}

func TestRenderSummary(t *testing.T) {
	t.Run("final rates and averages", func(t *testing.T) {
		output := &bytes.Buffer{}
		records := []metrics.RunRecord{
			{Duration: time.Second, Outcome: metrics.Outcome{Steps: 4, MeanReward: 0.5}},
			{Duration: time.Second, Outcome: metrics.Outcome{Steps: 6, MeanReward: 0.1, CumulativeCollisions: 1}},
		}

		RenderSummary(output, testConfig(2, false), records)

		require.Contains(t, output.String(), "0.500") // Collision rate
		require.Contains(t, output.String(), "0.300") // Mean reward
		require.Contains(t, output.String(), "5.0")   // Mean steps
	})

	t.Run("empty run", func(t *testing.T) {
		output := &bytes.Buffer{}

		RenderSummary(output, testConfig(2, false), nil)

		require.Contains(t, output.String(), "Trials")
	})
}
