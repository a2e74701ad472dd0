package agent

import (
	"testing"

	"birdseye/env"
	"birdseye/experiments/metrics"

	"github.com/stretchr/testify/require"
)

func newEnv() *env.RFEnv {
	return env.NewRFEnv(env.NewDrone(), env.NewSimpleActions(), env.NewRFState(), env.Rewards{Lambda: 0.8, Collision: -2, Loss: -2})
}

func smallParams() metrics.TrialParams {
	return metrics.TrialParams{
		Iterations:  5,
		Depth:       3,
		Horizon:     6,
		Simulations: 20,
		Tally:       metrics.NewTally(),
	}
}

type alwaysCollides struct {
	*env.RFEnv
}

func (a alwaysCollides) Collided(s env.State) bool { return true }

type opaque struct{}

func (opaque) Name() string { return "opaque" }

func TestExecute(t *testing.T) {
	t.Run("runs up to the iteration budget", func(t *testing.T) {
		engine := NewEngine(1, WithParticles(50))

		outcome, err := engine.Execute(newEnv(), smallParams())

		require.NoError(t, err)
		require.GreaterOrEqual(t, outcome.Steps, 1)
		require.LessOrEqual(t, outcome.Steps, 5)
		require.Equal(t, outcome.Steps*20, outcome.Episodes, "Every step should run all simulations")
		require.Greater(t, outcome.FinalRange, 0.0)
	})

	t.Run("collision ends the trial and is tallied", func(t *testing.T) {
		engine := NewEngine(1, WithParticles(20))
		params := smallParams()

		outcome, err := engine.Execute(alwaysCollides{newEnv()}, params)

		require.NoError(t, err)
		require.Equal(t, 1, outcome.Steps)
		require.True(t, outcome.Collided)
		require.Equal(t, 1, outcome.CumulativeCollisions)

		outcome, err = engine.Execute(alwaysCollides{newEnv()}, params)

		require.NoError(t, err)
		require.Equal(t, 2, outcome.CumulativeCollisions, "The tally should carry over between trials")
		require.Equal(t, 0, outcome.CumulativeLosses)
	})

	t.Run("plotting records one frame per step plus the start", func(t *testing.T) {
		engine := NewEngine(2, WithParticles(20))
		params := smallParams()
		params.Plotting = true
		params.Figure = metrics.NewFigure()
		params.Figure.Add(metrics.Frame{}) // Left over from an earlier trial

		outcome, err := engine.Execute(newEnv(), params)

		require.NoError(t, err)
		require.Len(t, params.Figure.Frames(), outcome.Steps+1)
	})

	t.Run("figure is untouched without plotting", func(t *testing.T) {
		engine := NewEngine(2, WithParticles(20))
		params := smallParams()
		params.Figure = metrics.NewFigure()

		_, err := engine.Execute(newEnv(), params)

		require.NoError(t, err)
		require.Empty(t, params.Figure.Frames())
	})

	t.Run("environment without a model is an error", func(t *testing.T) {
		_, err := NewEngine(1).Execute(opaque{}, smallParams())

		require.ErrorIs(t, err, ErrNoModel)
	})

	t.Run("invalid params are an error", func(t *testing.T) {
		params := smallParams()
		params.Simulations = 0

		_, err := NewEngine(1).Execute(newEnv(), params)

		require.Error(t, err)
	})

	t.Run("same seed gives the same trial", func(t *testing.T) {
		first, err := NewEngine(9, WithParticles(30)).Execute(newEnv(), smallParams())
		require.NoError(t, err)
		second, err := NewEngine(9, WithParticles(30)).Execute(newEnv(), smallParams())
		require.NoError(t, err)

		require.Equal(t, first.Steps, second.Steps)
		require.Equal(t, first.FinalRange, second.FinalRange)
		require.Equal(t, first.MeanReward, second.MeanReward)
	})
}
