package searcher

import (
	"birdseye/env"

	"golang.org/x/exp/rand"
)

// mockModel moves a counter along the sensor's X axis: every action adds its
// own index, and the reward is 1 only for the rewarded action.
type mockModel struct {
	actions  int
	rewarded env.Action
	terminal float64 // X at or beyond which the state counts as a collision
}

func (m mockModel) Name() string { return "mock" }

func (m mockModel) Reset(rng *rand.Rand) env.State { return env.State{} }

func (m mockModel) Prior(sensor env.Pose, rng *rand.Rand) env.State {
	return env.State{Sensor: sensor}
}

func (m mockModel) Transition(s env.State, a env.Action, rng *rand.Rand) env.State {
	s.Sensor.X += float64(a)
	s.Sensor.Heading = float64(a) // Records the last action
	return s
}

func (m mockModel) Observe(s env.State, rng *rand.Rand) env.Observation { return 0 }

func (m mockModel) Likelihood(s env.State, obs env.Observation) float64 { return 1 }

func (m mockModel) Reward(s env.State) float64 {
	if env.Action(s.Sensor.Heading) == m.rewarded {
		return 1
	}
	return 0
}

func (m mockModel) Collided(s env.State) bool {
	return m.terminal > 0 && s.Sensor.X >= m.terminal
}

func (m mockModel) Lost(s env.State) bool { return false }

func (m mockModel) NumActions() int { return m.actions }

type fixedSampler struct {
	state env.State
	calls int
}

func (f *fixedSampler) Sample() env.State {
	f.calls++
	return f.state
}
