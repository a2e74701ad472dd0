package env

import (
	"math"

	"golang.org/x/exp/rand"
)

const (
	CollisionRange = 10.0  // Closer than this is a collision
	LossRange      = 150.0 // Further than this the source is lost
	StandoffRange  = 50.0  // Preferred tracking distance
)

// Rewards weights the outcomes of a step.
type Rewards struct {
	Lambda    float64
	Collision float64
	Loss      float64
}

// RFEnv tracks a moving RF source with a drone-mounted bearing sensor.
type RFEnv struct {
	sensor  *Drone
	actions *SimpleActions
	state   *RFState
	rewards Rewards
}

func NewRFEnv(sensor *Drone, actions *SimpleActions, state *RFState, rewards Rewards) *RFEnv {
	return &RFEnv{
		sensor:  sensor,
		actions: actions,
		state:   state,
		rewards: rewards,
	}
}

func (e *RFEnv) Name() string {
	return "rfenv"
}

func (e *RFEnv) Reset(rng *rand.Rand) State {
	return e.state.Initial(rng)
}

func (e *RFEnv) Prior(sensor Pose, rng *rand.Rand) State {
	return e.state.Around(sensor, rng)
}

func (e *RFEnv) Transition(s State, a Action, rng *rand.Rand) State {
	turn, speed := e.actions.Decode(a)
	sensor := s.Sensor
	sensor.Heading = wrap(sensor.Heading + turn)
	sensor.X += speed * math.Cos(sensor.Heading)
	sensor.Y += speed * math.Sin(sensor.Heading)
	return State{
		Sensor: sensor,
		Target: e.state.Move(s.Target, rng),
	}
}

func (e *RFEnv) Observe(s State, rng *rand.Rand) Observation {
	return e.sensor.Observe(s, rng)
}

func (e *RFEnv) Likelihood(s State, obs Observation) float64 {
	return e.sensor.Likelihood(s, obs)
}

// Reward penalizes collisions and losses and otherwise rewards staying near
// the standoff range, scaled by lambda.
func (e *RFEnv) Reward(s State) float64 {
	if e.Collided(s) {
		return e.rewards.Collision
	}
	if e.Lost(s) {
		return e.rewards.Loss
	}
	return e.rewards.Lambda * (1 - math.Abs(s.Range()-StandoffRange)/LossRange)
}

func (e *RFEnv) Collided(s State) bool {
	return s.Range() < CollisionRange
}

func (e *RFEnv) Lost(s State) bool {
	return s.Range() > LossRange
}

func (e *RFEnv) NumActions() int {
	return e.actions.Count()
}
