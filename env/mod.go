package env

import (
	"math"

	"golang.org/x/exp/rand"
)

// Action indexes into an action space.
type Action int

// Observation is a noisy bearing, in radians relative to the sensor heading.
type Observation float64

// Environment is what the trial harness hands to a trial engine. The harness
// itself never looks inside it.
type Environment interface {
	Name() string
}

// Model is the generative model a planner needs from an environment.
// Implementations must not mutate the states they are given.
type Model interface {
	Environment
	Reset(rng *rand.Rand) State
	Prior(sensor Pose, rng *rand.Rand) State
	Transition(s State, a Action, rng *rand.Rand) State
	Observe(s State, rng *rand.Rand) Observation
	Likelihood(s State, obs Observation) float64
	Reward(s State) float64
	Collided(s State) bool
	Lost(s State) bool
	NumActions() int
}

type Pose struct {
	X, Y    float64
	Heading float64
}

type Target struct {
	X, Y    float64
	Heading float64
	Speed   float64
}

// State is the full world state: the drone carrying the sensor and the RF
// source being tracked.
type State struct {
	Sensor Pose
	Target Target
}

// Range is the distance between sensor and target.
func (s State) Range() float64 {
	return math.Hypot(s.Target.X-s.Sensor.X, s.Target.Y-s.Sensor.Y)
}

// Bearing is the angle to the target relative to the sensor heading, in [-pi, pi).
func (s State) Bearing() float64 {
	absolute := math.Atan2(s.Target.Y-s.Sensor.Y, s.Target.X-s.Sensor.X)
	return wrap(absolute - s.Sensor.Heading)
}

func wrap(angle float64) float64 {
	angle = math.Mod(angle+math.Pi, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle - math.Pi
}
