package env

import (
	"math"

	"golang.org/x/exp/rand"
)

// Drone is a directional antenna reporting a noisy bearing to the source.
type Drone struct {
	noise float64 // Standard deviation in radians
}

func NewDrone() *Drone {
	return &Drone{noise: 20 * math.Pi / 180}
}

func (d *Drone) Observe(s State, rng *rand.Rand) Observation {
	return Observation(wrap(s.Bearing() + rng.NormFloat64()*d.noise))
}

// Likelihood is p(obs | s) up to a constant factor.
func (d *Drone) Likelihood(s State, obs Observation) float64 {
	diff := wrap(float64(obs) - s.Bearing())
	z := diff / d.noise
	return math.Exp(-0.5 * z * z)
}
