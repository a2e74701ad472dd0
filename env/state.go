package env

import (
	"math"

	"golang.org/x/exp/rand"
)

// RFState samples initial states and moves the RF source between steps.
type RFState struct {
	minRange, maxRange float64
	targetSpeed        float64
	turnNoise          float64 // Standard deviation of the source's heading change per step
}

func NewRFState() *RFState {
	return &RFState{
		minRange:    40,
		maxRange:    80,
		targetSpeed: 1,
		turnNoise:   0.3,
	}
}

// Initial places the drone at the origin and the source at a random bearing.
func (r *RFState) Initial(rng *rand.Rand) State {
	return r.Around(Pose{}, rng)
}

// Around samples a source position relative to the given sensor pose.
func (r *RFState) Around(sensor Pose, rng *rand.Rand) State {
	distance := r.minRange + rng.Float64()*(r.maxRange-r.minRange)
	angle := rng.Float64() * 2 * math.Pi
	return State{
		Sensor: sensor,
		Target: Target{
			X:       sensor.X + distance*math.Cos(angle),
			Y:       sensor.Y + distance*math.Sin(angle),
			Heading: rng.Float64() * 2 * math.Pi,
			Speed:   r.targetSpeed,
		},
	}
}

func (r *RFState) Move(t Target, rng *rand.Rand) Target {
	t.Heading = wrap(t.Heading + rng.NormFloat64()*r.turnNoise)
	t.X += t.Speed * math.Cos(t.Heading)
	t.Y += t.Speed * math.Sin(t.Heading)
	return t
}
