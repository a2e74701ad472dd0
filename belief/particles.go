package belief

import (
	"math"

	"birdseye/env"

	"golang.org/x/exp/rand"
)

// Particles is a weighted particle approximation of the belief over world
// states. Weights always sum to one.
type Particles struct {
	model     env.Model
	rng       *rand.Rand
	particles []env.State
	weights   []float64
}

// New spreads n particles over the model's prior around the known sensor pose.
func New(model env.Model, n int, sensor env.Pose, rng *rand.Rand) *Particles {
	if n <= 0 {
		panic("need at least one particle")
	}
	p := &Particles{
		model:     model,
		rng:       rng,
		particles: make([]env.State, n),
		weights:   make([]float64, n),
	}
	p.reinitialize(sensor)
	return p
}

func (p *Particles) reinitialize(sensor env.Pose) {
	uniform := 1.0 / float64(len(p.particles))
	for i := range p.particles {
		p.particles[i] = p.model.Prior(sensor, p.rng)
		p.weights[i] = uniform
	}
}

// Update propagates every particle through the action and reweights it by the
// likelihood of obs. Resamples when the effective sample size drops below half.
func (p *Particles) Update(action env.Action, obs env.Observation) {
	total := 0.0
	for i, particle := range p.particles {
		next := p.model.Transition(particle, action, p.rng)
		p.particles[i] = next
		p.weights[i] *= p.model.Likelihood(next, obs)
		total += p.weights[i]
	}

	if total == 0 || math.IsNaN(total) {
		// Every particle is inconsistent with the observation
		p.reinitialize(p.particles[0].Sensor)
		return
	}
	for i := range p.weights {
		p.weights[i] /= total
	}

	if p.effectiveSize() < float64(len(p.particles))/2 {
		p.resample()
	}
}

func (p *Particles) effectiveSize() float64 {
	sum := 0.0
	for _, w := range p.weights {
		sum += w * w
	}
	return 1 / sum
}

// resample draws a new equally weighted set with systematic resampling.
func (p *Particles) resample() {
	n := len(p.particles)
	resampled := make([]env.State, n)
	step := 1.0 / float64(n)
	u := p.rng.Float64() * step
	cumulative := p.weights[0]
	j := 0
	for i := 0; i < n; i++ {
		for u > cumulative && j < n-1 {
			j++
			cumulative += p.weights[j]
		}
		resampled[i] = p.particles[j]
		u += step
	}
	p.particles = resampled
	for i := range p.weights {
		p.weights[i] = step
	}
}

// Sample draws one state in proportion to the weights.
func (p *Particles) Sample() env.State {
	u := p.rng.Float64()
	cumulative := 0.0
	for i, w := range p.weights {
		cumulative += w
		if u < cumulative {
			return p.particles[i]
		}
	}
	return p.particles[len(p.particles)-1] // Fallback in case of rounding errors
}

// Mean is the weighted mean source position.
func (p *Particles) Mean() (x, y float64) {
	for i, particle := range p.particles {
		x += p.weights[i] * particle.Target.X
		y += p.weights[i] * particle.Target.Y
	}
	return x, y
}

// Particles returns a copy of the current particle states.
func (p *Particles) Particles() []env.State {
	out := make([]env.State, len(p.particles))
	copy(out, p.particles)
	return out
}

func (p *Particles) Len() int {
	return len(p.particles)
}
