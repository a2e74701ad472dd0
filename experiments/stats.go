package experiments

import "birdseye/experiments/metrics"

// Rates divides the cumulative collision and loss counts reported with the
// outcome of the given trial by the number of trials run so far.
func Rates(outcome metrics.Outcome, trial int) (collisionRate, lossRate float64) {
	if trial < 1 {
		panic("trial index starts at 1")
	}
	n := float64(trial)
	return float64(outcome.CumulativeCollisions) / n, float64(outcome.CumulativeLosses) / n
}
