package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// trialGauges mirrors the latest run data into a Prometheus registry that is
// dumped as a textfile next to the CSV.
type trialGauges struct {
	registry     *prometheus.Registry
	trials       prometheus.Gauge
	collisions   prometheus.Gauge
	losses       prometheus.Gauge
	lastDuration prometheus.Gauge
	stepsTotal   prometheus.Gauge
}

func newTrialGauges(method string) *trialGauges {
	labels := prometheus.Labels{"method": method}
	g := &trialGauges{
		registry: prometheus.NewRegistry(),
		trials: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "birdseye",
			Name:        "trials_completed",
			Help:        "Number of trials completed in this run.",
			ConstLabels: labels,
		}),
		collisions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "birdseye",
			Name:        "cumulative_collisions",
			Help:        "Trials that ended in a collision so far.",
			ConstLabels: labels,
		}),
		losses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "birdseye",
			Name:        "cumulative_losses",
			Help:        "Trials that lost the source so far.",
			ConstLabels: labels,
		}),
		lastDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "birdseye",
			Name:        "last_trial_duration_seconds",
			Help:        "Wall time of the most recent trial.",
			ConstLabels: labels,
		}),
		stepsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "birdseye",
			Name:        "steps_total",
			Help:        "Environment steps taken across all trials.",
			ConstLabels: labels,
		}),
	}
	g.registry.MustRegister(g.trials, g.collisions, g.losses, g.lastDuration, g.stepsTotal)
	return g
}

func (g *trialGauges) observe(records []RunRecord) {
	g.trials.Set(float64(len(records)))
	steps := 0
	for _, record := range records {
		steps += record.Steps
	}
	g.stepsTotal.Set(float64(steps))

	if len(records) == 0 {
		return
	}
	last := records[len(records)-1]
	g.collisions.Set(float64(last.CumulativeCollisions))
	g.losses.Set(float64(last.CumulativeLosses))
	g.lastDuration.Set(last.Duration.Seconds())
}
