package boost

import (
	"github.com/prometheus/client_golang/prometheus"
)

// TrainingMetrics exports training progress to Prometheus.
type TrainingMetrics struct {
	fits          *prometheus.CounterVec
	rounds        prometheus.Counter
	loss          prometheus.Gauge
	trees         prometheus.Gauge
	roundDuration prometheus.Histogram
}

// NewTrainingMetrics creates the collectors and registers them with reg.
func NewTrainingMetrics(reg prometheus.Registerer, namespace string) (*TrainingMetrics, error) {
	m := &TrainingMetrics{
		fits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fits_total",
			Help:      "Number of completed Fit calls by status.",
		}, []string{"status"}),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boosting_rounds_total",
			Help:      "Number of boosting rounds run.",
		}),
		loss: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "training_loss",
			Help:      "Training log-loss after the latest round.",
		}),
		trees: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trees",
			Help:      "Number of trees in the ensemble being trained.",
		}),
		roundDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_duration_seconds",
			Help:      "Duration of one boosting round.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	for _, c := range []prometheus.Collector{m.fits, m.rounds, m.loss, m.trees, m.roundDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Callback returns a training callback that updates the round metrics.
func (m *TrainingMetrics) Callback() Callback {
	return func(env *CallbackEnv) error {
		m.rounds.Inc()
		m.loss.Set(env.Loss)
		m.trees.Set(float64(env.NumTrees))
		m.roundDuration.Observe(env.RoundDuration.Seconds())
		return nil
	}
}

func (m *TrainingMetrics) observeFit(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.fits.WithLabelValues(status).Inc()
}

// WithMetrics records per-round metrics and Fit outcomes in m.
func WithMetrics(m *TrainingMetrics) Option {
	return func(e *Ensemble) {
		e.metrics = m
		e.callbacks = append(e.callbacks, m.Callback())
	}
}
