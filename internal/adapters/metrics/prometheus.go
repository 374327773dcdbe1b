package metrics

import (
	"webpbot/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "webpbot"

// Prometheus records conversion outcomes as Prometheus metrics.
type Prometheus struct {
	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Handled conversions by outcome and encoding.",
		}, []string{"outcome", "encoding"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Time from download start to upload completion.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"outcome"}),
	}

	reg.MustRegister(p.conversions, p.duration)

	return p
}

func (p *Prometheus) RecordConversion(result domain.ConversionResult) {
	outcome := result.Outcome()

	encoding := string(result.Encoding)
	if encoding == "" {
		encoding = "none"
	}

	p.conversions.WithLabelValues(outcome, encoding).Inc()
	p.duration.WithLabelValues(outcome).Observe(result.Elapsed.Seconds())
}
