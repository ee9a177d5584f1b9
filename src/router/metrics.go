package router

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the aggregate, per-node Prometheus counters the router
// updates on every AsyncWrite decision. Counters are intentionally the only
// signal exposed: nothing here is keyed by source/destination address or
// carries packet payloads, so there is no per-packet side channel.
type Metrics struct {
	delivered prometheus.Counter
	dropped   *prometheus.CounterVec
}

// NewMetrics constructs a Metrics and registers its collectors with reg. A
// nil reg uses the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "freelan",
			Subsystem: "router",
			Name:      "frames_delivered_total",
			Help:      "Frames for which AsyncWrite selected a destination port.",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "freelan",
			Subsystem: "router",
			Name:      "frames_dropped_total",
			Help:      "Frames for which AsyncWrite selected no destination port, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.delivered, m.dropped)
	return m
}

func (m *Metrics) observeDelivered() {
	m.delivered.Inc()
}

func (m *Metrics) observeDropped(reason dropReason) {
	m.dropped.WithLabelValues(reason.String()).Inc()
}
