// Package monitoring collects and exposes metrics for the kitchen sync
// client.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// KitchenMetrics instruments the kitchen display's event-stream client.
type KitchenMetrics struct {
	Reconnects    prometheus.Counter
	Events        *prometheus.CounterVec
	ActiveTickets prometheus.Gauge
	Connected     prometheus.Gauge
}

// NewKitchenMetrics registers the kitchen sync collectors with reg. A nil
// registerer falls back to the default registry.
func NewKitchenMetrics(reg prometheus.Registerer) *KitchenMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &KitchenMetrics{
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "omni_kds_reconnects_total",
			Help: "Number of times the kitchen event stream was re-established.",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omni_kds_events_total",
			Help: "Kitchen events received, by event type.",
		}, []string{"event"}),
		ActiveTickets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "omni_kds_active_tickets",
			Help: "Orders currently in the kitchen working set.",
		}),
		Connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "omni_kds_connected",
			Help: "Whether the kitchen event stream is connected (1) or not (0).",
		}),
	}

	reg.MustRegister(m.Reconnects, m.Events, m.ActiveTickets, m.Connected)
	return m
}

// NopKitchenMetrics returns unregistered collectors for callers that do not
// export metrics (tests, short-lived CLI runs).
func NopKitchenMetrics() *KitchenMetrics {
	return NewKitchenMetrics(prometheus.NewRegistry())
}
