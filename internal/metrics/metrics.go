// Package metrics exports window manager activity as Prometheus metrics. It
// only observes the manager's event registry.
package metrics

import (
	"net/http"

	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "winshell"

// Collector holds the metrics of one manager.
type Collector struct {
	gatherer prometheus.Gatherer

	Windows        prometheus.Gauge
	Minimized      prometheus.Gauge
	HasMaximized   prometheus.Gauge
	Events         *prometheus.CounterVec
	Messages       *prometheus.CounterVec
	ProtocolErrors *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	return NewWith(reg, reg)
}

// NewWith registers the collectors on reg and serves them from g.
func NewWith(reg prometheus.Registerer, g prometheus.Gatherer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		gatherer: g,
		Windows: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "windows_open",
			Help:      "Number of managed windows.",
		}),
		Minimized: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "windows_minimized",
			Help:      "Number of minimized windows.",
		}),
		HasMaximized: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "has_maximized",
			Help:      "1 while a visible window is maximized.",
		}),
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Window manager events by kind.",
		}, []string{"event"}),
		Messages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Child messages received by command.",
		}, []string{"command"}),
		ProtocolErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Dropped or undeliverable messages by reason.",
		}, []string{"reason"}),
	}
}

// Attach subscribes the collector to events. Its handlers never consume an
// event.
func (c *Collector) Attach(events *wm.Registry) {
	events.OnAny(func(ev wm.Event) bool {
		c.Events.WithLabelValues(ev.Kind().String()).Inc()
		return false
	})
	events.On(wm.KindWindowAdded, func(wm.Event) bool {
		c.Windows.Inc()
		return false
	})
	events.On(wm.KindWindowRemoved, func(ev wm.Event) bool {
		c.Windows.Dec()
		if ev.(wm.WindowRemoved).Window.Minimized() {
			c.Minimized.Dec()
		}
		return false
	})
	events.On(wm.KindWindowMinimized, func(wm.Event) bool {
		c.Minimized.Inc()
		return false
	})
	events.On(wm.KindWindowUnminimized, func(wm.Event) bool {
		c.Minimized.Dec()
		return false
	})
	events.On(wm.KindHasMaximizedChanged, func(ev wm.Event) bool {
		if ev.(wm.HasMaximizedChanged).HasMaximized {
			c.HasMaximized.Set(1)
		} else {
			c.HasMaximized.Set(0)
		}
		return false
	})
	events.On(wm.KindMessageReceived, func(ev wm.Event) bool {
		c.Messages.WithLabelValues(string(ev.(wm.MessageReceived).Message.Command)).Inc()
		return false
	})
	events.On(wm.KindProtocolError, func(ev wm.Event) bool {
		c.ProtocolErrors.WithLabelValues(string(ev.(wm.ProtocolError).Reason)).Inc()
		return false
	})
}

// Handler serves the metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
