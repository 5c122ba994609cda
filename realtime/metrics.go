package realtime

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Connections    prometheus.Gauge
	FramesReceived *prometheus.CounterVec
	FramesSent     prometheus.Counter
	Pruned         prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chat",
			Name:      "ws_connections",
			Help:      "Open chat websocket connections.",
		}),
		FramesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "ws_frames_received_total",
			Help:      "Inbound frames by outcome status.",
		}, []string{"status"}),
		FramesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "bus_frames_delivered_total",
			Help:      "Frames handed to subscriber queues.",
		}),
		Pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "bus_subscribers_pruned_total",
			Help:      "Closed subscribers removed during publish.",
		}),
	}
	reg.MustRegister(m.Connections, m.FramesReceived, m.FramesSent, m.Pruned)
	return m
}
