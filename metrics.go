package xbeeapi

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the traffic seen by a Radio.
type Metrics struct {
	FramesReceived *prometheus.CounterVec // labels: type
	FramesSent     *prometheus.CounterVec // labels: type
	FrameErrors    *prometheus.CounterVec // labels: kind=checksum|malformed|unknown_type
	Pending        prometheus.Gauge
	Timeouts       prometheus.Counter
	Unsolicited    prometheus.Counter
	InboundDropped prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xbee_frames_received_total",
			Help: "Frames decoded from the radio, by frame type.",
		}, []string{"type"}),
		FramesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xbee_frames_sent_total",
			Help: "Frames written to the radio, by frame type.",
		}, []string{"type"}),
		FrameErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xbee_frame_errors_total",
			Help: "Received frames dropped, by reason.",
		}, []string{"kind"}),
		Pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xbee_pending_requests",
			Help: "Requests waiting for a response.",
		}),
		Timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xbee_response_timeouts_total",
			Help: "Requests that timed out waiting for a response.",
		}),
		Unsolicited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xbee_unsolicited_frames_total",
			Help: "Received frames not matched to a pending request.",
		}),
		InboundDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xbee_inbound_dropped_total",
			Help: "Unsolicited frames dropped because the inbound channel was full.",
		}),
	}

	reg.MustRegister(m.FramesReceived, m.FramesSent, m.FrameErrors, m.Pending, m.Timeouts, m.Unsolicited, m.InboundDropped)

	return m
}

func (m *Metrics) received(t FrameType) {
	if m != nil {
		m.FramesReceived.WithLabelValues(t.String()).Inc()
	}
}

func (m *Metrics) sent(t FrameType) {
	if m != nil {
		m.FramesSent.WithLabelValues(t.String()).Inc()
	}
}

func (m *Metrics) frameError(err error) {
	if m == nil {
		return
	}

	kind := "malformed"

	switch {
	case errors.Is(err, ErrChecksum):
		kind = "checksum"
	case errors.Is(err, ErrUnknownFrameType):
		kind = "unknown_type"
	}

	m.FrameErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) pending(n int) {
	if m != nil {
		m.Pending.Set(float64(n))
	}
}

func (m *Metrics) timeout() {
	if m != nil {
		m.Timeouts.Inc()
	}
}

func (m *Metrics) unsolicited() {
	if m != nil {
		m.Unsolicited.Inc()
	}
}

func (m *Metrics) dropped() {
	if m != nil {
		m.InboundDropped.Inc()
	}
}
