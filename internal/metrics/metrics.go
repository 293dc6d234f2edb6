// Package metrics wraps the Prometheus counters and histograms emitted by
// the BLE session and request engine. A nil *Recorder is valid and every
// method on it is a no-op, so callers that don't run Prometheus pay
// nothing and don't need to nil-check before every call site.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "ninebot"

// Handshake outcomes recorded by HandshakeAttempt.
const (
	OutcomePaired     = "paired"
	OutcomeButtonWait = "button_wait"
	OutcomeTimeout    = "timeout"
)

// Frame drop reasons recorded by FrameDropped.
const (
	ReasonMalformed   = "malformed"
	ReasonDecodeError = "decode_error"
)

// Recorder holds the registered metric vectors. The zero value is not
// usable; construct with NewRecorder. A nil *Recorder is usable: every
// method guards against it and does nothing.
type Recorder struct {
	handshakeAttempts *prometheus.CounterVec
	requestRetries    *prometheus.CounterVec
	registerReadSecs  *prometheus.HistogramVec
	framesDropped     *prometheus.CounterVec
}

// NewRecorder creates a Recorder with all metrics registered against reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		handshakeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshake_attempts_total",
			Help:      "Handshake attempts by outcome (paired, button_wait, timeout).",
		}, []string{"outcome"}),

		requestRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_retries_total",
			Help:      "Request/reply retries issued by the L3 engine, by command.",
		}, []string{"command"}),

		registerReadSecs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "register_read_duration_seconds",
			Help:      "Time to complete a full ReadReg call, by register.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"register"}),

		framesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Frames dropped before reaching the request engine, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		r.handshakeAttempts,
		r.requestRetries,
		r.registerReadSecs,
		r.framesDropped,
	)

	return r
}

// HandshakeAttempt records a completed handshake attempt and its outcome.
func (r *Recorder) HandshakeAttempt(outcome string) {
	if r == nil {
		return
	}
	r.handshakeAttempts.WithLabelValues(outcome).Inc()
}

// RequestRetry records a retried request for the given command name.
func (r *Recorder) RequestRetry(command string) {
	if r == nil {
		return
	}
	r.requestRetries.WithLabelValues(command).Inc()
}

// RegisterReadDuration records how long a ReadReg call took, in seconds.
func (r *Recorder) RegisterReadDuration(register string, seconds float64) {
	if r == nil {
		return
	}
	r.registerReadSecs.WithLabelValues(register).Observe(seconds)
}

// FrameDropped records a frame discarded before reaching the request
// engine, e.g. a frame longer than its declared length or one that
// fails to unpack.
func (r *Recorder) FrameDropped(reason string) {
	if r == nil {
		return
	}
	r.framesDropped.WithLabelValues(reason).Inc()
}
