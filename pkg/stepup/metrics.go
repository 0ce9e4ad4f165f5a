package stepup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/otpgate/pkg/channel"
	"github.com/dmitrymomot/otpgate/pkg/delivery"
	"github.com/dmitrymomot/otpgate/pkg/otp"
)

// Metrics are the Prometheus collectors of the step-up flow.
// A nil *Metrics records nothing.
type Metrics struct {
	issued           *prometheus.CounterVec
	deliveryFailures *prometheus.CounterVec
	validations      *prometheus.CounterVec
	deliveryDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		issued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otp_issued_total",
				Help: "Codes delivered and stored, by channel",
			},
			[]string{"channel"},
		),
		deliveryFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otp_delivery_failures_total",
				Help: "Provider calls that did not deliver a code, by channel",
			},
			[]string{"channel"},
		),
		validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otp_validations_total",
				Help: "Validation attempts, by outcome",
			},
			[]string{"outcome"},
		),
		deliveryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "otp_delivery_duration_seconds",
				Help:    "Duration of provider calls, by channel",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"channel"},
		),
	}
}

// DeliveryHook records provider call duration and failures.
// Pass it to delivery.WithHook.
func (m *Metrics) DeliveryHook() delivery.Hook {
	return func(ch channel.Channel, res delivery.DeliveryResult) {
		if m == nil {
			return
		}
		m.deliveryDuration.WithLabelValues(ch.String()).Observe(res.Duration.Seconds())
		if !res.Success {
			m.deliveryFailures.WithLabelValues(ch.String()).Inc()
		}
	}
}

func (m *Metrics) observeIssued(ch channel.Channel) {
	if m == nil {
		return
	}
	m.issued.WithLabelValues(ch.String()).Inc()
}

func (m *Metrics) observeValidation(k otp.Kind) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(k.String()).Inc()
}
