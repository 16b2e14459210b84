package metrics

import (
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moffa90/go-as5048a/as5048a"
)

var (
	registerOnce sync.Once

	angleRaw = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "as5048a",
			Name:      "angle_raw",
			Help:      "Last raw 14-bit angle reading.",
		},
		[]string{"device"},
	)
	angleDegrees = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "as5048a",
			Name:      "angle_degrees",
			Help:      "Last angle reading in degrees.",
		},
		[]string{"device"},
	)
	magnitude = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "as5048a",
			Name:      "magnitude",
			Help:      "Last CORDIC magnitude reading.",
		},
		[]string{"device"},
	)
	gain = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "as5048a",
			Name:      "agc_gain",
			Help:      "Last automatic gain control value.",
		},
		[]string{"device"},
	)
	diagFlag = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "as5048a",
			Name:      "diagnostic_flag",
			Help:      "Diagnostic flags from the last DIAG/AGC reading (1 = set).",
		},
		[]string{"device", "flag"},
	)
	samples = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "as5048a",
			Name:      "samples_total",
			Help:      "Completed samples.",
		},
		[]string{"device"},
	)
	readErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "as5048a",
			Name:      "read_errors_total",
			Help:      "Failed samples by failing collaborator and transfer phase.",
		},
		[]string{"device", "kind", "phase"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(angleRaw, angleDegrees, magnitude, gain, diagFlag, samples, readErrors)
	})
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

func RecordSample(device string, s as5048a.Sample) {
	RegisterMetrics()
	angleRaw.WithLabelValues(device).Set(float64(s.Angle))
	angleDegrees.WithLabelValues(device).Set(s.Degrees())
	magnitude.WithLabelValues(device).Set(float64(s.Magnitude))
	gain.WithLabelValues(device).Set(float64(s.Gain))
	diagFlag.WithLabelValues(device, "ocf").Set(boolValue(s.Diagnostics.OCF()))
	diagFlag.WithLabelValues(device, "cof").Set(boolValue(s.Diagnostics.COF()))
	diagFlag.WithLabelValues(device, "comp_low").Set(boolValue(s.Diagnostics.CompLow()))
	diagFlag.WithLabelValues(device, "comp_high").Set(boolValue(s.Diagnostics.CompHigh()))
	samples.WithLabelValues(device).Inc()
}

// RecordError counts a failed sample. Errors that are not bus errors are
// counted with kind and phase "unknown".
func RecordError(device string, err error) {
	RegisterMetrics()
	kind, phase := "unknown", "unknown"
	var be *as5048a.BusError
	if errors.As(err, &be) {
		kind, phase = be.Kind.String(), be.Phase.String()
	}
	readErrors.WithLabelValues(device, kind, phase).Inc()
}

func boolValue(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
