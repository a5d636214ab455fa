package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	codecOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "binwire",
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Codec encode/decode operations by codec and result.",
		},
		[]string{"codec", "direction", "result"},
	)
	codecPayloadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "binwire",
			Subsystem: "codec",
			Name:      "payload_bytes",
			Help:      "Wire payload size handled by successful codec operations.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"codec", "direction"},
	)
	retimerExchanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "binwire",
			Subsystem: "retimer",
			Name:      "exchanges_total",
			Help:      "Hardware timestamp exchanges by container width and outcome.",
		},
		[]string{"width", "outcome"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "binwire",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "binwire",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(codecOperations, codecPayloadBytes, retimerExchanges, httpRequests, httpDuration)
	})
}

// RecordCodec counts one encode or decode. size is the wire payload length.
func RecordCodec(codec, direction string, size int, err error) {
	RegisterMetrics()
	result := "ok"
	if err != nil {
		result = "error"
	}
	codecOperations.WithLabelValues(codec, direction, result).Inc()
	if err == nil {
		codecPayloadBytes.WithLabelValues(codec, direction).Observe(float64(size))
	}
}

// RecordRetime counts one retimer exchange outcome.
func RecordRetime(width uint, outcome string) {
	RegisterMetrics()
	retimerExchanges.WithLabelValues(strconv.FormatUint(uint64(width), 10), outcome).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
