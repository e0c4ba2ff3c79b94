package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameTotalConversions   = "total_conversions"
	NameConversionDuration = "conversion_duration_seconds"
	NamePayloadBytes       = "payload_bytes"
	NameTotalRenderRequests = "total_render_requests"
	NameRenderBackendUses   = "render_backend_uses"
	LabelSource             = "source"
	LabelTarget             = "target"
	LabelStatus             = "status"
	LabelBackend            = "backend"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var TotalConversions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameTotalConversions,
		Help:      "Total conversion requests",
		Namespace: Namespace,
	},
	[]string{LabelSource, LabelTarget, LabelStatus},
)

var ConversionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:      NameConversionDuration,
		Help:      "Conversion duration in seconds",
		Namespace: Namespace,
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	},
	[]string{LabelSource, LabelTarget},
)

var PayloadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:      NamePayloadBytes,
		Help:      "Uploaded payload size in bytes",
		Namespace: Namespace,
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
	},
)

var TotalRenderRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameTotalRenderRequests,
		Help:      "Total direct HTML render requests",
		Namespace: Namespace,
	},
	[]string{LabelStatus},
)

var RenderBackendUses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameRenderBackendUses,
		Help:      "Renders per backend",
		Namespace: Namespace,
	},
	[]string{LabelBackend},
)
