package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dataroom"

// NewCounter registers the general purpose counter. Values of the "result"
// label name the event, e.g. "file_imported_total".
func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "general_counters",
		},
		[]string{"result"})
}

// NewDriveLatency registers the Google Drive call histogram, labelled by
// operation.
func NewDriveLatency() *prometheus.HistogramVec {
	return promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "drive_request_seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"})
}
