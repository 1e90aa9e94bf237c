package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contactOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contactbook",
			Name:      "contact_operations_total",
			Help:      "Total number of contact store operations.",
		},
		[]string{"operation", "status"}, // status: success, validation_error, not_found, error
	)

	contactOperationDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "contactbook",
			Name:      "contact_operation_duration_seconds",
			Help:      "Duration of contact store operations.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	contactEventsPublishedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contactbook",
			Name:      "contact_events_published_total",
			Help:      "Total number of contact change events handed to the broker.",
		},
		[]string{"subject", "status"},
	)

	exportedRowsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contactbook",
			Name:      "contacts_exported_total",
			Help:      "Total number of contact rows exported.",
		},
		[]string{"format"},
	)
)
