// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CommandsTotal counts ledger commands by operation and outcome.
var CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lanomina",
	Subsystem: "ledger",
	Name:      "commands_total",
	Help:      "Total ledger commands processed, by operation and outcome.",
}, []string{"operation", "outcome"})

// SnapshotsTotal counts derived-state snapshot reads.
var SnapshotsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lanomina",
	Subsystem: "ledger",
	Name:      "snapshots_total",
	Help:      "Total account snapshots computed.",
})

// HTTPRequestDuration tracks request latency by route.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "lanomina",
	Subsystem: "http",
	Name:      "request_duration_ms",
	Help:      "HTTP request duration in milliseconds.",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
}, []string{"route", "method", "status"})

// EventsPublished counts ledger events handed to the broker.
var EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lanomina",
	Subsystem: "amqp",
	Name:      "events_published_total",
	Help:      "Total ledger events published, by kind.",
}, []string{"kind"})

// RowsExported counts history rows pushed to the spreadsheet.
var RowsExported = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lanomina",
	Subsystem: "export",
	Name:      "rows_exported_total",
	Help:      "Total history rows exported to the spreadsheet, by kind.",
}, []string{"kind"})
