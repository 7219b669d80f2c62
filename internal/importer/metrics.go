package importer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_imports_completed_total",
		Help: "Import runs that ran to completion, by kind",
	}, []string{"kind"})

	importsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_imports_failed_total",
		Help: "Import runs aborted by a fatal error, by kind",
	}, []string{"kind"})

	batchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_import_batches_failed_total",
		Help: "Item batches that failed to persist",
	})

	itemsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_import_items_persisted_total",
		Help: "Items written across all import runs",
	})
)
