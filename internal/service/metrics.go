package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	versionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_versions_created_total",
			Help: "Total number of content versions committed",
		},
	)

	conflictsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_conflicts_detected_total",
			Help: "Total number of concurrent-edit conflicts detected at commit",
		},
	)

	conflictsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_conflicts_resolved_total",
			Help: "Total number of conflicts resolved, by strategy",
		},
		[]string{"strategy"},
	)

	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_workflow_transitions_total",
			Help: "Workflow transition attempts by target state and result",
		},
		[]string{"to_state", "result"},
	)

	rollbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_rollbacks_total",
			Help: "Rollback attempts by result",
		},
		[]string{"result"},
	)
)
