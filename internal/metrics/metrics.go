// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookmarky"

var (
	// TxRetries counts transaction attempts that failed and were re-run.
	TxRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "txn",
		Name:      "retries_total",
		Help:      "Write transactions rolled back and retried.",
	}, []string{"op"})

	// TxExhausted counts transactions that failed on every attempt.
	TxExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "txn",
		Name:      "exhausted_total",
		Help:      "Write transactions abandoned after the last attempt.",
	}, []string{"op"})

	// HTTPRequests counts served requests by route template and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served.",
	}, []string{"method", "route", "status"})

	// SessionsSwept counts expired sessions removed by the sweeper.
	SessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "sessions_swept_total",
		Help:      "Expired sessions deleted by the background sweeper.",
	})
)
