package retry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "complaintdesk_client",
			Name:      "session_refresh_attempts_total",
			Help:      "Session refreshes started by the retry policy.",
		},
		[]string{"role"},
	)

	refreshResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "complaintdesk_client",
			Name:      "session_refresh_results_total",
			Help:      "Session refresh outcomes.",
		},
		[]string{"role", "result"},
	)

	actionRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "complaintdesk_client",
			Name:      "action_retries_total",
			Help:      "Actions re-run after a successful refresh.",
		},
		[]string{"role"},
	)

	loginNavigationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "complaintdesk_client",
			Name:      "login_navigations_total",
			Help:      "Redirects to the login screen after a failed refresh.",
		},
		[]string{"role"},
	)
)
