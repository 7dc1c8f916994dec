package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "complaintdesk_client",
			Name:      "logins_total",
			Help:      "Login attempts by role and result.",
		},
		[]string{"role", "result"},
	)

	statusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "complaintdesk_client",
			Name:      "status_changes_total",
			Help:      "Complaint status changes sent, by role and whether a reason was attached.",
		},
		[]string{"role", "with_reason"},
	)
)
