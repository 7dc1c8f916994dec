package guard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var guardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "complaintdesk_client",
		Name:      "guard_decisions_total",
		Help:      "Guard decisions by role and outcome.",
	},
	[]string{"role", "outcome"},
)
