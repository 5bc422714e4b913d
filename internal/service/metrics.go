package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"user-portal/internal/domain"
)

var userMutations = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "user_mutations_total", Help: "User mutations by operation and outcome"},
	[]string{"op", "outcome"},
)

func init() { prometheus.MustRegister(userMutations) }

func record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = domain.KindOf(err).String()
	}
	userMutations.WithLabelValues(op, outcome).Inc()
}
