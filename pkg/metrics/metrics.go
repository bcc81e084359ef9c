package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/PlanifyOrg/planify/pkg/apperror"
)

var (
	// GovernanceOperationsTotal counts governance operations by outcome
	GovernanceOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planify",
			Name:      "governance_operations_total",
			Help:      "Total number of governance operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// NotificationsTotal counts notification deliveries by type and outcome
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planify",
			Name:      "notifications_total",
			Help:      "Total number of notifications dispatched by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	registerOnce sync.Once
)

// Register adds the collectors to reg. Safe to call more than once.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(GovernanceOperationsTotal, NotificationsTotal)
	})
}

// Outcome labels err as "ok", its lower-cased kind, or "error"
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := apperror.KindOf(err); kind != "" {
		return strings.ToLower(string(kind))
	}
	return "error"
}

// ObserveOperation records one governance operation
func ObserveOperation(operation string, err error) {
	GovernanceOperationsTotal.WithLabelValues(operation, Outcome(err)).Inc()
}

// ObserveNotification records one notification delivery attempt
func ObserveNotification(notificationType string, err error) {
	NotificationsTotal.WithLabelValues(notificationType, Outcome(err)).Inc()
}
