package notify

import (
	"context"

	"labflow/internal/core/ports"
	"labflow/internal/pkg/metrics"
)

// Instrumented counts alerts by kind and delivery outcome.
type Instrumented struct {
	next    ports.AlertNotifier
	metrics *metrics.Metrics
}

func NewInstrumented(next ports.AlertNotifier, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (n *Instrumented) Notify(ctx context.Context, alert ports.Alert) error {
	err := n.next.Notify(ctx, alert)
	outcome := metrics.OutcomeDelivered
	if err != nil {
		outcome = metrics.OutcomeFailed
	}
	n.metrics.ObserveAlert(string(alert.Kind), outcome)
	return err
}
