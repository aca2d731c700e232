// Package notify provides AlertNotifier adapters: a structured log channel,
// an HTTP webhook, a fan-out combinator and a metrics decorator.
package notify

import (
	"context"

	"labflow/internal/core/ports"

	"github.com/rs/zerolog"
)

// LogNotifier writes alerts to the service log at warn level.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "alerts").Logger()}
}

func (n *LogNotifier) Notify(_ context.Context, alert ports.Alert) error {
	evt := n.logger.Warn().
		Str("alert_kind", string(alert.Kind)).
		Str("order_id", alert.OrderID.String()).
		Str("subject", alert.Subject).
		Time("occurred_at", alert.OccurredAt)
	for k, v := range alert.Details {
		evt = evt.Str(k, v)
	}
	evt.Msg(alert.Message)
	return nil
}
