package ports

import (
	"context"
	"time"

	"labflow/internal/core/domain/model/kernel"
)

// AlertKind classifies alerts sent to the notification channel.
type AlertKind string

const (
	AlertStepOverdue    AlertKind = "step_overdue"
	AlertOrderCancelled AlertKind = "order_cancelled"
	AlertAbnormalResult AlertKind = "abnormal_result"
)

// Alert is a structured event delivered to the alerting channel.
type Alert struct {
	Kind       AlertKind         `json:"kind"`
	OrderID    kernel.UUID       `json:"orderId"`
	Subject    string            `json:"subject"`
	Message    string            `json:"message"`
	OccurredAt time.Time         `json:"occurredAt"`
	Details    map[string]string `json:"details,omitempty"`
}

// AlertNotifier delivers alerts. Delivery mechanism is adapter-specific.
type AlertNotifier interface {
	Notify(ctx context.Context, alert Alert) error
}
