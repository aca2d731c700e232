package commands

import (
	"time"

	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/result"
	"labflow/internal/core/ports"
)

func abnormalResultAlert(o *order.LabOrder, r *result.LabResult, def result.TestDefinition, now time.Time) ports.Alert {
	interp := r.Interpretation()
	return ports.Alert{
		Kind:       ports.AlertAbnormalResult,
		OrderID:    o.ID(),
		Subject:    o.Number().String(),
		Message:    def.Name + ": " + interp.Text,
		OccurredAt: now,
		Details: map[string]string{
			"resultId":       r.ID().String(),
			"test":           def.ID,
			"value":          r.Value(),
			"unit":           r.Unit(),
			"referenceRange": interp.ReferenceRange,
			"priority":       o.Priority().String(),
		},
	}
}
