package commands

import (
	"context"
	"fmt"
	"time"

	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/core/ports"
	"labflow/internal/pkg/clock"

	"github.com/rs/zerolog"
)

// SweepReport summarises one SLA sweep.
type SweepReport struct {
	Overdue   int
	Escalated int
	Failed    int
}

// CheckOverdueStepsCommandHandler is the SLA monitor sweep. It reads outside
// any transaction, raises one step_overdue alert per overdue step and never
// mutates state. A failing escalation is logged and counted; the sweep goes on.
type CheckOverdueStepsCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.AlertNotifier
	clock      clock.Clock
	logger     zerolog.Logger
}

func NewCheckOverdueStepsCommandHandler(
	uowFactory UoWFactory,
	notifier ports.AlertNotifier,
	clk clock.Clock,
	logger zerolog.Logger,
) CheckOverdueStepsCommandHandler {
	return CheckOverdueStepsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
		logger:     logger.With().Str("component", "sla_monitor").Logger(),
	}
}

func (h *CheckOverdueStepsCommandHandler) Handle(ctx context.Context, cmd CheckOverdueStepsCommand) (SweepReport, error) {
	if err := cmd.Validate(); err != nil {
		return SweepReport{}, err
	}

	now := h.clock.Now()
	uow := h.uowFactory.Create()

	steps, err := uow.WorkflowRepository().GetOverdueSteps(ctx, now)
	if err != nil {
		return SweepReport{}, fmt.Errorf("failed to select overdue steps: %w", err)
	}

	report := SweepReport{Overdue: len(steps)}
	for _, step := range steps {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if err = h.escalate(ctx, uow, step, now); err != nil {
			report.Failed++
			h.logger.Error().Err(err).
				Str("order_id", step.OrderID().String()).
				Str("step", step.Type().String()).
				Msg("failed to escalate overdue step")
			continue
		}
		report.Escalated++
	}

	return report, nil
}

func (h *CheckOverdueStepsCommandHandler) escalate(ctx context.Context, uow UoW, step *workflow.Step, now time.Time) error {
	o, err := uow.OrderRepository().Get(ctx, step.OrderID())
	if err != nil {
		return err
	}

	due := step.DueDate()
	details := map[string]string{
		"stepId":   step.ID().String(),
		"step":     step.Type().String(),
		"status":   step.Status().String(),
		"priority": o.Priority().String(),
	}
	overdueBy := time.Duration(0)
	if due != nil {
		details["dueDate"] = due.Format(time.RFC3339)
		overdueBy = now.Sub(*due).Truncate(time.Second)
	}
	if step.Assignee() != "" {
		details["assignee"] = step.Assignee()
	}

	return h.notifier.Notify(ctx, ports.Alert{
		Kind:       ports.AlertStepOverdue,
		OrderID:    o.ID(),
		Subject:    o.Number().String(),
		Message:    fmt.Sprintf("step %s is overdue by %s", step.Type(), overdueBy),
		OccurredAt: now,
		Details:    details,
	})
}
