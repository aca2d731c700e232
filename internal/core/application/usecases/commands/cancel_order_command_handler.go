package commands

import (
	"context"

	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/ports"
	"labflow/internal/pkg/clock"

	"github.com/rs/zerolog"
)

// CancelOrderCommandHandler cancels an order, cascades cancellation to every
// step that is not completed and emits an order_cancelled alert after commit.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.AlertNotifier
	clock      clock.Clock
	logger     zerolog.Logger
}

func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	notifier ports.AlertNotifier,
	clk clock.Clock,
	logger zerolog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
		logger:     logger.With().Str("component", "cancel_order").Logger(),
	}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.LabOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, wf, err := loadOrderWorkflow(ctx, uow, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.Cancel(cmd.Reason(), cmd.CancelledBy(), now); err != nil {
		return nil, err
	}
	if err = wf.CancelRemaining(); err != nil {
		return nil, err
	}

	if err = saveOrderWorkflow(ctx, uow, o, true, wf); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notify(ctx, h.notifier, h.logger, ports.Alert{
		Kind:       ports.AlertOrderCancelled,
		OrderID:    o.ID(),
		Subject:    o.Number().String(),
		Message:    "order cancelled: " + cmd.Reason(),
		OccurredAt: now,
		Details: map[string]string{
			"cancelledBy": cmd.CancelledBy(),
			"priority":    o.Priority().String(),
		},
	})

	return o, nil
}
