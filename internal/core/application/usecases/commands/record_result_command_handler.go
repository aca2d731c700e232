package commands

import (
	"context"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/result"
	"labflow/internal/core/domain/services"
	"labflow/internal/core/ports"
	"labflow/internal/pkg/clock"
	"labflow/internal/pkg/errs"

	"github.com/rs/zerolog"
)

// RecordResultCommandHandler records and interprets a result of a collected or
// processing order. Abnormal results raise an abnormal_result alert.
type RecordResultCommandHandler struct {
	uowFactory UoWFactory
	catalog    ports.TestCatalog
	evaluator  services.ReferenceRangeEvaluator
	notifier   ports.AlertNotifier
	clock      clock.Clock
	logger     zerolog.Logger
}

func NewRecordResultCommandHandler(
	uowFactory UoWFactory,
	catalog ports.TestCatalog,
	evaluator services.ReferenceRangeEvaluator,
	notifier ports.AlertNotifier,
	clk clock.Clock,
	logger zerolog.Logger,
) RecordResultCommandHandler {
	return RecordResultCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		evaluator:  evaluator,
		notifier:   notifier,
		clock:      clk,
		logger:     logger.With().Str("component", "record_result").Logger(),
	}
}

func (h *RecordResultCommandHandler) Handle(ctx context.Context, cmd RecordResultCommand) (*result.LabResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	def, err := h.catalog.Get(ctx, cmd.TestRef())
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if o.Status() != order.Collected && o.Status() != order.Processing {
		return nil, errs.NewInvalidStateTransitionError("order", o.Status().String(), "record result for")
	}

	unit := cmd.Unit()
	if unit == "" {
		unit = def.Unit
	}

	recorded, err := result.NewLabResult(
		kernel.NewUUID(), o.ID(), def.ID, cmd.Value(), unit, cmd.Subject(), cmd.PerformedBy(), now,
	)
	if err != nil {
		return nil, err
	}
	h.evaluator.InterpretResult(recorded, def)

	if err = uow.ResultRepository().Add(ctx, recorded); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if recorded.IsAbnormal() {
		notify(ctx, h.notifier, h.logger, abnormalResultAlert(o, recorded, def, now))
	}

	return recorded, nil
}
