package commands

import (
	"context"

	"labflow/internal/core/domain/model/result"
	"labflow/internal/core/domain/services"
	"labflow/internal/core/ports"
	"labflow/internal/pkg/clock"

	"github.com/rs/zerolog"
)

// UpdateResultCommandHandler replaces a result value and re-interprets it.
// A result that turns abnormal raises an abnormal_result alert.
type UpdateResultCommandHandler struct {
	uowFactory UoWFactory
	catalog    ports.TestCatalog
	evaluator  services.ReferenceRangeEvaluator
	notifier   ports.AlertNotifier
	clock      clock.Clock
	logger     zerolog.Logger
}

func NewUpdateResultCommandHandler(
	uowFactory UoWFactory,
	catalog ports.TestCatalog,
	evaluator services.ReferenceRangeEvaluator,
	notifier ports.AlertNotifier,
	clk clock.Clock,
	logger zerolog.Logger,
) UpdateResultCommandHandler {
	return UpdateResultCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		evaluator:  evaluator,
		notifier:   notifier,
		clock:      clk,
		logger:     logger.With().Str("component", "update_result").Logger(),
	}
}

func (h *UpdateResultCommandHandler) Handle(ctx context.Context, cmd UpdateResultCommand) (*result.LabResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	resultRepo := uow.ResultRepository()
	r, err := resultRepo.Get(ctx, cmd.ResultID())
	if err != nil {
		return nil, err
	}
	wasAbnormal := r.IsAbnormal()

	def, err := h.catalog.Get(ctx, r.TestRef())
	if err != nil {
		return nil, err
	}

	if err = r.UpdateValue(cmd.Value(), cmd.Unit()); err != nil {
		return nil, err
	}
	if s := cmd.Subject(); s != nil {
		if err = r.ChangeSubject(*s); err != nil {
			return nil, err
		}
	}
	h.evaluator.InterpretResult(r, def)

	if err = resultRepo.Update(ctx, r); err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().Get(ctx, r.OrderID())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if r.IsAbnormal() && !wasAbnormal {
		notify(ctx, h.notifier, h.logger, abnormalResultAlert(o, r, def, h.clock.Now()))
	}

	return r, nil
}
