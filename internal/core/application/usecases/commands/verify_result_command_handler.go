package commands

import (
	"context"

	"labflow/internal/core/domain/model/result"
	"labflow/internal/pkg/clock"
)

// VerifyResultCommandHandler moves a completed result to verified.
type VerifyResultCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewVerifyResultCommandHandler(uowFactory UoWFactory, clk clock.Clock) VerifyResultCommandHandler {
	return VerifyResultCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h *VerifyResultCommandHandler) Handle(ctx context.Context, cmd VerifyResultCommand) (*result.LabResult, error) {
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

	if err = r.Verify(cmd.VerifiedBy(), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = resultRepo.Update(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return r, nil
}
