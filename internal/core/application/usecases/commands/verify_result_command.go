package commands

import (
	"errors"
	"strings"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
	"labflow/internal/pkg/guard"
)

var ErrVerifyResultCommandIsNotConstructed = errors.New(
	"VerifyResultCommand must be created via NewVerifyResultCommand constructor",
)

// VerifyResultCommand signs off a completed result.
type VerifyResultCommand struct {
	resultID   kernel.UUID
	verifiedBy string

	guard guard.ConstructorGuard
}

func NewVerifyResultCommand(resultID kernel.UUID, verifiedBy string) (VerifyResultCommand, error) {
	err := resultID.Validate()
	if strings.TrimSpace(verifiedBy) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("verifiedBy"))
	}
	if err != nil {
		return VerifyResultCommand{}, err
	}

	return VerifyResultCommand{resultID: resultID, verifiedBy: verifiedBy, guard: guard.NewConstructorGuard()}, nil
}

func (c VerifyResultCommand) Validate() error {
	return c.guard.Validate(ErrVerifyResultCommandIsNotConstructed)
}

func (c VerifyResultCommand) ResultID() kernel.UUID { return c.resultID }
func (c VerifyResultCommand) VerifiedBy() string    { return c.verifiedBy }
