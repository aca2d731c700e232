package http

import (
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// UserIDHeader carries the acting user. Authorization happens upstream; the
// value is only recorded in audit fields.
const UserIDHeader = "X-User-ID"

func bindUUIDParam(c echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}

	return kernel.UUIDFromBytes(id[:])
}

func bindStepTypeParam(c echo.Context) (workflow.StepType, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "stepType", c.Param("stepType"), &raw, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return workflow.UnknownStepType, errs.NewValueIsInvalidErrorWithCause("stepType", err)
	}

	return workflow.ParseStepType(raw)
}

func actor(c echo.Context) string {
	return c.Request().Header.Get(UserIDHeader)
}
