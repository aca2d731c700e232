package http

import (
	"net/http"

	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/application/usecases/queries"
	"labflow/internal/core/domain/model/result"

	"github.com/labstack/echo/v4"
)

// RecordResult handles POST /api/v1/orders/{orderId}/results.
func (s *Server) RecordResult(c echo.Context) error {
	orderID, err := bindUUIDParam(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	var req RecordResult
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewRecordResultCommand(
		orderID,
		req.TestRef,
		req.Value,
		req.Unit,
		result.Subject{AgeGroup: req.AgeGroup, Gender: req.Gender},
		actor(c),
	)
	if err != nil {
		return s.fail(c, err)
	}

	recorded, err := s.handlers.RecordResult.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toResult(queries.NewResultView(recorded)))
}

// UpdateResult handles PUT /api/v1/results/{resultId}. The subject is only
// replaced when the request names an age group or gender.
func (s *Server) UpdateResult(c echo.Context) error {
	resultID, err := bindUUIDParam(c, "resultId")
	if err != nil {
		return s.fail(c, err)
	}

	var req UpdateResult
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	var subject *result.Subject
	if req.AgeGroup != "" || req.Gender != "" {
		subject = &result.Subject{AgeGroup: req.AgeGroup, Gender: req.Gender}
	}

	cmd, err := commands.NewUpdateResultCommand(resultID, req.Value, req.Unit, subject)
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.handlers.UpdateResult.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toResult(queries.NewResultView(updated)))
}

// VerifyResult handles POST /api/v1/results/{resultId}/verify. The verifier is
// the acting user.
func (s *Server) VerifyResult(c echo.Context) error {
	resultID, err := bindUUIDParam(c, "resultId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewVerifyResultCommand(resultID, actor(c))
	if err != nil {
		return s.fail(c, err)
	}

	verified, err := s.handlers.VerifyResult.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toResult(queries.NewResultView(verified)))
}
