package http

import (
	"net/http"

	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/application/usecases/queries"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/workflow"

	"github.com/labstack/echo/v4"
)

// GetOrderWorkflowStatus handles GET /api/v1/orders/{orderId}/workflow.
func (s *Server) GetOrderWorkflowStatus(c echo.Context) error {
	orderID, err := bindUUIDParam(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	status, err := s.workflowStatus(c, orderID)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toWorkflowStatus(status))
}

// StartStep handles POST /api/v1/orders/{orderId}/workflow/steps/{stepType}/start.
// The assignee defaults to the acting user.
func (s *Server) StartStep(c echo.Context) error {
	orderID, stepType, err := bindStepParams(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req StartStep
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	assignee := req.Assignee
	if assignee == "" {
		assignee = actor(c)
	}

	cmd, err := commands.NewStartStepCommand(orderID, stepType, assignee)
	if err != nil {
		return s.fail(c, err)
	}

	step, err := s.handlers.StartStep.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toStep(queries.NewStepView(step, s.clock.Now())))
}

// CompleteStep handles POST /api/v1/orders/{orderId}/workflow/steps/{stepType}/complete.
func (s *Server) CompleteStep(c echo.Context) error {
	orderID, stepType, err := bindStepParams(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req CompleteStep
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCompleteStepCommand(orderID, stepType, actor(c), req.Notes, req.Data)
	if err != nil {
		return s.fail(c, err)
	}

	step, err := s.handlers.CompleteStep.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toStep(queries.NewStepView(step, s.clock.Now())))
}

// TriggerAutomation handles POST /api/v1/orders/{orderId}/workflow/steps/{stepType}/automation
// and answers with the resulting workflow status.
func (s *Server) TriggerAutomation(c echo.Context) error {
	orderID, stepType, err := bindStepParams(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req TriggerAutomation
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	rule, err := workflow.ParseAutomationRule(req.Rule)
	if err != nil {
		return s.fail(c, err)
	}
	if routing, ok := rule.(workflow.PriorityRouting); ok && req.Priority != "" {
		if routing.Priority, err = order.ParsePriority(req.Priority); err != nil {
			return s.fail(c, err)
		}
		rule = routing
	}

	cmd, err := commands.NewTriggerAutomationCommand(orderID, stepType, rule)
	if err != nil {
		return s.fail(c, err)
	}

	if _, err = s.handlers.TriggerAutomation.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	status, err := s.workflowStatus(c, orderID)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toWorkflowStatus(status))
}

func (s *Server) workflowStatus(c echo.Context, orderID kernel.UUID) (queries.GetOrderWorkflowStatusQueryResponse, error) {
	query, err := queries.NewGetOrderWorkflowStatusQuery(orderID)
	if err != nil {
		return queries.GetOrderWorkflowStatusQueryResponse{}, err
	}

	return s.handlers.GetOrderWorkflowStatus.Handle(c.Request().Context(), query)
}

func bindStepParams(c echo.Context) (kernel.UUID, workflow.StepType, error) {
	orderID, err := bindUUIDParam(c, "orderId")
	if err != nil {
		return kernel.UUID{}, workflow.UnknownStepType, err
	}

	stepType, err := bindStepTypeParam(c)
	if err != nil {
		return kernel.UUID{}, workflow.UnknownStepType, err
	}

	return orderID, stepType, nil
}
