package http

import (
	"net/http"

	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/application/usecases/queries"
	"labflow/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req NewOrder
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	priority, err := order.ParsePriority(req.Priority)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(req.PatientRef, req.PhysicianRef, priority, req.ClinicalNotes)
	if err != nil {
		return s.fail(c, err)
	}

	created, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toOrder(queries.NewOrderView(created, s.clock.Now())))
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(c echo.Context) error {
	views, err := s.handlers.GetActiveOrders.Handle(c.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]Order, len(views))
	for i, v := range views {
		response[i] = toOrder(v)
	}

	return c.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := bindUUIDParam(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	details, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := OrderDetails{
		Order:   toOrder(details.Order),
		Steps:   toSteps(details.Steps),
		Results: make([]Result, len(details.Results)),
	}
	for i, r := range details.Results {
		response.Results[i] = toResult(r)
	}

	return c.JSON(http.StatusOK, response)
}

// CollectSample handles POST /api/v1/orders/{orderId}/collect.
func (s *Server) CollectSample(c echo.Context) error {
	orderID, err := bindUUIDParam(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	var req CollectSample
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCollectSampleCommand(orderID, actor(c), req.Notes)
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.handlers.CollectSample.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(queries.NewOrderView(updated, s.clock.Now())))
}

// StartProcessing handles POST /api/v1/orders/{orderId}/start-processing.
func (s *Server) StartProcessing(c echo.Context) error {
	orderID, err := bindUUIDParam(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewStartProcessingCommand(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.handlers.StartProcessing.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(queries.NewOrderView(updated, s.clock.Now())))
}

// CompleteOrder handles POST /api/v1/orders/{orderId}/complete.
func (s *Server) CompleteOrder(c echo.Context) error {
	orderID, err := bindUUIDParam(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	var req CompleteOrder
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCompleteOrderCommand(orderID, actor(c), req.Notes)
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.handlers.CompleteOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(queries.NewOrderView(updated, s.clock.Now())))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := bindUUIDParam(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	var req CancelOrder
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, req.Reason, actor(c))
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.handlers.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(queries.NewOrderView(updated, s.clock.Now())))
}
