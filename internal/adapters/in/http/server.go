package http

import (
	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/application/usecases/queries"
	"labflow/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder       commands.CreateOrderCommandHandler
	CollectSample     commands.CollectSampleCommandHandler
	StartProcessing   commands.StartProcessingCommandHandler
	CompleteOrder     commands.CompleteOrderCommandHandler
	CancelOrder       commands.CancelOrderCommandHandler
	StartStep         commands.StartStepCommandHandler
	CompleteStep      commands.CompleteStepCommandHandler
	TriggerAutomation commands.TriggerAutomationCommandHandler
	RecordResult      commands.RecordResultCommandHandler
	UpdateResult      commands.UpdateResultCommandHandler
	VerifyResult      commands.VerifyResultCommandHandler

	GetOrder               queries.GetOrderQueryHandler
	GetActiveOrders        queries.GetActiveOrdersQueryHandler
	GetOrderWorkflowStatus queries.GetOrderWorkflowStatusQueryHandler
}

// Server translates HTTP requests into commands and queries and renders their
// outcome as JSON.
type Server struct {
	handlers Handlers
	clock    clock.Clock
	logger   zerolog.Logger
}

func NewServer(handlers Handlers, clk clock.Clock, logger zerolog.Logger) *Server {
	return &Server{
		handlers: handlers,
		clock:    clk,
		logger:   logger.With().Str("component", "http").Logger(),
	}
}

// RegisterRoutes mounts the API on g, which is expected to be the /api/v1 group.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.POST("/orders", s.CreateOrder)
	g.GET("/orders/active", s.GetActiveOrders)
	g.GET("/orders/:orderId", s.GetOrder)
	g.POST("/orders/:orderId/collect", s.CollectSample)
	g.POST("/orders/:orderId/start-processing", s.StartProcessing)
	g.POST("/orders/:orderId/complete", s.CompleteOrder)
	g.POST("/orders/:orderId/cancel", s.CancelOrder)

	g.GET("/orders/:orderId/workflow", s.GetOrderWorkflowStatus)
	g.POST("/orders/:orderId/workflow/steps/:stepType/start", s.StartStep)
	g.POST("/orders/:orderId/workflow/steps/:stepType/complete", s.CompleteStep)
	g.POST("/orders/:orderId/workflow/steps/:stepType/automation", s.TriggerAutomation)

	g.POST("/orders/:orderId/results", s.RecordResult)
	g.PUT("/results/:resultId", s.UpdateResult)
	g.POST("/results/:resultId/verify", s.VerifyResult)
}
