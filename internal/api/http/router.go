package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vwgov/hr-signals/internal/api/http/handlers"
	"github.com/vwgov/hr-signals/internal/auth"
	"github.com/vwgov/hr-signals/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Messages       *handlers.MessagesHandler
	Tickets        *handlers.TicketsHandler
	Insights       *handlers.InsightsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Ticket mutations, analytics and insights
// are operator endpoints behind the auth middleware; message scanning and
// ticket submission come from the employee-facing chat collaborator.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	app.Post("/messages/scan", cfg.Messages.Scan)
	app.Post("/tickets", cfg.Tickets.CreateTicket)

	operator := app.Group("", cfg.AuthMiddleware.Handle)
	operator.Get("/tickets/analytics", cfg.Tickets.GetAnalytics)
	operator.Get("/tickets", cfg.Tickets.ListTickets)
	operator.Get("/tickets/:id", cfg.Tickets.GetTicket)
	operator.Post("/tickets/:id/status", cfg.Tickets.UpdateStatus)

	operator.Get("/insights/topics", cfg.Insights.TopicScores)
	operator.Get("/insights/alerts", cfg.Insights.Alerts)
	operator.Get("/insights/risks", cfg.Insights.RiskSignals)
}
