package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
)

// AnalyticsHandler exposes the read-only aggregate endpoints, gated to
// admins and support agents at the route level.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService}
}

// Report handles GET /api/analytics?period=7days|30days|90days.
func (h *AnalyticsHandler) Report(c *fiber.Ctx) error {
	period := domain.ParsePeriod(c.Query("period", string(domain.Period7Days)))
	report, err := h.service.Report(c.UserContext(), period)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// TicketsOverTime handles GET /api/analytics/tickets-over-time.
func (h *AnalyticsHandler) TicketsOverTime(c *fiber.Ctx) error {
	period := domain.ParsePeriod(c.Query("period", string(domain.Period7Days)))
	series, err := h.service.TicketsOverTime(c.UserContext(), period)
	if err != nil {
		return err
	}
	return c.JSON(series)
}

// AgentPerformance handles GET /api/analytics/agent-performance.
func (h *AnalyticsHandler) AgentPerformance(c *fiber.Ctx) error {
	period := domain.ParsePeriod(c.Query("period", string(domain.PeriodAll)))
	performance, err := h.service.AgentPerformance(c.UserContext(), period)
	if err != nil {
		return err
	}
	return c.JSON(performance)
}
