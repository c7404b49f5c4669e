package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/taller-api/internal/application/analytics"
)

// ReportHandler informes de rentabilidad y cobros pendientes (solo admin).
type ReportHandler struct {
	profit      *analytics.ProfitabilityUseCase
	receivables *analytics.ReceivablesUseCase
	now         func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(profit *analytics.ProfitabilityUseCase, receivables *analytics.ReceivablesUseCase) *ReportHandler {
	return &ReportHandler{profit: profit, receivables: receivables, now: time.Now}
}

// OrderProfit GET /api/reports/orders/:id/profit
func (h *ReportHandler) OrderProfit(c *fiber.Ctx) error {
	out, err := h.profit.OrderProfit(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PeriodProfit GET /api/reports/profit?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportHandler) PeriodProfit(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c, h.now())
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.profit.PeriodProfit(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receivables GET /api/reports/receivables?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportHandler) Receivables(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c, h.now())
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.receivables.PendingReceivables(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
