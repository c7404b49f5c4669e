package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/ledger"
)

// RecordsHandler alta de órdenes, gastos e ingresos.
type RecordsHandler struct {
	uc *ledger.RecordsUseCase
}

// NewRecordsHandler construye el handler.
func NewRecordsHandler(uc *ledger.RecordsUseCase) *RecordsHandler {
	return &RecordsHandler{uc: uc}
}

// CreateOrder POST /api/orders
func (h *RecordsHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.CreateOrder(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordExpense POST /api/expenses
func (h *RecordsHandler) RecordExpense(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordExpense(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordIncome POST /api/incomes
func (h *RecordsHandler) RecordIncome(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordIncome(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
