package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/inventory"
)

// StockHandler expone el libro de stock de consumibles.
type StockHandler struct {
	stock    *inventory.StockUseCase
	register *inventory.RegisterMovementUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(stock *inventory.StockUseCase, register *inventory.RegisterMovementUseCase) *StockHandler {
	return &StockHandler{stock: stock, register: register}
}

// List GET /api/stock
func (h *StockHandler) List(c *fiber.Ctx) error {
	items, err := h.stock.ListSnapshots(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// Alerts GET /api/stock/alerts
func (h *StockHandler) Alerts(c *fiber.Ctx) error {
	items, err := h.stock.LowStockAlerts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// Get GET /api/stock/:typeId
func (h *StockHandler) Get(c *fiber.Ctx) error {
	snap, err := h.stock.Snapshot(c.UserContext(), c.Params("typeId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(snap)
}

// CreateType POST /api/stock/types
func (h *StockHandler) CreateType(c *fiber.Ctx) error {
	var in dto.CreateConsumableTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.register.CreateType(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterPurchase POST /api/stock/purchases
func (h *StockHandler) RegisterPurchase(c *fiber.Ctx) error {
	var in dto.RegisterPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.register.RegisterPurchase(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterAdjustment POST /api/stock/adjustments
func (h *StockHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.RegisterAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.register.RegisterAdjustment(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
