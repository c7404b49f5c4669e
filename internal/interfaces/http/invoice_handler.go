package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/taller-api/internal/application/analytics"
	"github.com/jhoicas/taller-api/internal/application/billing"
	"github.com/jhoicas/taller-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	generate    *billing.GenerateInvoiceUseCase
	invoices    *billing.InvoiceUseCase
	receivables *analytics.ReceivablesUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(generate *billing.GenerateInvoiceUseCase, invoices *billing.InvoiceUseCase, receivables *analytics.ReceivablesUseCase) *InvoiceHandler {
	return &InvoiceHandler{generate: generate, invoices: invoices, receivables: receivables}
}

// Generate genera o regenera la factura de una orden.
// POST /api/orders/:id/invoice
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.generate.GenerateInvoice(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByOrder devuelve la factura vigente de una orden.
// GET /api/orders/:id/invoice
func (h *InvoiceHandler) GetByOrder(c *fiber.Ctx) error {
	invoice, err := h.invoices.GetInvoiceByOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(invoice)
}

// GetByID obtiene el detalle completo de una factura.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.invoices.GetInvoice(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(invoice)
}

// Delete anula una factura y libera los consumibles usados.
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.invoices.DeleteInvoice(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Outstanding devuelve el saldo pendiente de la factura.
// GET /api/invoices/:id/outstanding
func (h *InvoiceHandler) Outstanding(c *fiber.Ctx) error {
	out, err := h.receivables.Outstanding(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
