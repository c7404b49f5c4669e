package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/taller-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Invoices  *InvoiceHandler
	Stock     *StockHandler
	Reports   *ReportHandler
	Records   *RecordsHandler
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleOffice, jwt.RoleMechanic)
	office := RequireRole(jwt.RoleAdmin, jwt.RoleOffice)
	admin := RequireRole(jwt.RoleAdmin)

	// Órdenes, gastos e ingresos
	api.Post("/orders", office, deps.Records.CreateOrder)
	api.Post("/expenses", office, deps.Records.RecordExpense)
	api.Post("/incomes", office, deps.Records.RecordIncome)

	// Facturación
	api.Post("/orders/:id/invoice", office, deps.Invoices.Generate)
	api.Get("/orders/:id/invoice", office, deps.Invoices.GetByOrder)
	invoices := api.Group("/invoices")
	invoices.Get("/:id", office, deps.Invoices.GetByID)
	invoices.Get("/:id/outstanding", office, deps.Invoices.Outstanding)
	invoices.Delete("/:id", admin, deps.Invoices.Delete)

	// Stock de consumibles
	stock := api.Group("/stock")
	stock.Get("/", anyRole, deps.Stock.List)
	stock.Get("/alerts", anyRole, deps.Stock.Alerts)
	stock.Post("/types", office, deps.Stock.CreateType)
	stock.Post("/purchases", office, deps.Stock.RegisterPurchase)
	stock.Post("/adjustments", office, deps.Stock.RegisterAdjustment)
	stock.Get("/:typeId", anyRole, deps.Stock.Get)

	// Informes
	reports := api.Group("/reports", admin)
	reports.Get("/orders/:id/profit", deps.Reports.OrderProfit)
	reports.Get("/profit", deps.Reports.PeriodProfit)
	reports.Get("/receivables", deps.Reports.Receivables)
}
