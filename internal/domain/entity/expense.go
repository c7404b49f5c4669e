package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de gasto.
const (
	ExpenseCategoryParts              = "PARTS"
	ExpenseCategoryExternalWork       = "EXTERNAL_WORK"
	ExpenseCategoryWages              = "WAGES"
	ExpenseCategoryTools              = "TOOLS"
	ExpenseCategorySupplies           = "SUPPLIES"
	ExpenseCategoryFuel               = "FUEL"
	ExpenseCategoryConsumablePurchase = "CONSUMABLE_PURCHASE"
	ExpenseCategoryOther              = "OTHER"
)

// Métodos de pago compartidos por gastos e ingresos.
const (
	PaymentMethodCash          = "CASH"
	PaymentMethodSharedAccount = "SHARED_ACCOUNT"
	PaymentMethodShopAccount   = "SHOP_ACCOUNT"
)

// Expense es un coste del taller, opcionalmente vinculado a una orden.
// Amount en cero cuando el importe no se registró.
type Expense struct {
	ID            string
	OrderID       string // vacío si no está vinculado
	Category      string
	Amount        decimal.Decimal
	Description   string
	PaymentMethod string
	Date          time.Time
	CreatedAt     time.Time
}
