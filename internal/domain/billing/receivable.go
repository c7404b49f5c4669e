package billing

import (
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PendingTolerance absorbe diferencias de redondeo entre el total y los abonos.
var PendingTolerance = decimal.RequireFromString("0.01")

// Paid suma los abonos recibidos.
func Paid(payments []*entity.Income) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Outstanding = total de factura − abonos.
func Outstanding(total decimal.Decimal, payments []*entity.Income) decimal.Decimal {
	return total.Sub(Paid(payments))
}

// IsPending es verdadero cuando el saldo supera la tolerancia.
func IsPending(outstanding decimal.Decimal) bool {
	return outstanding.GreaterThan(PendingTolerance)
}
