package billing

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RawLine es una línea propuesta tal como llega del exterior. Los importes viajan como texto
// para distinguir "no numérico" de "cero"; se admite coma decimal.
//
// Price significa el PVP en PART / EXTERNAL_WORK, el precio total en CONSUMABLE
// y el importe en LABOR.
type RawLine struct {
	Type             string `validate:"required,oneof=PART EXTERNAL_WORK CONSUMABLE LABOR"`
	ExpenseID        string `validate:"required_if=Type PART,required_if=Type EXTERNAL_WORK"`
	ConsumableTypeID string `validate:"required_if=Type CONSUMABLE"`
	Description      string `validate:"required_if=Type LABOR"`
	Quantity         string `validate:"required_if=Type CONSUMABLE,omitempty,numeric"`
	Price            string `validate:"required,numeric"`
}

// ProposedLine es la variante tipada de una línea ya validada.
type ProposedLine interface {
	LineType() string
}

// PartLine cobra un repuesto comprado para la orden.
type PartLine struct {
	ExpenseID string
	Price     decimal.Decimal
}

// ExternalWorkLine cobra un trabajo subcontratado.
type ExternalWorkLine struct {
	ExpenseID string
	Price     decimal.Decimal
}

// ConsumableLine cobra material a granel: cantidad y precio total.
type ConsumableLine struct {
	TypeID   string
	Quantity decimal.Decimal
	Total    decimal.Decimal
}

// LaborLine es mano de obra libre, sin coste asociado.
type LaborLine struct {
	Description string
	Amount      decimal.Decimal
}

func (PartLine) LineType() string         { return entity.LineTypePart }
func (ExternalWorkLine) LineType() string { return entity.LineTypeExternalWork }
func (ConsumableLine) LineType() string   { return entity.LineTypeConsumable }
func (LaborLine) LineType() string        { return entity.LineTypeLabor }

// UnitPrice = Total / Quantity con 2 decimales.
func (c ConsumableLine) UnitPrice() decimal.Decimal {
	return c.Total.Div(c.Quantity).Round(2)
}

var validate = validator.New()

// ParseProposedLine valida una línea cruda y devuelve su variante. Cantidad y precio
// se redondean a céntimos antes de validar su signo, igual que se guardan.
// Cualquier fallo devuelve un error que envuelve domain.ErrInvalidInput.
func ParseProposedLine(raw RawLine) (ProposedLine, error) {
	raw.Type = strings.ToUpper(strings.TrimSpace(raw.Type))
	raw.ExpenseID = strings.TrimSpace(raw.ExpenseID)
	raw.ConsumableTypeID = strings.TrimSpace(raw.ConsumableTypeID)
	raw.Description = strings.TrimSpace(raw.Description)
	raw.Quantity = normalizeNumber(raw.Quantity)
	raw.Price = normalizeNumber(raw.Price)

	if err := validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describe(err))
	}

	price, err := decimal.NewFromString(raw.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q", domain.ErrInvalidInput, raw.Price)
	}
	price = price.Round(2)

	switch raw.Type {
	case entity.LineTypePart:
		return PartLine{ExpenseID: raw.ExpenseID, Price: price}, nil
	case entity.LineTypeExternalWork:
		return ExternalWorkLine{ExpenseID: raw.ExpenseID, Price: price}, nil
	case entity.LineTypeConsumable:
		qty, err := decimal.NewFromString(raw.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: quantity %q", domain.ErrInvalidInput, raw.Quantity)
		}
		qty = qty.Round(2)
		if !qty.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%w: total must not be negative", domain.ErrInvalidInput)
		}
		return ConsumableLine{TypeID: raw.ConsumableTypeID, Quantity: qty, Total: price}, nil
	default: // LABOR
		if !price.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: labor amount must be positive", domain.ErrInvalidInput)
		}
		return LaborLine{Description: UpperES(raw.Description), Amount: price}, nil
	}
}

func normalizeNumber(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
