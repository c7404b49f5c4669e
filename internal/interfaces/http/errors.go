package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
)

// writeError traduce los errores de dominio (envueltos con %w) a su código HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// parsePeriod lee ?from=&to= (YYYY-MM-DD). Sin parámetros => mes en curso.
func parsePeriod(c *fiber.Ctx, now time.Time) (from, to time.Time, err error) {
	var q dto.PeriodRequest
	if err := c.QueryParser(&q); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: query", domain.ErrInvalidInput)
	}
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to = from.AddDate(0, 1, -1)
	if q.From != "" {
		if from, err = time.ParseInLocation(dto.DateLayout, q.From, now.Location()); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from %q", domain.ErrInvalidInput, q.From)
		}
	}
	if q.To != "" {
		if to, err = time.ParseInLocation(dto.DateLayout, q.To, now.Location()); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to %q", domain.ErrInvalidInput, q.To)
		}
	}
	return from, to, nil
}
