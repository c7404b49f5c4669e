package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var (
	_ repository.ExpenseRepository = (*ExpenseRepo)(nil)
	_ repository.IncomeRepository  = (*IncomeRepo)(nil)
)

const expenseColumns = `id, order_id, category, amount, description, payment_method, date, created_at`

// ExpenseRepo implementación de ExpenseRepository (usable con pool o tx).
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	query := `INSERT INTO expenses (` + expenseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		e.ID, nullIfEmpty(e.OrderID), e.Category, e.Amount, e.Description, e.PaymentMethod, e.Date, e.CreatedAt,
	)
	if err != nil {
		return wrapWrite("insert expense", err)
	}
	return nil
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	if !isID(id) {
		return nil, nil
	}
	e, err := scanExpense(r.q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListByOrder ordena por fecha, alta e ID: es el orden en que se reclaman los gastos.
func (r *ExpenseRepo) ListByOrder(ctx context.Context, orderID string, categories ...string) ([]*entity.Expense, error) {
	if !isID(orderID) {
		return nil, nil
	}
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE order_id = $1 AND (cardinality($2::text[]) = 0 OR category = ANY($2))
		ORDER BY date, created_at, id`
	if categories == nil {
		categories = []string{}
	}
	rows, err := r.q.Query(ctx, query, orderID, categories)
	if err != nil {
		return nil, fmt.Errorf("list expenses by order: %w", err)
	}
	return collect(rows, scanExpense)
}

func scanExpense(row pgxScanner) (*entity.Expense, error) {
	var e entity.Expense
	var orderID *string
	if err := row.Scan(&e.ID, &orderID, &e.Category, &e.Amount, &e.Description, &e.PaymentMethod, &e.Date, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.OrderID = deref(orderID)
	return &e, nil
}

// IncomeRepo implementación de IncomeRepository (usable con pool o tx).
type IncomeRepo struct {
	q Querier
}

// NewIncomeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIncomeRepository(q Querier) *IncomeRepo {
	return &IncomeRepo{q: q}
}

func (r *IncomeRepo) Create(ctx context.Context, in *entity.Income) error {
	query := `INSERT INTO incomes (` + expenseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		in.ID, nullIfEmpty(in.OrderID), in.Category, in.Amount, in.Description, in.PaymentMethod, in.Date, in.CreatedAt,
	)
	if err != nil {
		return wrapWrite("insert income", err)
	}
	return nil
}

func (r *IncomeRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Income, error) {
	if !isID(orderID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+expenseColumns+` FROM incomes WHERE order_id = $1 ORDER BY date, created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list incomes by order: %w", err)
	}
	return collect(rows, scanIncome)
}

func (r *IncomeRepo) ListByCategories(ctx context.Context, from, to time.Time, categories ...string) ([]*entity.Income, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM incomes
		WHERE date BETWEEN $1::date AND $2::date
		  AND (cardinality($3::text[]) = 0 OR category = ANY($3))
		ORDER BY date, created_at, id`
	if categories == nil {
		categories = []string{}
	}
	rows, err := r.q.Query(ctx, query, from, to, categories)
	if err != nil {
		return nil, fmt.Errorf("list incomes by category: %w", err)
	}
	return collect(rows, scanIncome)
}

func scanIncome(row pgxScanner) (*entity.Income, error) {
	var in entity.Income
	var orderID *string
	if err := row.Scan(&in.ID, &orderID, &in.Category, &in.Amount, &in.Description, &in.PaymentMethod, &in.Date, &in.CreatedAt); err != nil {
		return nil, err
	}
	in.OrderID = deref(orderID)
	return &in, nil
}
