// Package memory implementa los puertos de persistencia en memoria. Sirve para desarrollo
// (DB_DRIVER=memory) y para los tests de casos de uso; respeta la misma semántica
// transaccional que el adaptador PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/taller-api/internal/application/billing"
	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ billing.BillingTxRunner = (*Store)(nil)
var _ inventory.TxRunner = (*Store)(nil)

type data struct {
	orders      map[string]*entity.RepairOrder
	expenses    map[string]*entity.Expense
	incomes     map[string]*entity.Income
	types       map[string]*entity.ConsumableType
	purchases   map[string]*entity.ConsumablePurchase
	usages      map[string]*entity.ConsumableUsage
	adjustments map[string]*entity.StockAdjustment
	invoices    map[string]*entity.Invoice
	lines       map[string][]*entity.InvoiceLine // por invoice_id

	lastInvoiceNumber int64
}

func newData() *data {
	return &data{
		orders:      map[string]*entity.RepairOrder{},
		expenses:    map[string]*entity.Expense{},
		incomes:     map[string]*entity.Income{},
		types:       map[string]*entity.ConsumableType{},
		purchases:   map[string]*entity.ConsumablePurchase{},
		usages:      map[string]*entity.ConsumableUsage{},
		adjustments: map[string]*entity.StockAdjustment{},
		invoices:    map[string]*entity.Invoice{},
		lines:       map[string][]*entity.InvoiceLine{},
	}
}

func cloneMap[T any](src map[string]*T) map[string]*T {
	out := make(map[string]*T, len(src))
	for k, v := range src {
		c := *v
		out[k] = &c
	}
	return out
}

func (d *data) clone() *data {
	lines := make(map[string][]*entity.InvoiceLine, len(d.lines))
	for k, ls := range d.lines {
		cp := make([]*entity.InvoiceLine, len(ls))
		for i, l := range ls {
			c := *l
			cp[i] = &c
		}
		lines[k] = cp
	}
	return &data{
		orders:            cloneMap(d.orders),
		expenses:          cloneMap(d.expenses),
		incomes:           cloneMap(d.incomes),
		types:             cloneMap(d.types),
		purchases:         cloneMap(d.purchases),
		usages:            cloneMap(d.usages),
		adjustments:       cloneMap(d.adjustments),
		invoices:          cloneMap(d.invoices),
		lines:             lines,
		lastInvoiceNumber: d.lastInvoiceNumber,
	}
}

// Store guarda todo el estado. Las lecturas fuera de transacción toman mu en modo lectura;
// escrituras y transacciones se serializan con txMu, que hace el papel del bloqueo de fila
// sobre el contador de facturas.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	d    *data
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// repo es la base de todos los repositorios: sin tx opera sobre el estado confirmado,
// con tx sobre la copia de trabajo de la transacción.
type repo struct {
	s  *Store
	tx *data
}

func (r repo) read(fn func(d *data) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return fn(r.s.d)
}

func (r repo) write(fn func(d *data) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(r.s.d)
}

// Orders devuelve el repositorio de órdenes fuera de transacción.
func (s *Store) Orders() repository.OrderRepository { return &OrderRepo{repo{s: s}} }

// Expenses devuelve el repositorio de gastos.
func (s *Store) Expenses() repository.ExpenseRepository { return &ExpenseRepo{repo{s: s}} }

// Incomes devuelve el repositorio de ingresos.
func (s *Store) Incomes() repository.IncomeRepository { return &IncomeRepo{repo{s: s}} }

// Consumables devuelve el repositorio de consumibles.
func (s *Store) Consumables() repository.ConsumableRepository { return &ConsumableRepo{repo{s: s}} }

// Invoices devuelve el repositorio de facturas.
func (s *Store) Invoices() repository.InvoiceRepository { return &InvoiceRepo{repo{s: s}} }

// begin bloquea el almacén para escritura y devuelve una copia de trabajo.
// commit publica la copia; si no se llama, los cambios se descartan.
func (s *Store) begin() (work *data, commit func(), release func()) {
	s.txMu.Lock()
	s.mu.RLock()
	work = s.d.clone()
	s.mu.RUnlock()
	commit = func() {
		s.mu.Lock()
		s.d = work
		s.mu.Unlock()
	}
	return work, commit, s.txMu.Unlock
}

// Run ejecuta fn con el repositorio de consumibles dentro de una transacción.
func (s *Store) Run(ctx context.Context, fn func(consumableRepo repository.ConsumableRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	work, commit, release := s.begin()
	defer release()

	if err := fn(&ConsumableRepo{repo{s: s, tx: work}}); err != nil {
		return err
	}
	commit()
	return nil
}

// RunBilling ejecuta fn con los repositorios de facturación dentro de una transacción.
func (s *Store) RunBilling(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	expenseRepo repository.ExpenseRepository,
	consumableRepo repository.ConsumableRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	work, commit, release := s.begin()
	defer release()

	base := repo{s: s, tx: work}
	if err := fn(&OrderRepo{base}, &ExpenseRepo{base}, &ConsumableRepo{base}, &InvoiceRepo{base}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	commit()
	return nil
}
