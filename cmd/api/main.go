package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/taller-api/internal/application/analytics"
	"github.com/jhoicas/taller-api/internal/application/billing"
	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/application/ledger"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/taller-api/internal/interfaces/http"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// txRunner lo implementan tanto postgres.TxRunner como memory.Store.
type txRunner interface {
	billing.BillingTxRunner
	inventory.TxRunner
}

// storage agrupa los adaptadores del driver elegido.
type storage struct {
	orders      repository.OrderRepository
	expenses    repository.ExpenseRepository
	incomes     repository.IncomeRepository
	consumables repository.ConsumableRepository
	invoices    repository.InvoiceRepository
	tx          txRunner
	close       func()
}

func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*storage, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			orders:      s.Orders(),
			expenses:    s.Expenses(),
			incomes:     s.Incomes(),
			consumables: s.Consumables(),
			invoices:    s.Invoices(),
			tx:          s,
			close:       func() {},
		}, nil
	}

	if cfg.Migrate {
		if err := postgres.Migrate(cfg.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &storage{
		orders:      postgres.NewOrderRepository(pool),
		expenses:    postgres.NewExpenseRepository(pool),
		incomes:     postgres.NewIncomeRepository(pool),
		consumables: postgres.NewConsumableRepository(pool),
		invoices:    postgres.NewInvoiceRepository(pool),
		tx:          postgres.NewTxRunner(pool),
		close:       pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Str("tax_rate", cfg.Billing.TaxRate.String()).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	generateUC := billing.NewGenerateInvoiceUseCase(store.tx, cfg.Billing.TaxRate, log.Component("billing"))
	invoiceUC := billing.NewInvoiceUseCase(store.tx, store.invoices, log.Component("billing"))
	stockUC := inventory.NewStockUseCase(store.consumables)
	registerMovementUC := inventory.NewRegisterMovementUseCase(store.tx, log.Component("inventory"))
	profitUC := analytics.NewProfitabilityUseCase(
		store.orders, store.invoices, store.expenses, store.incomes, store.consumables,
		log.Component("analytics"),
	)
	receivablesUC := analytics.NewReceivablesUseCase(store.invoices, store.incomes)
	recordsUC := ledger.NewRecordsUseCase(store.orders, store.expenses, store.incomes, log.Component("ledger"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Invoices:  httpRouter.NewInvoiceHandler(generateUC, invoiceUC, receivablesUC),
		Stock:     httpRouter.NewStockHandler(stockUC, registerMovementUC),
		Reports:   httpRouter.NewReportHandler(profitUC, receivablesUC),
		Records:   httpRouter.NewRecordsHandler(recordsUC),
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
