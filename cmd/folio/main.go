package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/folio-erp/folio-erp/internal/app"
	"github.com/folio-erp/folio-erp/internal/auth"
	"github.com/folio-erp/folio-erp/internal/companies"
	"github.com/folio-erp/folio-erp/internal/ledger/accounts"
	"github.com/folio-erp/folio-erp/internal/ledger/journals"
	"github.com/folio-erp/folio-erp/internal/ledger/reports"
	"github.com/folio-erp/folio-erp/internal/ledger/voiding"
	"github.com/folio-erp/folio-erp/internal/platform/cache"
	"github.com/folio-erp/folio-erp/internal/platform/db"
	"github.com/folio-erp/folio-erp/internal/purchasing/invoices"
	"github.com/folio-erp/folio-erp/internal/purchasing/suppliers"
	"github.com/folio-erp/folio-erp/internal/sales/clients"
	"github.com/folio-erp/folio-erp/internal/sales/quotations"
	"github.com/folio-erp/folio-erp/internal/shared"
	"github.com/folio-erp/folio-erp/jobs"
	"github.com/folio-erp/folio-erp/report"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	queueClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	gotenberg := report.NewClient(cfg.GotenbergURL)
	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)

	companyService := companies.NewService(companies.NewRepository(pool), auditLogger)
	authService := auth.NewService(auth.NewRepository(pool), companyService, tokens, auditLogger)
	accountService := accounts.NewService(accounts.NewRepository(pool))
	journalService := journals.NewService(journals.NewRepository(pool), auditLogger, reportCache)
	voidService := voiding.NewService(voiding.NewRepository(pool), auditLogger, reportCache)
	reportService := reports.NewService(reports.NewRepository(pool), reportCache)
	supplierService := suppliers.NewService(suppliers.NewRepository(pool))
	invoiceService := invoices.NewService(invoices.NewRepository(pool), auditLogger, reportCache)
	clientService := clients.NewService(clients.NewRepository(pool))
	quotationService := quotations.NewService(quotations.NewRepository(pool), gotenberg, queueClient, auditLogger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Tokens:           tokens,
		AuthHandler:      auth.NewHandler(logger, authService),
		CompanyHandler:   companies.NewHandler(logger, companyService),
		AccountHandler:   accounts.NewHandler(logger, accountService),
		JournalHandler:   journals.NewHandler(logger, journalService),
		VoidHandler:      voiding.NewHandler(logger, voidService),
		ReportHandler:    reports.NewHandler(logger, reportService),
		SupplierHandler:  suppliers.NewHandler(logger, supplierService),
		InvoiceHandler:   invoices.NewHandler(logger, invoiceService),
		ClientHandler:    clients.NewHandler(logger, clientService),
		QuotationHandler: quotations.NewHandler(logger, quotationService),
		Health:           []app.HealthChecker{pingable{pool.Ping}, pingable{func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }}},
	})

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeQuotationEmail, Handler: jobs.QuotationEmailHandler(logger)},
			{Type: jobs.TaskTypeGLIntegrity, Handler: jobs.GLIntegrityHandler(pool, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: jobs.NewGLIntegrityTask()},
		},
	})
	if err != nil {
		logger.Error("configure worker", slog.Any("error", err))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("shutdown with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// pingable adapts a ping func to the router's health interface.
type pingable struct {
	ping func(context.Context) error
}

func (p pingable) Ping(ctx context.Context) error { return p.ping(ctx) }
