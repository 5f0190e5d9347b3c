package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dukaanhq/dukaan/modules/auth"
	"github.com/dukaanhq/dukaan/modules/billing"
	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/modules/expense"
	"github.com/dukaanhq/dukaan/modules/inventory"
	"github.com/dukaanhq/dukaan/modules/migration"
	"github.com/dukaanhq/dukaan/modules/report"
	"github.com/dukaanhq/dukaan/modules/sales"
	"github.com/dukaanhq/dukaan/pkg/config"
	"github.com/dukaanhq/dukaan/pkg/httpserver"
	"github.com/dukaanhq/dukaan/pkg/logger"
	"github.com/dukaanhq/dukaan/pkg/mailer"
	"github.com/dukaanhq/dukaan/pkg/mongo"
	"github.com/dukaanhq/dukaan/pkg/redis"
	"github.com/dukaanhq/dukaan/pkg/responder"
)

type appConfig struct {
	Environment       string        `env:"APP_ENV" envDefault:"development"`
	DatabaseName      string        `env:"MONGODB_DATABASE" envDefault:"dukaan"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"1h"`
}

func main() {
	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Environment, "dukaan-api"))
	logger.SetAsDefault(log)

	if err := run(appCfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(appCfg appConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mongoCfg mongo.Config
	config.MustLoad(&mongoCfg)
	db, err := mongo.ConnectDatabase(ctx, mongoCfg, appCfg.DatabaseName)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Client().Disconnect(disconnectCtx)
	}()

	var redisCfg redis.Config
	config.MustLoad(&redisCfg)
	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var mailCfg mailer.Config
	config.MustLoad(&mailCfg)
	mail, err := mailer.NewPostmark(mailCfg)
	if err != nil {
		log.Warn("postmark not configured, emails disabled", logger.Error(err))
		mail = mailer.NewNoop(log)
	}

	// Stores over the shared database.
	records := entitlement.NewMongoStore(db)
	accounts := auth.NewMongoAccountStore(db)
	if err := accounts.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("account indexes: %w", err)
	}
	legacyData := migration.NewMongoStore(db)
	stockStore := inventory.NewMongoStore(db)
	saleStore := sales.NewMongoStore(db)
	expenseStore := expense.NewMongoStore(db)

	// Domain services.
	provisioner := entitlement.NewProvisioner(records)
	migrator := migration.NewMigrator(records, legacyData, log)

	var authCfg auth.Config
	config.MustLoad(&authCfg)
	var google auth.GoogleVerifier
	if authCfg.GoogleClientID != "" {
		google = auth.NewGoogleVerifier(authCfg.GoogleClientID)
	}
	authSvc, err := auth.NewService(authCfg, accounts, auth.NewRedisRefreshStore(redisClient), google, provisioner, migrator, log)
	if err != nil {
		return err
	}

	var providerCfg billing.Config
	config.MustLoad(&providerCfg)
	var billingCfg billing.ServiceConfig
	config.MustLoad(&billingCfg)
	verifier, err := billing.NewSignatureVerifier(providerCfg.KeySecret)
	if err != nil {
		return err
	}
	billingSvc := billing.NewService(billingCfg, records, billing.NewRazorpayClient(providerCfg), verifier, mail, log)

	inventorySvc := inventory.NewService(stockStore)
	salesSvc := sales.NewService(saleStore, stockStore)
	expenseSvc := expense.NewService(expenseStore)
	reportSvc := report.NewService(saleStore, expenseStore, stockStore)

	reconciler := billing.NewReconciler(records, mail, log, appCfg.ReconcileInterval)
	go reconciler.Run(ctx)

	router := newRouter(routerDeps{
		authSvc:    authSvc,
		records:    records,
		billing:    billing.NewHandler(billingSvc),
		inventory:  inventory.NewHandler(inventorySvc),
		sales:      sales.NewHandler(salesSvc),
		expenses:   expense.NewHandler(expenseSvc),
		reports:    report.NewHandler(reportSvc),
		mongoCheck: mongo.Healthcheck(db.Client()),
		redisCheck: redis.Healthcheck(redisClient),
	})

	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)
	server := httpserver.New(httpCfg, log)
	return server.Run(ctx, router)
}

type routerDeps struct {
	authSvc    *auth.Service
	records    entitlement.Store
	billing    *billing.Handler
	inventory  *inventory.Handler
	sales      *sales.Handler
	expenses   *expense.Handler
	reports    *report.Handler
	mongoCheck func(context.Context) error
	redisCheck func(context.Context) error
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", healthz(deps.mongoCheck, deps.redisCheck))
	r.Mount("/auth", auth.NewHandler(deps.authSvc).Routes())

	// Everything else needs a session. Billing stays outside the
	// entitlement gate so lapsed users can still subscribe.
	r.Group(func(r chi.Router) {
		r.Use(deps.authSvc.RequireAuth)

		r.Get("/me", entitlement.MeHandler(deps.records))
		deps.billing.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(entitlement.RequireActive(deps.records))
			r.Mount("/stocks", deps.inventory.Routes())
			r.Mount("/sales", deps.sales.Routes())
			r.Mount("/expenses", deps.expenses.Routes())
			r.Mount("/reports", deps.reports.Routes())
		})
	})

	return r
}

func healthz(checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				responder.Error(w, http.StatusServiceUnavailable, "unhealthy", err.Error())
				return
			}
		}
		responder.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
