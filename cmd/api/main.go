package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	_ "github.com/jhoicas/almoxerife-api/docs"
	appanalytics "github.com/jhoicas/almoxerife-api/internal/application/analytics"
	"github.com/jhoicas/almoxerife-api/internal/application/auth"
	"github.com/jhoicas/almoxerife-api/internal/application/ledger"
	"github.com/jhoicas/almoxerife-api/internal/application/report"
	"github.com/jhoicas/almoxerife-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/almoxerife-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almoxerife-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almoxerife-api/internal/infrastructure/session"
	"github.com/jhoicas/almoxerife-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/almoxerife-api/internal/interfaces/http"
	"github.com/jhoicas/almoxerife-api/pkg/config"
	"github.com/jhoicas/almoxerife-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	checks := map[string]httpRouter.HealthCheck{"database": pool.Ping}

	// Sin REDIS_URL el logout solo borra la cookie: el token sigue válido hasta expirar.
	var revoker auth.TokenRevoker = session.NoopRevoker{}
	if cfg.Redis.Enabled() {
		rdb, err := session.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		revoker = session.NewRedisRevoker(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn().Msg("REDIS_URL vacío: las sesiones no se revocan en logout")
	}

	productRepo := postgres.NewProductRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	issueRepo := postgres.NewIssueRepository(pool)
	recipientRepo := postgres.NewRecipientRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	invoices := storage.NewOSInvoiceStore(cfg.Storage.UploadDir)

	ledgerSvc := ledger.NewService(txRunner, productRepo, receiptRepo, issueRepo, recipientRepo, invoices)
	productUC := usecase.NewProductUseCase(productRepo, issueRepo, invoices)
	userUC := usecase.NewUserUseCase(userRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(dashboardRepo)
	stockReportUC := report.NewStockReportUseCase(productRepo, infrapdf.NewMarotoStockReport())
	authUC := auth.NewAuthUseCase(userRepo, revoker, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(cfg.App.Name)
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almoxerife API",
	}))

	app.Get("/health", httpRouter.Health(cfg.App.Name, checks))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Ledger:      ledgerSvc,
		ProductUC:   productUC,
		UserUC:      userUC,
		DashboardUC: dashboardUC,
		StockReport: stockReportUC,
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
