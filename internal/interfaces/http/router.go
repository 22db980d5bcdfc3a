package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	appanalytics "github.com/jhoicas/almoxerife-api/internal/application/analytics"
	"github.com/jhoicas/almoxerife-api/internal/application/auth"
	"github.com/jhoicas/almoxerife-api/internal/application/dto"
	"github.com/jhoicas/almoxerife-api/internal/application/ledger"
	"github.com/jhoicas/almoxerife-api/internal/application/report"
	"github.com/jhoicas/almoxerife-api/internal/application/usecase"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
)

// LoginAttemptsPerMinute intentos de login permitidos por IP.
const LoginAttemptsPerMinute = 20

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Ledger      *ledger.Service
	ProductUC   *usecase.ProductUseCase
	UserUC      *usecase.UserUseCase
	DashboardUC *appanalytics.DashboardUseCase
	StockReport *report.StockReportUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público con rate limit)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        LoginAttemptsPerMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_REQUESTS",
				Message: "demasiados intentos de login, intente en 1 minuto",
			})
		},
	}), authHandler.Login)

	// Rutas protegidas (cookie de sesión o Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	// Perfiles
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleStock)
	adminOnly := RequireRole(entity.RoleAdmin)

	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/produtos", stockRoles)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/filtros", productHandler.Filters)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	receiptHandler := NewReceiptHandler(deps.Ledger)
	receipts := protected.Group("/recebimentos", stockRoles)
	receipts.Get("/", receiptHandler.List)
	receipts.Post("/", receiptHandler.Create)
	receipts.Put("/:id", receiptHandler.ReplaceInvoice)
	receipts.Get("/:id/nota-fiscal", receiptHandler.Invoice)

	issueHandler := NewIssueHandler(deps.Ledger)
	issues := protected.Group("/saidas", stockRoles)
	issues.Get("/", issueHandler.List)
	issues.Post("/", issueHandler.Create)

	recipientHandler := NewRecipientHandler(deps.Ledger)
	recipients := protected.Group("/destinatarios", stockRoles)
	recipients.Get("/", recipientHandler.List)
	recipients.Post("/", recipientHandler.Ensure)

	// Solo Administrador
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/usuarios", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/stats", adminOnly, dashboardHandler.GetStats)

	reportHandler := NewReportHandler(deps.StockReport)
	protected.Get("/relatorios/estoque", adminOnly, reportHandler.Stock)
}
