package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// BodyLimit límite del cuerpo de la petición. Supera los 10 MiB de la nota fiscal para que
// un archivo apenas mayor llegue al servicio y se informe como INVALID_FILE.
const BodyLimit = 12 * 1024 * 1024

// NewApp crea la app Fiber con el manejador de errores JSON y recover.
func NewApp(appName string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		BodyLimit:    BodyLimit,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: fiberErrorHandler,
	})
	app.Use(recover.New())
	return app
}
