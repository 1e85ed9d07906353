package http

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"weather-records/internal/services/records"
	"weather-records/pkg/logger"
)

type routes struct {
	service     *records.Service
	serviceName string
	l           *logger.Logger
}

func NewRouter(
	app *fiber.App,
	recordService *records.Service,
	serviceName string,
	l *logger.Logger,
) {
	r := &routes{
		service:     recordService,
		serviceName: serviceName,
		l:           l,
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		swaggerData, err := os.ReadFile("docs/swagger.json")
		if err != nil {
			return c.Status(fiber.ErrInternalServerError.Code).JSON(fiber.Map{"error": "Failed to read Swagger documentation"})
		}

		c.Set("Content-Type", "application/json")
		return c.Send(swaggerData)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	// API routes
	api := app.Group("/api")
	api.Get("/health", r.handleHealth)
	api.Get("/records", r.handleListRecords)
	api.Post("/records", r.handleCreateRecord)
	api.Put("/records/:id", r.handleUpdateRecord)
	api.Delete("/records/:id", r.handleDeleteRecord)
	api.Get("/export", r.handleExport)
}
