package main

import (
	"secondarypro/internal/config"
	"secondarypro/internal/handlers"
	"secondarypro/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type appServices struct {
	products *services.ProductService
	orders   *services.OrderService
	admin    *services.AdminService
}

// newApp builds the Fiber app with middleware and every route under /api.
func newApp(cfg config.Config, svc appServices) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: cfg.ServiceName,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ClientURL,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Admin-Password",
		AllowCredentials: true,
	}))

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "SecondaryPro API is running!"})
	})

	handlers.NewProductHandler(svc.products).RegisterRoutes(api)
	handlers.NewOrderHandler(svc.orders).RegisterRoutes(api)
	handlers.NewAdminHandler(svc.admin, svc.products, svc.orders).RegisterRoutes(api)

	return app
}
