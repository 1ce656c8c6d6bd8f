package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Darshit9241/billing-webiste-sub000/controllers"
	"github.com/Darshit9241/billing-webiste-sub000/middlewares"
)

type Deps struct {
	DB        *gorm.DB
	Orders    *controllers.OrderController
	Settings  *controllers.SettingsController
	JWTSecret string
}

// Register wires all HTTP routes.
func Register(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Bearer auth only when a secret is configured
	if d.JWTSecret != "" {
		api.Use(middlewares.IsAuthenticatedHeader(d.JWTSecret))
	}
	api.Use(middlewares.Idempotency(d.DB))

	// Orders (collection)
	api.Get("/orders", d.Orders.GetOrders)
	api.Get("/orders/export", d.Orders.ExportOrders)
	api.Post("/orders", d.Orders.CreateOrder)
	api.Post("/orders/merge", d.Orders.MergeOrders)
	api.Delete("/orders", d.Orders.DeleteAllOrders)

	// Orders (single)
	api.Get("/orders/:id", d.Orders.GetOrder)
	api.Patch("/orders/:id", d.Orders.UpdateOrder)
	api.Delete("/orders/:id", d.Orders.DeleteOrder)
	api.Post("/orders/:id/clear-payment", d.Orders.ClearPayment)

	// Products
	api.Post("/orders/:id/products", d.Orders.AppendProducts)
	api.Post("/orders/:id/product", d.Orders.AddProduct)
	api.Put("/orders/:id/products/:index", d.Orders.UpdateProduct)
	api.Delete("/orders/:id/products/:index", d.Orders.DeleteProduct)

	// Payments
	api.Post("/orders/:id/payments", d.Orders.CreatePayment)
	api.Put("/orders/:id/payments/:index", d.Orders.UpdatePayment)
	api.Delete("/orders/:id/payments/:index", d.Orders.DeletePayment)

	// Dashboard preferences
	api.Get("/settings", d.Settings.GetSettings)
	api.Put("/settings", d.Settings.UpdateSettings)
}
