package handlers

import (
	"log"

	"secondarypro/internal/models"
	"secondarypro/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles the customer-facing order routes.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// HandleCreateOrder places a preorder.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var input models.OrderInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	order, err := h.service.CreateOrder(c.UserContext(), input)
	if err != nil {
		return respondError(c, err, "Product not found", "Could not create order")
	}

	log.Printf("Order %s placed for product %s", order.ID, order.ProductID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully!",
		"orderId": order.ID,
		"order":   order,
	})
}

// HandleGetOrderByID retrieves a single order joined with its product.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Order not found", "Could not retrieve order")
	}
	return c.JSON(order)
}
