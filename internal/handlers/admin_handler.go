package handlers

import (
	"secondarypro/internal/middleware"
	"secondarypro/internal/models"
	"secondarypro/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the back-office routes.
type AdminHandler struct {
	admin    *services.AdminService
	products *services.ProductService
	orders   *services.OrderService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *services.AdminService, products *services.ProductService, orders *services.OrderService) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		products: products,
		orders:   orders,
	}
}

// RegisterRoutes registers the admin routes behind the admin gate.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin", middleware.AdminRequired(h.admin))
	adminRoutes.Post("/login", h.HandleLogin)

	adminRoutes.Post("/products", h.HandleCreateProduct)
	adminRoutes.Put("/products/:id", h.HandleUpdateProduct)
	adminRoutes.Delete("/products/:id", h.HandleDeleteProduct)

	adminRoutes.Get("/orders", h.HandleListOrders)
	adminRoutes.Post("/orders", h.HandleListOrders)
	adminRoutes.Put("/orders/:id", h.HandleUpdateOrderStatus)

	adminRoutes.Get("/stats", h.HandleStats)
	adminRoutes.Post("/stats", h.HandleStats)
}

// HandleLogin confirms a credential; the gate has already checked it.
func (h *AdminHandler) HandleLogin(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Admin authenticated successfully"})
}

func (h *AdminHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	product, err := h.products.CreateProduct(c.UserContext(), input)
	if err != nil {
		return respondError(c, err, "Product not found", "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *AdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var patch models.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c, err)
	}
	product, err := h.products.UpdateProduct(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err, "Product not found", "Could not update product")
	}
	return c.JSON(product)
}

func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.products.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Product not found", "Could not delete product")
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

type orderListRequest struct {
	Status string `json:"status"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

// HandleListOrders reads its filters from the body on POST and the query string otherwise.
func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	var req orderListRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c, err)
		}
	}
	if req.Status == "" {
		req.Status = c.Query("status")
	}
	if req.Page == 0 {
		req.Page = c.QueryInt("page", 1)
	}
	if req.Limit == 0 {
		req.Limit = c.QueryInt("limit", 0)
	}

	page, err := h.orders.ListOrders(c.UserContext(), models.OrderListParams{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.Limit,
	})
	if err != nil {
		return respondError(c, err, "Order not found", "Could not retrieve orders")
	}
	return c.JSON(page)
}

func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var update models.OrderStatusUpdate
	if err := c.BodyParser(&update); err != nil {
		return badBody(c, err)
	}
	order, err := h.orders.UpdateOrderStatus(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return respondError(c, err, "Order not found", "Could not update order status")
	}
	return c.JSON(order)
}

func (h *AdminHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err, "Not found", "Could not retrieve dashboard stats")
	}
	return c.JSON(stats)
}
