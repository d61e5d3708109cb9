package handlers

import (
	"secondarypro/internal/models"
	"secondarypro/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles the public catalog routes.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/featured/homepage", h.HandleFeatured)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// HandleListProducts serves the filtered, sorted, paginated catalog.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	page, err := h.service.ListProducts(c.UserContext(), models.ProductListParams{
		Category: c.Query("category"),
		Featured: c.Query("featured"),
		MinPrice: c.Query("minPrice"),
		MaxPrice: c.Query("maxPrice"),
		Sort:     c.Query("sort"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("limit", 0),
	})
	if err != nil {
		return respondError(c, err, "Product not found", "Could not retrieve products")
	}
	return c.JSON(page)
}

// HandleFeatured serves the homepage featured list.
func (h *ProductHandler) HandleFeatured(c *fiber.Ctx) error {
	products, err := h.service.ListFeatured(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err, "Product not found", "Could not retrieve featured products")
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Product not found", "Could not retrieve product")
	}
	return c.JSON(product)
}
