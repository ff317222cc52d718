package handlers

import (
	"strconv"
	"strings"

	"vitrine/internal/middleware"
	"vitrine/internal/models"
	"vitrine/internal/repositories"
	"vitrine/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// Listing and lookup are public; mutations sit behind the auth
// middleware, with the admin role enforced by the service.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/:id", h.HandleGetByID)
	productRoutes.Post("/", auth, h.HandleCreate)
	productRoutes.Patch("/:id", auth, h.HandleUpdate)
	productRoutes.Delete("/:id", auth, h.HandleDelete)
}

// parseListFilter validates the listing query parameters. Anything
// unparseable or out of range is a 400, not a silent clamp.
func parseListFilter(c *fiber.Ctx) (repositories.ListFilter, string) {
	filter := repositories.ListFilter{Page: 1, PageSize: repositories.DefaultPageSize}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, "page must be a positive integer"
		}
		filter.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil || pageSize < 1 || pageSize > repositories.MaxPageSize {
			return filter, "page_size must be between 1 and 100"
		}
		filter.PageSize = pageSize
	}
	if category := c.Query("category"); category != "" {
		if !models.ValidCategory(category) {
			return filter, "unknown category"
		}
		filter.Category = category
	}
	if search := c.Query("search"); search != "" {
		if len(search) > 100 {
			return filter, "search term too long"
		}
		filter.Search = strings.TrimSpace(search)
	}
	return filter, ""
}

// HandleList returns one page of the catalog.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	filter, problem := parseListFilter(c)
	if problem != "" {
		return badRequest(c, problem)
	}

	page, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleGetByID returns a single product.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	product, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreate creates a new product. Admin only.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidation(c, err)
	}

	product, err := h.service.Create(c.UserContext(), middleware.CallerFrom(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate applies a partial update to a product. Admin only.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidation(c, err)
	}

	product, err := h.service.Update(c.UserContext(), middleware.CallerFrom(c), c.Params("id"), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDelete soft-deletes a product. Admin only.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Remove(c.UserContext(), middleware.CallerFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
