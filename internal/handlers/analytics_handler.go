package handlers

import (
	"vitrine/internal/middleware"
	"vitrine/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler handles HTTP requests for view/click tracking and
// the admin counter reads.
type AnalyticsHandler struct {
	service  *services.AnalyticsService
	validate *validator.Validate
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(service *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the analytics routes with the Fiber app.
// Tracking is public; reads are behind the auth middleware with the
// admin role enforced by the service.
func (h *AnalyticsHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	analyticsRoutes := router.Group("/analytics")
	analyticsRoutes.Post("/track", h.HandleTrack)
	analyticsRoutes.Get("/", auth, h.HandleGetAll)
	analyticsRoutes.Get("/:productId", auth, h.HandleGetByProduct)
}

// TrackRequest is the request body for recording a view or click.
type TrackRequest struct {
	ProductID string `json:"productId" validate:"required,max=64"`
	Type      string `json:"type" validate:"required,oneof=view click"`
}

// HandleTrack records one event. Unknown product ids are accepted so
// no event is lost to a race with product creation or deletion.
func (h *AnalyticsHandler) HandleTrack(c *fiber.Ctx) error {
	var req TrackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	if err := h.service.Track(c.UserContext(), req.ProductID, req.Type); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleGetAll returns the productID -> counters mapping. Admin only.
func (h *AnalyticsHandler) HandleGetAll(c *fiber.Ctx) error {
	stats, err := h.service.GetAll(c.UserContext(), middleware.CallerFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// HandleGetByProduct returns one product's counters. Admin only.
func (h *AnalyticsHandler) HandleGetByProduct(c *fiber.Ctx) error {
	row, err := h.service.GetByProductID(c.UserContext(), middleware.CallerFrom(c), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(row)
}
