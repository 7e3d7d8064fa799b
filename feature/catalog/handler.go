package catalog

import (
	"errors"

	"catalog-manager/core/logger"
	"catalog-manager/core/utils"
	"catalog-manager/feature/catalog/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/products")
	group.Post("/:id/variants", h.HandleApplyChangeSet)
	group.Get("/:id/configuration", h.HandleGetConfiguration)
	group.Get("/:id/integrity", h.HandleGetIntegrity)
	group.Put("/:id/variants/:variantId/image", h.HandleAttachVariantImage)
}

// HandleApplyChangeSet merges a change-set into a product's configuration.
// @Summary Apply Variant Change-Set
// @Description Merge desired options/variants into a product's configuration.
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param changeset body reconcile.ChangeSet true "Change-Set"
// @Success 200 {object} map[string]any "Created variants"
// @Failure 400 {object} map[string]any "Malformed request"
// @Failure 404 {object} map[string]any "Unknown product"
// @Failure 500 {object} map[string]any "Internal Server Error"
// @Router /products/{id}/variants [post]
func (h *Handler) HandleApplyChangeSet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	productID := uint(utils.ToInt(c.Params("id")))

	var set reconcile.ChangeSet
	if err := c.BodyParser(&set); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid change-set body",
		})
	}

	result, err := h.service.ApplyChangeSet(c.Context(), productID, set)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
		l.Error("Change-set application failed",
			zap.Uint("product_id", productID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"created_variants": result.CreatedVariants,
	})
}

// HandleGetConfiguration returns the product's configuration view.
// @Summary Get Product Configuration
// @Description Options with distinct ordered values, plus variants.
// @Tags catalog
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} catalog.ProductConfiguration "Configuration"
// @Failure 404 {object} map[string]any "Unknown product"
// @Router /products/{id}/configuration [get]
func (h *Handler) HandleGetConfiguration(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	productID := uint(utils.ToInt(c.Params("id")))

	cfg, err := h.service.GetConfiguration(c.Context(), productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Configuration load failed",
			zap.Uint("product_id", productID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(cfg)
}

// HandleGetIntegrity returns the invariant audit for a product.
// @Summary Get Product Integrity Report
// @Description Audit label uniqueness, value position stability, and contiguity.
// @Tags catalog
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} catalog.IntegrityReport "Integrity report"
// @Failure 404 {object} map[string]any "Unknown product"
// @Router /products/{id}/integrity [get]
func (h *Handler) HandleGetIntegrity(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	productID := uint(utils.ToInt(c.Params("id")))

	report, err := h.service.VerifyProduct(c.Context(), productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Integrity check failed",
			zap.Uint("product_id", productID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

// HandleAttachVariantImage uploads an image for a variant.
// @Summary Attach Variant Image
// @Description Upload raw image bytes and point the variant at the stored object.
// @Tags catalog
// @Accept octet-stream
// @Produce json
// @Param id path int true "Product ID"
// @Param variantId path int true "Variant ID"
// @Success 200 {object} map[string]any "Image URL"
// @Failure 404 {object} map[string]any "Unknown variant"
// @Router /products/{id}/variants/{variantId}/image [put]
func (h *Handler) HandleAttachVariantImage(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	productID := uint(utils.ToInt(c.Params("id")))
	variantID := uint(utils.ToInt(c.Params("variantId")))

	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty image body"})
	}

	contentType := c.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = "image/png"
	}

	url, err := h.service.AttachVariantImage(c.Context(), productID, variantID, body, contentType)
	if err != nil {
		if errors.Is(err, ErrVariantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Variant image upload failed",
			zap.Uint("product_id", productID),
			zap.Uint("variant_id", variantID),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"url": url})
}
