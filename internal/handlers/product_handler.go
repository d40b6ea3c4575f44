package handlers

import (
	"backoffice/internal/models"
	"backoffice/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles the Shopware catalog lookups and the Zalando
// product submission flow.
type ProductHandler struct {
	service *services.ProductService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  nopIfNil(logger),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/articles", h.HandleGetArticles)
	router.Get("/variants_adv", h.HandleGetVariants)
	router.Get("/outlines", h.HandleGetOutlines)

	zalandoRoutes := router.Group("/zalando")
	zalandoRoutes.Get("/outlines", h.HandleGetMarketplaceOutlines)
	zalandoRoutes.Get("/attribute/:type", h.HandleGetAttributes)
	zalandoRoutes.Get("/prefill", h.HandlePrefill)
	zalandoRoutes.Get("/form", h.HandleFormData)
	zalandoRoutes.Post("/submission", h.HandleSubmit)
}

func (h *ProductHandler) HandleGetArticles(c *fiber.Ctx) error {
	articles, err := h.service.Articles(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve articles", err)
	}
	return data(c, articles)
}

func (h *ProductHandler) HandleGetVariants(c *fiber.Ctx) error {
	variants, err := h.service.Variants(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve variants", err)
	}
	return data(c, variants)
}

func (h *ProductHandler) HandleGetOutlines(c *fiber.Ctx) error {
	outlines, err := h.service.Outlines(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve outlines", err)
	}
	return data(c, outlines)
}

func (h *ProductHandler) HandleGetMarketplaceOutlines(c *fiber.Ctx) error {
	outlines, err := h.service.MarketplaceOutlines(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve Zalando outlines", err)
	}
	return data(c, outlines)
}

// HandleGetAttributes returns the Zalando values of one attribute type,
// e.g. brandcode or color_code.
func (h *ProductHandler) HandleGetAttributes(c *fiber.Ctx) error {
	values, err := h.service.Attributes(c.UserContext(), c.Params("type"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve Zalando attributes", err)
	}
	return data(c, values)
}

// HandlePrefill returns the draft fields derived from a Shopware article.
func (h *ProductHandler) HandlePrefill(c *fiber.Ctx) error {
	prefill, err := h.service.Prefill(c.UserContext(), c.Query("articleId"))
	if err != nil {
		return respondError(c, h.logger, "Could not prefill product draft", err)
	}
	return data(c, prefill)
}

// HandleFormData returns every lookup the submission form needs in one call.
func (h *ProductHandler) HandleFormData(c *fiber.Ctx) error {
	form, err := h.service.FormData(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not load submission form", err)
	}
	return data(c, form)
}

// HandleSubmit validates a product draft and sends it to Zalando.
func (h *ProductHandler) HandleSubmit(c *fiber.Ctx) error {
	var draft models.ProductDraft
	if err := c.BodyParser(&draft); err != nil {
		return invalidBody(c, h.logger, err)
	}

	result, err := h.service.Submit(c.UserContext(), draft)
	if err != nil {
		return respondError(c, h.logger, "Product submission failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product submitted",
		"data":    result,
	})
}
