package handlers

import (
	"encoding/json"

	"backoffice/internal/models"
	"backoffice/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DocumentRequest selects one document of one order. Both ids may be sent
// as JSON numbers or strings.
type DocumentRequest struct {
	Type    json.Number `json:"type"`
	OrderID json.Number `json:"orderId"`
}

// PrintRequest lists the orders whose documents are printed.
type PrintRequest struct {
	OrderIDs []json.Number `json:"orderIds"`
}

// DocumentHandler handles document fetches, print pages and the
// document-type settings.
type DocumentHandler struct {
	service *services.DocumentService
	logger  *zap.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(service *services.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  nopIfNil(logger),
	}
}

// RegisterRoutes registers the document routes with the Fiber app.
func (h *DocumentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/document", h.HandleFetchDocument)
	router.Post("/print", h.HandlePrint)

	settingsRoutes := router.Group("/settings/documents")
	settingsRoutes.Get("/", h.HandleGetSettings)
	settingsRoutes.Put("/", h.HandleSaveSettings)
	settingsRoutes.Get("/defaults", h.HandleGetDefaultSettings)
}

// HandleFetchDocument proxies the raw upstream document.
func (h *DocumentHandler) HandleFetchDocument(c *fiber.Ctx) error {
	var req DocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, h.logger, err)
	}
	if req.Type == "" || req.OrderID == "" {
		return respondError(c, h.logger, "Could not fetch document", &services.ValidationError{Fields: map[string]string{
			"type":    "is required",
			"orderId": "is required",
		}})
	}

	body, err := h.service.FetchDocument(c.UserContext(), req.Type.String(), req.OrderID.String())
	if err != nil {
		return respondError(c, h.logger, "Could not fetch document", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(body)
}

// HandlePrint renders the HTML print page for the requested orders.
func (h *DocumentHandler) HandlePrint(c *fiber.Ctx) error {
	var req PrintRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, h.logger, err)
	}

	ids := make([]string, len(req.OrderIDs))
	for i, id := range req.OrderIDs {
		ids[i] = id.String()
	}

	page, err := h.service.Print(c.UserContext(), ids)
	if err != nil {
		return respondError(c, h.logger, "Could not print documents", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}

func (h *DocumentHandler) HandleGetSettings(c *fiber.Ctx) error {
	settings, err := h.service.Settings()
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve document settings", err)
	}
	return data(c, settings)
}

// HandleSaveSettings replaces the stored settings with the request body.
func (h *DocumentHandler) HandleSaveSettings(c *fiber.Ctx) error {
	var settings []models.DocumentTypeSetting
	if err := c.BodyParser(&settings); err != nil {
		return invalidBody(c, h.logger, err)
	}
	if err := h.service.SaveSettings(settings); err != nil {
		return respondError(c, h.logger, "Could not save document settings", err)
	}
	return c.JSON(fiber.Map{
		"message": "Document settings saved",
		"data":    settings,
	})
}

// HandleGetDefaultSettings proposes one setting per customer group.
func (h *DocumentHandler) HandleGetDefaultSettings(c *fiber.Ctx) error {
	defaults, err := h.service.DefaultSettings(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not build default document settings", err)
	}
	return data(c, defaults)
}
