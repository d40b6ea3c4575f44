package handlers

import (
	"backoffice/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders and their lookup tables.
type OrderHandler struct {
	service *services.OrderService
	logger  *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  nopIfNil(logger),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Get("/:id/detail", h.HandleGetOrderDetail)

	router.Get("/customerGroups", h.HandleGetCustomerGroups)
	router.Get("/customerGroups/:id", h.HandleGetCustomerGroupByID)
	router.Get("/payments", h.HandleGetPayments)
	router.Get("/documentTypes", h.HandleGetDocumentTypes)
}

// HandleGetOrders retrieves the most recent orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve orders", err)
	}
	return data(c, orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve order", err)
	}
	return data(c, order)
}

// HandleGetOrderDetail retrieves an order with its customer group and the
// field sections of the detail view.
func (h *OrderHandler) HandleGetOrderDetail(c *fiber.Ctx) error {
	detail, err := h.service.GetOrderDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve order detail", err)
	}
	return data(c, detail)
}

func (h *OrderHandler) HandleGetCustomerGroups(c *fiber.Ctx) error {
	groups, err := h.service.ListCustomerGroups(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve customer groups", err)
	}
	return data(c, groups)
}

func (h *OrderHandler) HandleGetCustomerGroupByID(c *fiber.Ctx) error {
	group, err := h.service.GetCustomerGroup(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve customer group", err)
	}
	return data(c, group)
}

func (h *OrderHandler) HandleGetPayments(c *fiber.Ctx) error {
	payments, err := h.service.ListPayments(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve payments", err)
	}
	return data(c, payments)
}

func (h *OrderHandler) HandleGetDocumentTypes(c *fiber.Ctx) error {
	types, err := h.service.ListDocumentTypes(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve document types", err)
	}
	return data(c, types)
}
