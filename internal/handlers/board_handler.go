package handlers

import (
	"backoffice/internal/filters"
	"backoffice/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CategoryRequest replaces the selected values of one filter field.
type CategoryRequest struct {
	Field  filters.Field `json:"field"`
	Values []string      `json:"values"`
}

// PresetRequest selects standard or negative presets by value.
type PresetRequest struct {
	Values []string `json:"values"`
}

// QueryRequest sets the free-text country query.
type QueryRequest struct {
	Query string `json:"query"`
}

// SortRequest sets the sort direction on the change date.
type SortRequest struct {
	Sort filters.Direction `json:"sort"`
}

// StatusRequest checks or unchecks one status option.
type StatusRequest struct {
	Field   filters.Field `json:"field"`
	Value   string        `json:"value"`
	Checked bool          `json:"checked"`
}

// PageRequest moves the board to another page.
type PageRequest struct {
	Page        int `json:"page"`
	RowsPerPage int `json:"rowsPerPage"`
}

// BoardHandler serves the order board sessions.
type BoardHandler struct {
	service *services.BoardService
	logger  *zap.Logger
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(service *services.BoardService, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		service: service,
		logger:  nopIfNil(logger),
	}
}

// RegisterRoutes registers the board routes with the Fiber app.
func (h *BoardHandler) RegisterRoutes(router fiber.Router) {
	boardRoutes := router.Group("/board")
	boardRoutes.Post("/", h.HandleOpen)
	boardRoutes.Get("/:id", h.HandleView)
	boardRoutes.Delete("/:id", h.HandleClose)
	boardRoutes.Post("/:id/category", h.HandleSetCategory)
	boardRoutes.Post("/:id/remove", h.HandleRemoveCriterion)
	boardRoutes.Post("/:id/preset", h.HandleApplyPreset)
	boardRoutes.Post("/:id/negative-preset", h.HandleApplyNegativePreset)
	boardRoutes.Post("/:id/query", h.HandleSetQuery)
	boardRoutes.Post("/:id/sort", h.HandleSetSort)
	boardRoutes.Post("/:id/status", h.HandleToggleStatus)
	boardRoutes.Post("/:id/page", h.HandleSetPage)
	boardRoutes.Post("/:id/reload", h.HandleReload)
}

// HandleOpen mounts a new board. Orders load in the background; the
// returned view reports status "loading" until they arrive.
func (h *BoardHandler) HandleOpen(c *fiber.Ctx) error {
	view, err := h.service.Open(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not open board", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": view})
}

func (h *BoardHandler) HandleView(c *fiber.Ctx) error {
	sess, err := h.service.Get(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Board not found", err)
	}
	return data(c, sess.View())
}

func (h *BoardHandler) HandleClose(c *fiber.Ctx) error {
	if err := h.service.Close(c.Params("id")); err != nil {
		return respondError(c, h.logger, "Board not found", err)
	}
	return c.JSON(fiber.Map{"message": "Board closed"})
}

func (h *BoardHandler) HandleSetCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	return h.mutate(c, &req, func(sess *services.BoardSession) error {
		return sess.SetCategory(req.Field, req.Values)
	})
}

func (h *BoardHandler) HandleRemoveCriterion(c *fiber.Ctx) error {
	var req filters.Criterion
	return h.mutate(c, &req, func(sess *services.BoardSession) error {
		sess.RemoveCriterion(req)
		return nil
	})
}

func (h *BoardHandler) HandleApplyPreset(c *fiber.Ctx) error {
	var req PresetRequest
	return h.mutate(c, &req, func(sess *services.BoardSession) error {
		return sess.ApplyPreset(req.Values)
	})
}

func (h *BoardHandler) HandleApplyNegativePreset(c *fiber.Ctx) error {
	var req PresetRequest
	return h.mutate(c, &req, func(sess *services.BoardSession) error {
		return sess.ApplyNegativePreset(req.Values)
	})
}

func (h *BoardHandler) HandleSetQuery(c *fiber.Ctx) error {
	var req QueryRequest
	return h.mutate(c, &req, func(sess *services.BoardSession) error {
		sess.SetQuery(req.Query)
		return nil
	})
}

func (h *BoardHandler) HandleSetSort(c *fiber.Ctx) error {
	var req SortRequest
	return h.mutate(c, &req, func(sess *services.BoardSession) error {
		return sess.SetSort(req.Sort)
	})
}

func (h *BoardHandler) HandleToggleStatus(c *fiber.Ctx) error {
	var req StatusRequest
	return h.mutate(c, &req, func(sess *services.BoardSession) error {
		return sess.ToggleStatus(req.Field, req.Value, req.Checked)
	})
}

func (h *BoardHandler) HandleSetPage(c *fiber.Ctx) error {
	req := PageRequest{RowsPerPage: services.DefaultRowsPerPage}
	return h.mutate(c, &req, func(sess *services.BoardSession) error {
		return sess.SetPage(req.Page, req.RowsPerPage)
	})
}

// HandleReload refetches the board orders.
func (h *BoardHandler) HandleReload(c *fiber.Ctx) error {
	return h.mutate(c, nil, func(sess *services.BoardSession) error {
		sess.Reload()
		return nil
	})
}

// mutate parses the request body into req when given, applies fn to the
// addressed board and answers with the updated view.
func (h *BoardHandler) mutate(c *fiber.Ctx, req any, fn func(*services.BoardSession) error) error {
	sess, err := h.service.Get(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Board not found", err)
	}
	if req != nil {
		if err := c.BodyParser(req); err != nil {
			return invalidBody(c, h.logger, err)
		}
	}
	if err := fn(sess); err != nil {
		return respondError(c, h.logger, "Could not update board", err)
	}
	return data(c, sess.View())
}
