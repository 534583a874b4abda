package datasets

import (
	"errors"

	"data-integrity/core/dataset"
	"data-integrity/core/logger"
	"data-integrity/core/record"
	"data-integrity/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for datasets.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the dataset routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/datasets")
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Put("/:id", h.HandleReplace)
	group.Post("/:id/items", h.HandleAppend)
	group.Delete("/:id", h.HandleDelete)
}

// HandleList lists dataset ids.
// @Summary List Datasets
// @Description Returns the ids of all stored datasets.
// @Tags datasets
// @Produce json
// @Success 200 {object} map[string][]string "Dataset ids"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /datasets [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	ids, err := h.service.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"datasets": ids})
}

// HandleGet returns the items of a dataset.
// @Summary Get Dataset
// @Description Returns the stored items of a dataset, optionally paginated.
// @Tags datasets
// @Produce json
// @Param id path string true "Dataset id"
// @Param offset query int false "Items to skip"
// @Param limit query int false "Maximum items to return"
// @Success 200 {object} Page "Dataset page"
// @Failure 400 {object} map[string]string "Invalid dataset id"
// @Failure 404 {object} map[string]string "Dataset not found"
// @Router /datasets/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	offset := utils.ToInt(c.Query("offset"), 0)
	limit := utils.ToInt(c.Query("limit"), 0)

	page, err := h.service.Get(c.Context(), c.Params("id"), offset, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(page)
}

// HandleReplace replaces the items of a dataset.
// @Summary Replace Dataset
// @Description Clears the dataset and stores the given JSON array of items.
// @Tags datasets
// @Accept json
// @Produce json
// @Param id path string true "Dataset id"
// @Param items body []object true "Items"
// @Success 200 {object} map[string]interface{} "Stored count"
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /datasets/{id} [put]
func (h *Handler) HandleReplace(c *fiber.Ctx) error {
	items, err := record.DecodeAll(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.Replace(c.Context(), c.Params("id"), items); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": c.Params("id"), "stored": len(items)})
}

// HandleAppend appends items to a dataset.
// @Summary Append Items
// @Description Appends the given JSON array of items, creating the dataset if needed.
// @Tags datasets
// @Accept json
// @Produce json
// @Param id path string true "Dataset id"
// @Param items body []object true "Items"
// @Success 200 {object} map[string]interface{} "Appended count"
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /datasets/{id}/items [post]
func (h *Handler) HandleAppend(c *fiber.Ctx) error {
	items, err := record.DecodeAll(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.Append(c.Context(), c.Params("id"), items); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": c.Params("id"), "appended": len(items)})
}

// HandleDelete deletes a dataset.
// @Summary Delete Dataset
// @Tags datasets
// @Param id path string true "Dataset id"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid dataset id"
// @Router /datasets/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidID):
		status = fiber.StatusBadRequest
	case errors.Is(err, dataset.ErrNotFound):
		status = fiber.StatusNotFound
	default:
		logger.WithRayID(h.service.logger, c).Error("Dataset request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
