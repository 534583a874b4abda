package integrity

import (
	"errors"

	"data-integrity/core/dataset"
	"data-integrity/core/logger"
	"data-integrity/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Post("/check", h.HandleCheck)
	group.Post("/compare", h.HandleCompare)
	group.Get("/stats", h.HandleStats)
}

// HandleCheck runs a full data integrity check.
// @Summary Run Data Integrity Check
// @Description Optionally runs an actor or task, compares its dataset against the reference dataset, pushes mismatch rows and stats, and refreshes the reference.
// @Tags integrity
// @Accept json
// @Produce json
// @Param input body Input true "Check input"
// @Param dryRun query boolean false "Compare without writing"
// @Success 200 {object} RunReport "Run Report"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Tested dataset cannot be obtained"
// @Failure 502 {object} map[string]string "Actor or task run failed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/check [post]
func (h *Handler) HandleCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var in Input
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}
	if utils.ToBool(c.Query("dryRun")) {
		in.DryRun = true
	}

	rep, err := h.service.Run(c.Context(), in)
	if err != nil {
		status := statusFor(err)
		if status >= fiber.StatusInternalServerError {
			l.Error("Integrity check failed", zap.Error(err))
		} else {
			l.Warn("Integrity check rejected", zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Integrity check finished",
		zap.String("reference", rep.ReferenceDatasetID),
		zap.Int("mismatches", len(rep.Mismatches)),
	)
	return c.JSON(rep)
}

// HandleCompare compares two inline collections.
// @Summary Compare Collections
// @Description Compares inline reference and tested collections without touching any dataset. Returns mismatch rows, stats and the refreshed reference.
// @Tags integrity
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Collections and options"
// @Success 200 {object} map[string]interface{} "Comparison Result"
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /integrity/compare [post]
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	var req CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}

	result, err := h.service.Compare(c.Context(), req)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// HandleStats returns the statistics of the last run.
// @Summary Get Run Stats
// @Description Reads the statistics pushed by the last run.
// @Tags integrity
// @Produce json
// @Param key query string false "Stats key"
// @Success 200 {object} reconcile.Stats "Stats"
// @Failure 404 {object} map[string]string "No stats stored"
// @Router /integrity/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context(), c.Query("key"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrConfiguration):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnresolvableInput):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrUpstream):
		return fiber.StatusBadGateway
	case errors.Is(err, dataset.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
