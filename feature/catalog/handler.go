package catalog

import (
	"errors"

	"variant-manager/core/logger"
	"variant-manager/core/utils"
	"variant-manager/feature/variant/validate"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the attribute catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/status", h.HandleStatus)
	group.Post("/import", h.HandleImport)
	group.Post("/export", h.HandleExport)
	group.Post("/refresh", h.HandleRefresh)
	group.Get("/diff", h.HandleDiff)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	l := logger.WithRayID(h.service.logger, c)
	status := fiber.StatusInternalServerError
	if errors.Is(err, validate.ErrValidation) {
		status = fiber.StatusUnprocessableEntity
		l.Warn(msg, zap.Error(err))
	} else {
		l.Error(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// HandleImport imports a catalog document from object storage.
// @Summary Import Catalog
// @Description Read a catalog document from the bucket and save its attributes and templates.
// @Tags catalog
// @Produce json
// @Param object query string false "Object name (defaults to the configured document)"
// @Success 200 {object} ImportReport "Import report"
// @Failure 422 {object} map[string]string "Invalid document"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	report, err := h.service.Import(c.UserContext(), c.Query("object"))
	if err != nil {
		return h.fail(c, "Catalog import failed", err)
	}
	return c.JSON(report)
}

// HandleExport exports the catalog to object storage.
// @Summary Export Catalog
// @Description Write the stored attributes and templates to the bucket.
// @Tags catalog
// @Produce json
// @Param object query string false "Object name (defaults to a timestamped name under exports/)"
// @Success 200 {object} ExportReport "Export report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	report, err := h.service.Export(c.UserContext(), c.Query("object"))
	if err != nil {
		return h.fail(c, "Catalog export failed", err)
	}
	return c.JSON(report)
}

// HandleStatus reports the cached catalog.
// @Summary Catalog Status
// @Description Report the cached attribute catalog, item counts and the latest export.
// @Tags catalog
// @Produce json
// @Success 200 {object} Status "Status"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	status, err := h.service.Status(c.UserContext())
	if err != nil {
		return h.fail(c, "Catalog status failed", err)
	}
	return c.JSON(status)
}

// HandleRefresh reloads the cached catalog.
// @Summary Refresh Catalog
// @Description Drop the cached attribute catalog and read it again from the database.
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]any "Catalog stats"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	stats, err := h.service.Refresh(c.UserContext())
	if err != nil {
		return h.fail(c, "Catalog refresh failed", err)
	}
	return c.JSON(stats)
}

// HandleDiff compares a catalog document with the database.
// @Summary Catalog Drift
// @Description Compare a catalog document in the bucket with the stored attributes and templates. Nothing is written.
// @Tags catalog
// @Produce json
// @Param object query string false "Object name (defaults to the configured document)"
// @Param issues query boolean false "Only list entities that differ"
// @Success 200 {object} DiffReport "Drift report"
// @Failure 422 {object} map[string]string "Invalid document"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/diff [get]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	report, err := h.service.Diff(c.UserContext(), c.Query("object"))
	if err != nil {
		return h.fail(c, "Catalog diff failed", err)
	}
	if utils.ToBool(c.Query("issues")) {
		report.Attributes.Results = report.Attributes.Issues()
		report.Templates.Results = report.Templates.Issues()
	}
	return c.JSON(report)
}
