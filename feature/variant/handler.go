package variant

import (
	"errors"

	"variant-manager/core/logger"
	"variant-manager/core/utils"
	"variant-manager/feature/variant/combination"
	"variant-manager/feature/variant/models"
	"variant-manager/feature/variant/store"
	"variant-manager/feature/variant/validate"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for variants.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GenerateRequest is the body of the generate endpoint.
type GenerateRequest struct {
	Attributes combination.Spec `json:"attributes"`
}

// GenerateResponse reports a bulk generation run.
type GenerateResponse struct {
	Success bool              `json:"success"`
	Report  *GenerationReport `json:"report"`
}

// AssignmentRequest carries a single value per attribute. Values may be
// strings or numbers.
type AssignmentRequest struct {
	Attributes map[string]any `json:"attributes"`
}

// FindRequest is the body of the find endpoint.
type FindRequest struct {
	Attributes         map[string]any `json:"attributes"`
	Variant            string         `json:"variant"`
	Manufacturer       string         `json:"manufacturer"`
	ManufacturerPartNo string         `json:"manufacturer_part_no"`
}

// RegisterRoutes registers the variant routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/variants")
	group.Get("/:template", h.HandleListVariants)
	group.Post("/:template", h.HandleCreateVariant)
	group.Post("/:template/generate", h.HandleGenerate)
	group.Post("/:template/find", h.HandleFind)
	group.Post("/:template/build", h.HandleBuild)
	group.Post("/:template/validate", h.HandleValidate)
}

func toAssignment(raw map[string]any) models.Assignment {
	a := make(models.Assignment, len(raw))
	for k, v := range raw {
		if v == nil {
			a[k] = ""
			continue
		}
		a[k] = utils.ToString(v)
	}
	return a
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrVariantExists), errors.Is(err, store.ErrDuplicate):
		return fiber.StatusConflict
	case errors.Is(err, validate.ErrValidation):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	l := logger.WithRayID(h.service.logger, c)
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err), zap.Int("status", status))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request body: " + err.Error(),
	})
}

// HandleListVariants lists the variants of a template.
// @Summary List Variants
// @Description List every variant of a template item.
// @Tags variants
// @Produce json
// @Param template path string true "Template id or item code"
// @Success 200 {array} models.Item "Variants"
// @Failure 404 {object} map[string]string "Template not found"
// @Router /variants/{template} [get]
func (h *Handler) HandleListVariants(c *fiber.Ctx) error {
	variants, err := h.service.ListVariants(c.UserContext(), c.Params("template"))
	if err != nil {
		return h.fail(c, "Listing variants failed", err)
	}
	return c.JSON(variants)
}

// HandleGenerate creates every combination of the posted attribute spec.
// @Summary Generate Variants
// @Description Create one variant per combination of comma separated attribute values. Existing variants are skipped.
// @Tags variants
// @Accept json
// @Produce json
// @Param template path string true "Template id or item code"
// @Param body body GenerateRequest true "Attribute spec, e.g. {\"attributes\": {\"Color\": \"Red,Blue\"}}"
// @Success 200 {object} GenerateResponse "Generation report"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 422 {object} map[string]string "Invalid attribute value"
// @Router /variants/{template}/generate [post]
func (h *Handler) HandleGenerate(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	ok, report, err := h.service.GenerateAllCombinations(c.UserContext(), c.Params("template"), req.Attributes)
	if err != nil {
		return h.fail(c, "Variant generation failed", err)
	}
	return c.JSON(GenerateResponse{Success: ok, Report: report})
}

// HandleFind looks up the variant matching the posted attributes, or builds a
// manufacturer variant.
// @Summary Find Variant
// @Description Find the variant whose attributes exactly equal the posted ones. Manufacturer based templates build a new unsaved variant when a manufacturer is given.
// @Tags variants
// @Accept json
// @Produce json
// @Param template path string true "Template id or item code"
// @Param body body FindRequest true "Lookup request"
// @Success 200 {object} Resolution "Resolution"
// @Failure 422 {object} map[string]string "No attributes given"
// @Router /variants/{template}/find [post]
func (h *Handler) HandleFind(c *fiber.Ctx) error {
	var req FindRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	res, err := h.service.ResolveOrBuildVariant(c.UserContext(), c.Params("template"),
		toAssignment(req.Attributes), req.Variant, req.Manufacturer, req.ManufacturerPartNo)
	if err != nil {
		return h.fail(c, "Variant lookup failed", err)
	}
	return c.JSON(res)
}

// HandleBuild returns an unsaved variant for the posted attributes.
// @Summary Build Variant
// @Description Validate the attributes and return the variant that would be created, without saving it.
// @Tags variants
// @Accept json
// @Produce json
// @Param template path string true "Template id or item code"
// @Param body body AssignmentRequest true "Attribute values"
// @Success 200 {object} models.Item "Unsaved variant"
// @Failure 422 {object} map[string]string "Invalid attribute value"
// @Router /variants/{template}/build [post]
func (h *Handler) HandleBuild(c *fiber.Ctx) error {
	var req AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	variant, err := h.service.BuildVariant(c.UserContext(), c.Params("template"), toAssignment(req.Attributes))
	if err != nil {
		return h.fail(c, "Variant build failed", err)
	}
	return c.JSON(variant)
}

// HandleCreateVariant builds and saves a variant.
// @Summary Create Variant
// @Description Validate the attributes, build the variant and save it unless one with the same attributes exists.
// @Tags variants
// @Accept json
// @Produce json
// @Param template path string true "Template id or item code"
// @Param body body AssignmentRequest true "Attribute values"
// @Success 201 {object} models.Item "Created variant"
// @Failure 409 {object} map[string]string "Variant exists"
// @Failure 422 {object} map[string]string "Invalid attribute value"
// @Router /variants/{template} [post]
func (h *Handler) HandleCreateVariant(c *fiber.Ctx) error {
	var req AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	variant, err := h.service.CreateVariant(c.UserContext(), c.Params("template"), toAssignment(req.Attributes))
	if err != nil {
		return h.fail(c, "Variant creation failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(variant)
}

// HandleValidate validates attribute values for an item.
// @Summary Validate Item Attributes
// @Description Validate the posted attribute values, or the item's own when none are posted, against the attribute catalog.
// @Tags variants
// @Accept json
// @Produce json
// @Param template path string true "Item id or item code"
// @Param body body AssignmentRequest false "Attribute values"
// @Success 200 {object} map[string]bool "Valid"
// @Failure 422 {object} map[string]string "Invalid attribute value"
// @Router /variants/{template}/validate [post]
func (h *Handler) HandleValidate(c *fiber.Ctx) error {
	var req AssignmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}
	}

	if err := h.service.ValidateItemAttributes(c.UserContext(), c.Params("template"), toAssignment(req.Attributes)); err != nil {
		return h.fail(c, "Attribute validation failed", err)
	}
	return c.JSON(fiber.Map{"valid": true})
}
