// FILE: internal/controller/entitlement_controller.go
package controller

import (
	"resume-analyzer-be/internal/dto"
	"resume-analyzer-be/internal/pkg/serverutils"
	"resume-analyzer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEntitlementController interface {
	RegisterRoutes(r fiber.Router)
	GetEntitlement(ctx *fiber.Ctx) error
	CheckFeature(ctx *fiber.Ctx) error
	CheckResource(ctx *fiber.Ctx) error
	ConsumeUsage(ctx *fiber.Ctx) error
	UsageSummary(ctx *fiber.Ctx) error
}

type entitlementController struct {
	service service.IEntitlementService
}

func NewEntitlementController(service service.IEntitlementService) IEntitlementController {
	return &entitlementController{service: service}
}

func (c *entitlementController) RegisterRoutes(r fiber.Router) {
	r.Get("/entitlement", serverutils.JwtMiddleware, c.GetEntitlement)
	r.Post("/entitlement/feature", serverutils.JwtMiddleware, c.CheckFeature)
	r.Post("/entitlement/resource", serverutils.JwtMiddleware, c.CheckResource)

	u := r.Group("/usage", serverutils.JwtMiddleware)
	u.Post("/consume", c.ConsumeUsage)
	u.Get("/summary", c.UsageSummary)
}

// GetEntitlement returns the full entitlement snapshot, or a single
// feature check when the feature query parameter is present.
func (c *entitlementController) GetEntitlement(ctx *fiber.Ctx) error {
	if feature := ctx.Query("feature"); feature != "" {
		res, err := c.service.CheckFeature(ctx.Context(), serverutils.UserId(ctx), feature)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Feature check", res))
	}

	res, err := c.service.GetEntitlement(ctx.Context(), serverutils.UserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Entitlement", res))
}

func (c *entitlementController) CheckFeature(ctx *fiber.Ctx) error {
	var req dto.FeatureCheckRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CheckFeature(ctx.Context(), serverutils.UserId(ctx), req.Feature)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Feature check", res))
}

func (c *entitlementController) CheckResource(ctx *fiber.Ctx) error {
	var req dto.ResourceCheckRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CheckResource(ctx.Context(), serverutils.UserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Resource check", res))
}

// ConsumeUsage returns 429 with the structured denial payload when the
// period quota is exhausted.
func (c *entitlementController) ConsumeUsage(ctx *fiber.Ctx) error {
	var req dto.ConsumeUsageRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		if err := serverutils.ValidateRequest(req); err != nil {
			return err
		}
	}
	if req.Amount < 1 {
		req.Amount = 1
	}

	res, denied, err := c.service.ConsumeUsage(ctx.Context(), serverutils.UserId(ctx), req.Amount)
	if err != nil {
		return err
	}
	if denied != nil {
		return ctx.Status(fiber.StatusTooManyRequests).
			JSON(serverutils.ErrorResponseWithDetails(fiber.StatusTooManyRequests, "usage quota exhausted", denied))
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage consumed", res))
}

func (c *entitlementController) UsageSummary(ctx *fiber.Ctx) error {
	res, err := c.service.UsageSummary(ctx.Context(), serverutils.UserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage summary", res))
}
