// FILE: internal/controller/plan_controller.go
package controller

import (
	"errors"
	"strconv"

	"resume-analyzer-be/internal/pkg/serverutils"
	"resume-analyzer-be/internal/service"
	"resume-analyzer-be/pkg/billing/catalog"

	"github.com/gofiber/fiber/v2"
)

type IPlanController interface {
	RegisterRoutes(r fiber.Router)
	GetPlans(ctx *fiber.Ctx) error
	GetPricing(ctx *fiber.Ctx) error
}

type planController struct {
	service service.IPlanService
}

func NewPlanController(service service.IPlanService) IPlanController {
	return &planController{service: service}
}

func (c *planController) RegisterRoutes(r fiber.Router) {
	// Public routes: the pricing page renders before signup.
	r.Get("/plans", c.GetPlans)
	r.Get("/pricing", c.GetPricing)
}

func (c *planController) GetPlans(ctx *fiber.Ctx) error {
	res, err := c.service.GetPlans(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching plans", res))
}

func (c *planController) GetPricing(ctx *fiber.Ctx) error {
	planId := ctx.Query("plan_id")
	if planId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "plan_id is required"))
	}
	cycle := ctx.Query("billing_cycle", "monthly")
	seats, _ := strconv.Atoi(ctx.Query("seats", "1"))
	region := ctx.Query("region", "US")

	res, err := c.service.GetQuote(ctx.Context(), planId, cycle, seats, region)
	if err != nil {
		if errors.Is(err, catalog.ErrPlanNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "plan not found"))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Pricing quote", res))
}
