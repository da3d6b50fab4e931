// FILE: internal/controller/subscription_controller.go
package controller

import (
	"time"

	"resume-analyzer-be/internal/dto"
	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/pkg/serverutils"
	"resume-analyzer-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router)
	GetStatus(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	StartTrial(ctx *fiber.Ctx) error
	TrialStatus(ctx *fiber.Ctx) error
	PromptClick(ctx *fiber.Ctx) error
}

type subscriptionController struct {
	service   service.ISubscriptionService
	publisher service.IPublisherService
}

func NewSubscriptionController(svc service.ISubscriptionService, publisher service.IPublisherService) ISubscriptionController {
	return &subscriptionController{service: svc, publisher: publisher}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/subscription", serverutils.JwtMiddleware)
	h.Get("/status", c.GetStatus)
	h.Post("/checkout", c.Checkout)
	h.Post("/cancel", c.Cancel)
	h.Post("/trial", c.StartTrial)

	r.Get("/trial/status", serverutils.JwtMiddleware, c.TrialStatus)
	r.Post("/prompt/click", serverutils.JwtMiddleware, c.PromptClick)
}

func (c *subscriptionController) GetStatus(ctx *fiber.Ctx) error {
	res, err := c.service.GetStatus(ctx.Context(), serverutils.UserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func (c *subscriptionController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Checkout(ctx.Context(), serverutils.UserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout session created", res))
}

func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	var req dto.CancelRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
	}

	res, err := c.service.Cancel(ctx.Context(), serverutils.UserId(ctx), req.Immediate)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription cancelled", res))
}

func (c *subscriptionController) StartTrial(ctx *fiber.Ctx) error {
	var req dto.StartTrialRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.StartTrial(ctx.Context(), serverutils.UserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Trial started", res))
}

func (c *subscriptionController) TrialStatus(ctx *fiber.Ctx) error {
	res, err := c.service.TrialStatus(ctx.Context(), serverutils.UserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Trial status", res))
}

// PromptClick records that the user acted on an upgrade prompt. Analytics
// only; always 200 once validated.
func (c *subscriptionController) PromptClick(ctx *fiber.Ctx) error {
	var req dto.PromptClickRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if c.publisher != nil {
		c.publisher.Record(ctx.Context(), &entity.ConversionEvent{
			Id:         uuid.New(),
			UserId:     serverutils.UserId(ctx),
			EventType:  entity.ConversionPromptClicked,
			PromptId:   req.PromptId,
			VariantKey: req.VariantKey,
			TargetPlan: req.TargetPlan,
			OccurredAt: time.Now(),
		})
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Recorded", nil))
}
