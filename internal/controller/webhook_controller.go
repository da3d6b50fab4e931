// FILE: internal/controller/webhook_controller.go
package controller

import (
	"errors"

	"resume-analyzer-be/internal/pkg/serverutils"
	"resume-analyzer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Billing-Signature"

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	HandleBillingEvent(ctx *fiber.Ctx) error
}

type webhookController struct {
	service service.IWebhookService
}

func NewWebhookController(service service.IWebhookService) IWebhookController {
	return &webhookController{service: service}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	// No JWT here; the HMAC signature is the authentication.
	r.Post("/billing/webhook", c.HandleBillingEvent)
}

// HandleBillingEvent acknowledges recognized no-ops (duplicates, stale
// events, unknown order refs) with 200 so the gateway stops retrying.
// Infrastructure failures return 500, which triggers a retry.
func (c *webhookController) HandleBillingEvent(ctx *fiber.Ctx) error {
	signature := ctx.Get(SignatureHeader)
	if signature == "" {
		return ctx.Status(fiber.StatusUnauthorized).
			JSON(serverutils.ErrorResponse(401, "missing signature"))
	}

	res, err := c.service.HandleBillingEvent(ctx.Context(), ctx.Body(), signature)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignature):
			return ctx.Status(fiber.StatusUnauthorized).
				JSON(serverutils.ErrorResponse(401, "invalid signature"))
		case errors.Is(err, service.ErrMalformedPayload):
			return ctx.Status(fiber.StatusBadRequest).
				JSON(serverutils.ErrorResponse(400, "malformed payload"))
		default:
			return err
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Event processed", res))
}
