// FILE: internal/controller/payment_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"ramein-web/internal/dto"
	"ramein-web/internal/mapper"
	"ramein-web/internal/pkg/serverutils"
	"ramein-web/internal/service"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetConfig(ctx *fiber.Ctx) error
	GetSummary(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	PollStatus(ctx *fiber.Ctx) error
	CheckStatus(ctx *fiber.Ctx) error
	WidgetOutcome(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	MyTransactions(ctx *fiber.Ctx) error
	CloseSession(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment")
	h.Get("/config", c.GetConfig)

	// Protected routes
	h.Get("/summary", serverutils.JwtMiddleware, c.GetSummary)
	h.Post("/checkout", serverutils.JwtMiddleware, c.Checkout)
	h.Get("/status/:order_id", serverutils.JwtMiddleware, c.PollStatus)
	h.Post("/status/:order_id/check", serverutils.JwtMiddleware, c.CheckStatus)
	h.Post("/outcome", serverutils.JwtMiddleware, c.WidgetOutcome)
	h.Post("/:order_id/cancel", serverutils.JwtMiddleware, c.Cancel)
	h.Get("/transactions", serverutils.JwtMiddleware, c.MyTransactions)
	h.Delete("/session/:order_id", serverutils.JwtMiddleware, c.CloseSession)
}

// GetConfig exposes the widget client key and poll tick rate. Public: both
// are meant for the browser side.
func (c *paymentController) GetConfig(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success fetching payment config", c.service.Config()))
}

func (c *paymentController) GetSummary(ctx *fiber.Ctx) error {
	eventId := ctx.Query("event_id")
	if eventId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "event_id is required")
	}

	res, err := c.service.GetSummary(ctx.Context(), serverutils.BearerToken(ctx), eventId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching payment summary", mapper.ToPaymentSummaryResponse(res)))
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Checkout(ctx.Context(), serverutils.BearerToken(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout initiated", res))
}

func (c *paymentController) PollStatus(ctx *fiber.Ctx) error {
	res, err := c.service.PollStatus(ctx.Context(), serverutils.BearerToken(ctx), ctx.Params("order_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching payment status", res))
}

func (c *paymentController) CheckStatus(ctx *fiber.Ctx) error {
	res, err := c.service.CheckStatus(ctx.Context(), serverutils.BearerToken(ctx), ctx.Params("order_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Status check performed", res))
}

func (c *paymentController) WidgetOutcome(ctx *fiber.Ctx) error {
	var req dto.WidgetOutcomeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.WidgetOutcome(ctx.Context(), serverutils.BearerToken(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Widget outcome handled", res))
}

func (c *paymentController) Cancel(ctx *fiber.Ctx) error {
	if err := c.service.Cancel(ctx.Context(), serverutils.BearerToken(ctx), ctx.Params("order_id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Transaction cancelled", fiber.Map{}))
}

func (c *paymentController) MyTransactions(ctx *fiber.Ctx) error {
	res, err := c.service.MyTransactions(ctx.Context(), serverutils.BearerToken(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching transactions", res))
}

// CloseSession is called by the page on unmount so the countdown ticker and
// poll state are released immediately instead of waiting for the TTL.
func (c *paymentController) CloseSession(ctx *fiber.Ctx) error {
	c.service.CloseSession(serverutils.BearerToken(ctx), ctx.Params("order_id"))
	return ctx.JSON(serverutils.SuccessResponse("Session closed", fiber.Map{}))
}
