// FILE: internal/controller/report_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"ramein-web/internal/dto"
	"ramein-web/internal/pkg/serverutils"
	"ramein-web/internal/service"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	ListTransactions(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	ExportCSV(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{service: service}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/transactions", serverutils.JwtMiddleware, serverutils.AdminOnly)
	h.Get("/", c.ListTransactions)
	h.Get("/stats", c.Stats)
	h.Get("/export", c.ExportCSV)
}

func (c *reportController) ListTransactions(ctx *fiber.Ctx) error {
	filter, err := parseFilter(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListTransactions(ctx.Context(), serverutils.BearerToken(ctx), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching transactions", res))
}

func (c *reportController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.Context(), serverutils.BearerToken(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching transaction stats", res))
}

func (c *reportController) ExportCSV(ctx *fiber.Ctx) error {
	filter, err := parseFilter(ctx)
	if err != nil {
		return err
	}

	data, err := c.service.ExportCSV(ctx.Context(), serverutils.BearerToken(ctx), filter)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
	return ctx.Send(data)
}

func parseFilter(ctx *fiber.Ctx) (*dto.TransactionListFilter, error) {
	var filter dto.TransactionListFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(&filter); err != nil {
		return nil, err
	}
	return &filter, nil
}
