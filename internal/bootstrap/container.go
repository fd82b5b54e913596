package bootstrap

import (
	"ramein-web/internal/apiclient"
	"ramein-web/internal/config"
	"ramein-web/internal/controller"
	"ramein-web/internal/gateway"
	"ramein-web/internal/pkg/logger"
	"ramein-web/internal/service"
)

type Container struct {
	// Controllers
	PaymentController controller.IPaymentController
	ReportController  controller.IReportController

	// Exposed for graceful shutdown
	Logger   logger.ILogger
	Sessions *service.SessionStore
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// External dependencies
	rameinClient := apiclient.NewRameinClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	midtransGateway := gateway.NewMidtransGateway(
		cfg.Midtrans.ServerKey,
		cfg.Midtrans.ClientKey,
		cfg.Midtrans.IsProduction,
	)

	// Session storage
	sessions := service.NewSessionStore(cfg.Payment.SessionTTL, sysLogger)
	routes := service.Routes{ClientURL: cfg.App.ClientURL}

	// Services
	paymentService := service.NewPaymentService(rameinClient, midtransGateway, sessions, routes, cfg.Payment, sysLogger)
	reportService := service.NewReportService(rameinClient, sysLogger)

	return &Container{
		PaymentController: controller.NewPaymentController(paymentService),
		ReportController:  controller.NewReportController(reportService),
		Logger:            sysLogger,
		Sessions:          sessions,
	}
}
