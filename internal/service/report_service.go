// FILE: internal/service/report_service.go
package service

import (
	"context"

	"ramein-web/internal/apiclient"
	"ramein-web/internal/dto"
	"ramein-web/internal/pkg/logger"
)

// IReportService is the read-only admin reporting surface, proxied to the
// backend with the caller's own credentials.
type IReportService interface {
	ListTransactions(ctx context.Context, token string, filter *dto.TransactionListFilter) (*dto.TransactionListResponse, error)
	Stats(ctx context.Context, token string) (*dto.TransactionStatsResponse, error)
	ExportCSV(ctx context.Context, token string, filter *dto.TransactionListFilter) ([]byte, error)
}

type reportService struct {
	client apiclient.IRameinClient
	logger logger.ILogger
}

func NewReportService(client apiclient.IRameinClient, log logger.ILogger) IReportService {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &reportService{client: client, logger: log}
}

func (s *reportService) ListTransactions(ctx context.Context, token string, filter *dto.TransactionListFilter) (*dto.TransactionListResponse, error) {
	return s.client.ListTransactions(ctx, token, filter)
}

func (s *reportService) Stats(ctx context.Context, token string) (*dto.TransactionStatsResponse, error) {
	return s.client.TransactionStats(ctx, token)
}

func (s *reportService) ExportCSV(ctx context.Context, token string, filter *dto.TransactionListFilter) ([]byte, error) {
	data, err := s.client.ExportTransactionsCSV(ctx, token, filter)
	if err != nil {
		return nil, err
	}
	s.logger.Info("REPORT", "Transactions exported", map[string]interface{}{
		"bytes": len(data),
	})
	return data, nil
}
