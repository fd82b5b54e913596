// FILE: internal/dto/report_dto.go
package dto

// Admin transaction reporting (read-only surfaces proxied to the backend).

type TransactionListFilter struct {
	Status   string `json:"status" query:"status" validate:"omitempty,oneof=pending paid failed expired cancelled refunded"`
	DateFrom string `json:"date_from" query:"date_from"`
	DateTo   string `json:"date_to" query:"date_to"`
	Page     int    `json:"page" query:"page" validate:"omitempty,min=1"`
	PerPage  int    `json:"per_page" query:"per_page" validate:"omitempty,min=1,max=100"`
}

type TransactionListResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	TotalItems int                   `json:"total_items"`
	TotalPages int                   `json:"total_pages"`
}

type TransactionStatsResponse struct {
	TotalRevenue     int64            `json:"total_revenue"`
	TotalTransaction int              `json:"total_transaction"`
	CountByStatus    map[string]int   `json:"count_by_status"`
	RevenueByMonth   map[string]int64 `json:"revenue_by_month"`
}
