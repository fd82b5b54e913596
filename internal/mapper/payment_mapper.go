// FILE: internal/mapper/payment_mapper.go
package mapper

import (
	"ramein-web/internal/dto"
	"ramein-web/internal/entity"
)

func ToTransaction(res *dto.TransactionResponse) *entity.Transaction {
	return &entity.Transaction{
		OrderId:       res.OrderId,
		PaymentStatus: entity.PaymentStatus(res.PaymentStatus),
		Amount:        res.Amount,
		AdminFee:      res.AdminFee,
		TotalAmount:   res.TotalAmount,
		PaymentMethod: res.PaymentMethod,
		VaNumber:      res.VaNumber,
		BankName:      res.BankName,
		SnapToken:     res.SnapToken,
		ExpiredAt:     res.ExpiredAt,
		CreatedAt:     res.CreatedAt,
		PaidAt:        res.PaidAt,
	}
}

func ToTransactionResponse(t *entity.Transaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		OrderId:       t.OrderId,
		PaymentStatus: string(t.PaymentStatus),
		Amount:        t.Amount,
		AdminFee:      t.AdminFee,
		TotalAmount:   t.TotalAmount,
		PaymentMethod: t.PaymentMethod,
		VaNumber:      t.VaNumber,
		BankName:      t.BankName,
		ExpiredAt:     t.ExpiredAt,
		CreatedAt:     t.CreatedAt,
		PaidAt:        t.PaidAt,
	}
}

func ToPaymentSummaryResponse(s *entity.PaymentSummary) *dto.PaymentSummaryResponse {
	var res dto.PaymentSummaryResponse
	res.Event.Id = s.Event.Id
	res.Event.Title = s.Event.Title
	res.Event.Slug = s.Event.Slug
	res.Event.Venue = s.Event.Venue
	res.Event.StartDate = s.Event.StartDate
	res.Event.BannerURL = s.Event.BannerURL
	res.User.Id = s.User.Id
	res.User.FullName = s.User.FullName
	res.User.Email = s.User.Email
	res.User.Phone = s.User.Phone
	res.Pricing.Amount = s.Pricing.Amount
	res.Pricing.AdminFee = s.Pricing.AdminFee
	res.Pricing.TotalAmount = s.Pricing.TotalAmount
	res.Pricing.IsFree = s.Pricing.IsFree
	return &res
}

func ToPaymentSummary(res *dto.PaymentSummaryResponse) *entity.PaymentSummary {
	return &entity.PaymentSummary{
		Event: entity.EventSnapshot{
			Id:        res.Event.Id,
			Title:     res.Event.Title,
			Slug:      res.Event.Slug,
			Venue:     res.Event.Venue,
			StartDate: res.Event.StartDate,
			BannerURL: res.Event.BannerURL,
		},
		User: entity.UserSnapshot{
			Id:       res.User.Id,
			FullName: res.User.FullName,
			Email:    res.User.Email,
			Phone:    res.User.Phone,
		},
		Pricing: entity.Pricing{
			Amount:      res.Pricing.Amount,
			AdminFee:    res.Pricing.AdminFee,
			TotalAmount: res.Pricing.TotalAmount,
			IsFree:      res.Pricing.IsFree,
		},
	}
}
