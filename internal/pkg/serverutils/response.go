// FILE: internal/pkg/serverutils/response.go
package serverutils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"ramein-web/internal/pkg/apperrors"
)

type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ErrorBody struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{Success: true, Message: message, Data: data}
}

func ErrorResponse(code int, message string) ErrorBody {
	return ErrorBody{Success: false, Code: code, Message: message}
}

var validate = validator.New()

func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorHandlerMiddleware converts escaped errors into user-visible, non-fatal
// responses. Failures from the payment components map via the taxonomy; an
// auth failure gets a distinct status so the page can redirect to re-login.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		status := fiber.StatusInternalServerError
		switch {
		case apperrors.IsNotFoundError(err):
			status = fiber.StatusNotFound
		case apperrors.IsAuthError(err):
			status = fiber.StatusUnauthorized
		case errors.Is(err, apperrors.ErrWidgetNotReady), errors.Is(err, apperrors.ErrGatewayUnavailable):
			status = fiber.StatusServiceUnavailable
		case apperrors.IsNetworkError(err):
			status = fiber.StatusBadGateway
		case errors.Is(err, apperrors.ErrSessionClosed):
			status = fiber.StatusGone
		}
		return ctx.Status(status).JSON(ErrorResponse(apperrors.ErrorCode(err), err.Error()))
	}
}
