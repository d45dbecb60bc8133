package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler translates domain error kinds to HTTP statuses; the engine
// itself only exposes the kind.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	errorCode := "INTERNAL_ERROR"

	var fiberErr *fiber.Error
	var corrupt *domain.ConfigCorruptError
	var dirErr *domain.DirectoryError
	var storeErr *domain.StoreError

	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
		switch code {
		case fiber.StatusBadRequest:
			errorCode = "BAD_REQUEST"
		case fiber.StatusUnauthorized:
			errorCode = "UNAUTHORIZED"
		case fiber.StatusNotFound:
			errorCode = "NOT_FOUND"
		}
	case errors.Is(err, domain.ErrConfigNotFound):
		code = fiber.StatusNotFound
		errorCode = "CONFIG_NOT_FOUND"
		message = "Notification configuration not found"
	case errors.As(err, &corrupt):
		errorCode = "CONFIG_CORRUPT"
		message = "Notification configuration is corrupt"
	case errors.As(err, &dirErr):
		code = fiber.StatusBadGateway
		errorCode = "DIRECTORY_UNAVAILABLE"
		message = "User directory unavailable"
	case errors.As(err, &storeErr):
		errorCode = "STORE_ERROR"
		message = "Notification store failure"
	}

	return c.Status(code).JSON(ErrorResponse{
		Code:    errorCode,
		Message: message,
	})
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}
