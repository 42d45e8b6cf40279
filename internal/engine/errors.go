package engine

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AppError struct {
	Code    string            `json:"code"`
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// ErrorResponse is the public error envelope.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func NewAppError(code string, status int, msg string) *AppError {
	return &AppError{Code: code, Status: status, Message: msg}
}

func InputError(msg string) *AppError {
	return &AppError{Code: "INVALID_PAYLOAD", Status: 400, Message: msg}
}

func NotFoundError(kind, name string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Status:  404,
		Message: fmt.Sprintf("%s '%s' not found", kind, name),
	}
}

func SchemaError(msg string) *AppError {
	return &AppError{Code: "SCHEMA_ERROR", Status: 400, Message: msg}
}

func ValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:    "VALIDATION_FAILED",
		Status:  400,
		Message: "Validation failed",
		Fields:  fields,
	}
}

func PersistenceError(msg string) *AppError {
	return &AppError{Code: "PERSISTENCE_ERROR", Status: 400, Message: msg}
}

func UnauthorizedError(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Status: 401, Message: msg}
}

func MethodNotAllowedError() *AppError {
	return &AppError{Code: "METHOD_NOT_ALLOWED", Status: 405, Message: "Method not allowed"}
}

// NewErrorHandler returns the Fiber error handler that serializes
// AppErrors into the public envelope. Anything unrecognized becomes a
// logged 500 with a generic message.
func NewErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *AppError
		if errors.As(err, &appErr) {
			return c.Status(appErr.Status).JSON(ErrorResponse{
				Error:  appErr.Message,
				Fields: appErr.Fields,
			})
		}

		status := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			if status < 500 {
				return c.Status(status).JSON(ErrorResponse{Error: fiberErr.Message})
			}
		}

		logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Error(err))
		return c.Status(status).JSON(ErrorResponse{Error: "Internal server error"})
	}
}
