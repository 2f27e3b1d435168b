package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"devconnect/internal/pkg/response"
)

type AppError struct {
	StatusCode int
	Message    string
	Fields     []response.FieldError
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Cause: cause}
}

func NewValidationError(fields []response.FieldError) *AppError {
	return &AppError{StatusCode: fiber.StatusBadRequest, Fields: fields}
}

// ErrorMiddleware converts handler errors into the API's wire format:
// validation failures as an {errors:[{msg}]} list, client errors as a
// single {msg}, everything else masked as a bare "Server Error" string.
type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("panic recovered: %v", r)
				err = response.ServerError(c)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			if appErr.StatusCode >= 500 || appErr.StatusCode <= 0 {
				m.logger.Printf("request failed: %v", appErr)
				return response.ServerError(c)
			}
			if len(appErr.Fields) > 0 {
				return response.Fields(c, appErr.StatusCode, appErr.Fields)
			}
			return response.Msg(c, appErr.StatusCode, appErr.Message)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code > 0 && fiberErr.Code < 500 {
			return response.Msg(c, fiberErr.Code, fiberErr.Message)
		}

		m.logger.Printf("request failed: %v", err)
		return response.ServerError(c)
	}
}
