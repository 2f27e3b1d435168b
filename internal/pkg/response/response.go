package response

import "github.com/gofiber/fiber/v3"

// The wire format is fixed by the client this API predates: validation
// failures carry a list of {msg} objects under "errors", not-found and
// authorization failures carry a single {msg}, success bodies are the
// affected document or sub-list, and server faults are a bare string.

const MessageServerError = "Server Error"

type FieldError struct {
	Msg string `json:"msg"`
}

type msgBody struct {
	Msg string `json:"msg"`
}

type errorsBody struct {
	Errors []FieldError `json:"errors"`
}

func JSON(c fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Msg(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(msgBody{Msg: msg})
}

func Fields(c fiber.Ctx, status int, errs []FieldError) error {
	return c.Status(status).JSON(errorsBody{Errors: errs})
}

func ServerError(c fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(MessageServerError)
}
