package middleware

import (
	"errors"
	"net/http"

	"github.com/bilgisen/regionews/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// validatedKey is the Locals key holding the parsed body
const validatedKey = "validated"

var validate = validator.New()

// ValidateBody parses the request body into a fresh T per request and validates it.
// Handlers read the result with Validated[T].
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if err := c.BodyParser(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
				"msg":   err.Error(),
			})
		}

		if err := validate.Struct(body); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return err
			}
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}

			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fields,
			})
		}

		c.Locals(validatedKey, body)
		return c.Next()
	}
}

// Validated returns the body stored by ValidateBody
func Validated[T any](c *fiber.Ctx) (*T, bool) {
	v, ok := c.Locals(validatedKey).(*T)
	return v, ok
}

// ErrorHandler renders errors as JSON
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := http.StatusText(code)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"error": msg,
	})
}
