package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// BindAndValidate parses a form body into T and validates it.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	return &input, nil
}

// ValidationMessage turns a BindAndValidate error into text for a notice.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Please check the form and try again."
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required", "required_without":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "max":
			msgs = append(msgs, field+" is too long")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	s := strings.Join(msgs, ", ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
