package courseValidator

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseIDParam parses a positive numeric route parameter
func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// validationErrors converts validator.ValidationErrors into the error map
// shape used by middleware.ValidationErrorResponse
func validationErrors(err error) map[string]string {
	errors := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["body"] = "Invalid request body!"
		return errors
	}
	for _, fe := range verrs {
		errors[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return errors
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required!"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters long!"
	case "max":
		return fe.Field() + " cannot be more than " + fe.Param() + " characters!"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param() + "!"
	case "lte":
		return fe.Field() + " cannot be more than " + fe.Param() + "!"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param() + "!"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param() + "!"
	case "url":
		return fe.Field() + " must be a valid URL!"
	default:
		return fe.Field() + " is invalid!"
	}
}
