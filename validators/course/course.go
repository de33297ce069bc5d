package courseValidator

import (
	"lms/middleware"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// CreateCourseRequest is the admin course creation payload
type CreateCourseRequest struct {
	Title        string   `json:"title" validate:"required,min=3,max=100"`
	Description  string   `json:"description" validate:"required,min=5,max=1000"`
	Instructor   string   `json:"instructor" validate:"required,min=3"`
	Category     string   `json:"category" validate:"required"`
	Level        string   `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	Duration     int64    `json:"duration" validate:"omitempty,gte=0"`
	ThumbnailURL string   `json:"thumbnail_url" validate:"omitempty,url"`
}

// UpdateCourseRequest carries the optional fields of an admin course update.
// Only non-nil fields are applied.
type UpdateCourseRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=3,max=100"`
	Description  *string  `json:"description" validate:"omitempty,min=5,max=1000"`
	Instructor   *string  `json:"instructor" validate:"omitempty,min=3"`
	Category     *string  `json:"category" validate:"omitempty,min=1"`
	Level        *string  `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	Duration     *int64   `json:"duration" validate:"omitempty,gte=0"`
	ThumbnailURL *string  `json:"thumbnail_url" validate:"omitempty,url"`
}

// CreateCourseAdmin validates admin course creation request
func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourseAdmin validates admin course update request
func UpdateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CourseID validates the :id route parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CourseList validates pagination and filter query params for course listing
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := 1
		limit := 10

		if raw := c.Query("page"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid page number!", nil)
			}
			page = parsed
		}

		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 || parsed > 100 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid limit!", nil)
			}
			limit = parsed
		}

		level := c.Query("level")
		if level != "" && level != "BEGINNER" && level != "INTERMEDIATE" && level != "ADVANCED" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid level filter!", nil)
		}

		c.Locals("page", page)
		c.Locals("limit", limit)
		return c.Next()
	}
}
