package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// ResourceLinkRequest is one supplementary link attached to a lesson
type ResourceLinkRequest struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

// AddLessonRequest is the admin lesson creation payload
type AddLessonRequest struct {
	Title         string                `json:"title" validate:"required,min=3"`
	VideoURL      string                `json:"video_url" validate:"required,url"`
	OrderIndex    int                   `json:"order_index" validate:"omitempty,gte=0"`
	ResourceLinks []ResourceLinkRequest `json:"resource_links" validate:"omitempty,dive"`
}

// UpdateLessonRequest carries the optional fields of a lesson update
type UpdateLessonRequest struct {
	Title         *string               `json:"title" validate:"omitempty,min=3"`
	VideoURL      *string               `json:"video_url" validate:"omitempty,url"`
	OrderIndex    *int                  `json:"order_index" validate:"omitempty,gte=0"`
	ResourceLinks []ResourceLinkRequest `json:"resource_links" validate:"omitempty,dive"`
}

// AddLesson validates admin lesson creation request
func AddLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(AddLessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// UpdateLesson validates admin lesson update request
func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		reqData := new(UpdateLessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}

// LessonID validates the :id and :lesson_id route parameters
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}
