package courseValidator

import (
	"fmt"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// OptionRequest is one option of a submitted question definition
type OptionRequest struct {
	OptionText string `json:"option_text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuestionRequest is one question of a submitted quiz definition
type QuestionRequest struct {
	QuestionText string          `json:"question_text" validate:"required,min=3"`
	Explanation  string          `json:"explanation"`
	Options      []OptionRequest `json:"options" validate:"required,min=2,dive"`
}

// AddQuizRequest is the admin quiz creation payload
type AddQuizRequest struct {
	Title        string            `json:"title" validate:"required,min=3"`
	Description  string            `json:"description"`
	PassingScore *int              `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	TimeLimit    *int              `json:"time_limit" validate:"omitempty,gt=0"`
	OrderIndex   int               `json:"order_index" validate:"omitempty,gte=0"`
	Questions    []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// UpdateQuizRequest carries the optional fields of a quiz update. When
// Questions is present the whole question set is replaced.
type UpdateQuizRequest struct {
	Title        *string           `json:"title" validate:"omitempty,min=3"`
	Description  *string           `json:"description"`
	PassingScore *int              `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	TimeLimit    *int              `json:"time_limit" validate:"omitempty,gt=0"`
	OrderIndex   *int              `json:"order_index" validate:"omitempty,gte=0"`
	Questions    []QuestionRequest `json:"questions" validate:"omitempty,min=1,dive"`
}

// checkSingleCorrectOption enforces exactly one correct option per question
func checkSingleCorrectOption(questions []QuestionRequest) map[string]string {
	errors := make(map[string]string)
	for i, question := range questions {
		correct := 0
		for _, option := range question.Options {
			if option.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			errors[fmt.Sprintf("questions[%d]", i)] = "Each question must have exactly one correct option!"
		}
	}
	return errors
}

// AddQuiz validates admin quiz creation request
func AddQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(AddQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		if errors := checkSingleCorrectOption(reqData.Questions); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// UpdateQuiz validates admin quiz update request
func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		quizID, ok := parseIDParam(c, "quiz_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		reqData := new(UpdateQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		if len(reqData.Questions) > 0 {
			if errors := checkSingleCorrectOption(reqData.Questions); len(errors) > 0 {
				return middleware.ValidationErrorResponse(c, errors)
			}
		}

		c.Locals("courseID", courseID)
		c.Locals("quizID", quizID)
		c.Locals("validatedQuizUpdate", reqData)
		return c.Next()
	}
}

// QuizID validates the :id and :quiz_id route parameters
func QuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		quizID, ok := parseIDParam(c, "quiz_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("quizID", quizID)
		return c.Next()
	}
}
