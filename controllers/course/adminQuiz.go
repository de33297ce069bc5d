package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func buildQuestions(quizID uint, questions []courseValidator.QuestionRequest) []courseModels.Question {
	result := make([]courseModels.Question, len(questions))
	for i, q := range questions {
		options := make([]courseModels.QuestionOption, len(q.Options))
		for j, opt := range q.Options {
			options[j] = courseModels.QuestionOption{
				OptionText: opt.OptionText,
				IsCorrect:  opt.IsCorrect,
				OrderIndex: j,
			}
		}
		result[i] = courseModels.Question{
			QuizID:       quizID,
			QuestionText: q.QuestionText,
			Explanation:  q.Explanation,
			OrderIndex:   i,
			Options:      options,
		}
	}
	return result
}

// AdminAddQuiz adds a quiz with its questions and options to a course
func AdminAddQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*courseValidator.AddQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quiz := courseModels.Quiz{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}
	if reqData.PassingScore != nil {
		quiz.PassingScore = *reqData.PassingScore
	} else {
		quiz.PassingScore = 70
	}
	if reqData.TimeLimit != nil {
		quiz.TimeLimit = *reqData.TimeLimit
	} else {
		quiz.TimeLimit = 30
	}
	quiz.Questions = buildQuestions(0, reqData.Questions)

	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz added successfully!", quiz)
}

// AdminUpdateQuiz updates quiz metadata and optionally replaces the whole
// question set
func AdminUpdateQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", quizID, courseID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuizUpdate").(*courseValidator.UpdateQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		quiz.Title = *reqData.Title
	}
	if reqData.Description != nil {
		quiz.Description = *reqData.Description
	}
	if reqData.PassingScore != nil {
		quiz.PassingScore = *reqData.PassingScore
	}
	if reqData.TimeLimit != nil {
		quiz.TimeLimit = *reqData.TimeLimit
	}
	if reqData.OrderIndex != nil {
		quiz.OrderIndex = *reqData.OrderIndex
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if len(reqData.Questions) > 0 {
			// Replace the question set: soft delete the old questions so past
			// attempt records keep resolvable question ids
			if err := tx.Model(&courseModels.Question{}).Where("quiz_id = ?", quiz.ID).Update("is_deleted", true).Error; err != nil {
				return err
			}
			questions := buildQuestions(quiz.ID, reqData.Questions)
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return tx.Save(&quiz).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	updated, err := loadQuizWithQuestions(courseID, quiz.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", updated)
}

// AdminDeleteQuiz soft deletes a quiz
func AdminDeleteQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", quizID, courseID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	quiz.IsDeleted = true
	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}
