package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
	progressValidator "lms/validators/progress"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// attemptPayload projects a stored attempt for API responses
func attemptPayload(attempt *progressModels.QuizAttempt) fiber.Map {
	return fiber.Map{
		"id":              attempt.ID,
		"quiz_id":         attempt.QuizID,
		"score":           attempt.Score,
		"total_questions": attempt.TotalQuestions,
		"correct_answers": attempt.CorrectAnswers,
		"time_spent":      attempt.TimeSpent,
		"is_passed":       attempt.IsPassed,
		"attempted_at":    attempt.AttemptedAt,
	}
}

// loadQuiz fetches one quiz of a course with its questions and options in
// display order
func loadQuiz(courseID, quizID uint) (*courseModels.Quiz, error) {
	var quiz courseModels.Quiz
	err := database.Database.Db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("order_index asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("order_index asc")
		}).
		Where("id = ? AND course_id = ? AND is_deleted = ?", quizID, courseID, false).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// loadQuizForHistory keeps soft deleted questions so answers of older
// attempts stay resolvable after the question set was replaced
func loadQuizForHistory(courseID, quizID uint) (*courseModels.Quiz, error) {
	var quiz courseModels.Quiz
	err := database.Database.Db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		Where("id = ? AND course_id = ? AND is_deleted = ?", quizID, courseID, false).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// SubmitQuizAttempt validates, scores and stores one quiz submission
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)

	reqData, ok := c.Locals("validatedAttempt").(*progressValidator.SubmitQuizAttemptRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	quiz, err := loadQuiz(courseID, quizID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	progress, err := loadProgress(userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	answers := make([]courseModels.SubmittedAnswer, len(reqData.Answers))
	for i, ans := range reqData.Answers {
		answers[i] = courseModels.SubmittedAnswer{
			QuestionID:     ans.QuestionID,
			SelectedOption: *ans.SelectedOption,
		}
	}

	if err := quiz.ValidateSubmission(answers); err != nil {
		if errors.Is(err, courseModels.ErrIncompleteSubmission) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "All questions must be answered!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question IDs found!", nil)
	}

	timeSpent := 0
	if reqData.TimeSpent != nil {
		timeSpent = *reqData.TimeSpent
	}

	now := time.Now()
	attempt := progressModels.GradeSubmission(quiz, answers, timeSpent, now)
	attempt.ProgressID = progress.ID
	progress.LastAccessedAt = now

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(progress).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz attempt!", nil)
	}

	progress.QuizAttempts = append(progress.QuizAttempts, attempt)
	bestScore, _ := progress.BestQuizScore(quizID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz attempt submitted successfully!", fiber.Map{
		"attempt":        attemptPayload(&attempt),
		"best_score":     bestScore,
		"total_attempts": len(progress.AttemptsForQuiz(quizID)),
	})
}

// GetQuizAttempts returns the attempt history for a quiz, latest first
func GetQuizAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)

	progress, err := loadProgress(userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	attempts := progress.AttemptsForQuiz(quizID)

	// Latest first for display, ties resolved to the newest row
	sorted := make([]progressModels.QuizAttempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].AttemptedAt.Equal(sorted[j].AttemptedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].AttemptedAt.After(sorted[j].AttemptedAt)
	})

	history := make([]fiber.Map, len(sorted))
	for i := range sorted {
		history[i] = attemptPayload(&sorted[i])
	}

	var bestScore interface{}
	if score, ok := progress.BestQuizScore(quizID); ok {
		bestScore = score
	}

	var latest interface{}
	if latestAttempt := progress.LatestQuizAttempt(quizID); latestAttempt != nil {
		latest = attemptPayload(latestAttempt)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempts fetched successfully!", fiber.Map{
		"attempts":       history,
		"best_score":     bestScore,
		"latest_attempt": latest,
		"total_attempts": len(attempts),
	})
}

// GetQuizAttemptDetail returns one historical attempt with its answers
// joined against the question definitions
func GetQuizAttemptDetail(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)
	attemptID := c.Locals("attemptID").(uint)

	progress, err := loadProgress(userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var attempt *progressModels.QuizAttempt
	for i := range progress.QuizAttempts {
		if progress.QuizAttempts[i].ID == attemptID && progress.QuizAttempts[i].QuizID == quizID {
			attempt = &progress.QuizAttempts[i]
			break
		}
	}
	if attempt == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz attempt not found!", nil)
	}

	quiz, err := loadQuizForHistory(courseID, quizID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	records, err := attempt.AnswerRecords()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to decode attempt answers!", nil)
	}

	type DetailedAnswer struct {
		Question       fiber.Map `json:"question"`
		SelectedOption int       `json:"selected_option"`
		IsCorrect      bool      `json:"is_correct"`
	}

	detailed := make([]DetailedAnswer, 0, len(records))
	for _, record := range records {
		question := quiz.QuestionByID(record.QuestionID)
		if question == nil {
			continue
		}
		detailed = append(detailed, DetailedAnswer{
			Question: fiber.Map{
				"id":            question.ID,
				"question_text": question.QuestionText,
				"explanation":   question.Explanation,
				"options":       question.Options,
			},
			SelectedOption: record.SelectedOption,
			IsCorrect:      record.IsCorrect,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempt fetched successfully!", fiber.Map{
		"attempt": fiber.Map{
			"id":              attempt.ID,
			"score":           attempt.Score,
			"total_questions": attempt.TotalQuestions,
			"correct_answers": attempt.CorrectAnswers,
			"time_spent":      attempt.TimeSpent,
			"is_passed":       attempt.IsPassed,
			"attempted_at":    attempt.AttemptedAt,
			"answers":         detailed,
		},
		"quiz": fiber.Map{
			"title":         quiz.Title,
			"passing_score": quiz.PassingScore,
		},
	})
}
