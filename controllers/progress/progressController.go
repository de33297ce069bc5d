package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetCourseProgress returns the overall progress for a course together with
// per-quiz statistics
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	progress, err := loadProgress(userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.
		Preload("Quizzes", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("order_index asc")
		}).
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	type QuizStats struct {
		QuizID        uint        `json:"quiz_id"`
		Title         string      `json:"title"`
		BestScore     interface{} `json:"best_score"`
		LatestAttempt interface{} `json:"latest_attempt"`
		TotalAttempts int         `json:"total_attempts"`
		Passed        bool        `json:"passed"`
	}

	quizStats := make([]QuizStats, len(course.Quizzes))
	for i, quiz := range course.Quizzes {
		attempts := progress.AttemptsForQuiz(quiz.ID)

		stats := QuizStats{
			QuizID:        quiz.ID,
			Title:         quiz.Title,
			TotalAttempts: len(attempts),
		}
		if score, ok := progress.BestQuizScore(quiz.ID); ok {
			stats.BestScore = score
		}
		if latest := progress.LatestQuizAttempt(quiz.ID); latest != nil {
			stats.LatestAttempt = attemptPayload(latest)
		}
		for _, attempt := range attempts {
			if attempt.IsPassed {
				stats.Passed = true
				break
			}
		}
		quizStats[i] = stats
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"course": fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.Description,
			"instructor":  course.Instructor,
		},
		"enrolled_at":      progress.EnrolledAt,
		"last_accessed_at": progress.LastAccessedAt,
		"overall_progress": progress.OverallProgress,
		"is_completed":     progress.IsCompleted,
		"completed_at":     progress.CompletedAt,
		"lesson_progress":  progress.LessonProgress,
		"quiz_stats":       quizStats,
	})
}
