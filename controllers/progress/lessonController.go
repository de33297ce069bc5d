package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	progressModels "lms/models/progress"
	progressValidator "lms/validators/progress"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loadProgress fetches the progress record of a user for a course with its
// lesson progress and quiz attempt history
func loadProgress(userID, courseID uint) (*progressModels.Progress, error) {
	var progress progressModels.Progress
	err := database.Database.Db.
		Preload("LessonProgress").
		Preload("QuizAttempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// saveLessonProgress persists a mutated lesson progress entry together with
// the recomputed progress aggregate
func saveLessonProgress(progress *progressModels.Progress, lp *progressModels.LessonProgress) error {
	return database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(lp).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(progress).Error
	})
}

// MarkLessonComplete marks a lesson as completed and recomputes the overall
// course progress
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	reqData, _ := c.Locals("validatedMarkLesson").(*progressValidator.MarkLessonRequest)

	progress, err := loadProgress(userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var watchTime *int
	if reqData != nil {
		watchTime = reqData.WatchTime
	}

	lp, err := progress.MarkLessonComplete(lessonID, watchTime, time.Now())
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in progress!", nil)
	}

	if err := saveLessonProgress(progress, lp); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", fiber.Map{
		"lesson_progress":  lp,
		"overall_progress": progress.OverallProgress,
		"is_completed":     progress.IsCompleted,
	})
}

// MarkLessonIncomplete marks a lesson as not completed and recomputes the
// overall course progress
func MarkLessonIncomplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	progress, err := loadProgress(userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	lp, err := progress.MarkLessonIncomplete(lessonID, time.Now())
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in progress!", nil)
	}

	if err := saveLessonProgress(progress, lp); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as incomplete!", fiber.Map{
		"lesson_progress":  lp,
		"overall_progress": progress.OverallProgress,
		"is_completed":     progress.IsCompleted,
	})
}

// UpdateWatchTime updates the watch time of a lesson without recomputing the
// overall progress
func UpdateWatchTime(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	reqData, ok := c.Locals("validatedWatchTime").(*progressValidator.WatchTimeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	progress, err := loadProgress(userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	lp, err := progress.UpdateWatchTime(lessonID, *reqData.WatchTime, time.Now())
	if err != nil {
		if errors.Is(err, progressModels.ErrInvalidWatchTime) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Watch time must be a positive number!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in progress!", nil)
	}

	if err := saveLessonProgress(progress, lp); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update watch time!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Watch time updated!", fiber.Map{
		"lesson_progress": lp,
	})
}
