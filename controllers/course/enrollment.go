package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// attemptHistory projects stored quiz attempts for API responses
func attemptHistory(attempts []progressModels.QuizAttempt) []fiber.Map {
	history := make([]fiber.Map, len(attempts))
	for i := range attempts {
		history[i] = fiber.Map{
			"id":              attempts[i].ID,
			"quiz_id":         attempts[i].QuizID,
			"score":           attempts[i].Score,
			"total_questions": attempts[i].TotalQuestions,
			"correct_answers": attempts[i].CorrectAnswers,
			"time_spent":      attempts[i].TimeSpent,
			"is_passed":       attempts[i].IsPassed,
			"attempted_at":    attempts[i].AttemptedAt,
		}
	}
	return history
}

// EnrollInCourse enrolls the user in a published course and creates the
// progress record with one lesson progress entry per current course lesson
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	// Check if course exists and is published
	course, err := loadCourseWithContent(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if !course.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not available for enrollment!", nil)
	}

	// Check if user is already enrolled
	var existing progressModels.Progress
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	}

	progress := progressModels.NewProgress(course, userID, time.Now())
	if err := database.Database.Db.Create(&progress).Error; err != nil {
		// Two enrollments racing on the unique (user, course) index: the
		// loser surfaces as already enrolled, not a server error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Successfully enrolled in course!", fiber.Map{
		"enrollment": fiber.Map{
			"course": fiber.Map{
				"id":         course.ID,
				"title":      course.Title,
				"instructor": course.Instructor,
				"price":      course.Price,
			},
			"enrolled_at": progress.EnrolledAt,
			"progress":    progress.OverallProgress,
		},
	})
}

// UnenrollFromCourse removes the enrollment and deletes the progress record
// entirely, including the quiz attempt history
func UnenrollFromCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var progress progressModels.Progress
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not enrolled in this course!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("progress_id = ?", progress.ID).Delete(&progressModels.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("progress_id = ?", progress.ID).Delete(&progressModels.QuizAttempt{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&progress).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll from course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully unenrolled from course!", nil)
}

// GetEnrollments returns the user's enrollments with progress summaries
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var progresses []progressModels.Progress
	if err := database.Database.Db.Where("user_id = ?", userID).Order("enrolled_at desc").Find(&progresses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentSummary struct {
		Course         courseModels.Course `json:"course"`
		EnrolledAt     time.Time           `json:"enrolled_at"`
		Progress       int                 `json:"progress"`
		IsCompleted    bool                `json:"is_completed"`
		LastAccessedAt time.Time           `json:"last_accessed_at"`
	}

	enrollments := make([]EnrollmentSummary, 0, len(progresses))
	for _, progress := range progresses {
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", progress.CourseID, false).First(&course).Error; err != nil {
			continue
		}
		enrollments = append(enrollments, EnrollmentSummary{
			Course:         course,
			EnrolledAt:     progress.EnrolledAt,
			Progress:       progress.OverallProgress,
			IsCompleted:    progress.IsCompleted,
			LastAccessedAt: progress.LastAccessedAt,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
	})
}

// GetEnrollmentDetails returns the enrollment view of one course: the course
// content (quizzes without answer keys or questions) plus the full progress
// state
func GetEnrollmentDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var progress progressModels.Progress
	if err := database.Database.Db.
		Preload("LessonProgress").
		Preload("QuizAttempts").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not enrolled in this course!", nil)
	}

	course, err := loadCourseWithContent(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	type QuizSummary struct {
		ID             uint   `json:"id"`
		Title          string `json:"title"`
		Description    string `json:"description"`
		PassingScore   int    `json:"passing_score"`
		TimeLimit      int    `json:"time_limit"`
		OrderIndex     int    `json:"order_index"`
		TotalQuestions int    `json:"total_questions"`
	}

	quizzes := make([]QuizSummary, len(course.Quizzes))
	for i, quiz := range course.Quizzes {
		quizzes[i] = QuizSummary{
			ID:             quiz.ID,
			Title:          quiz.Title,
			Description:    quiz.Description,
			PassingScore:   quiz.PassingScore,
			TimeLimit:      quiz.TimeLimit,
			OrderIndex:     quiz.OrderIndex,
			TotalQuestions: len(quiz.Questions),
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", fiber.Map{
		"enrollment": fiber.Map{
			"course": fiber.Map{
				"id":            course.ID,
				"title":         course.Title,
				"description":   course.Description,
				"instructor":    course.Instructor,
				"price":         course.Price,
				"thumbnail_url": course.ThumbnailURL,
				"level":         course.Level,
				"category":      course.Category,
				"total_lessons": len(course.Lessons),
				"total_quizzes": len(course.Quizzes),
				"lessons":       course.Lessons,
				"quizzes":       quizzes,
			},
			"enrolled_at": progress.EnrolledAt,
			"progress": fiber.Map{
				"overall_progress": progress.OverallProgress,
				"is_completed":     progress.IsCompleted,
				"last_accessed_at": progress.LastAccessedAt,
				"lesson_progress":  progress.LessonProgress,
				"quiz_attempts":    attemptHistory(progress.QuizAttempts),
			},
		},
	})
}
