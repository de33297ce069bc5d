package progressRoutes

import (
	controllers "lms/controllers/progress"
	"lms/middleware"
	progressValidator "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up lesson progress and quiz attempt routes
func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress", middleware.JWTMiddleware)

	// Lesson completion
	progressGroup.Put("/:course_id/lessons/:lesson_id/complete", progressValidator.MarkLessonComplete(), controllers.MarkLessonComplete)
	progressGroup.Put("/:course_id/lessons/:lesson_id/incomplete", progressValidator.LessonParams(), controllers.MarkLessonIncomplete)
	progressGroup.Put("/:course_id/lessons/:lesson_id/watch-time", progressValidator.UpdateWatchTime(), controllers.UpdateWatchTime)

	// Quiz attempts
	progressGroup.Post("/:course_id/quizzes/:quiz_id/attempt", progressValidator.SubmitQuizAttempt(), controllers.SubmitQuizAttempt)
	progressGroup.Get("/:course_id/quizzes/:quiz_id/attempts", progressValidator.QuizParams(), controllers.GetQuizAttempts)
	progressGroup.Get("/:course_id/quizzes/:quiz_id/attempts/:attempt_id", progressValidator.AttemptParams(), controllers.GetQuizAttemptDetail)

	// Overall course progress
	progressGroup.Get("/:course_id", progressValidator.CourseParam(), controllers.GetCourseProgress)
}
