package adminRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up all admin course management routes
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	// Course management
	adminGroup.Post("/course", courseValidator.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Get("/course/list", courseValidator.CourseList(), controllers.AdminGetAllCourses)
	adminGroup.Get("/course/:id", courseValidator.CourseID(), controllers.AdminGetCourseDetails)
	adminGroup.Put("/course/:id", courseValidator.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/course/:id", courseValidator.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Put("/course/:id/publish", courseValidator.CourseID(), controllers.AdminPublishCourse)

	// Lesson management
	adminGroup.Post("/course/:id/lessons", courseValidator.AddLesson(), controllers.AdminAddLesson)
	adminGroup.Put("/course/:id/lessons/:lesson_id", courseValidator.UpdateLesson(), controllers.AdminUpdateLesson)
	adminGroup.Delete("/course/:id/lessons/:lesson_id", courseValidator.LessonID(), controllers.AdminDeleteLesson)

	// Quiz management
	adminGroup.Post("/course/:id/quizzes", courseValidator.AddQuiz(), controllers.AdminAddQuiz)
	adminGroup.Put("/course/:id/quizzes/:quiz_id", courseValidator.UpdateQuiz(), controllers.AdminUpdateQuiz)
	adminGroup.Delete("/course/:id/quizzes/:quiz_id", courseValidator.QuizID(), controllers.AdminDeleteQuiz)

	// Certificate approval
	adminGroup.Get("/certificates/pending", controllers.AdminGetPendingCertificates)
	adminGroup.Put("/certificates/:request_id/approve", controllers.AdminApproveCertificate)
	adminGroup.Put("/certificates/:request_id/reject", controllers.AdminRejectCertificate)
}
