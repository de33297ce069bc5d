package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"
	progressValidator "lms/validators/progress"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDbCounter int64

// setupTestApp wires an in-memory database and the user-facing course routes
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:course_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	config.AppConfig = &config.Config{
		Port:      "3000",
		JWTKey:    "test-secret",
		SaltRound: 10,
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	app := fiber.New()

	courseGroup := app.Group("/course")
	courseGroup.Get("/list", middleware.JWTMiddleware, courseValidator.CourseList(), GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, courseValidator.CourseID(), GetCourseDetails)
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, courseValidator.CourseID(), EnrollInCourse)
	courseGroup.Delete("/:id/enroll", middleware.JWTMiddleware, courseValidator.CourseID(), UnenrollFromCourse)
	courseGroup.Post("/:course_id/certificate/request", middleware.JWTMiddleware, progressValidator.CourseParam(), RequestCertificate)

	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, GetEnrollments)
	userGroup.Get("/enrollments/:id", middleware.JWTMiddleware, courseValidator.CourseID(), GetEnrollmentDetails)
	userGroup.Get("/certificates", middleware.JWTMiddleware, GetUserCertificates)

	return app
}

// createTestUser inserts a learner and returns it with a valid token
func createTestUser(t *testing.T) (models.User, string) {
	t.Helper()

	user := models.User{
		Name:     "Test Learner",
		Email:    "learner@example.com",
		Role:     "USER",
		Password: "hashed",
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	return user, token
}

// createTestCourse inserts a course with two lessons and one single question
// quiz
func createTestCourse(t *testing.T, published bool) courseModels.Course {
	t.Helper()

	course := courseModels.Course{
		Title:       "Test Course",
		Instructor:  "Instructor",
		Category:    "Testing",
		Level:       "BEGINNER",
		Price:       19.99,
		IsPublished: published,
		Lessons: []courseModels.Lesson{
			{Title: "Lesson One", OrderIndex: 0},
			{Title: "Lesson Two", OrderIndex: 1},
		},
		Quizzes: []courseModels.Quiz{
			{
				Title:        "Test Quiz",
				PassingScore: 70,
				TimeLimit:    10,
				Questions: []courseModels.Question{
					{
						QuestionText: "Only question",
						OrderIndex:   0,
						Options: []courseModels.QuestionOption{
							{OptionText: "A", OrderIndex: 0},
							{OptionText: "B", IsCorrect: true, OrderIndex: 1},
						},
					},
				},
			},
		},
	}
	require.NoError(t, database.Database.Db.Create(&course).Error)

	return course
}

// doRequest sends a JSON request through the app and decodes the response
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &parsed))

	return resp.StatusCode, parsed
}

// data extracts the data envelope of a response body
func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()

	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", body)
	return d
}
