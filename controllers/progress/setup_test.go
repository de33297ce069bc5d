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
	progressModels "lms/models/progress"
	progressValidator "lms/validators/progress"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDbCounter int64

// setupTestApp wires an in-memory database and the progress routes
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:progress_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDbCounter, 1))
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
	progressGroup := app.Group("/progress", middleware.JWTMiddleware)
	progressGroup.Put("/:course_id/lessons/:lesson_id/complete", progressValidator.MarkLessonComplete(), MarkLessonComplete)
	progressGroup.Put("/:course_id/lessons/:lesson_id/incomplete", progressValidator.LessonParams(), MarkLessonIncomplete)
	progressGroup.Put("/:course_id/lessons/:lesson_id/watch-time", progressValidator.UpdateWatchTime(), UpdateWatchTime)
	progressGroup.Post("/:course_id/quizzes/:quiz_id/attempt", progressValidator.SubmitQuizAttempt(), SubmitQuizAttempt)
	progressGroup.Get("/:course_id/quizzes/:quiz_id/attempts", progressValidator.QuizParams(), GetQuizAttempts)
	progressGroup.Get("/:course_id/quizzes/:quiz_id/attempts/:attempt_id", progressValidator.AttemptParams(), GetQuizAttemptDetail)
	progressGroup.Get("/:course_id", progressValidator.CourseParam(), GetCourseProgress)

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

// createTestCourse inserts a published course with two lessons and one quiz
// of two questions. The correct option index is 1 for both questions.
func createTestCourse(t *testing.T) courseModels.Course {
	t.Helper()

	course := courseModels.Course{
		Title:       "Test Course",
		Instructor:  "Instructor",
		Category:    "Testing",
		Level:       "BEGINNER",
		IsPublished: true,
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
						QuestionText: "First question",
						OrderIndex:   0,
						Options: []courseModels.QuestionOption{
							{OptionText: "A", OrderIndex: 0},
							{OptionText: "B", IsCorrect: true, OrderIndex: 1},
							{OptionText: "C", OrderIndex: 2},
						},
					},
					{
						QuestionText: "Second question",
						OrderIndex:   1,
						Options: []courseModels.QuestionOption{
							{OptionText: "A", OrderIndex: 0},
							{OptionText: "B", IsCorrect: true, OrderIndex: 1},
							{OptionText: "C", OrderIndex: 2},
						},
					},
				},
			},
		},
	}
	require.NoError(t, database.Database.Db.Create(&course).Error)

	return course
}

// enrollUser creates the progress record for a user on a course
func enrollUser(t *testing.T, user models.User, course courseModels.Course) progressModels.Progress {
	t.Helper()

	progress := progressModels.NewProgress(&course, user.ID, time.Now())
	require.NoError(t, database.Database.Db.Create(&progress).Error)

	return progress
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
