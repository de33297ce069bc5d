package controllers

import (
	"fmt"
	"lms/database"
	progressModels "lms/models/progress"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollInCourse(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t)
	course := createTestCourse(t, true)

	status, body := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, http.StatusCreated, status)

	enrollment := data(t, body)["enrollment"].(map[string]interface{})
	assert.Equal(t, float64(0), enrollment["progress"])
	enrolledCourse := enrollment["course"].(map[string]interface{})
	assert.Equal(t, "Test Course", enrolledCourse["title"])

	// One lesson progress entry per lesson at enrollment time
	var progress progressModels.Progress
	require.NoError(t, database.Database.Db.Preload("LessonProgress").
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&progress).Error)
	assert.Len(t, progress.LessonProgress, 2)
	assert.False(t, progress.IsCompleted)
}

func TestEnrollTwiceConflicts(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t)
	course := createTestCourse(t, true)

	status, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, http.StatusCreated, status)

	status, body := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Already enrolled in this course!", body["message"])
}

func TestEnrollUnpublishedCourse(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t)
	course := createTestCourse(t, false)

	status, body := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Course is not available for enrollment!", body["message"])
}

func TestEnrollCourseNotFound(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t)

	status, body := doRequest(t, app, http.MethodPost, "/course/9999/enroll", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Course not found!", body["message"])
}

func TestUnenrollRemovesHistory(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t)
	course := createTestCourse(t, true)

	status, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, http.StatusCreated, status)

	var progress progressModels.Progress
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&progress).Error)

	// Attach an attempt so unenrollment has history to remove
	attempt := progressModels.QuizAttempt{
		ProgressID:     progress.ID,
		QuizID:         course.Quizzes[0].ID,
		Score:          100,
		TotalQuestions: 1,
		CorrectAnswers: 1,
		IsPassed:       true,
		AttemptedAt:    time.Now(),
	}
	require.NoError(t, database.Database.Db.Create(&attempt).Error)

	status, _ = doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	var count int64
	database.Database.Db.Model(&progressModels.QuizAttempt{}).Where("progress_id = ?", progress.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	database.Database.Db.Model(&progressModels.LessonProgress{}).Where("progress_id = ?", progress.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Re-enrollment starts from scratch
	status, body := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, http.StatusCreated, status)
	enrollment := data(t, body)["enrollment"].(map[string]interface{})
	assert.Equal(t, float64(0), enrollment["progress"])
}

func TestUnenrollWithoutEnrollment(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t)
	course := createTestCourse(t, true)

	status, body := doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not enrolled in this course!", body["message"])
}

func TestGetEnrollments(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t)
	course := createTestCourse(t, true)

	status, body := doRequest(t, app, http.MethodGet, "/user/enrollments", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, data(t, body)["enrollments"], 0)

	status, _ = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, http.StatusCreated, status)

	status, body = doRequest(t, app, http.MethodGet, "/user/enrollments", token, nil)
	require.Equal(t, http.StatusOK, status)

	enrollments := data(t, body)["enrollments"].([]interface{})
	require.Len(t, enrollments, 1)
	entry := enrollments[0].(map[string]interface{})
	assert.Equal(t, float64(0), entry["progress"])
	assert.Equal(t, false, entry["is_completed"])
}

func TestGetEnrollmentDetailsHidesQuestions(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t)
	course := createTestCourse(t, true)

	status, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, http.StatusCreated, status)

	status, body := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/user/enrollments/%d", course.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	enrollment := data(t, body)["enrollment"].(map[string]interface{})
	courseData := enrollment["course"].(map[string]interface{})
	assert.Equal(t, float64(2), courseData["total_lessons"])
	assert.Equal(t, float64(1), courseData["total_quizzes"])

	quizzes := courseData["quizzes"].([]interface{})
	require.Len(t, quizzes, 1)
	quiz := quizzes[0].(map[string]interface{})
	assert.Equal(t, float64(1), quiz["total_questions"])

	// Quiz summaries never expose the question definitions
	_, hasQuestions := quiz["questions"]
	assert.False(t, hasQuestions)
}

func TestGetCourseDetailsHidesAnswerKey(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t)
	course := createTestCourse(t, true)

	status, body := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/%d", course.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	courseData := data(t, body)
	quizzes := courseData["quizzes"].([]interface{})
	require.Len(t, quizzes, 1)

	questions := quizzes[0].(map[string]interface{})["questions"].([]interface{})
	require.Len(t, questions, 1)
	options := questions[0].(map[string]interface{})["options"].([]interface{})
	require.Len(t, options, 2)
	for _, opt := range options {
		assert.Equal(t, false, opt.(map[string]interface{})["is_correct"])
	}
}

func TestGetCourseDetailsUnpublished(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t)
	course := createTestCourse(t, false)

	status, body := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/%d", course.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Course not found!", body["message"])
}
