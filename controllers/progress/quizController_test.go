package controllers

import (
	"fmt"
	"lms/database"
	courseModels "lms/models/course"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitBody(content courseTestContent, selected ...int) map[string]interface{} {
	answers := make([]map[string]interface{}, len(selected))
	for i, sel := range selected {
		answers[i] = map[string]interface{}{
			"question_id":     content.questionIDs[i],
			"selected_option": sel,
		}
	}
	return map[string]interface{}{"answers": answers, "time_spent": 90}
}

type courseTestContent struct {
	courseID    uint
	quizID      uint
	questionIDs []uint
}

func setupQuizTest(t *testing.T) (app *fiber.App, content courseTestContent, token string) {
	t.Helper()

	fiberApp := setupTestApp(t)
	user, tok := createTestUser(t)
	course := createTestCourse(t)
	enrollUser(t, user, course)

	quiz := course.Quizzes[0]
	content = courseTestContent{
		courseID: course.ID,
		quizID:   quiz.ID,
	}
	for _, question := range quiz.Questions {
		content.questionIDs = append(content.questionIDs, question.ID)
	}

	return fiberApp, content, tok
}

func TestSubmitQuizAttempt(t *testing.T) {
	app, content, token := setupQuizTest(t)
	path := fmt.Sprintf("/progress/%d/quizzes/%d/attempt", content.courseID, content.quizID)

	// Both answers correct
	status, body := doRequest(t, app, http.MethodPost, path, token, submitBody(content, 1, 1))
	require.Equal(t, http.StatusCreated, status)

	d := data(t, body)
	attempt := d["attempt"].(map[string]interface{})
	require.NotNil(t, attempt["id"])
	assert.Greater(t, attempt["id"].(float64), float64(0))
	assert.NotContains(t, attempt, "ID")
	assert.NotContains(t, attempt, "CreatedAt")
	assert.Equal(t, float64(100), attempt["score"])
	assert.Equal(t, float64(2), attempt["correct_answers"])
	assert.Equal(t, float64(2), attempt["total_questions"])
	assert.Equal(t, float64(90), attempt["time_spent"])
	assert.Equal(t, true, attempt["is_passed"])
	assert.Equal(t, float64(100), d["best_score"])
	assert.Equal(t, float64(1), d["total_attempts"])

	// A worse second attempt never lowers the best score
	status, body = doRequest(t, app, http.MethodPost, path, token, submitBody(content, 1, 0))
	require.Equal(t, http.StatusCreated, status)

	d = data(t, body)
	attempt = d["attempt"].(map[string]interface{})
	assert.Equal(t, float64(50), attempt["score"])
	assert.Equal(t, false, attempt["is_passed"])
	assert.Equal(t, float64(100), d["best_score"])
	assert.Equal(t, float64(2), d["total_attempts"])
}

func TestSubmitQuizAttemptOutOfRangeOption(t *testing.T) {
	app, content, token := setupQuizTest(t)
	path := fmt.Sprintf("/progress/%d/quizzes/%d/attempt", content.courseID, content.quizID)

	// An option index past the list is wrong, not an error
	status, body := doRequest(t, app, http.MethodPost, path, token, submitBody(content, 1, 9))
	require.Equal(t, http.StatusCreated, status)

	attempt := data(t, body)["attempt"].(map[string]interface{})
	assert.Equal(t, float64(50), attempt["score"])
	assert.Equal(t, float64(1), attempt["correct_answers"])
}

func TestSubmitQuizAttemptIncomplete(t *testing.T) {
	app, content, token := setupQuizTest(t)
	path := fmt.Sprintf("/progress/%d/quizzes/%d/attempt", content.courseID, content.quizID)

	reqBody := map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": content.questionIDs[0], "selected_option": 1},
		},
	}
	status, body := doRequest(t, app, http.MethodPost, path, token, reqBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "All questions must be answered!", body["message"])
}

func TestSubmitQuizAttemptUnknownQuestion(t *testing.T) {
	app, content, token := setupQuizTest(t)
	path := fmt.Sprintf("/progress/%d/quizzes/%d/attempt", content.courseID, content.quizID)

	reqBody := map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": content.questionIDs[0], "selected_option": 1},
			{"question_id": 9999, "selected_option": 1},
		},
	}
	status, body := doRequest(t, app, http.MethodPost, path, token, reqBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid question IDs found!", body["message"])
}

func TestSubmitQuizAttemptQuizNotFound(t *testing.T) {
	app, content, token := setupQuizTest(t)
	path := fmt.Sprintf("/progress/%d/quizzes/%d/attempt", content.courseID, 9999)

	status, body := doRequest(t, app, http.MethodPost, path, token, submitBody(content, 1, 1))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Quiz not found!", body["message"])
}

func TestGetQuizAttempts(t *testing.T) {
	app, content, token := setupQuizTest(t)
	submitPath := fmt.Sprintf("/progress/%d/quizzes/%d/attempt", content.courseID, content.quizID)

	status, _ := doRequest(t, app, http.MethodPost, submitPath, token, submitBody(content, 0, 0))
	require.Equal(t, http.StatusCreated, status)
	status, _ = doRequest(t, app, http.MethodPost, submitPath, token, submitBody(content, 1, 1))
	require.Equal(t, http.StatusCreated, status)

	status, body := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/progress/%d/quizzes/%d/attempts", content.courseID, content.quizID), token, nil)
	require.Equal(t, http.StatusOK, status)

	d := data(t, body)
	attempts := d["attempts"].([]interface{})
	require.Len(t, attempts, 2)

	// Latest first
	first := attempts[0].(map[string]interface{})
	second := attempts[1].(map[string]interface{})
	assert.Equal(t, float64(100), first["score"])
	assert.Equal(t, float64(0), second["score"])
	require.NotNil(t, first["id"])
	assert.NotContains(t, first, "ID")

	assert.Equal(t, float64(100), d["best_score"])
	assert.Equal(t, float64(2), d["total_attempts"])

	latest := d["latest_attempt"].(map[string]interface{})
	assert.Equal(t, float64(100), latest["score"])
}

func TestGetQuizAttemptsEmptyHistory(t *testing.T) {
	app, content, token := setupQuizTest(t)

	status, body := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/progress/%d/quizzes/%d/attempts", content.courseID, content.quizID), token, nil)
	require.Equal(t, http.StatusOK, status)

	d := data(t, body)
	assert.Nil(t, d["best_score"])
	assert.Nil(t, d["latest_attempt"])
	assert.Equal(t, float64(0), d["total_attempts"])
}

func TestGetQuizAttemptDetail(t *testing.T) {
	app, content, token := setupQuizTest(t)
	submitPath := fmt.Sprintf("/progress/%d/quizzes/%d/attempt", content.courseID, content.quizID)

	status, body := doRequest(t, app, http.MethodPost, submitPath, token, submitBody(content, 1, 0))
	require.Equal(t, http.StatusCreated, status)
	attemptID := data(t, body)["attempt"].(map[string]interface{})["id"].(float64)

	status, body = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/progress/%d/quizzes/%d/attempts/%d", content.courseID, content.quizID, int(attemptID)), token, nil)
	require.Equal(t, http.StatusOK, status)

	d := data(t, body)
	attempt := d["attempt"].(map[string]interface{})
	assert.Equal(t, float64(50), attempt["score"])

	answers := attempt["answers"].([]interface{})
	require.Len(t, answers, 2)

	first := answers[0].(map[string]interface{})
	question := first["question"].(map[string]interface{})
	assert.Equal(t, "First question", question["question_text"])
	assert.Equal(t, true, first["is_correct"])

	second := answers[1].(map[string]interface{})
	assert.Equal(t, false, second["is_correct"])

	quiz := d["quiz"].(map[string]interface{})
	assert.Equal(t, "Test Quiz", quiz["title"])
	assert.Equal(t, float64(70), quiz["passing_score"])
}

func TestGetQuizAttemptDetailAfterQuestionReplacement(t *testing.T) {
	app, content, token := setupQuizTest(t)
	submitPath := fmt.Sprintf("/progress/%d/quizzes/%d/attempt", content.courseID, content.quizID)

	status, body := doRequest(t, app, http.MethodPost, submitPath, token, submitBody(content, 1, 1))
	require.Equal(t, http.StatusCreated, status)
	attemptID := data(t, body)["attempt"].(map[string]interface{})["id"].(float64)

	// Replace the question set the way an instructor quiz update does
	db := database.Database.Db
	require.NoError(t, db.Model(&courseModels.Question{}).
		Where("quiz_id = ?", content.quizID).Update("is_deleted", true).Error)
	replacement := courseModels.Question{
		QuizID:       content.quizID,
		QuestionText: "Replacement question",
		Options: []courseModels.QuestionOption{
			{OptionText: "Yes", IsCorrect: true, OrderIndex: 0},
			{OptionText: "No", OrderIndex: 1},
		},
	}
	require.NoError(t, db.Create(&replacement).Error)

	// The old attempt still resolves against the retired questions
	status, body = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/progress/%d/quizzes/%d/attempts/%d", content.courseID, content.quizID, int(attemptID)), token, nil)
	require.Equal(t, http.StatusOK, status)

	attempt := data(t, body)["attempt"].(map[string]interface{})
	answers := attempt["answers"].([]interface{})
	require.Len(t, answers, 2)

	question := answers[0].(map[string]interface{})["question"].(map[string]interface{})
	assert.Equal(t, "First question", question["question_text"])
}

func TestGetQuizAttemptDetailNotFound(t *testing.T) {
	app, content, token := setupQuizTest(t)

	status, body := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/progress/%d/quizzes/%d/attempts/%d", content.courseID, content.quizID, 9999), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Quiz attempt not found!", body["message"])
}
