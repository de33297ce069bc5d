package progress

import (
	"encoding/json"
	"math"
	"time"

	course "lms/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt is one scored submission of answers to a quiz. Attempts
// accumulate on the Progress record and are never updated or deleted
// individually; unenrollment removes the whole history.
type QuizAttempt struct {
	gorm.Model
	ProgressID     uint           `json:"progress_id" gorm:"index;not null"`
	QuizID         uint           `json:"quiz_id" gorm:"index;not null"`
	Answers        datatypes.JSON `json:"answers"` // JSON array of AnswerRecord
	Score          int            `json:"score"`   // percentage 0-100
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	TimeSpent      int            `json:"time_spent" gorm:"default:0"` // seconds
	IsPassed       bool           `json:"is_passed" gorm:"default:false"`
	AttemptedAt    time.Time      `json:"attempted_at"`
}

// AnswerRecord is one graded answer stored on a QuizAttempt
type AnswerRecord struct {
	QuestionID     uint `json:"question_id"`
	SelectedOption int  `json:"selected_option"`
	IsCorrect      bool `json:"is_correct"`
}

// AnswerRecords decodes the attempt's stored answers
func (a *QuizAttempt) AnswerRecords() ([]AnswerRecord, error) {
	var records []AnswerRecord
	if len(a.Answers) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(a.Answers, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GradeSubmission scores a validated answer set against the quiz definition
// and produces the attempt. Correctness per answer: the selected index is in
// range and that option is flagged correct; an out-of-range index is scored
// incorrect rather than rejected. The pass mark uses the quiz's current
// passing score.
func GradeSubmission(quiz *course.Quiz, answers []course.SubmittedAnswer, timeSpent int, now time.Time) QuizAttempt {
	records := make([]AnswerRecord, len(answers))
	correctAnswers := 0

	for i, ans := range answers {
		question := quiz.QuestionByID(ans.QuestionID)
		isCorrect := question != nil && question.IsCorrectOption(ans.SelectedOption)
		if isCorrect {
			correctAnswers++
		}
		records[i] = AnswerRecord{
			QuestionID:     ans.QuestionID,
			SelectedOption: ans.SelectedOption,
			IsCorrect:      isCorrect,
		}
	}

	totalQuestions := len(quiz.Questions)
	score := 0
	if totalQuestions > 0 {
		score = int(math.Round(float64(correctAnswers) / float64(totalQuestions) * 100))
	}

	raw, _ := json.Marshal(records)

	return QuizAttempt{
		QuizID:         quiz.ID,
		Answers:        datatypes.JSON(raw),
		Score:          score,
		TotalQuestions: totalQuestions,
		CorrectAnswers: correctAnswers,
		TimeSpent:      timeSpent,
		IsPassed:       score >= quiz.PassingScore,
		AttemptedAt:    now,
	}
}

// AttemptsForQuiz returns the attempts made against the given quiz, in
// insertion order
func (p *Progress) AttemptsForQuiz(quizID uint) []QuizAttempt {
	var attempts []QuizAttempt
	for _, attempt := range p.QuizAttempts {
		if attempt.QuizID == quizID {
			attempts = append(attempts, attempt)
		}
	}
	return attempts
}

// BestQuizScore returns the highest score across the attempts for a quiz.
// The second return value is false when there are no attempts.
func (p *Progress) BestQuizScore(quizID uint) (int, bool) {
	best := 0
	found := false
	for _, attempt := range p.QuizAttempts {
		if attempt.QuizID != quizID {
			continue
		}
		if !found || attempt.Score > best {
			best = attempt.Score
		}
		found = true
	}
	return best, found
}

// LatestQuizAttempt returns the most recent attempt for a quiz, or nil when
// there are none. Equal timestamps resolve to the last inserted attempt.
func (p *Progress) LatestQuizAttempt(quizID uint) *QuizAttempt {
	var latest *QuizAttempt
	for i := range p.QuizAttempts {
		attempt := &p.QuizAttempts[i]
		if attempt.QuizID != quizID {
			continue
		}
		if latest == nil || !attempt.AttemptedAt.Before(latest.AttemptedAt) {
			latest = attempt
		}
	}
	return latest
}
