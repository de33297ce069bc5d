package course

import (
	"errors"

	"gorm.io/gorm"
)

// Submission errors returned by ValidateSubmission
var (
	ErrIncompleteSubmission     = errors.New("all questions must be answered")
	ErrInvalidQuestionReference = errors.New("answer references an unknown question")
)

// Quiz represents a multiple choice quiz within a course
type Quiz struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PassingScore int    `json:"passing_score" gorm:"default:70"` // percentage 0-100
	TimeLimit    int    `json:"time_limit" gorm:"default:30"`    // minutes
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

// Question represents a single question of a quiz
type Question struct {
	gorm.Model
	QuizID       uint   `json:"quiz_id" gorm:"index;not null"`
	QuestionText string `json:"question_text"`
	Explanation  string `json:"explanation"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`

	Options []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

// QuestionOption represents an option of a question
type QuestionOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

// SubmittedAnswer is one caller-submitted answer of a quiz submission
type SubmittedAnswer struct {
	QuestionID     uint `json:"question_id"`
	SelectedOption int  `json:"selected_option"`
}

// ValidateSubmission checks a submitted answer set against the quiz's
// questions. Every question must be answered exactly once and no answer may
// reference a question outside the quiz. Order of answers is irrelevant.
// Requires Questions to be loaded.
func (q *Quiz) ValidateSubmission(answers []SubmittedAnswer) error {
	answered := make(map[uint]bool, len(q.Questions))
	for _, question := range q.Questions {
		answered[question.ID] = false
	}

	for _, ans := range answers {
		seen, ok := answered[ans.QuestionID]
		if !ok || seen {
			// unknown question id, or the same question answered twice
			return ErrInvalidQuestionReference
		}
		answered[ans.QuestionID] = true
	}

	for _, seen := range answered {
		if !seen {
			return ErrIncompleteSubmission
		}
	}

	return nil
}

// QuestionByID returns the quiz question with the given ID, or nil
func (q *Quiz) QuestionByID(questionID uint) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == questionID {
			return &q.Questions[i]
		}
	}
	return nil
}

// IsCorrectOption reports whether the selected option index answers the
// question correctly. An out-of-range index is simply incorrect, not an
// error. Requires Options to be loaded in display order.
func (question *Question) IsCorrectOption(selected int) bool {
	if selected < 0 || selected >= len(question.Options) {
		return false
	}
	return question.Options[selected].IsCorrect
}

// HideAnswers blanks the IsCorrect flag on every option so quiz definitions
// can be returned to learners without leaking the answer key
func (q *Quiz) HideAnswers() {
	for i := range q.Questions {
		for j := range q.Questions[i].Options {
			q.Questions[i].Options[j].IsCorrect = false
		}
	}
}
