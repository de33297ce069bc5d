package progress

import (
	"errors"
	"math"
	"time"

	course "lms/models/course"

	"gorm.io/gorm"
)

// Tracker errors
var (
	ErrLessonNotInProgress = errors.New("lesson not found in progress")
	ErrInvalidWatchTime    = errors.New("watch time must be a non-negative number")
)

// Progress tracks a user's enrollment in a course: per-lesson completion
// state and the quiz attempt history. There is at most one Progress per
// (user, course) pair, enforced by the unique composite index.
type Progress struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID          uint       `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	EnrolledAt        time.Time  `json:"enrolled_at"`
	LastAccessedAt    time.Time  `json:"last_accessed_at"`
	OverallProgress   int        `json:"overall_progress" gorm:"default:0"` // percentage 0-100
	IsCompleted       bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt       *time.Time `json:"completed_at"`
	CertificateIssued bool       `json:"certificate_issued" gorm:"default:false"`
	LastRemindedAt    *time.Time `json:"last_reminded_at"`

	LessonProgress []LessonProgress `json:"lesson_progress,omitempty" gorm:"foreignKey:ProgressID"`
	QuizAttempts   []QuizAttempt    `json:"quiz_attempts,omitempty" gorm:"foreignKey:ProgressID"`
}

// LessonProgress tracks completion of one lesson, snapshotted from the
// course's lesson list at enrollment time
type LessonProgress struct {
	gorm.Model
	ProgressID  uint       `json:"progress_id" gorm:"index;not null"`
	LessonID    uint       `json:"lesson_id" gorm:"index;not null"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
	WatchTime   int        `json:"watch_time" gorm:"default:0"` // seconds
}

// NewProgress creates a fresh Progress for an enrollment, with one
// LessonProgress per lesson currently on the course. Lessons added to the
// course later do not appear in existing enrollments.
func NewProgress(c *course.Course, userID uint, now time.Time) Progress {
	lessonProgress := make([]LessonProgress, len(c.Lessons))
	for i, lesson := range c.Lessons {
		lessonProgress[i] = LessonProgress{
			LessonID:    lesson.ID,
			IsCompleted: false,
			WatchTime:   0,
		}
	}

	return Progress{
		UserID:         userID,
		CourseID:       c.ID,
		EnrolledAt:     now,
		LastAccessedAt: now,
		LessonProgress: lessonProgress,
	}
}

// CalculateProgress recomputes OverallProgress from the lesson completion
// state. When the course reaches 100% the first time, IsCompleted is set
// together with CompletedAt; completion never reverts afterwards, even if a
// lesson is later marked incomplete. LastAccessedAt is always touched.
func (p *Progress) CalculateProgress(now time.Time) int {
	totalLessons := len(p.LessonProgress)
	completedLessons := 0
	for _, lp := range p.LessonProgress {
		if lp.IsCompleted {
			completedLessons++
		}
	}

	if totalLessons == 0 {
		p.OverallProgress = 0
	} else {
		p.OverallProgress = int(math.Round(float64(completedLessons) / float64(totalLessons) * 100))
	}

	if p.OverallProgress == 100 && !p.IsCompleted {
		p.IsCompleted = true
		completedAt := now
		p.CompletedAt = &completedAt
	}

	p.LastAccessedAt = now
	return p.OverallProgress
}

// FindLessonProgress returns the LessonProgress for the given lesson, or nil
// when the lesson is not part of the enrollment snapshot
func (p *Progress) FindLessonProgress(lessonID uint) *LessonProgress {
	for i := range p.LessonProgress {
		if p.LessonProgress[i].LessonID == lessonID {
			return &p.LessonProgress[i]
		}
	}
	return nil
}

// MarkLessonComplete marks a lesson as completed, optionally overwriting the
// recorded watch time, and recomputes the overall progress
func (p *Progress) MarkLessonComplete(lessonID uint, watchTime *int, now time.Time) (*LessonProgress, error) {
	lp := p.FindLessonProgress(lessonID)
	if lp == nil {
		return nil, ErrLessonNotInProgress
	}

	lp.IsCompleted = true
	completedAt := now
	lp.CompletedAt = &completedAt
	if watchTime != nil && *watchTime >= 0 {
		lp.WatchTime = *watchTime
	}

	p.CalculateProgress(now)
	return lp, nil
}

// MarkLessonIncomplete marks a lesson as not completed and recomputes the
// overall progress. Progress.IsCompleted stays true once set.
func (p *Progress) MarkLessonIncomplete(lessonID uint, now time.Time) (*LessonProgress, error) {
	lp := p.FindLessonProgress(lessonID)
	if lp == nil {
		return nil, ErrLessonNotInProgress
	}

	lp.IsCompleted = false
	lp.CompletedAt = nil

	p.CalculateProgress(now)
	return lp, nil
}

// UpdateWatchTime updates the watch time of a lesson without touching its
// completion state or the overall progress
func (p *Progress) UpdateWatchTime(lessonID uint, watchTime int, now time.Time) (*LessonProgress, error) {
	if watchTime < 0 {
		return nil, ErrInvalidWatchTime
	}

	lp := p.FindLessonProgress(lessonID)
	if lp == nil {
		return nil, ErrLessonNotInProgress
	}

	lp.WatchTime = watchTime
	p.LastAccessedAt = now
	return lp, nil
}
