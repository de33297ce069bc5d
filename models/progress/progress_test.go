package progress

import (
	"testing"
	"time"

	course "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func buildProgress(lessonIDs ...uint) *Progress {
	c := &course.Course{Model: gorm.Model{ID: 1}}
	for _, id := range lessonIDs {
		c.Lessons = append(c.Lessons, course.Lesson{Model: gorm.Model{ID: id}})
	}
	p := NewProgress(c, 7, time.Now())
	return &p
}

func TestNewProgressSnapshotsLessons(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := &course.Course{
		Model: gorm.Model{ID: 5},
		Lessons: []course.Lesson{
			{Model: gorm.Model{ID: 11}},
			{Model: gorm.Model{ID: 12}},
		},
	}

	p := NewProgress(c, 3, now)

	assert.Equal(t, uint(3), p.UserID)
	assert.Equal(t, uint(5), p.CourseID)
	assert.Equal(t, now, p.EnrolledAt)
	assert.Equal(t, now, p.LastAccessedAt)
	assert.Equal(t, 0, p.OverallProgress)
	assert.False(t, p.IsCompleted)
	require.Len(t, p.LessonProgress, 2)
	assert.Equal(t, uint(11), p.LessonProgress[0].LessonID)
	assert.Equal(t, uint(12), p.LessonProgress[1].LessonID)
}

func TestCalculateProgressRounding(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		completed int
		want      int
	}{
		{"no lessons", 0, 0, 0},
		{"none done", 4, 0, 0},
		{"one of three", 3, 1, 33},
		{"two of three", 3, 2, 67},
		{"half", 2, 1, 50},
		{"seven of eight", 8, 7, 88},
		{"all done", 5, 5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Progress{}
			for i := 0; i < tt.total; i++ {
				p.LessonProgress = append(p.LessonProgress, LessonProgress{
					LessonID:    uint(i + 1),
					IsCompleted: i < tt.completed,
				})
			}

			got := p.CalculateProgress(time.Now())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, p.OverallProgress)
		})
	}
}

func TestCompletionIsMonotonic(t *testing.T) {
	p := buildProgress(1, 2)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := p.MarkLessonComplete(1, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 50, p.OverallProgress)
	assert.False(t, p.IsCompleted)
	assert.Nil(t, p.CompletedAt)

	_, err = p.MarkLessonComplete(2, nil, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 100, p.OverallProgress)
	assert.True(t, p.IsCompleted)
	require.NotNil(t, p.CompletedAt)
	firstCompletedAt := *p.CompletedAt

	// Un-completing a lesson drops the percentage but not the completion flag
	_, err = p.MarkLessonIncomplete(2, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 50, p.OverallProgress)
	assert.True(t, p.IsCompleted)

	// Re-completing does not move CompletedAt
	_, err = p.MarkLessonComplete(2, nil, now.Add(3*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, p.CompletedAt)
	assert.Equal(t, firstCompletedAt, *p.CompletedAt)
}

func TestMarkLessonCompleteIsIdempotent(t *testing.T) {
	p := buildProgress(1, 2)
	now := time.Now()

	_, err := p.MarkLessonComplete(1, nil, now)
	require.NoError(t, err)
	_, err = p.MarkLessonComplete(1, nil, now.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 50, p.OverallProgress)
}

func TestMarkLessonCompleteWatchTime(t *testing.T) {
	p := buildProgress(1)
	watchTime := 420

	lp, err := p.MarkLessonComplete(1, &watchTime, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 420, lp.WatchTime)

	// Completing again without a watch time keeps the recorded value
	lp, err = p.MarkLessonComplete(1, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 420, lp.WatchTime)
}

func TestMarkLessonUnknownLesson(t *testing.T) {
	p := buildProgress(1)

	_, err := p.MarkLessonComplete(99, nil, time.Now())
	require.ErrorIs(t, err, ErrLessonNotInProgress)

	_, err = p.MarkLessonIncomplete(99, time.Now())
	require.ErrorIs(t, err, ErrLessonNotInProgress)

	_, err = p.UpdateWatchTime(99, 10, time.Now())
	require.ErrorIs(t, err, ErrLessonNotInProgress)
}

func TestUpdateWatchTime(t *testing.T) {
	p := buildProgress(1, 2)
	now := time.Now()

	lp, err := p.UpdateWatchTime(1, 300, now)
	require.NoError(t, err)
	assert.Equal(t, 300, lp.WatchTime)
	assert.False(t, lp.IsCompleted)

	// Watch time alone never moves the overall progress
	assert.Equal(t, 0, p.OverallProgress)

	_, err = p.UpdateWatchTime(1, -5, now)
	require.ErrorIs(t, err, ErrInvalidWatchTime)
}
