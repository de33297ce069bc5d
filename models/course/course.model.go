package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Instructor   string  `json:"instructor"`
	Category     string  `json:"category"`
	Level        string  `json:"level" gorm:"default:'BEGINNER'"` // BEGINNER, INTERMEDIATE, ADVANCED
	Price        float64 `json:"price" gorm:"default:0"`
	Duration     int64   `json:"duration" gorm:"default:0"` // duration in hours
	ThumbnailURL string  `json:"thumbnail_url"`
	IsPublished  bool    `json:"is_published" gorm:"default:false"`
	IsDeleted    bool    `gorm:"default:false"`

	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
	Quizzes []Quiz   `json:"quizzes,omitempty" gorm:"foreignKey:CourseID"`
}
