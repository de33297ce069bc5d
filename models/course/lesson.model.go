package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lesson represents a video lesson within a course
type Lesson struct {
	gorm.Model
	CourseID      uint           `json:"course_id" gorm:"index;not null"`
	Title         string         `json:"title"`
	VideoURL      string         `json:"video_url"`
	ResourceLinks datatypes.JSON `json:"resource_links"` // JSON array of {title, url}
	OrderIndex    int            `json:"order_index" gorm:"default:0"`
	IsDeleted     bool           `gorm:"default:false"`
}

// ResourceLink is one entry of a lesson's ResourceLinks column
type ResourceLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
