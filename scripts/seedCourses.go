package main

import (
	"encoding/json"
	"lms/config"
	"lms/database"
	courseModel "lms/models/course"
	"log"

	"gorm.io/datatypes"
)

func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	inserted := 0
	skipped := 0

	for _, c := range sampleCourses() {
		// Skip if a course with the same title already exists
		var existing courseModel.Course
		result := database.Database.Db.Where("title = ? AND is_deleted = ?", c.Title, false).First(&existing)
		if result.Error == nil {
			log.Printf("Course %q already exists, skipping", c.Title)
			skipped++
			continue
		}

		if err := database.Database.Db.Create(&c).Error; err != nil {
			log.Printf("Error inserting course %q: %v", c.Title, err)
			continue
		}
		inserted++
	}

	log.Printf("=== Seed Complete ===")
	log.Printf("Inserted: %d", inserted)
	log.Printf("Skipped: %d", skipped)
}

func sampleCourses() []courseModel.Course {
	return []courseModel.Course{
		{
			Title:        "Go Fundamentals",
			Description:  "Learn the basics of the Go programming language, from syntax to goroutines.",
			Instructor:   "Asha Verma",
			Category:     "Programming",
			Level:        "BEGINNER",
			Price:        0,
			Duration:     6,
			ThumbnailURL: "https://cdn.example.com/thumbs/go-fundamentals.png",
			IsPublished:  true,
			Lessons: []courseModel.Lesson{
				{
					Title:      "Getting Started with Go",
					VideoURL:   "https://videos.example.com/go/intro.mp4",
					OrderIndex: 0,
					ResourceLinks: resourceLinks(
						courseModel.ResourceLink{Title: "Go installation guide", URL: "https://go.dev/doc/install"},
					),
				},
				{
					Title:      "Structs and Interfaces",
					VideoURL:   "https://videos.example.com/go/structs.mp4",
					OrderIndex: 1,
				},
				{
					Title:      "Concurrency with Goroutines",
					VideoURL:   "https://videos.example.com/go/concurrency.mp4",
					OrderIndex: 2,
					ResourceLinks: resourceLinks(
						courseModel.ResourceLink{Title: "Effective Go", URL: "https://go.dev/doc/effective_go"},
					),
				},
			},
			Quizzes: []courseModel.Quiz{
				{
					Title:        "Go Basics Quiz",
					Description:  "Check your understanding of Go syntax and types.",
					PassingScore: 70,
					TimeLimit:    15,
					OrderIndex:   0,
					Questions: []courseModel.Question{
						{
							QuestionText: "Which keyword declares a new variable with inferred type?",
							Explanation:  "The := operator declares and initializes a variable in one step.",
							OrderIndex:   0,
							Options: []courseModel.QuestionOption{
								{OptionText: "var", OrderIndex: 0},
								{OptionText: ":=", IsCorrect: true, OrderIndex: 1},
								{OptionText: "let", OrderIndex: 2},
								{OptionText: "def", OrderIndex: 3},
							},
						},
						{
							QuestionText: "What starts a new goroutine?",
							Explanation:  "The go keyword runs a function call concurrently.",
							OrderIndex:   1,
							Options: []courseModel.QuestionOption{
								{OptionText: "async", OrderIndex: 0},
								{OptionText: "spawn", OrderIndex: 1},
								{OptionText: "go", IsCorrect: true, OrderIndex: 2},
								{OptionText: "thread", OrderIndex: 3},
							},
						},
					},
				},
			},
		},
		{
			Title:        "REST API Design",
			Description:  "Design and build production grade REST APIs with authentication and pagination.",
			Instructor:   "Rahul Nair",
			Category:     "Backend",
			Level:        "INTERMEDIATE",
			Price:        49.99,
			Duration:     8,
			ThumbnailURL: "https://cdn.example.com/thumbs/rest-api-design.png",
			IsPublished:  true,
			Lessons: []courseModel.Lesson{
				{
					Title:      "HTTP Methods and Status Codes",
					VideoURL:   "https://videos.example.com/rest/http.mp4",
					OrderIndex: 0,
				},
				{
					Title:      "Designing Resource URLs",
					VideoURL:   "https://videos.example.com/rest/urls.mp4",
					OrderIndex: 1,
				},
			},
			Quizzes: []courseModel.Quiz{
				{
					Title:        "REST Concepts Quiz",
					Description:  "Status codes, verbs and resource naming.",
					PassingScore: 70,
					TimeLimit:    10,
					OrderIndex:   0,
					Questions: []courseModel.Question{
						{
							QuestionText: "Which status code indicates a resource was created?",
							Explanation:  "201 Created is returned after a successful resource creation.",
							OrderIndex:   0,
							Options: []courseModel.QuestionOption{
								{OptionText: "200", OrderIndex: 0},
								{OptionText: "201", IsCorrect: true, OrderIndex: 1},
								{OptionText: "204", OrderIndex: 2},
								{OptionText: "301", OrderIndex: 3},
							},
						},
					},
				},
			},
		},
	}
}

// resourceLinks marshals the given links into the lesson's JSON column
func resourceLinks(links ...courseModel.ResourceLink) datatypes.JSON {
	data, err := json.Marshal(links)
	if err != nil {
		log.Fatalf("Failed to marshal resource links: %v", err)
	}
	return data
}
