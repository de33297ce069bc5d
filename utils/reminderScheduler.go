package utils

import (
	"fmt"
	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
	"log"
	"time"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[REMINDER-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// sendCourseReminders mails learners who have not touched an unfinished
// course for the configured number of days. At most one reminder per
// enrollment per day.
func sendCourseReminders() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -config.AppConfig.ReminderAfterDays)
	startOfDay := now.BeginningOfDay()

	var stale []progressModels.Progress
	if err := db.Where("is_completed = ? AND last_accessed_at < ? AND (last_reminded_at IS NULL OR last_reminded_at < ?)",
		false, cutoff, startOfDay).
		Find(&stale).Error; err != nil {
		logScheduler("Error fetching stale enrollments: " + err.Error())
		return
	}

	if len(stale) == 0 {
		return
	}

	logScheduler(fmt.Sprintf("Sending reminders for %d stale enrollments", len(stale)))

	for _, progress := range stale {
		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", progress.UserID, false).First(&user).Error; err != nil {
			continue
		}

		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", progress.CourseID, false, true).First(&course).Error; err != nil {
			continue
		}

		if err := SendCourseReminderEmail(user.Email, user.Name, course.Title, progress.OverallProgress); err != nil {
			logScheduler("Error sending reminder to " + user.Email + ": " + err.Error())
			continue
		}

		remindedAt := time.Now()
		progress.LastRemindedAt = &remindedAt
		if err := db.Model(&progressModels.Progress{}).Where("id = ?", progress.ID).Update("last_reminded_at", remindedAt).Error; err != nil {
			logScheduler("Error recording reminder: " + err.Error())
		}
	}
}

// StartReminderScheduler runs the course reminder job every hour
func StartReminderScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", sendCourseReminders); err != nil {
		log.Fatalf("Failed to schedule reminder job: %v", err)
	}

	c.Start()
	logScheduler("Reminder scheduler started")
	return c
}
