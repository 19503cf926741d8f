// Package testhelper provides the sqlite-backed stores used by service
// tests.
package testhelper

import (
	"testing"

	"github.com/campushq/eduportal/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an in-memory sqlite store with the full schema migrated.
// The pool is pinned to one connection so the in-memory database is shared
// and concurrent transactions serialize instead of hitting SQLITE_BUSY.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Course{},
		&model.Enrollment{},
		&model.Quiz{},
		&model.Question{},
		&model.Attempt{},
	))
	return db
}

// SeedCourse creates a course owned by ownerID.
func SeedCourse(t *testing.T, db *gorm.DB, ownerID uint) *model.Course {
	t.Helper()
	course := &model.Course{Title: "Intro to Databases", OwnerID: ownerID}
	require.NoError(t, db.Create(course).Error)
	return course
}

// SeedEnrollment enrolls userID in courseID as an active member.
func SeedEnrollment(t *testing.T, db *gorm.DB, courseID, userID uint) {
	t.Helper()
	require.NoError(t, db.Create(&model.Enrollment{
		CourseID: courseID,
		UserID:   userID,
		IsActive: true,
	}).Error)
}

// SeedQuiz creates an active quiz for the course.
func SeedQuiz(t *testing.T, db *gorm.DB, courseID uint, passingScore, maxAttempts int) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		CourseID:        courseID,
		Title:           "Week 1 Quiz",
		DurationMinutes: 30,
		PassingScore:    passingScore,
		MaxAttempts:     maxAttempts,
		IsActive:        true,
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

// SeedQuestion adds one question to the quiz.
func SeedQuestion(t *testing.T, db *gorm.DB, quizID uint, points, correctIndex, order int) *model.Question {
	t.Helper()
	question := &model.Question{
		QuizID:       quizID,
		Prompt:       "Pick the right option",
		Options:      []string{"a", "b", "c"},
		CorrectIndex: correctIndex,
		Points:       points,
		OrderInQuiz:  order,
	}
	require.NoError(t, db.Create(question).Error)
	return question
}
