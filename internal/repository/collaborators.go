package repository

import (
	"errors"

	"github.com/campushq/eduportal/internal/model"
	"gorm.io/gorm"
)

// CourseDirectory and EnrollmentChecker are the two facts the quiz engine
// needs from the surrounding portal: who owns a course, and whether a user is
// an active member of it. The gorm adapters below read the portal's own
// tables; the quiz services only see the interfaces.

type CourseDirectory interface {
	OwnerOf(courseID uint) (uint, error)
	Exists(courseID uint) (bool, error)
}

type EnrollmentChecker interface {
	IsActive(userID, courseID uint) (bool, error)
	CountActive(courseID uint) (int64, error)
}

type courseDirectory struct {
	db *gorm.DB
}

func NewCourseDirectory(db *gorm.DB) CourseDirectory {
	return &courseDirectory{db: db}
}

func (r *courseDirectory) OwnerOf(courseID uint) (uint, error) {
	var course model.Course
	if err := r.db.Select("id", "owner_id").First(&course, courseID).Error; err != nil {
		return 0, err
	}
	return course.OwnerID, nil
}

func (r *courseDirectory) Exists(courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Course{}).Where("id = ?", courseID).Count(&count).Error
	return count > 0, err
}

type enrollmentChecker struct {
	db *gorm.DB
}

func NewEnrollmentChecker(db *gorm.DB) EnrollmentChecker {
	return &enrollmentChecker{db: db}
}

func (r *enrollmentChecker) IsActive(userID, courseID uint) (bool, error) {
	var enrollment model.Enrollment
	err := r.db.
		Where("user_id = ? AND course_id = ? AND is_active = ?", userID, courseID, true).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *enrollmentChecker) CountActive(courseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).
		Where("course_id = ? AND is_active = ?", courseID, true).
		Count(&count).Error
	return count, err
}
