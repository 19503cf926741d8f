package model

import (
	"time"

	"gorm.io/gorm"
)

// Course and Enrollment are the portal tables the quiz engine reads through
// its collaborator interfaces. Course/enrollment management itself lives in
// the wider portal; only ownership and active membership are consumed here.

type Course struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Title     string         `json:"title" gorm:"not null"`
	OwnerID   uint           `json:"owner_id" gorm:"not null;index"` // teacher who owns the course
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Enrollment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CourseID  uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_course_user"`
	UserID    uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollments_course_user"`
	IsActive  bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
