package service

import (
	"errors"

	"github.com/campushq/eduportal/internal/apperr"
	"github.com/campushq/eduportal/internal/auth"
	"github.com/campushq/eduportal/internal/repository"
	"gorm.io/gorm"
)

// authorizeCourseOwner allows the owning teacher of the course, or an admin.
// Admins bypass ownership but not existence; a quiz must never reference a
// course that is not there.
func authorizeCourseOwner(p auth.Principal, courses repository.CourseDirectory, courseID uint) error {
	if p.IsAdmin() {
		exists, err := courses.Exists(courseID)
		if err != nil {
			return apperr.Persistence("looking up course", err)
		}
		if !exists {
			return apperr.NotFound("course %d not found", courseID)
		}
		return nil
	}
	if p.Role != auth.RoleTeacher {
		return apperr.Forbidden("role %s may not manage quizzes", p.Role)
	}
	ownerID, err := courses.OwnerOf(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("course %d not found", courseID)
	}
	if err != nil {
		return apperr.Persistence("looking up course owner", err)
	}
	if ownerID != p.ID {
		return apperr.Forbidden("user %d does not own course %d", p.ID, courseID)
	}
	return nil
}
