package repository

import (
	"github.com/campushq/eduportal/internal/model"
	"gorm.io/gorm"
)

// AttemptRepository is the read side of the attempt ledger. Inserts happen
// inside the submission transaction in the service layer; no update or
// delete is exposed anywhere; attempts are history.
type AttemptRepository interface {
	CountByQuiz(quizID uint) (int64, error)
	CountByQuizAndUser(quizID, userID uint) (int64, error)
	FindByQuizAndUser(quizID, userID uint) ([]model.Attempt, error)
	FindByQuiz(quizID uint) ([]model.Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) CountByQuiz(quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Attempt{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (r *attemptRepository) CountByQuizAndUser(quizID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Attempt{}).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Count(&count).Error
	return count, err
}

func (r *attemptRepository) FindByQuizAndUser(quizID, userID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("attempt_no DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindByQuiz(quizID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Where("quiz_id = ?", quizID).
		Order("submitted_at DESC").
		Find(&attempts).Error
	return attempts, err
}
