package repository

import (
	"github.com/campushq/eduportal/internal/model"
	"gorm.io/gorm"
)

// QuizWithStats is the instructor list row: quiz metadata plus the attempt
// aggregates computed in SQL.
type QuizWithStats struct {
	model.Quiz
	QuestionCount int
	AttemptCount  int
	AverageScore  *float64
}

type QuizRepository interface {
	Create(quiz *model.Quiz) error
	FindByID(id uint) (*model.Quiz, error)
	FindByIDWithQuestions(id uint) (*model.Quiz, error)
	FindByCourseWithStats(courseID uint) ([]QuizWithStats, error)
	Update(quiz *model.Quiz) error
	Delete(id uint) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_in_quiz ASC")
	}).First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByCourseWithStats(courseID uint) ([]QuizWithStats, error) {
	var results []QuizWithStats
	err := r.db.Model(&model.Quiz{}).
		Select(`quizzes.*,
			(SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id AND questions.deleted_at IS NULL) AS question_count,
			(SELECT COUNT(*) FROM attempts WHERE attempts.quiz_id = quizzes.id) AS attempt_count,
			(SELECT AVG(score) FROM attempts WHERE attempts.quiz_id = quizzes.id) AS average_score`).
		Where("quizzes.course_id = ?", courseID).
		Order("quizzes.created_at DESC").
		Scan(&results).Error
	return results, err
}

func (r *quizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

func (r *quizRepository) Delete(id uint) error {
	return r.db.Delete(&model.Quiz{}, id).Error
}
