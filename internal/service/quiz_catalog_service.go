package service

import (
	"errors"

	"github.com/campushq/eduportal/internal/apperr"
	"github.com/campushq/eduportal/internal/auth"
	"github.com/campushq/eduportal/internal/dto"
	"github.com/campushq/eduportal/internal/model"
	"github.com/campushq/eduportal/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Defaults applied when create requests omit the corresponding field.
const (
	DefaultDurationMinutes = 30
	DefaultPassingScore    = 70
	DefaultMaxAttempts     = 3
)

type QuizCatalogService interface {
	CreateQuiz(p auth.Principal, courseID uint, req dto.QuizCreateDTO) (*dto.QuizResponseDTO, error)
	ListQuizzes(p auth.Principal, courseID uint) ([]dto.QuizSummaryDTO, error)
	ListActiveQuizzes(p auth.Principal, courseID uint) ([]dto.QuizResponseDTO, error)
	UpdateQuiz(p auth.Principal, quizID uint, req dto.QuizUpdateDTO) (*dto.QuizResponseDTO, error)
	DeleteQuiz(p auth.Principal, quizID uint) error
}

type quizCatalogService struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
	courses     repository.CourseDirectory
	enrollments repository.EnrollmentChecker
}

func NewQuizCatalogService(
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
	courses repository.CourseDirectory,
	enrollments repository.EnrollmentChecker,
) QuizCatalogService {
	return &quizCatalogService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		courses:     courses,
		enrollments: enrollments,
	}
}

func (s *quizCatalogService) CreateQuiz(p auth.Principal, courseID uint, req dto.QuizCreateDTO) (*dto.QuizResponseDTO, error) {
	if err := authorizeCourseOwner(p, s.courses, courseID); err != nil {
		return nil, err
	}

	quiz := model.Quiz{
		CourseID:        courseID,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: DefaultDurationMinutes,
		PassingScore:    DefaultPassingScore,
		MaxAttempts:     DefaultMaxAttempts,
		IsActive:        true,
	}
	if req.DurationMinutes != nil {
		quiz.DurationMinutes = *req.DurationMinutes
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}

	if err := s.quizRepo.Create(&quiz); err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("Failed to create quiz")
		return nil, apperr.Persistence("creating quiz", err)
	}

	var resp dto.QuizResponseDTO
	if err := copier.Copy(&resp, &quiz); err != nil {
		return nil, apperr.Persistence("preparing quiz response", err)
	}
	return &resp, nil
}

func (s *quizCatalogService) ListQuizzes(p auth.Principal, courseID uint) ([]dto.QuizSummaryDTO, error) {
	if err := authorizeCourseOwner(p, s.courses, courseID); err != nil {
		return nil, err
	}

	rows, err := s.quizRepo.FindByCourseWithStats(courseID)
	if err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("Failed to list quizzes with stats")
		return nil, apperr.Persistence("listing quizzes", err)
	}

	summaries := make([]dto.QuizSummaryDTO, 0, len(rows))
	for _, row := range rows {
		var summary dto.QuizSummaryDTO
		if err := copier.Copy(&summary.QuizResponseDTO, &row.Quiz); err != nil {
			return nil, apperr.Persistence("preparing quiz summary", err)
		}
		summary.QuestionCount = row.QuestionCount
		summary.AttemptCount = row.AttemptCount
		summary.AverageScore = row.AverageScore
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ListActiveQuizzes is the student view: only active quizzes, only for
// courses the student is enrolled in.
func (s *quizCatalogService) ListActiveQuizzes(p auth.Principal, courseID uint) ([]dto.QuizResponseDTO, error) {
	enrolled, err := s.enrollments.IsActive(p.ID, courseID)
	if err != nil {
		return nil, apperr.Persistence("checking enrollment", err)
	}
	if !enrolled {
		return nil, apperr.NotEnrolled(p.ID, courseID)
	}

	rows, err := s.quizRepo.FindByCourseWithStats(courseID)
	if err != nil {
		return nil, apperr.Persistence("listing quizzes", err)
	}

	quizzes := make([]dto.QuizResponseDTO, 0, len(rows))
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		var resp dto.QuizResponseDTO
		if err := copier.Copy(&resp, &row.Quiz); err != nil {
			return nil, apperr.Persistence("preparing quiz response", err)
		}
		quizzes = append(quizzes, resp)
	}
	return quizzes, nil
}

func (s *quizCatalogService) UpdateQuiz(p auth.Principal, quizID uint, req dto.QuizUpdateDTO) (*dto.QuizResponseDTO, error) {
	quiz, err := s.findQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourseOwner(p, s.courses, quiz.CourseID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		quiz.DurationMinutes = *req.DurationMinutes
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}

	if err := s.quizRepo.Update(quiz); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to update quiz")
		return nil, apperr.Persistence("updating quiz", err)
	}

	var resp dto.QuizResponseDTO
	if err := copier.Copy(&resp, quiz); err != nil {
		return nil, apperr.Persistence("preparing quiz response", err)
	}
	return &resp, nil
}

// DeleteQuiz refuses to delete a quiz that attempts reference; deactivate it
// instead. Hard-deleting would orphan the attempt history.
func (s *quizCatalogService) DeleteQuiz(p auth.Principal, quizID uint) error {
	quiz, err := s.findQuiz(quizID)
	if err != nil {
		return err
	}
	if err := authorizeCourseOwner(p, s.courses, quiz.CourseID); err != nil {
		return err
	}

	attemptCount, err := s.attemptRepo.CountByQuiz(quizID)
	if err != nil {
		return apperr.Persistence("counting attempts", err)
	}
	if attemptCount > 0 {
		return apperr.Validation("quiz %d has %d recorded attempts; deactivate it instead of deleting", quizID, attemptCount)
	}

	if err := s.quizRepo.Delete(quizID); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to delete quiz")
		return apperr.Persistence("deleting quiz", err)
	}
	return nil
}

func (s *quizCatalogService) findQuiz(quizID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("quiz %d not found", quizID)
	}
	if err != nil {
		return nil, apperr.Persistence("loading quiz", err)
	}
	return quiz, nil
}
