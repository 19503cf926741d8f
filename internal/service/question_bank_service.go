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
	"gorm.io/gorm/clause"
)

// QuestionBankService manages the ordered question set of a quiz under the
// 100-point budget. Both write operations lock the quiz row and run
// read-total-then-write inside one transaction, so concurrent edits by
// co-teaching staff cannot overshoot the budget; a failed call leaves the
// prior set unchanged.
type QuestionBankService interface {
	ReplaceAll(p auth.Principal, quizID uint, req dto.QuestionBatchDTO) ([]dto.QuestionResponseDTO, error)
	Append(p auth.Principal, quizID uint, req dto.QuestionBatchDTO) ([]dto.QuestionResponseDTO, error)
	RemoveQuestion(p auth.Principal, questionID uint) error
	ListQuestions(p auth.Principal, quizID uint) ([]dto.QuestionResponseDTO, error)
}

type questionBankService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	courses      repository.CourseDirectory
	db           *gorm.DB
}

func NewQuestionBankService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	courses repository.CourseDirectory,
	db *gorm.DB,
) QuestionBankService {
	return &questionBankService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		courses:      courses,
		db:           db,
	}
}

// ReplaceAll atomically discards the quiz's question set and installs the
// incoming one. Order is the array index; this is a full replace, callers
// needing incremental edits go through Append or read-modify-write.
func (s *questionBankService) ReplaceAll(p auth.Principal, quizID uint, req dto.QuestionBatchDTO) ([]dto.QuestionResponseDTO, error) {
	quiz, err := s.authorizedQuiz(p, quizID)
	if err != nil {
		return nil, err
	}

	incoming, incomingTotal, err := buildQuestions(quizID, req.Questions, 0)
	if err != nil {
		return nil, err
	}
	if incomingTotal > model.MaxQuizPoints {
		return nil, apperr.BudgetExceeded(incomingTotal, model.MaxQuizPoints)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockQuizRow(tx, quizID); err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Create(&incoming).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("quizID", quiz.ID).Msg("Failed to replace question set")
		return nil, apperr.Persistence("replacing questions", err)
	}

	return toQuestionDTOs(incoming)
}

// Append adds questions after the current set, continuing the order
// sequence. Fails with BudgetExceeded when existing + incoming points pass
// the budget.
func (s *questionBankService) Append(p auth.Principal, quizID uint, req dto.QuestionBatchDTO) ([]dto.QuestionResponseDTO, error) {
	quiz, err := s.authorizedQuiz(p, quizID)
	if err != nil {
		return nil, err
	}

	var created []model.Question
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockQuizRow(tx, quizID); err != nil {
			return err
		}
		var existingTotal int
		if err := tx.Model(&model.Question{}).
			Where("quiz_id = ?", quizID).
			Select("COALESCE(SUM(points), 0)").
			Scan(&existingTotal).Error; err != nil {
			return err
		}
		var maxOrder int
		if err := tx.Model(&model.Question{}).
			Where("quiz_id = ?", quizID).
			Select("COALESCE(MAX(order_in_quiz), 0)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}

		incoming, incomingTotal, err := buildQuestions(quizID, req.Questions, maxOrder)
		if err != nil {
			return err
		}
		if existingTotal+incomingTotal > model.MaxQuizPoints {
			return apperr.BudgetExceeded(existingTotal+incomingTotal, model.MaxQuizPoints)
		}

		if err := tx.Create(&incoming).Error; err != nil {
			return err
		}
		created = incoming
		return nil
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		log.Error().Err(err).Uint("quizID", quiz.ID).Msg("Failed to append questions")
		return nil, apperr.Persistence("appending questions", err)
	}

	return toQuestionDTOs(created)
}

// RemoveQuestion deletes one question unconditionally. Remaining order
// values are not renumbered; historical attempt scores are untouched.
func (s *questionBankService) RemoveQuestion(p auth.Principal, questionID uint) error {
	question, err := s.questionRepo.FindByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("question %d not found", questionID)
	}
	if err != nil {
		return apperr.Persistence("loading question", err)
	}

	if _, err := s.authorizedQuiz(p, question.QuizID); err != nil {
		return err
	}

	if err := s.questionRepo.Delete(questionID); err != nil {
		log.Error().Err(err).Uint("questionID", questionID).Msg("Failed to delete question")
		return apperr.Persistence("deleting question", err)
	}
	return nil
}

func (s *questionBankService) ListQuestions(p auth.Principal, quizID uint) ([]dto.QuestionResponseDTO, error) {
	if _, err := s.authorizedQuiz(p, quizID); err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.FindByQuizID(quizID)
	if err != nil {
		return nil, apperr.Persistence("listing questions", err)
	}
	return toQuestionDTOs(questions)
}

// lockQuizRow takes a FOR UPDATE lock on the quiz so that only one
// transaction at a time can read the point total and write against it.
// READ COMMITTED alone would let two appends both observe the same total
// and both pass the budget check. Dialects without row locks drop the
// clause.
func lockQuizRow(tx *gorm.DB, quizID uint) error {
	var quiz model.Quiz
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&quiz, quizID).Error
}

func (s *questionBankService) authorizedQuiz(p auth.Principal, quizID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("quiz %d not found", quizID)
	}
	if err != nil {
		return nil, apperr.Persistence("loading quiz", err)
	}
	if err := authorizeCourseOwner(p, s.courses, quiz.CourseID); err != nil {
		return nil, err
	}
	return quiz, nil
}

// buildQuestions validates the batch and assigns order values continuing
// after startOrder. Returns the models and their point total.
func buildQuestions(quizID uint, inputs []dto.QuestionInputDTO, startOrder int) ([]model.Question, int, error) {
	questions := make([]model.Question, 0, len(inputs))
	total := 0
	for i, in := range inputs {
		if in.CorrectIndex < 0 || in.CorrectIndex >= len(in.Options) {
			return nil, 0, apperr.Validation(
				"question %d: correct_index %d out of range for %d options",
				i+1, in.CorrectIndex, len(in.Options))
		}
		questions = append(questions, model.Question{
			QuizID:       quizID,
			Prompt:       in.Prompt,
			Options:      in.Options,
			CorrectIndex: in.CorrectIndex,
			Points:       in.Points,
			OrderInQuiz:  startOrder + i + 1,
		})
		total += in.Points
	}
	return questions, total, nil
}

func toQuestionDTOs(questions []model.Question) ([]dto.QuestionResponseDTO, error) {
	dtos := make([]dto.QuestionResponseDTO, 0, len(questions))
	for _, q := range questions {
		var d dto.QuestionResponseDTO
		if err := copier.Copy(&d, &q); err != nil {
			return nil, apperr.Persistence("preparing question response", err)
		}
		dtos = append(dtos, d)
	}
	return dtos, nil
}
