package service

import (
	"errors"
	"strings"
	"time"

	"github.com/campushq/eduportal/internal/apperr"
	"github.com/campushq/eduportal/internal/auth"
	"github.com/campushq/eduportal/internal/dto"
	"github.com/campushq/eduportal/internal/model"
	"github.com/campushq/eduportal/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// submitRetries bounds how many times a submission re-reads the attempt
// count after losing an attempt_no conflict to a concurrent submitter.
const submitRetries = 3

// AttemptService governs a student's relationship to one quiz: eligibility,
// issuing the redacted question set, the scored submission, and review. There
// is no persisted in-progress state: starting an attempt writes nothing, and
// only a completed submission consumes an attempt slot.
type AttemptService interface {
	StartAttempt(p auth.Principal, quizID uint) (*dto.StartAttemptDTO, error)
	SubmitAttempt(p auth.Principal, quizID uint, req dto.AttemptSubmitDTO) (*dto.AttemptResultDTO, error)
	ListMyAttempts(p auth.Principal, quizID uint) ([]dto.AttemptSummaryDTO, error)
	QuizStatistics(p auth.Principal, quizID uint) (*dto.QuizStatisticsDTO, error)
}

type attemptService struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
	courses     repository.CourseDirectory
	enrollments repository.EnrollmentChecker
	scoring     ScoringService
	db          *gorm.DB
}

func NewAttemptService(
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
	courses repository.CourseDirectory,
	enrollments repository.EnrollmentChecker,
	scoring ScoringService,
	db *gorm.DB,
) AttemptService {
	return &attemptService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		courses:     courses,
		enrollments: enrollments,
		scoring:     scoring,
		db:          db,
	}
}

func (s *attemptService) StartAttempt(p auth.Principal, quizID uint) (*dto.StartAttemptDTO, error) {
	quiz, used, err := s.checkEligibility(p, quizID)
	if err != nil {
		return nil, err
	}

	questions := make([]dto.StudentQuestionDTO, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		// Hand-picked fields: StudentQuestionDTO must never carry the
		// correct index, so no copier here.
		questions = append(questions, dto.StudentQuestionDTO{
			ID:          q.ID,
			Prompt:      q.Prompt,
			Options:     q.Options,
			Points:      q.Points,
			OrderInQuiz: q.OrderInQuiz,
		})
	}

	resp := dto.StartAttemptDTO{
		Questions:    questions,
		AttemptsUsed: used,
		MaxAttempts:  quiz.MaxAttempts,
	}
	if err := copier.Copy(&resp.Quiz, quiz); err != nil {
		return nil, apperr.Persistence("preparing quiz response", err)
	}
	return &resp, nil
}

// SubmitAttempt re-checks eligibility (a client may hold a stale "eligible"
// snapshot), grades the sheet, and records the attempt. The count-then-insert
// runs inside one transaction; the unique (quiz, user, attempt_no) index plus
// a bounded re-read keeps concurrent submitters within max attempts. Either
// the attempt lands durably with its score or nothing is written.
func (s *attemptService) SubmitAttempt(p auth.Principal, quizID uint, req dto.AttemptSubmitDTO) (*dto.AttemptResultDTO, error) {
	quiz, _, err := s.checkEligibility(p, quizID)
	if err != nil {
		return nil, err
	}

	answers := req.Answers
	if answers == nil {
		answers = model.AnswerMap{}
	}
	summary := s.scoring.Grade(quiz.Questions, answers, quiz.PassingScore)

	attempt := model.Attempt{
		QuizID:      quizID,
		UserID:      p.ID,
		Answers:     answers,
		Score:       summary.Score,
		Passed:      summary.Passed,
		SubmittedAt: time.Now(),
	}

	var lastErr error
	for try := 0; try < submitRetries; try++ {
		lastErr = s.db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&model.Attempt{}).
				Where("quiz_id = ? AND user_id = ?", quizID, p.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if int(count) >= quiz.MaxAttempts {
				return apperr.AttemptsExhausted(int(count), quiz.MaxAttempts)
			}
			attempt.ID = 0
			attempt.AttemptNo = int(count) + 1
			return tx.Create(&attempt).Error
		})
		if lastErr == nil || !isDuplicateKey(lastErr) {
			break
		}
		// Lost the slot to a concurrent submission; re-read the count.
		log.Warn().Uint("quizID", quizID).Uint("userID", p.ID).Int("try", try+1).
			Msg("Attempt number conflict, retrying submission")
	}
	if lastErr != nil {
		if _, ok := apperr.As(lastErr); ok {
			return nil, lastErr
		}
		log.Error().Err(lastErr).Uint("quizID", quizID).Uint("userID", p.ID).
			Msg("Failed to record attempt")
		return nil, apperr.Persistence("recording attempt", lastErr)
	}

	return buildAttemptResult(&attempt, quiz, summary), nil
}

func (s *attemptService) ListMyAttempts(p auth.Principal, quizID uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindByQuizAndUser(quizID, p.ID)
	if err != nil {
		return nil, apperr.Persistence("listing attempts", err)
	}
	return toAttemptSummaries(attempts)
}

// QuizStatistics is the instructor reporting view: every attempt for the
// quiz plus average score, completion rate and pass rate.
func (s *attemptService) QuizStatistics(p auth.Principal, quizID uint) (*dto.QuizStatisticsDTO, error) {
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

	attempts, err := s.attemptRepo.FindByQuiz(quizID)
	if err != nil {
		return nil, apperr.Persistence("listing attempts", err)
	}
	enrolled, err := s.enrollments.CountActive(quiz.CourseID)
	if err != nil {
		return nil, apperr.Persistence("counting enrollment", err)
	}

	stats := dto.QuizStatisticsDTO{
		QuizID:        quizID,
		AttemptCount:  len(attempts),
		EnrolledUsers: int(enrolled),
	}
	users := make(map[uint]struct{})
	scoreSum, passCount := 0, 0
	for _, a := range attempts {
		users[a.UserID] = struct{}{}
		scoreSum += a.Score
		if a.Passed {
			passCount++
		}
	}
	stats.DistinctUsers = len(users)
	if len(attempts) > 0 {
		stats.AverageScore = float64(scoreSum) / float64(len(attempts))
		stats.PassRate = float64(passCount) / float64(len(attempts))
	}
	if enrolled > 0 {
		stats.CompletionRate = float64(len(users)) / float64(enrolled)
	}

	stats.Attempts, err = toAttemptSummaries(attempts)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// checkEligibility runs the three gates shared by start and submit: quiz
// exists and is active, the student is enrolled, and attempts remain. It
// returns the quiz with its ordered questions and the attempts used so far.
func (s *attemptService) checkEligibility(p auth.Principal, quizID uint) (*model.Quiz, int, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, apperr.NotFound("quiz %d not found", quizID)
	}
	if err != nil {
		return nil, 0, apperr.Persistence("loading quiz", err)
	}
	if !quiz.IsActive {
		return nil, 0, apperr.QuizUnavailable(quizID)
	}

	enrolled, err := s.enrollments.IsActive(p.ID, quiz.CourseID)
	if err != nil {
		return nil, 0, apperr.Persistence("checking enrollment", err)
	}
	if !enrolled {
		return nil, 0, apperr.NotEnrolled(p.ID, quiz.CourseID)
	}

	count, err := s.attemptRepo.CountByQuizAndUser(quizID, p.ID)
	if err != nil {
		return nil, 0, apperr.Persistence("counting attempts", err)
	}
	if int(count) >= quiz.MaxAttempts {
		return nil, 0, apperr.AttemptsExhausted(int(count), quiz.MaxAttempts)
	}
	return quiz, int(count), nil
}

func buildAttemptResult(attempt *model.Attempt, quiz *model.Quiz, summary ScoreSummary) *dto.AttemptResultDTO {
	results := make([]dto.QuestionResultDTO, 0, len(summary.Results))
	for _, r := range summary.Results {
		results = append(results, dto.QuestionResultDTO{
			QuestionID:     r.QuestionID,
			CorrectIndex:   r.CorrectIndex,
			SubmittedIndex: r.SubmittedIndex,
			IsCorrect:      r.IsCorrect,
			Points:         r.Points,
			EarnedPoints:   r.EarnedPoints,
		})
	}
	return &dto.AttemptResultDTO{
		AttemptID:    attempt.ID,
		QuizID:       attempt.QuizID,
		AttemptNo:    attempt.AttemptNo,
		Score:        attempt.Score,
		Passed:       attempt.Passed,
		EarnedPoints: summary.EarnedPoints,
		TotalPoints:  summary.TotalPoints,
		AttemptsUsed: attempt.AttemptNo,
		MaxAttempts:  quiz.MaxAttempts,
		SubmittedAt:  attempt.SubmittedAt,
		Results:      results,
	}
}

func toAttemptSummaries(attempts []model.Attempt) ([]dto.AttemptSummaryDTO, error) {
	summaries := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	for _, a := range attempts {
		var summary dto.AttemptSummaryDTO
		if err := copier.Copy(&summary, &a); err != nil {
			return nil, apperr.Persistence("preparing attempt summary", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
