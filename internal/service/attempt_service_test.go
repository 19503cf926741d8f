package service_test

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/campushq/eduportal/internal/apperr"
	"github.com/campushq/eduportal/internal/auth"
	"github.com/campushq/eduportal/internal/dto"
	"github.com/campushq/eduportal/internal/model"
	"github.com/campushq/eduportal/internal/repository"
	"github.com/campushq/eduportal/internal/service"
	"github.com/campushq/eduportal/internal/testhelper"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type attemptFixture struct {
	svc  service.AttemptService
	db   *gorm.DB
	quiz *model.Quiz
	q60  *model.Question
	q40  *model.Question
}

// newAttemptFixture seeds a 60/40-point quiz (passing 70) with the student
// actively enrolled.
func newAttemptFixture(t *testing.T, maxAttempts int) attemptFixture {
	t.Helper()
	db := testhelper.NewTestDB(t)
	course := testhelper.SeedCourse(t, db, ownerID)
	testhelper.SeedEnrollment(t, db, course.ID, studentID)
	quiz := testhelper.SeedQuiz(t, db, course.ID, 70, maxAttempts)
	q60 := testhelper.SeedQuestion(t, db, quiz.ID, 60, 0, 1)
	q40 := testhelper.SeedQuestion(t, db, quiz.ID, 40, 1, 2)

	svc := service.NewAttemptService(
		repository.NewQuizRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewCourseDirectory(db),
		repository.NewEnrollmentChecker(db),
		service.NewScoringService(),
		db,
	)
	return attemptFixture{svc: svc, db: db, quiz: quiz, q60: q60, q40: q40}
}

func TestStartAttempt_RedactsAnswerKey(t *testing.T) {
	f := newAttemptFixture(t, 3)

	resp, err := f.svc.StartAttempt(student, f.quiz.ID)
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)
	require.Equal(t, 0, resp.AttemptsUsed)
	require.Equal(t, 3, resp.MaxAttempts)

	payload, err := json.Marshal(resp)
	require.NoError(t, err)
	require.NotContains(t, strings.ToLower(string(payload)), "correct")
}

func TestStartAttempt_EligibilityGates(t *testing.T) {
	f := newAttemptFixture(t, 3)

	_, err := f.svc.StartAttempt(student, 9999)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	stranger := auth.Principal{ID: 777, Role: auth.RoleStudent}
	_, err = f.svc.StartAttempt(stranger, f.quiz.ID)
	require.Equal(t, apperr.KindNotEnrolled, apperr.KindOf(err))

	require.NoError(t, f.db.Model(f.quiz).Update("is_active", false).Error)
	_, err = f.svc.StartAttempt(student, f.quiz.ID)
	require.Equal(t, apperr.KindQuizUnavailable, apperr.KindOf(err))
}

func TestStartAttempt_IssuesNoDurableState(t *testing.T) {
	f := newAttemptFixture(t, 3)

	// Abandoned starts consume nothing.
	for i := 0; i < 10; i++ {
		_, err := f.svc.StartAttempt(student, f.quiz.ID)
		require.NoError(t, err)
	}
	var count int64
	require.NoError(t, f.db.Model(&model.Attempt{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestSubmitAttempt_ScoresAndRecords(t *testing.T) {
	f := newAttemptFixture(t, 3)

	// Correct on the 60-point question only: 60%, below the 70% bar.
	result, err := f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{
		Answers: map[uint]int{f.q60.ID: 0, f.q40.ID: 0},
	})
	require.NoError(t, err)
	require.Equal(t, 60, result.Score)
	require.False(t, result.Passed)
	require.Equal(t, 60, result.EarnedPoints)
	require.Equal(t, 100, result.TotalPoints)
	require.Equal(t, 1, result.AttemptNo)
	require.Equal(t, 1, result.AttemptsUsed)

	// Review payload reveals keys post-submission.
	require.Len(t, result.Results, 2)
	require.Equal(t, 0, result.Results[0].CorrectIndex)
	require.NotNil(t, result.Results[0].SubmittedIndex)

	// Both correct: full marks.
	result, err = f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{
		Answers: map[uint]int{f.q60.ID: 0, f.q40.ID: 1},
	})
	require.NoError(t, err)
	require.Equal(t, 100, result.Score)
	require.True(t, result.Passed)
	require.Equal(t, 2, result.AttemptNo)
}

func TestSubmitAttempt_UnansweredQuestionScoresZero(t *testing.T) {
	f := newAttemptFixture(t, 3)

	result, err := f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{
		Answers: map[uint]int{f.q60.ID: 0},
	})
	require.NoError(t, err)
	require.Equal(t, 60, result.Score)

	var q40Result *dto.QuestionResultDTO
	for i := range result.Results {
		if result.Results[i].QuestionID == f.q40.ID {
			q40Result = &result.Results[i]
		}
	}
	require.NotNil(t, q40Result)
	require.False(t, q40Result.IsCorrect)
	require.Nil(t, q40Result.SubmittedIndex)
	require.Equal(t, 0, q40Result.EarnedPoints)
}

func TestSubmitAttempt_ExhaustsAfterMax(t *testing.T) {
	f := newAttemptFixture(t, 1)

	_, err := f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{
		Answers: map[uint]int{f.q60.ID: 0},
	})
	require.NoError(t, err)

	_, err = f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{
		Answers: map[uint]int{f.q60.ID: 0},
	})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.KindAttemptsExhausted, ae.Kind)
	require.Equal(t, 1, ae.AttemptsUsed)
	require.Equal(t, 1, ae.MaxAttempts)

	_, err = f.svc.StartAttempt(student, f.quiz.ID)
	require.Equal(t, apperr.KindAttemptsExhausted, apperr.KindOf(err))
}

func TestSubmitAttempt_ConcurrentSubmissionsRespectMax(t *testing.T) {
	const parallel = 5
	const maxAttempts = 3
	f := newAttemptFixture(t, maxAttempts)

	answers := dto.AttemptSubmitDTO{Answers: map[uint]int{f.q60.ID: 0}}
	errs := make(chan error, parallel)

	var wg sync.WaitGroup
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.SubmitAttempt(student, f.quiz.ID, answers)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, exhausted := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case apperr.KindOf(err) == apperr.KindAttemptsExhausted:
			exhausted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, maxAttempts, successes)
	require.Equal(t, parallel-maxAttempts, exhausted)

	var count int64
	require.NoError(t, f.db.Model(&model.Attempt{}).
		Where("quiz_id = ? AND user_id = ?", f.quiz.ID, studentID).
		Count(&count).Error)
	require.EqualValues(t, maxAttempts, count)
}

func TestRecordedScoreSurvivesAnswerKeyEdit(t *testing.T) {
	f := newAttemptFixture(t, 3)

	result, err := f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{
		Answers: map[uint]int{f.q60.ID: 0, f.q40.ID: 1},
	})
	require.NoError(t, err)
	require.Equal(t, 100, result.Score)

	// Instructor flips the answer key afterwards.
	require.NoError(t, f.db.Model(f.q60).Update("correct_index", 2).Error)

	attempts, err := f.svc.ListMyAttempts(student, f.quiz.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	require.Equal(t, 100, attempts[0].Score) // history is fixed
	require.True(t, attempts[0].Passed)

	// New submissions grade against the edited key.
	result, err = f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{
		Answers: map[uint]int{f.q60.ID: 0, f.q40.ID: 1},
	})
	require.NoError(t, err)
	require.Equal(t, 40, result.Score)
}

func TestListMyAttempts_NewestFirst(t *testing.T) {
	f := newAttemptFixture(t, 3)

	for i := 0; i < 3; i++ {
		_, err := f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{
			Answers: map[uint]int{f.q60.ID: 0},
		})
		require.NoError(t, err)
	}

	attempts, err := f.svc.ListMyAttempts(student, f.quiz.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	require.Equal(t, 3, attempts[0].AttemptNo)
	require.Equal(t, 2, attempts[1].AttemptNo)
	require.Equal(t, 1, attempts[2].AttemptNo)
}

func TestQuizStatistics_Aggregates(t *testing.T) {
	f := newAttemptFixture(t, 3)

	// Two more enrolled students, one of whom never attempts.
	second := auth.Principal{ID: 6, Role: auth.RoleStudent}
	testhelper.SeedEnrollment(t, f.db, f.quiz.CourseID, second.ID)
	testhelper.SeedEnrollment(t, f.db, f.quiz.CourseID, 7)

	// student: 100 (pass), 60 (fail); second: 60 (fail).
	_, err := f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{
		Answers: map[uint]int{f.q60.ID: 0, f.q40.ID: 1},
	})
	require.NoError(t, err)
	_, err = f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{
		Answers: map[uint]int{f.q60.ID: 0},
	})
	require.NoError(t, err)
	_, err = f.svc.SubmitAttempt(second, f.quiz.ID, dto.AttemptSubmitDTO{
		Answers: map[uint]int{f.q60.ID: 0},
	})
	require.NoError(t, err)

	stats, err := f.svc.QuizStatistics(owner, f.quiz.ID)
	require.NoError(t, err)
	require.Equal(t, 3, stats.AttemptCount)
	require.Equal(t, 2, stats.DistinctUsers)
	require.Equal(t, 3, stats.EnrolledUsers)
	require.InDelta(t, (100.0+60.0+60.0)/3.0, stats.AverageScore, 1e-9)
	require.InDelta(t, 2.0/3.0, stats.CompletionRate, 1e-9)
	require.InDelta(t, 1.0/3.0, stats.PassRate, 1e-9)
	require.Len(t, stats.Attempts, 3)

	// Reporting is owner/admin only.
	_, err = f.svc.QuizStatistics(otherTeacher, f.quiz.ID)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	_, err = f.svc.QuizStatistics(student, f.quiz.ID)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestSubmitAttempt_RequiresEnrollment(t *testing.T) {
	f := newAttemptFixture(t, 3)

	// Enrollment deactivated between start and submit.
	require.NoError(t, f.db.Model(&model.Enrollment{}).
		Where("user_id = ?", studentID).
		Update("is_active", false).Error)

	_, err := f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{
		Answers: map[uint]int{f.q60.ID: 0},
	})
	require.Equal(t, apperr.KindNotEnrolled, apperr.KindOf(err))
}

func TestSubmitAttempt_EmptyAnswerSheetIsValid(t *testing.T) {
	f := newAttemptFixture(t, 3)

	result, err := f.svc.SubmitAttempt(student, f.quiz.ID, dto.AttemptSubmitDTO{})
	require.NoError(t, err)
	require.Equal(t, 0, result.Score)
	require.False(t, result.Passed)
	require.Len(t, result.Results, 2)
}
