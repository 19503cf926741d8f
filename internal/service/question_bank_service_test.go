package service_test

import (
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

const (
	ownerID        uint = 10
	otherTeacherID uint = 11
	studentID      uint = 5
)

var (
	owner        = auth.Principal{ID: ownerID, Role: auth.RoleTeacher}
	otherTeacher = auth.Principal{ID: otherTeacherID, Role: auth.RoleTeacher}
	admin        = auth.Principal{ID: 1, Role: auth.RoleAdmin}
	student      = auth.Principal{ID: studentID, Role: auth.RoleStudent}
)

func newBank(t *testing.T) (service.QuestionBankService, *gorm.DB, *model.Quiz) {
	t.Helper()
	db := testhelper.NewTestDB(t)
	course := testhelper.SeedCourse(t, db, ownerID)
	quiz := testhelper.SeedQuiz(t, db, course.ID, 70, 3)

	bank := service.NewQuestionBankService(
		repository.NewQuizRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewCourseDirectory(db),
		db,
	)
	return bank, db, quiz
}

func batch(points ...int) dto.QuestionBatchDTO {
	var req dto.QuestionBatchDTO
	for _, p := range points {
		req.Questions = append(req.Questions, dto.QuestionInputDTO{
			Prompt:       "prompt",
			Options:      []string{"a", "b"},
			CorrectIndex: 0,
			Points:       p,
		})
	}
	return req
}

func pointTotal(t *testing.T, db *gorm.DB, quizID uint) int {
	t.Helper()
	var total int
	require.NoError(t, db.Model(&model.Question{}).
		Where("quiz_id = ?", quizID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error)
	return total
}

func TestReplaceAll_InstallsOrderedSet(t *testing.T) {
	bank, db, quiz := newBank(t)

	questions, err := bank.ReplaceAll(owner, quiz.ID, batch(60, 40))
	require.NoError(t, err)
	require.Len(t, questions, 2)
	require.Equal(t, 1, questions[0].OrderInQuiz)
	require.Equal(t, 2, questions[1].OrderInQuiz)
	require.Equal(t, 100, pointTotal(t, db, quiz.ID))

	// A second replace discards the first set entirely.
	questions, err = bank.ReplaceAll(owner, quiz.ID, batch(10))
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.Equal(t, 10, pointTotal(t, db, quiz.ID))
}

func TestReplaceAll_BudgetExceededLeavesSetUnchanged(t *testing.T) {
	bank, db, quiz := newBank(t)

	_, err := bank.ReplaceAll(owner, quiz.ID, batch(50, 45))
	require.NoError(t, err)

	_, err = bank.ReplaceAll(owner, quiz.ID, batch(60, 50))
	ae, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.KindBudgetExceeded, ae.Kind)
	require.Equal(t, 110, ae.WouldBeTotal)

	require.Equal(t, 95, pointTotal(t, db, quiz.ID))
}

func TestAppend_ContinuesOrderAndBudget(t *testing.T) {
	bank, db, quiz := newBank(t)

	_, err := bank.ReplaceAll(owner, quiz.ID, batch(30, 30))
	require.NoError(t, err)

	appended, err := bank.Append(owner, quiz.ID, batch(20))
	require.NoError(t, err)
	require.Len(t, appended, 1)
	require.Equal(t, 3, appended[0].OrderInQuiz)
	require.Equal(t, 80, pointTotal(t, db, quiz.ID))
}

func TestAppend_OverBudgetReportsWouldBeTotal(t *testing.T) {
	bank, db, quiz := newBank(t)

	_, err := bank.ReplaceAll(owner, quiz.ID, batch(50, 45))
	require.NoError(t, err)

	_, err = bank.Append(owner, quiz.ID, batch(10))
	ae, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.KindBudgetExceeded, ae.Kind)
	require.Equal(t, 105, ae.WouldBeTotal)

	// Existing 95-point set untouched.
	require.Equal(t, 95, pointTotal(t, db, quiz.ID))
	var count int64
	require.NoError(t, db.Model(&model.Question{}).Where("quiz_id = ?", quiz.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestAppend_ConcurrentAppendsHoldBudget(t *testing.T) {
	bank, db, quiz := newBank(t)

	_, err := bank.ReplaceAll(owner, quiz.ID, batch(40))
	require.NoError(t, err)

	// Four writers race to add 30 points each onto the existing 40. Only
	// two fit under the budget; the rest must fail, never overshoot.
	const writers = 4
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			_, err := bank.Append(owner, quiz.ID, batch(30))
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < writers; i++ {
		if err := <-errs; err == nil {
			succeeded++
		} else {
			require.Equal(t, apperr.KindBudgetExceeded, apperr.KindOf(err))
		}
	}

	require.Equal(t, 2, succeeded)
	require.Equal(t, 100, pointTotal(t, db, quiz.ID))
}

func TestRemoveQuestion_KeepsOrderGaps(t *testing.T) {
	bank, db, quiz := newBank(t)

	questions, err := bank.ReplaceAll(owner, quiz.ID, batch(20, 20, 20))
	require.NoError(t, err)

	require.NoError(t, bank.RemoveQuestion(owner, questions[1].ID))

	remaining, err := bank.ListQuestions(owner, quiz.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	require.Equal(t, 1, remaining[0].OrderInQuiz)
	require.Equal(t, 3, remaining[1].OrderInQuiz) // no renumbering
	require.Equal(t, 40, pointTotal(t, db, quiz.ID))

	// Appending after a delete continues past the highest surviving order.
	appended, err := bank.Append(owner, quiz.ID, batch(20))
	require.NoError(t, err)
	require.Equal(t, 4, appended[0].OrderInQuiz)
}

func TestQuestionBank_Authorization(t *testing.T) {
	bank, _, quiz := newBank(t)

	_, err := bank.ReplaceAll(otherTeacher, quiz.ID, batch(10))
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = bank.ReplaceAll(student, quiz.ID, batch(10))
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Admins may edit any quiz.
	_, err = bank.ReplaceAll(admin, quiz.ID, batch(10))
	require.NoError(t, err)
}

func TestReplaceAll_CorrectIndexOutOfRange(t *testing.T) {
	bank, _, quiz := newBank(t)

	req := dto.QuestionBatchDTO{Questions: []dto.QuestionInputDTO{{
		Prompt:       "prompt",
		Options:      []string{"a", "b"},
		CorrectIndex: 2,
		Points:       10,
	}}}
	_, err := bank.ReplaceAll(owner, quiz.ID, req)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// Negative indices are rejected too, independent of request binding.
	req.Questions[0].CorrectIndex = -1
	_, err = bank.ReplaceAll(owner, quiz.ID, req)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestQuestionBank_QuizNotFound(t *testing.T) {
	bank, _, _ := newBank(t)

	_, err := bank.ReplaceAll(owner, 9999, batch(10))
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
