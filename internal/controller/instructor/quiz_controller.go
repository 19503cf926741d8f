package instructor

import (
	"net/http"

	"github.com/campushq/eduportal/internal/controller"
	"github.com/campushq/eduportal/internal/dto"
	"github.com/campushq/eduportal/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	catalog  service.QuizCatalogService
	bank     service.QuestionBankService
	attempts service.AttemptService
}

func NewQuizController(
	catalog service.QuizCatalogService,
	bank service.QuestionBankService,
	attempts service.AttemptService,
) *QuizController {
	return &QuizController{catalog: catalog, bank: bank, attempts: attempts}
}

// CreateQuiz godoc
// @Summary (Instructor) Create a quiz in a course
// @Description Creates a quiz. Duration, passing score and max attempts fall back to defaults (30 min, 70%, 3) when omitted.
// @Tags Instructor - Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "Course ID"
// @Param quiz body dto.QuizCreateDTO true "Quiz fields"
// @Success 201 {object} dto.QuizResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /instructor/courses/{course_id}/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	courseID, ok := controller.UintParam(ctx, "course_id")
	if !ok {
		return
	}

	var req dto.QuizCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuiz: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: []string{err.Error()}})
		return
	}

	quiz, err := c.catalog.CreateQuiz(p, courseID, req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, quiz)
}

// ListQuizzes godoc
// @Summary (Instructor) List quizzes of a course with attempt aggregates
// @Tags Instructor - Quizzes
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "Course ID"
// @Success 200 {array} dto.QuizSummaryDTO
// @Failure 403 {object} dto.ErrorResponse
// @Router /instructor/courses/{course_id}/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	courseID, ok := controller.UintParam(ctx, "course_id")
	if !ok {
		return
	}

	quizzes, err := c.catalog.ListQuizzes(p, courseID)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}

// UpdateQuiz godoc
// @Summary (Instructor) Update quiz metadata
// @Description Partial update; omitted fields are left untouched.
// @Tags Instructor - Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Param quiz body dto.QuizUpdateDTO true "Fields to update"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/quizzes/{quiz_id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	quizID, ok := controller.UintParam(ctx, "quiz_id")
	if !ok {
		return
	}

	var req dto.QuizUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: []string{err.Error()}})
		return
	}

	quiz, err := c.catalog.UpdateQuiz(p, quizID, req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary (Instructor) Delete a quiz
// @Description Refused while attempts reference the quiz; deactivate instead.
// @Tags Instructor - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Attempts exist"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/quizzes/{quiz_id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	quizID, ok := controller.UintParam(ctx, "quiz_id")
	if !ok {
		return
	}

	if err := c.catalog.DeleteQuiz(p, quizID); err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ReplaceQuestions godoc
// @Summary (Instructor) Replace the full question set of a quiz
// @Description Atomically discards the existing set and installs the new one. Fails when the incoming points exceed the 100-point budget; the prior set stays untouched.
// @Tags Instructor - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Param questions body dto.QuestionBatchDTO true "Full ordered question set"
// @Success 200 {array} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Points budget exceeded"
// @Router /instructor/quizzes/{quiz_id}/questions [put]
func (c *QuizController) ReplaceQuestions(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	quizID, ok := controller.UintParam(ctx, "quiz_id")
	if !ok {
		return
	}

	var req dto.QuestionBatchDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: []string{err.Error()}})
		return
	}

	questions, err := c.bank.ReplaceAll(p, quizID, req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// AppendQuestions godoc
// @Summary (Instructor) Append questions to a quiz
// @Description Continues the order sequence. Fails when existing plus incoming points exceed the 100-point budget.
// @Tags Instructor - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Param questions body dto.QuestionBatchDTO true "Questions to append"
// @Success 200 {array} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Points budget exceeded"
// @Router /instructor/quizzes/{quiz_id}/questions [post]
func (c *QuizController) AppendQuestions(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	quizID, ok := controller.UintParam(ctx, "quiz_id")
	if !ok {
		return
	}

	var req dto.QuestionBatchDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: []string{err.Error()}})
		return
	}

	questions, err := c.bank.Append(p, quizID, req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// ListQuestions godoc
// @Summary (Instructor) List a quiz's questions with answer keys
// @Tags Instructor - Questions
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {array} dto.QuestionResponseDTO
// @Failure 403 {object} dto.ErrorResponse
// @Router /instructor/quizzes/{quiz_id}/questions [get]
func (c *QuizController) ListQuestions(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	quizID, ok := controller.UintParam(ctx, "quiz_id")
	if !ok {
		return
	}

	questions, err := c.bank.ListQuestions(p, quizID)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// DeleteQuestion godoc
// @Summary (Instructor) Delete a question
// @Description Remaining order values are not renumbered; recorded attempt scores are unaffected.
// @Tags Instructor - Questions
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/questions/{question_id} [delete]
func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	questionID, ok := controller.UintParam(ctx, "question_id")
	if !ok {
		return
	}

	if err := c.bank.RemoveQuestion(p, questionID); err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetQuizStatistics godoc
// @Summary (Instructor) Per-quiz attempts and aggregate statistics
// @Description Every attempt for the quiz plus average score, completion rate and pass rate.
// @Tags Instructor - Reporting
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.QuizStatisticsDTO
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/quizzes/{quiz_id}/attempts [get]
func (c *QuizController) GetQuizStatistics(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	quizID, ok := controller.UintParam(ctx, "quiz_id")
	if !ok {
		return
	}

	stats, err := c.attempts.QuizStatistics(p, quizID)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
