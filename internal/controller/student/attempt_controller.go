package student

import (
	"net/http"

	"github.com/campushq/eduportal/internal/controller"
	"github.com/campushq/eduportal/internal/dto"
	"github.com/campushq/eduportal/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	catalog  service.QuizCatalogService
	attempts service.AttemptService
}

func NewAttemptController(catalog service.QuizCatalogService, attempts service.AttemptService) *AttemptController {
	return &AttemptController{catalog: catalog, attempts: attempts}
}

// ListCourseQuizzes godoc
// @Summary (Student) List active quizzes of an enrolled course
// @Tags Student - Attempts
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "Course ID"
// @Success 200 {array} dto.QuizResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Router /courses/{course_id}/quizzes [get]
func (c *AttemptController) ListCourseQuizzes(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	courseID, ok := controller.UintParam(ctx, "course_id")
	if !ok {
		return
	}

	quizzes, err := c.catalog.ListActiveQuizzes(p, courseID)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}

// StartAttempt godoc
// @Summary (Student) Begin a quiz attempt
// @Description Returns quiz metadata and the question set with answer keys stripped. Issuing the set writes nothing; only submitting consumes an attempt.
// @Tags Student - Attempts
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.StartAttemptDTO
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 409 {object} dto.ErrorResponse "Quiz inactive or attempts exhausted"
// @Router /quizzes/{quiz_id}/attempts/start [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	quizID, ok := controller.UintParam(ctx, "quiz_id")
	if !ok {
		return
	}

	resp, err := c.attempts.StartAttempt(p, quizID)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAttempt godoc
// @Summary (Student) Submit answers for a quiz
// @Description Grades the answer sheet, records an immutable attempt, and returns the per-question review including correct indexes (safe to reveal only post-submission). A failed submission is never retried implicitly.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Param answers body dto.AttemptSubmitDTO true "Question ID to chosen option index; unanswered questions omitted"
// @Success 201 {object} dto.AttemptResultDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Failure 409 {object} dto.ErrorResponse "Attempts exhausted"
// @Router /quizzes/{quiz_id}/attempts [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	quizID, ok := controller.UintParam(ctx, "quiz_id")
	if !ok {
		return
	}

	var req dto.AttemptSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAttempt: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.attempts.SubmitAttempt(p, quizID, req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// ListMyAttempts godoc
// @Summary (Student) List own attempts for a quiz, newest first
// @Tags Student - Attempts
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Router /quizzes/{quiz_id}/my-attempts [get]
func (c *AttemptController) ListMyAttempts(ctx *gin.Context) {
	p, ok := controller.MustPrincipal(ctx)
	if !ok {
		return
	}
	quizID, ok := controller.UintParam(ctx, "quiz_id")
	if !ok {
		return
	}

	attempts, err := c.attempts.ListMyAttempts(p, quizID)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}
