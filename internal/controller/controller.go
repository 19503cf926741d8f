// Package controller holds the helpers shared by the instructor and student
// HTTP handlers: taxonomy-to-status mapping and parameter parsing.
package controller

import (
	"net/http"
	"strconv"

	"github.com/campushq/eduportal/internal/apperr"
	"github.com/campushq/eduportal/internal/auth"
	"github.com/campushq/eduportal/internal/dto"
	"github.com/gin-gonic/gin"
)

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden, apperr.KindNotEnrolled:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindQuizUnavailable, apperr.KindAttemptsExhausted, apperr.KindBudgetExceeded:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders a service error as a structured refusal. Recoverable
// conditions keep their context fields; persistence faults are masked behind
// a generic message so store internals never leak to clients.
func WriteError(ctx *gin.Context, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "internal server error",
			Code:  string(apperr.KindPersistence),
		})
		return
	}

	resp := dto.ErrorResponse{Error: ae.Message, Code: string(ae.Kind)}
	switch ae.Kind {
	case apperr.KindAttemptsExhausted:
		used, max := ae.AttemptsUsed, ae.MaxAttempts
		resp.AttemptsUsed = &used
		resp.MaxAttempts = &max
	case apperr.KindBudgetExceeded:
		total := ae.WouldBeTotal
		resp.WouldBeTotal = &total
	case apperr.KindPersistence:
		resp.Error = "internal server error"
	}
	ctx.JSON(statusOf(ae.Kind), resp)
}

// UintParam parses a path parameter as an ID, writing a 400 response itself
// when the value is malformed.
func UintParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid " + name,
			Code:  string(apperr.KindValidation),
		})
		return 0, false
	}
	return uint(val), true
}

// MustPrincipal fetches the principal stored by the auth middleware, writing
// a 401 response when it is absent.
func MustPrincipal(ctx *gin.Context) (auth.Principal, bool) {
	p, ok := auth.FromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "authentication required",
			Code:  string(apperr.KindUnauthenticated),
		})
		return auth.Principal{}, false
	}
	return p, true
}
