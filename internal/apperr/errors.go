// Package apperr is the error taxonomy shared by the quiz services. Handlers
// map a Kind to an HTTP status; services attach enough context (attempts used,
// would-be point totals) for the client to correct course.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindForbidden         Kind = "FORBIDDEN"
	KindNotFound          Kind = "NOT_FOUND"
	KindBudgetExceeded    Kind = "BUDGET_EXCEEDED"
	KindQuizUnavailable   Kind = "QUIZ_UNAVAILABLE"
	KindNotEnrolled       Kind = "NOT_ENROLLED"
	KindAttemptsExhausted Kind = "ATTEMPTS_EXHAUSTED"
	KindValidation        Kind = "VALIDATION"
	KindPersistence       Kind = "PERSISTENCE"
)

type Error struct {
	Kind    Kind
	Message string

	// AttemptsUsed/MaxAttempts are set on KindAttemptsExhausted.
	AttemptsUsed int
	MaxAttempts  int

	// WouldBeTotal is set on KindBudgetExceeded: the point sum the rejected
	// write would have produced.
	WouldBeTotal int

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(msg string) *Error { return New(KindUnauthenticated, "%s", msg) }

func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func QuizUnavailable(quizID uint) *Error {
	return New(KindQuizUnavailable, "quiz %d is not available", quizID)
}

func NotEnrolled(userID, courseID uint) *Error {
	return New(KindNotEnrolled, "user %d is not actively enrolled in course %d", userID, courseID)
}

func AttemptsExhausted(used, max int) *Error {
	e := New(KindAttemptsExhausted, "attempts exhausted: %d of %d used", used, max)
	e.AttemptsUsed = used
	e.MaxAttempts = max
	return e
}

func BudgetExceeded(wouldBeTotal, budget int) *Error {
	e := New(KindBudgetExceeded, "question points would total %d, budget is %d", wouldBeTotal, budget)
	e.WouldBeTotal = wouldBeTotal
	return e
}

func Persistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

// KindOf extracts the Kind from err, unwrapping as needed. Unknown errors
// report KindPersistence so they surface as server faults, never as client
// mistakes.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindPersistence
}

// As is a convenience around errors.As for callers that need the context
// fields, not just the kind.
func As(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}
