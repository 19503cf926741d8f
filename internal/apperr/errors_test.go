package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/campushq/eduportal/internal/apperr"
	"github.com/stretchr/testify/require"
)

func TestKindOf_SurvivesWrapping(t *testing.T) {
	err := apperr.AttemptsExhausted(3, 3)
	wrapped := fmt.Errorf("submit failed: %w", err)

	require.Equal(t, apperr.KindAttemptsExhausted, apperr.KindOf(wrapped))

	ae, ok := apperr.As(wrapped)
	require.True(t, ok)
	require.Equal(t, 3, ae.AttemptsUsed)
	require.Equal(t, 3, ae.MaxAttempts)
}

func TestKindOf_UnknownErrorsAreServerFaults(t *testing.T) {
	require.Equal(t, apperr.KindPersistence, apperr.KindOf(errors.New("connection reset")))
}

func TestPersistence_UnwrapsCause(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := apperr.Persistence("recording attempt", cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "recording attempt")
}

func TestBudgetExceeded_CarriesWouldBeTotal(t *testing.T) {
	err := apperr.BudgetExceeded(105, 100)
	require.Equal(t, 105, err.WouldBeTotal)
	require.Contains(t, err.Error(), "105")
}
