package projects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "codeberg.org/lumina/server/internal/errors"
)

var allStatuses = []Status{StatusNew, StatusInProgress, StatusPaused, StatusCompleted, StatusCancelled}

func TestCanTransition_Table(t *testing.T) {
	allowed := map[Status][]Status{
		StatusNew:        {StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusCompleted, StatusPaused, StatusCancelled},
		StatusPaused:     {StatusInProgress},
		StatusCompleted:  {StatusInProgress},
		StatusCancelled:  {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := from == to
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}

			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestValidateTransition_Errors(t *testing.T) {
	err := ValidateTransition(StatusCancelled, StatusInProgress)

	var terr *apierrors.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "cancelled", terr.From)
	assert.Equal(t, "in_progress", terr.To)
	assert.Equal(t, "invalid status transition from 'cancelled' to 'in_progress'", err.Error())
	assert.Empty(t, terr.Allowed)

	err = ValidateTransition(StatusInProgress, StatusNew)
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, []string{"completed", "paused", "cancelled"}, terr.Allowed)

	err = ValidateTransition(StatusNew, Status("archived"))
	assert.True(t, apierrors.IsValidation(err))

	assert.NoError(t, ValidateTransition(StatusCancelled, StatusCancelled))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("paused")
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, s)

	_, err = ParseStatus("in progress")
	assert.True(t, apierrors.IsValidation(err))
}

func TestStatus_Next(t *testing.T) {
	next := StatusInProgress.Next()
	assert.Equal(t, []Status{StatusCompleted, StatusPaused, StatusCancelled}, next)

	next[0] = StatusNew
	assert.Equal(t, StatusCompleted, StatusInProgress.Next()[0], "Next must return a copy")

	assert.Empty(t, StatusCancelled.Next())
}
