package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRepeatDurationSimple(t *testing.T) {
	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2029, 12, 31, 0, 0, 0, 0, time.UTC)

	next, err := applyRepeatDuration("1w", from, now)
	require.NoError(t, err)
	// The scheduled time is already in the future, one application suffices.
	assert.Equal(t, from.AddDate(0, 0, 7), next)
}

func TestApplyRepeatDurationCatchesUpAfterDowntime(t *testing.T) {
	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2030, 1, 20, 0, 0, 0, 0, time.UTC)

	next, err := applyRepeatDuration("1w", from, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 1, 22, 0, 0, 0, 0, time.UTC), next)
	assert.True(t, next.After(now))
}

func TestApplyRepeatDurationMixedUnits(t *testing.T) {
	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	now := from.Add(-time.Hour)

	next, err := applyRepeatDuration("3d 12h", from, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 1, 4, 12, 0, 0, 0, time.UTC), next)
}

func TestApplyRepeatDurationCalendarUnits(t *testing.T) {
	from := time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC)
	now := from.Add(-time.Hour)

	next, err := applyRepeatDuration("1M", from, now)
	require.NoError(t, err)
	// AddDate normalises the overflowed day-of-month.
	assert.Equal(t, from.AddDate(0, 1, 0), next)
}

func TestApplyRepeatDurationErrors(t *testing.T) {
	from := time.Now().UTC()

	_, err := applyRepeatDuration("", from, from)
	assert.Error(t, err)

	_, err = applyRepeatDuration("soon", from, from)
	assert.Error(t, err)

	_, err = applyRepeatDuration("1fortnight", from, from)
	assert.Error(t, err)
}

func TestSplitTodoCategory(t *testing.T) {
	category, rest := splitTodoCategory([]string{"!Bob", "write", "a", "starter"})
	assert.Equal(t, "Bob", category)
	assert.Equal(t, []string{"write", "a", "starter"}, rest)

	category, rest = splitTodoCategory([]string{"write", "a", "starter"})
	assert.Empty(t, category)
	assert.Equal(t, []string{"write", "a", "starter"}, rest)
}
