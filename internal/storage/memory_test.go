package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/thread-tracker/internal/models"
)

func TestAddThreadUniqueness(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	thread := models.TrackedThread{GuildID: "g1", UserID: "u1", ChannelID: "c1", Category: "rp"}

	added, err := s.AddThread(ctx, thread)
	require.NoError(t, err)
	assert.True(t, added)

	// Same (user, guild, channel) tuple must not create a second row, even
	// with a different category.
	thread.Category = "other"
	added, err = s.AddThread(ctx, thread)
	require.NoError(t, err)
	assert.False(t, added)

	threads, err := s.ListThreads(ctx, "g1", "u1", nil)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "rp", threads[0].Category)
}

func TestRemoveAllThreadsByCategory(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	for _, th := range []models.TrackedThread{
		{GuildID: "g1", UserID: "u1", ChannelID: "c1", Category: "a"},
		{GuildID: "g1", UserID: "u1", ChannelID: "c2", Category: "a"},
		{GuildID: "g1", UserID: "u1", ChannelID: "c3", Category: "b"},
	} {
		_, err := s.AddThread(ctx, th)
		require.NoError(t, err)
	}

	category := "a"
	removed, err := s.RemoveAllThreads(ctx, "g1", "u1", &category)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	threads, err := s.ListThreads(ctx, "g1", "u1", nil)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "c3", threads[0].ChannelID)
}

func TestAddTodoMovesCategory(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	added, err := s.AddTodo(ctx, models.Todo{GuildID: "g1", UserID: "u1", Content: "write a starter"})
	require.NoError(t, err)
	assert.True(t, added)

	// Identical re-add has no effect.
	added, err = s.AddTodo(ctx, models.Todo{GuildID: "g1", UserID: "u1", Content: "write a starter"})
	require.NoError(t, err)
	assert.False(t, added)

	// Re-adding with a new category moves the entry.
	added, err = s.AddTodo(ctx, models.Todo{GuildID: "g1", UserID: "u1", Content: "write a starter", Category: "bob"})
	require.NoError(t, err)
	assert.True(t, added)

	todos, err := s.ListTodos(ctx, "g1", "u1", nil)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "bob", todos[0].Category)
}

func TestWatcherLifecycle(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	added, err := s.AddWatcher(ctx, models.ThreadWatcher{
		UserID: "u1", GuildID: "g1", ChannelID: "c1", MessageID: "m1", Categories: "a b",
	})
	require.NoError(t, err)
	assert.True(t, added)

	w, err := s.GetWatcher(ctx, "c1", "m1")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, []string{"a", "b"}, w.CategoryFilter())

	removed, err := s.RemoveWatcher(ctx, w.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	w, err = s.GetWatcher(ctx, "c1", "m1")
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestUserSettings(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	_, ok, err := s.GetUserSetting(ctx, "u1", "timestamps")
	require.NoError(t, err)
	assert.False(t, ok)

	changed, err := s.SetUserSetting(ctx, "u1", "timestamps", "on")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.SetUserSetting(ctx, "u1", "timestamps", "on")
	require.NoError(t, err)
	assert.False(t, changed, "setting an unchanged value reports no effect")

	value, ok, err := s.GetUserSetting(ctx, "u1", "timestamps")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "on", value)
}

func TestSubscribers(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	added, err := s.AddSubscriber(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddSubscriber(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, added)

	ok, err := s.IsSubscriber(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := s.RemoveSubscriber(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestScheduledMessages(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	id, err := s.AddScheduledMessage(ctx, models.ScheduledMessage{
		UserID:    "u1",
		ChannelID: "c1",
		Datetime:  "2030-01-01T00:00:00Z",
		Repeat:    "None",
		Title:     "reminder",
		Message:   "post the weekly summary",
	})
	require.NoError(t, err)

	repeat := "1w"
	updated, err := s.UpdateScheduledMessage(ctx, id, nil, &repeat, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, updated)

	msg, err := s.GetScheduledMessage(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "1w", msg.Repeat)
	assert.Equal(t, "reminder", msg.Title)

	require.NoError(t, s.ArchiveScheduledMessage(ctx, id))

	active, err := s.ListScheduledMessages(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := s.ListAllScheduledMessages(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Archived)
}
