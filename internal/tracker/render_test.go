package tracker

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/thread-tracker/internal/models"
	"github.com/xaenox/thread-tracker/internal/platform"
	"github.com/xaenox/thread-tracker/internal/storage"
)

func TestFormattedListEmptySentinel(t *testing.T) {
	tr := newTestTracker(newFakeClient(), storage.NewMemoryStorage())

	out, err := tr.FormattedList(context.Background(), "g1", "u1", nil, nil, nil, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "No threads are currently being tracked.\n", out)
}

func TestFormattedListCategoryOrderingAndHeaders(t *testing.T) {
	client := newFakeClient()
	client.addChannel("c1", "g1", "uncategorised-thread", "")
	client.addChannel("c2", "g1", "b-thread", "")
	client.addChannel("c3", "g1", "a-thread", "")

	tr := newTestTracker(client, storage.NewMemoryStorage())

	threads := []models.TrackedThread{
		{ChannelID: "c2", GuildID: "g1", UserID: "u1", Category: "b"},
		{ChannelID: "c1", GuildID: "g1", UserID: "u1"},
		{ChannelID: "c3", GuildID: "g1", UserID: "u1", Category: "a"},
	}
	todos := []models.Todo{
		{Content: "categorised task", Category: "a"},
		{Content: "loose task"},
	}

	out, err := tr.FormattedList(context.Background(), "g1", "u1", threads, todos, nil, ListOptions{})
	require.NoError(t, err)

	// Uncategorised threads first and headerless, then categories ascending,
	// then uncategorised todos at the very end.
	uncategorised := strings.Index(out, "uncategorised-thread")
	headerA := strings.Index(out, "### a")
	headerB := strings.Index(out, "### b")
	todoSection := strings.Index(out, "## To Do")

	require.NotEqual(t, -1, uncategorised)
	require.NotEqual(t, -1, headerA)
	require.NotEqual(t, -1, headerB)
	require.NotEqual(t, -1, todoSection)
	assert.Less(t, uncategorised, headerA)
	assert.Less(t, headerA, headerB)
	assert.Less(t, headerB, todoSection)

	assert.NotContains(t, out[:todoSection], "loose task")
	assert.Contains(t, out[headerA:headerB], "categorised task")
}

func TestFormattedListBoldingRules(t *testing.T) {
	client := newFakeClient()
	client.addChannel("c1", "g1", "other", "m1")
	client.addMessage(&platform.Message{ID: "m1", ChannelID: "c1", Author: platform.User{ID: "u2", Name: "alice"}})
	client.addChannel("c2", "g1", "mine", "m2")
	client.addMessage(&platform.Message{ID: "m2", ChannelID: "c2", Author: platform.User{ID: "u1", Name: "me"}})
	client.addChannel("c3", "g1", "silent", "")

	tr := newTestTracker(client, storage.NewMemoryStorage())

	threads := []models.TrackedThread{
		{ChannelID: "c1", GuildID: "g1", UserID: "u1"},
		{ChannelID: "c2", GuildID: "g1", UserID: "u1"},
		{ChannelID: "c3", GuildID: "g1", UserID: "u1"},
	}

	out, err := tr.FormattedList(context.Background(), "g1", "u1", threads, nil, nil, ListOptions{})
	require.NoError(t, err)

	assert.Contains(t, out, "— **alice**")
	assert.Contains(t, out, "— me\n")
	assert.Contains(t, out, "— **No replies yet**")
}

func TestFormattedListMuseUnbolded(t *testing.T) {
	client := newFakeClient()
	client.addChannel("c1", "g1", "muse-thread", "m1")
	client.addMessage(&platform.Message{ID: "m1", ChannelID: "c1", Author: platform.User{ID: "u4", Name: "Seren"}})

	tr := newTestTracker(client, storage.NewMemoryStorage())

	threads := []models.TrackedThread{{ChannelID: "c1", GuildID: "g1", UserID: "u1"}}

	out, err := tr.FormattedList(context.Background(), "g1", "u1", threads, nil, []string{"Seren"}, ListOptions{})
	require.NoError(t, err)

	assert.Contains(t, out, "— Seren\n")
	assert.NotContains(t, out, "**Seren**")
}

func TestFormattedListTimestamps(t *testing.T) {
	client := newFakeClient()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	client.addChannel("c1", "g1", "stamped", "m1")
	client.addMessage(&platform.Message{ID: "m1", ChannelID: "c1", Author: platform.User{ID: "u2", Name: "alice"}, Timestamp: ts})

	tr := newTestTracker(client, storage.NewMemoryStorage())

	threads := []models.TrackedThread{{ChannelID: "c1", GuildID: "g1", UserID: "u1"}}

	out, err := tr.FormattedList(context.Background(), "g1", "u1", threads, nil, nil, ListOptions{ShowTimestamps: true})
	require.NoError(t, err)
	assert.Contains(t, out, "(<t:1714564800:R>)")
}

func TestFormattedListSortNewestFirst(t *testing.T) {
	client := newFakeClient()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	client.addChannel("cA", "g1", "older", "mA")
	client.addMessage(&platform.Message{ID: "mA", ChannelID: "cA", Author: platform.User{ID: "u2", Name: "alice"}, Timestamp: base})
	client.addChannel("cB", "g1", "newer", "mB")
	client.addMessage(&platform.Message{ID: "mB", ChannelID: "cB", Author: platform.User{ID: "u2", Name: "alice"}, Timestamp: base.Add(time.Hour)})
	client.addChannel("cC", "g1", "noreply", "")

	tr := newTestTracker(client, storage.NewMemoryStorage())

	threads := []models.TrackedThread{
		{ChannelID: "cA", GuildID: "g1", UserID: "u1"},
		{ChannelID: "cB", GuildID: "g1", UserID: "u1"},
		{ChannelID: "cC", GuildID: "g1", UserID: "u1"},
	}

	out, err := tr.FormattedList(context.Background(), "g1", "u1", threads, nil, nil, ListOptions{Sort: SortNewestFirst})
	require.NoError(t, err)

	newer := strings.Index(out, "newer")
	older := strings.Index(out, "older")
	noreply := strings.Index(out, "noreply")
	assert.Less(t, newer, older)
	assert.Less(t, older, noreply, "threads without replies sort last under newest-first")
}

func TestFormattedListLinkFallback(t *testing.T) {
	client := newFakeClient()
	// Channel exists for the resolver but has no name anywhere.
	client.addChannel("c1", "g1", "", "")

	tr := newTestTracker(client, storage.NewMemoryStorage())

	threads := []models.TrackedThread{{ChannelID: "c1", GuildID: "g1", UserID: "u1"}}

	out, err := tr.FormattedList(context.Background(), "g1", "u1", threads, nil, nil, ListOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "<#c1>")
}

func TestFormattedListUsesActiveThreadNames(t *testing.T) {
	client := newFakeClient()
	client.addChannel("c1", "g1", "stale-name", "")
	client.activeThreads["g1"] = []platform.ThreadInfo{{ID: "c1", Name: "fresh-name"}}

	tr := newTestTracker(client, storage.NewMemoryStorage())

	threads := []models.TrackedThread{{ChannelID: "c1", GuildID: "g1", UserID: "u1"}}

	out, err := tr.FormattedList(context.Background(), "g1", "u1", threads, nil, nil, ListOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "[**#fresh-name**](https://discord.com/channels/g1/c1)")
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", truncateName("short", threadNameMaxLength))

	exact := strings.Repeat("x", threadNameMaxLength)
	assert.Equal(t, exact, truncateName(exact, threadNameMaxLength))

	long := strings.Repeat("x", threadNameMaxLength+10)
	truncated := truncateName(long, threadNameMaxLength)
	assert.True(t, strings.HasSuffix(truncated, "…"))
	assert.LessOrEqual(t, len([]rune(truncated)), threadNameMaxLength)

	// Trailing whitespace before the cut point is trimmed.
	spaced := strings.Repeat("y", threadNameMaxLength-2) + "   tail"
	assert.Equal(t, strings.Repeat("y", threadNameMaxLength-2)+"…", truncateName(spaced, threadNameMaxLength))
}
