package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/thread-tracker/internal/models"
	"github.com/xaenox/thread-tracker/internal/platform"
	"github.com/xaenox/thread-tracker/internal/storage"
)

func pendingFixture(t *testing.T) (*fakeClient, storage.Storage, *Tracker) {
	t.Helper()

	client := newFakeClient()
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	// c1: someone else replied last.
	client.addChannel("c1", "g1", "alpha", "m1")
	client.addMessage(&platform.Message{ID: "m1", ChannelID: "c1", Author: platform.User{ID: "u2", Name: "alice"}})
	// c2: the tracking user replied last.
	client.addChannel("c2", "g1", "beta", "m2")
	client.addMessage(&platform.Message{ID: "m2", ChannelID: "c2", Author: platform.User{ID: "u1", Name: "me"}})
	// c3: one of the user's muses replied last.
	client.addChannel("c3", "g1", "gamma", "m3")
	client.addMessage(&platform.Message{ID: "m3", ChannelID: "c3", Author: platform.User{ID: "u4", Name: "Seren"}})
	// c4: no messages at all.
	client.addChannel("c4", "g1", "delta", "")

	for _, channelID := range []string{"c1", "c2", "c3", "c4"} {
		_, err := store.AddThread(ctx, models.TrackedThread{GuildID: "g1", UserID: "u1", ChannelID: channelID})
		require.NoError(t, err)
	}
	_, err := store.AddMuse(ctx, models.Muse{GuildID: "g1", UserID: "u1", Name: "Seren"})
	require.NoError(t, err)

	return client, store, newTestTracker(client, store)
}

func TestPendingThreads(t *testing.T) {
	_, _, tr := pendingFixture(t)

	pending, err := tr.PendingThreads(context.Background(), "g1", "u1", nil)
	require.NoError(t, err)

	require.Len(t, pending, 1)
	assert.Equal(t, "c1", pending[0].Thread.ChannelID)
	assert.Equal(t, "alice", pending[0].LastReply.Name)
}

func TestRandomPendingThread(t *testing.T) {
	_, _, tr := pendingFixture(t)

	picked, err := tr.RandomPendingThread(context.Background(), "g1", "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, picked)
	assert.Equal(t, "c1", picked.Thread.ChannelID)
}

func TestRandomPendingThreadEmpty(t *testing.T) {
	client := newFakeClient()
	tr := newTestTracker(client, storage.NewMemoryStorage())

	picked, err := tr.RandomPendingThread(context.Background(), "g1", "u1", nil)
	require.NoError(t, err)
	assert.Nil(t, picked)
}
