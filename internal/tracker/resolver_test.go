package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/thread-tracker/internal/models"
	"github.com/xaenox/thread-tracker/internal/platform"
	"github.com/xaenox/thread-tracker/internal/storage"
)

func TestLastResponderUsesLastMessageID(t *testing.T) {
	client := newFakeClient()
	client.addChannel("c1", "g1", "the-thread", "m1")
	client.addMessage(&platform.Message{
		ID:        "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Author:    platform.User{ID: "u2", Name: "alice"},
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})

	tr := newTestTracker(client, storage.NewMemoryStorage())

	reply := tr.LastResponder(context.Background(), models.TrackedThread{ChannelID: "c1", GuildID: "g1", UserID: "u1"})
	require.NotNil(t, reply)
	assert.Equal(t, "u2", reply.Author.ID)
	assert.Equal(t, "alice", reply.Name)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), reply.Timestamp)
}

func TestLastResponderCachesFetchedMessage(t *testing.T) {
	client := newFakeClient()
	client.addChannel("c1", "g1", "the-thread", "m1")
	client.addMessage(&platform.Message{ID: "m1", ChannelID: "c1", Author: platform.User{ID: "u2", Name: "alice"}})

	tr := newTestTracker(client, storage.NewMemoryStorage())
	thread := models.TrackedThread{ChannelID: "c1", GuildID: "g1", UserID: "u1"}

	require.NotNil(t, tr.LastResponder(context.Background(), thread))
	require.NotNil(t, tr.LastResponder(context.Background(), thread))
	assert.Equal(t, 1, client.fetchMessageCalls)
}

func TestLastResponderFallsBackToRecentMessages(t *testing.T) {
	client := newFakeClient()
	// The channel reports a last message that no longer exists.
	client.addChannel("c1", "g1", "the-thread", "deleted")
	client.recent["c1"] = []*platform.Message{
		{ID: "m2", ChannelID: "c1", Author: platform.User{ID: "u3", Name: "bob"}},
	}

	tr := newTestTracker(client, storage.NewMemoryStorage())

	reply := tr.LastResponder(context.Background(), models.TrackedThread{ChannelID: "c1", GuildID: "g1", UserID: "u1"})
	require.NotNil(t, reply)
	assert.Equal(t, "bob", reply.Name)
}

func TestLastResponderNilForDirectMessageChannel(t *testing.T) {
	client := newFakeClient()
	client.addChannel("dm", "", "", "m1")

	tr := newTestTracker(client, storage.NewMemoryStorage())

	assert.Nil(t, tr.LastResponder(context.Background(), models.TrackedThread{ChannelID: "dm", UserID: "u1"}))
}

func TestLastResponderNilWhenNoMessages(t *testing.T) {
	client := newFakeClient()
	client.addChannel("c1", "g1", "the-thread", "")

	tr := newTestTracker(client, storage.NewMemoryStorage())

	assert.Nil(t, tr.LastResponder(context.Background(), models.TrackedThread{ChannelID: "c1", GuildID: "g1", UserID: "u1"}))
}

func TestDisplayNamePrefersGuildNickname(t *testing.T) {
	client := newFakeClient()
	client.addChannel("c1", "g1", "the-thread", "m1")
	client.addMessage(&platform.Message{ID: "m1", ChannelID: "c1", Author: platform.User{ID: "u2", Name: "alice"}})
	client.nicknames["g1/u2"] = "Lady Alice"

	tr := newTestTracker(client, storage.NewMemoryStorage())

	reply := tr.LastResponder(context.Background(), models.TrackedThread{ChannelID: "c1", GuildID: "g1", UserID: "u1"})
	require.NotNil(t, reply)
	assert.Equal(t, "Lady Alice", reply.Name)
}

func TestDisplayNameIgnoresNicknameForBots(t *testing.T) {
	client := newFakeClient()
	client.addChannel("c1", "g1", "the-thread", "m1")
	client.addMessage(&platform.Message{ID: "m1", ChannelID: "c1", Author: platform.User{ID: "b1", Name: "helper-bot", Bot: true}})
	client.nicknames["g1/b1"] = "Renamed Bot"

	tr := newTestTracker(client, storage.NewMemoryStorage())

	reply := tr.LastResponder(context.Background(), models.TrackedThread{ChannelID: "c1", GuildID: "g1", UserID: "u1"})
	require.NotNil(t, reply)
	assert.Equal(t, "helper-bot", reply.Name)
}
