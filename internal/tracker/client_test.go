package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/cache"
	"github.com/xaenox/thread-tracker/internal/platform"
	"github.com/xaenox/thread-tracker/internal/storage"
)

var errNotFound = errors.New("not found")

type recordedEdit struct {
	ChannelID string
	MessageID string
	Embed     platform.Embed
}

// fakeClient is an in-memory platform.Client for tests.
type fakeClient struct {
	mu sync.Mutex

	channels      map[string]*platform.Channel
	messages      map[platform.ChannelMessage]*platform.Message
	recent        map[string][]*platform.Message
	nicknames     map[string]string
	activeThreads map[string][]platform.ThreadInfo

	edits             []recordedEdit
	fetchMessageCalls int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		channels:      make(map[string]*platform.Channel),
		messages:      make(map[platform.ChannelMessage]*platform.Message),
		recent:        make(map[string][]*platform.Message),
		nicknames:     make(map[string]string),
		activeThreads: make(map[string][]platform.ThreadInfo),
	}
}

func (f *fakeClient) addChannel(id, guildID, name, lastMessageID string) {
	f.channels[id] = &platform.Channel{ID: id, GuildID: guildID, Name: name, LastMessageID: lastMessageID}
}

func (f *fakeClient) addMessage(m *platform.Message) {
	f.messages[platform.ChannelMessage{ChannelID: m.ChannelID, MessageID: m.ID}] = m
}

func (f *fakeClient) FetchChannel(_ context.Context, channelID string) (*platform.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.channels[channelID]; ok {
		return c, nil
	}
	return nil, errNotFound
}

func (f *fakeClient) FetchMessage(_ context.Context, channelID, messageID string) (*platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchMessageCalls++
	if m, ok := f.messages[platform.ChannelMessage{ChannelID: channelID, MessageID: messageID}]; ok {
		return m, nil
	}
	return nil, errNotFound
}

func (f *fakeClient) FetchRecentMessages(_ context.Context, channelID string, limit int) ([]*platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	messages := f.recent[channelID]
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

func (f *fakeClient) SendEmbed(_ context.Context, channelID string, _ platform.Embed) (*platform.Message, error) {
	return &platform.Message{ID: "sent", ChannelID: channelID}, nil
}

func (f *fakeClient) EditEmbed(_ context.Context, channelID, messageID string, embed platform.Embed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, recordedEdit{ChannelID: channelID, MessageID: messageID, Embed: embed})
	return nil
}

func (f *fakeClient) DeleteMessage(_ context.Context, _, _ string) error { return nil }

func (f *fakeClient) SendDirectMessage(_ context.Context, _, _ string) error { return nil }

func (f *fakeClient) AddReaction(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeClient) GuildNickname(_ context.Context, guildID, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if nick, ok := f.nicknames[guildID+"/"+userID]; ok {
		return nick, nil
	}
	return "", nil
}

func (f *fakeClient) ListActiveThreads(_ context.Context, guildID string) ([]platform.ThreadInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeThreads[guildID], nil
}

func newTestTracker(client *fakeClient, store storage.Storage) *Tracker {
	return New(store, client, cache.New[platform.ChannelMessage, *platform.Message](time.Hour), zap.NewNop(), Options{
		SelfHealWatchers:     true,
		MaxConcurrentUpdates: 2,
	})
}
