package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/models"
	"github.com/xaenox/thread-tracker/internal/platform"
)

// LastReply describes the most recent message in a tracked thread: who sent
// it, the name they go by in the thread's guild, and when it was sent.
type LastReply struct {
	Author    platform.User
	Name      string
	Timestamp time.Time
}

// LastResponder resolves the most recent message in the thread and its
// author. Returns nil when the channel is unavailable, is not a guild
// channel, or holds no resolvable messages.
func (t *Tracker) LastResponder(ctx context.Context, thread models.TrackedThread) *LastReply {
	channel, err := t.client.FetchChannel(ctx, thread.ChannelID)
	if err != nil {
		t.logger.Debug("Could not fetch tracked channel",
			zap.String("channel_id", thread.ChannelID),
			zap.Error(err))
		return nil
	}
	if !channel.IsGuild() {
		return nil
	}

	var message *platform.Message
	if channel.LastMessageID != "" {
		key := platform.ChannelMessage{ChannelID: channel.ID, MessageID: channel.LastMessageID}
		cached, err := t.cache.GetOrElse(key, func() (*platform.Message, error) {
			return t.client.FetchMessage(ctx, key.ChannelID, key.MessageID)
		})
		if err == nil {
			message = cached
		}
	}

	// The platform's last_message_id pointer is unreliable after deletions,
	// so fall back to the most recent message that actually still exists.
	if message == nil {
		message = t.lastChannelMessage(ctx, channel.ID)
	}

	if message == nil {
		return nil
	}

	return &LastReply{
		Author:    message.Author,
		Name:      t.displayName(ctx, message.Author, thread.GuildID),
		Timestamp: message.Timestamp,
	}
}

func (t *Tracker) lastChannelMessage(ctx context.Context, channelID string) *platform.Message {
	messages, err := t.client.FetchRecentMessages(ctx, channelID, 1)
	if err != nil || len(messages) == 0 {
		return nil
	}

	return messages[0]
}

// displayName resolves the author's guild nickname, falling back to their
// username. Bot accounts always use their raw name.
func (t *Tracker) displayName(ctx context.Context, user platform.User, guildID string) string {
	if user.Bot {
		return user.Name
	}

	nick, err := t.client.GuildNickname(ctx, guildID, user.ID)
	if err != nil || nick == "" {
		return user.Name
	}

	return nick
}

// WarmChannelCache fetches and caches the channel's reported last message,
// if it isn't cached already. Used when tracking a new thread and when
// enumerating a guild's active threads ahead of a render.
func (t *Tracker) WarmChannelCache(ctx context.Context, channelID, lastMessageID string) {
	if lastMessageID == "" {
		return
	}

	key := platform.ChannelMessage{ChannelID: channelID, MessageID: lastMessageID}
	if t.cache.Contains(key) {
		return
	}

	if message, err := t.client.FetchMessage(ctx, channelID, lastMessageID); err == nil {
		t.cache.Store(key, message)
	}
}
