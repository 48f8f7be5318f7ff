package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/platform"
)

func (b *Bot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == b.botUserID() {
		return
	}

	ctx := context.Background()

	// Fast path: messages in tracked channels are cached immediately so the
	// next list render skips the API round trip.
	if b.isTrackedChannel(m.ChannelID) {
		message := &platform.Message{
			ID:        m.ID,
			ChannelID: m.ChannelID,
			GuildID:   m.GuildID,
			Content:   m.Content,
			Author:    platform.User{ID: m.Author.ID, Name: m.Author.Username, Bot: m.Author.Bot},
			Timestamp: m.Timestamp,
		}
		b.tracker.CacheChannelMessage(message)
		go b.notifySubscribers(ctx, message)
	}

	cmd, ok := parseCommand(m.Content)
	if !ok {
		return
	}

	if m.GuildID == "" {
		b.replyError(ctx, m.ChannelID, "Server required", "Commands can only be used inside a server.")
		return
	}

	b.dispatch(ctx, cmd, invocation{
		guildID:   m.GuildID,
		channelID: m.ChannelID,
		userID:    m.Author.ID,
	})
}

// invocation carries the scope of a single command, independent of whether
// it arrived as a prefix message or a slash interaction.
type invocation struct {
	guildID   string
	channelID string
	userID    string
}

func (b *Bot) dispatch(ctx context.Context, cmd command, inv invocation) {
	b.logger.Debug("Dispatching command",
		zap.String("command", cmd.name),
		zap.Strings("args", cmd.args),
		zap.String("user_id", inv.userID),
		zap.String("guild_id", inv.guildID))

	switch cmd.kind {
	case cmdTrack:
		b.handleTrack(ctx, inv, cmd.args)
	case cmdUntrack:
		b.handleUntrack(ctx, inv, cmd.args)
	case cmdCategory:
		b.handleCategory(ctx, inv, cmd.args)
	case cmdThreads:
		b.handleThreads(ctx, inv, cmd.args)
	case cmdPending:
		b.handlePending(ctx, inv, cmd.args)
	case cmdRandom:
		b.handleRandom(ctx, inv, cmd.args)
	case cmdWatch:
		b.handleWatch(ctx, inv, cmd.args)
	case cmdUnwatch:
		b.handleUnwatch(ctx, inv, cmd.args)
	case cmdWatchers:
		b.handleWatchers(ctx, inv)
	case cmdTodoAdd:
		b.handleTodoAdd(ctx, inv, cmd.args)
	case cmdTodoDone:
		b.handleTodoDone(ctx, inv, cmd.args)
	case cmdTodos:
		b.handleTodos(ctx, inv)
	case cmdMuseAdd:
		b.handleMuseAdd(ctx, inv, cmd.args)
	case cmdMuseRemove:
		b.handleMuseRemove(ctx, inv, cmd.args)
	case cmdMuses:
		b.handleMuses(ctx, inv)
	case cmdTimestamps:
		b.handleTimestamps(ctx, inv, cmd.args)
	case cmdNotify:
		b.handleNotify(ctx, inv, cmd.args)
	case cmdSchedule:
		b.handleSchedule(ctx, inv, cmd.args)
	case cmdTimezone:
		b.handleTimezone(ctx, inv, cmd.args)
	case cmdStats:
		b.handleStats(ctx, inv)
	case cmdCleanup:
		b.handleCleanup(ctx, inv)
	case cmdHelp:
		b.handleHelp(ctx, inv, cmd.args)
	default:
		b.replyError(ctx, inv.channelID, "Unknown command",
			fmt.Sprintf("Unrecognised command `%s%s`. Use `%shelp` to see what I can do.", commandPrefix, cmd.name, commandPrefix))
	}
}

// notifySubscribers sends a DM to every subscribed user tracking the channel
// the message arrived in, except the message's own author.
func (b *Bot) notifySubscribers(ctx context.Context, message *platform.Message) {
	trackers, err := b.store.ListThreadTrackers(ctx, message.GuildID, message.ChannelID)
	if err != nil {
		b.logger.Warn("Failed to list thread trackers for notification",
			zap.String("channel_id", message.ChannelID),
			zap.Error(err))
		return
	}

	for _, userID := range trackers {
		if userID == message.Author.ID {
			continue
		}

		subscribed, err := b.store.IsSubscriber(ctx, userID)
		if err != nil {
			b.logger.Warn("Failed to check notification subscription",
				zap.String("user_id", userID),
				zap.Error(err))
			continue
		}
		if !subscribed {
			continue
		}

		content := fmt.Sprintf("New reply in a tracked thread: %s",
			platform.MessageLink(message.GuildID, message.ChannelID, message.ID))
		if err := b.client.SendDirectMessage(ctx, userID, content); err != nil {
			b.logger.Warn("Failed to send reply notification",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}
}
