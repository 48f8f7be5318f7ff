package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/models"
	"github.com/xaenox/thread-tracker/internal/platform"
)

var messageURLPattern = regexp.MustCompile(`^https://discord\.com/channels/\d+/(\d+)/(\d+)/?$`)

// parseMessageRef extracts (channelID, messageID) from a message link.
func parseMessageRef(ref string) (channelID, messageID string, ok bool) {
	m := messageURLPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func (b *Bot) handleWatch(ctx context.Context, inv invocation, args []string) {
	categories, opts := b.listOptionsFromArgs(ctx, inv.userID, args)

	content, err := b.renderList(ctx, inv.guildID, inv.userID, categories, opts)
	if err != nil {
		b.logger.Error("Failed to render watcher list", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error creating watcher", "Could not build the initial thread list.")
		return
	}

	if len([]rune(content)) > maxEmbedChars {
		b.replyError(ctx, inv.channelID, "List too long",
			"Watched messages cannot span multiple messages. Please use categories to reduce the threads the new watcher must track.")
		return
	}

	sent := b.replySuccess(ctx, inv.channelID, "Watching threads", content)
	if len(sent) == 0 {
		b.replyError(ctx, inv.channelID, "Error creating watcher", "Could not create the watcher message.")
		return
	}

	watcher := models.ThreadWatcher{
		UserID:     inv.userID,
		GuildID:    inv.guildID,
		ChannelID:  sent[0].ChannelID,
		MessageID:  sent[0].ID,
		Categories: strings.Join(categories, " "),
	}

	added, err := b.store.AddWatcher(ctx, watcher)
	if err != nil || !added {
		b.logger.Error("Failed to record watcher",
			zap.String("message_id", watcher.MessageID),
			zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error creating watcher",
			"Something went wrong storing the watcher information, the data was not recorded.")
		return
	}

	b.logger.Info("Watcher created",
		zap.String("user_id", inv.userID),
		zap.String("message_id", watcher.MessageID),
		zap.String("categories", watcher.Categories))
}

func (b *Bot) handleUnwatch(ctx context.Context, inv invocation, args []string) {
	if len(args) != 1 {
		b.replyError(ctx, inv.channelID, "Missing arguments",
			fmt.Sprintf("Please provide the watched message's link, for example: `%sunwatch https://discord.com/channels/.../.../...`.", commandPrefix))
		return
	}

	channelID, messageID, ok := parseMessageRef(args[0])
	if !ok {
		b.replyError(ctx, inv.channelID, "Invalid message link",
			fmt.Sprintf("Could not parse a message link from `%s`.", args[0]))
		return
	}

	watcher, err := b.store.GetWatcher(ctx, channelID, messageID)
	if err != nil {
		b.logger.Error("Failed to look up watcher",
			zap.String("channel_id", channelID),
			zap.String("message_id", messageID),
			zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error removing watcher", "Could not look up the requested watcher.")
		return
	}
	if watcher == nil {
		b.replyError(ctx, inv.channelID, "Not found",
			fmt.Sprintf("Could not find a watcher for the target message: `%s`", args[0]))
		return
	}

	if watcher.UserID != inv.userID {
		b.replyError(ctx, inv.channelID, "Not yours to remove",
			"You can only remove watchers that you created.")
		return
	}

	removed, err := b.store.RemoveWatcher(ctx, watcher.ID)
	if err != nil {
		b.logger.Error("Failed to remove watcher", zap.Int("watcher_id", watcher.ID), zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error removing watcher", "Could not remove the watcher record.")
		return
	}
	if removed == 0 {
		b.logger.Error("Watcher missing during removal", zap.Int("watcher_id", watcher.ID))
	}

	if err := b.client.DeleteMessage(ctx, watcher.ChannelID, watcher.MessageID); err != nil {
		b.logger.Warn("Failed to delete watched message, it may already be gone",
			zap.String("message_id", watcher.MessageID),
			zap.Error(err))
	}

	b.replySuccess(ctx, inv.channelID, "Watcher removed",
		fmt.Sprintf("Watcher with id %d removed successfully.", watcher.ID))
}

func (b *Bot) handleWatchers(ctx context.Context, inv invocation) {
	watchers, err := b.store.ListGuildWatchers(ctx, inv.guildID, inv.userID)
	if err != nil {
		b.logger.Error("Failed to list watchers", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error listing watchers", "Could not load your watchers.")
		return
	}

	if len(watchers) == 0 {
		b.replySuccess(ctx, inv.channelID, "Currently active watchers", "You have no active watchers.")
		return
	}

	var list strings.Builder
	for _, watcher := range watchers {
		categories := watcher.Categories
		if categories == "" {
			categories = "All"
		}
		fmt.Fprintf(&list, "- Categories: %s - [Link](%s)\n",
			categories, platform.MessageLink(watcher.GuildID, watcher.ChannelID, watcher.MessageID))
	}

	b.replySuccess(ctx, inv.channelID, "Currently active watchers", list.String())
}
