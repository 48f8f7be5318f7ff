package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/models"
	"github.com/xaenox/thread-tracker/internal/platform"
	"github.com/xaenox/thread-tracker/internal/tracker"
)

var (
	channelURLPattern     = regexp.MustCompile(`^https://discord\.com/channels/\d+/\d+/?$`)
	channelMentionPattern = regexp.MustCompile(`^<#(\d+)>$`)
	channelIDPattern      = regexp.MustCompile(`^\d+$`)
)

// parseChannelRef extracts a channel ID from a channel URL, a <#id> mention,
// or a bare numeric ID. Returns false for anything else.
func parseChannelRef(ref string) (string, bool) {
	if channelURLPattern.MatchString(ref) {
		parts := strings.Split(strings.TrimSuffix(ref, "/"), "/")
		return parts[len(parts)-1], true
	}
	if m := channelMentionPattern.FindStringSubmatch(ref); m != nil {
		return m[1], true
	}
	if channelIDPattern.MatchString(ref) {
		return ref, true
	}
	return "", false
}

func isChannelRef(arg string) bool {
	_, ok := parseChannelRef(arg)
	return ok
}

func (b *Bot) handleTrack(ctx context.Context, inv invocation, args []string) {
	// An optional leading category precedes the channel references.
	var category string
	if len(args) > 0 && !isChannelRef(args[0]) {
		category = args[0]
		args = args[1:]
	}

	if len(args) == 0 {
		b.replyError(ctx, inv.channelID, "Missing arguments",
			fmt.Sprintf("Please provide a thread or channel URL, such as: `%strack <#%s>`, optionally preceded by a category name.", commandPrefix, inv.channelID))
		return
	}

	var added, errors strings.Builder
	for _, ref := range args {
		channelID, ok := parseChannelRef(ref)
		if !ok {
			fmt.Fprintf(&errors, "- Could not parse channel reference: `%s`\n", ref)
			continue
		}

		channel, err := b.client.FetchChannel(ctx, channelID)
		if err != nil {
			fmt.Fprintf(&errors, "- Cannot access channel <#%s>\n", channelID)
			b.logger.Warn("Failed to fetch channel for tracking",
				zap.String("channel_id", channelID),
				zap.Error(err))
			continue
		}

		wasAdded, err := b.store.AddThread(ctx, models.TrackedThread{
			GuildID:   inv.guildID,
			UserID:    inv.userID,
			ChannelID: channelID,
			Category:  category,
		})
		if err != nil {
			fmt.Fprintf(&errors, "- Failed to track <#%s>\n", channelID)
			b.logger.Error("Failed to add tracked thread",
				zap.String("channel_id", channelID),
				zap.Error(err))
			continue
		}

		if wasAdded {
			fmt.Fprintf(&added, "- <#%s>\n", channelID)
			b.markTracked(channelID)
			b.tracker.WarmChannelCache(ctx, channel.ID, channel.LastMessageID)
		} else {
			fmt.Fprintf(&added, "- Skipped <#%s> as it is already being tracked\n", channelID)
		}
	}

	if errors.Len() > 0 {
		b.replyError(ctx, inv.channelID, "Error tracking threads", errors.String())
	}
	if added.Len() > 0 {
		title := "Tracked threads added"
		if category != "" {
			title = fmt.Sprintf("Tracked threads added to `%s`", category)
		}
		b.replySuccess(ctx, inv.channelID, title, added.String())
	}
}

func (b *Bot) handleUntrack(ctx context.Context, inv invocation, args []string) {
	if len(args) == 0 {
		b.replyError(ctx, inv.channelID, "Missing arguments",
			fmt.Sprintf("Please provide thread URLs, category names, or `all`, for example: `%suntrack <#%s>`.", commandPrefix, inv.channelID))
		return
	}

	if len(args) == 1 && strings.EqualFold(args[0], "all") {
		removed, err := b.store.RemoveAllThreads(ctx, inv.guildID, inv.userID, nil)
		if err != nil {
			b.logger.Error("Failed to untrack all threads", zap.Error(err))
			b.replyError(ctx, inv.channelID, "Error untracking threads", "Could not remove your tracked threads.")
			return
		}
		b.replySuccess(ctx, inv.channelID, "Tracked threads removed",
			fmt.Sprintf("Removed %d tracked thread(s).", removed))
		if err := b.rebuildTrackedSet(ctx); err != nil {
			b.logger.Warn("Failed to rebuild tracked channel set", zap.Error(err))
		}
		return
	}

	var removed, errors strings.Builder
	for _, arg := range args {
		if channelID, ok := parseChannelRef(arg); ok {
			count, err := b.store.RemoveThread(ctx, inv.guildID, inv.userID, channelID)
			if err != nil {
				fmt.Fprintf(&errors, "- Failed to untrack <#%s>\n", channelID)
				b.logger.Error("Failed to remove tracked thread",
					zap.String("channel_id", channelID),
					zap.Error(err))
				continue
			}
			if count == 0 {
				fmt.Fprintf(&errors, "- <#%s> is not currently being tracked\n", channelID)
				continue
			}
			fmt.Fprintf(&removed, "- <#%s>\n", channelID)
			b.unmarkTracked(ctx, inv.guildID, channelID)
			continue
		}

		// Not a channel reference: treat as a category name.
		category := arg
		count, err := b.store.RemoveAllThreads(ctx, inv.guildID, inv.userID, &category)
		if err != nil {
			fmt.Fprintf(&errors, "- Failed to untrack threads in category `%s`\n", category)
			b.logger.Error("Failed to remove threads by category",
				zap.String("category", category),
				zap.Error(err))
			continue
		}
		if count == 0 {
			fmt.Fprintf(&errors, "- No tracked threads in category `%s`\n", category)
			continue
		}
		fmt.Fprintf(&removed, "- %d thread(s) in category `%s`\n", count, category)
	}

	if errors.Len() > 0 {
		b.replyError(ctx, inv.channelID, "Error untracking threads", errors.String())
	}
	if removed.Len() > 0 {
		b.replySuccess(ctx, inv.channelID, "Tracked threads removed", removed.String())
		if err := b.rebuildTrackedSet(ctx); err != nil {
			b.logger.Warn("Failed to rebuild tracked channel set", zap.Error(err))
		}
	}
}

func (b *Bot) handleCategory(ctx context.Context, inv invocation, args []string) {
	if len(args) < 2 {
		b.replyError(ctx, inv.channelID, "Missing arguments",
			fmt.Sprintf("Please provide a category name and thread URLs, such as: `%scategory mycategory <#%s>`. Use `unset` or `none` to clear the category.", commandPrefix, inv.channelID))
		return
	}

	category := args[0]
	if strings.EqualFold(category, "unset") || strings.EqualFold(category, "none") {
		category = ""
	}

	var updated, errors strings.Builder
	for _, ref := range args[1:] {
		channelID, ok := parseChannelRef(ref)
		if !ok {
			fmt.Fprintf(&errors, "- Could not parse channel reference: `%s`\n", ref)
			continue
		}

		changed, err := b.store.UpdateThreadCategory(ctx, inv.guildID, inv.userID, channelID, category)
		if err != nil {
			fmt.Fprintf(&errors, "- Failed to update category for <#%s>\n", channelID)
			b.logger.Error("Failed to update thread category",
				zap.String("channel_id", channelID),
				zap.Error(err))
			continue
		}
		if !changed {
			fmt.Fprintf(&errors, "- <#%s> is not currently being tracked\n", channelID)
			continue
		}
		fmt.Fprintf(&updated, "- <#%s>\n", channelID)
	}

	if errors.Len() > 0 {
		b.replyError(ctx, inv.channelID, "Error updating categories", errors.String())
	}
	if updated.Len() > 0 {
		title := "Tracked threads' category cleared"
		if category != "" {
			title = fmt.Sprintf("Tracked threads' category set to `%s`", category)
		}
		b.replySuccess(ctx, inv.channelID, title, updated.String())
	}
}

// listOptionsFromArgs strips sort tokens from the argument list and returns
// the remaining categories with the parsed render options.
func (b *Bot) listOptionsFromArgs(ctx context.Context, userID string, args []string) ([]string, tracker.ListOptions) {
	opts := tracker.ListOptions{}

	var categories []string
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "sort:newest":
			opts.Sort = tracker.SortNewestFirst
		case "sort:oldest":
			opts.Sort = tracker.SortOldestFirst
		default:
			categories = append(categories, arg)
		}
	}

	if value, ok, err := b.store.GetUserSetting(ctx, userID, models.SettingTimestamps); err == nil && ok {
		opts.ShowTimestamps = value == "on"
	}

	return categories, opts
}

func (b *Bot) handleThreads(ctx context.Context, inv invocation, args []string) {
	categories, opts := b.listOptionsFromArgs(ctx, inv.userID, args)

	content, err := b.renderList(ctx, inv.guildID, inv.userID, categories, opts)
	if err != nil {
		b.logger.Error("Failed to render thread list", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error listing threads", "Could not build your thread list.")
		return
	}

	b.replySuccess(ctx, inv.channelID, "Currently tracked threads", content)
}

func (b *Bot) renderList(ctx context.Context, guildID, userID string, categories []string, opts tracker.ListOptions) (string, error) {
	threads, err := b.tracker.ThreadsInCategories(ctx, guildID, userID, categories)
	if err != nil {
		return "", err
	}

	todos, err := b.tracker.TodosInCategories(ctx, guildID, userID, categories)
	if err != nil {
		return "", err
	}

	muses, err := b.store.ListMuses(ctx, guildID, userID)
	if err != nil {
		return "", err
	}

	return b.tracker.FormattedList(ctx, guildID, userID, threads, todos, muses, opts)
}

func (b *Bot) handlePending(ctx context.Context, inv invocation, args []string) {
	pending, err := b.tracker.PendingThreads(ctx, inv.guildID, inv.userID, args)
	if err != nil {
		b.logger.Error("Failed to classify pending threads", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error listing pending threads", "Could not determine which threads await your reply.")
		return
	}

	if len(pending) == 0 {
		b.replySuccess(ctx, inv.channelID, "Pending threads", "No threads are currently awaiting your reply.")
		return
	}

	var list strings.Builder
	for _, p := range pending {
		fmt.Fprintf(&list, "- <#%s> — **%s**\n", p.Thread.ChannelID, p.LastReply.Name)
	}

	b.replySuccess(ctx, inv.channelID, "Threads awaiting your reply", list.String())
}

func (b *Bot) handleRandom(ctx context.Context, inv invocation, args []string) {
	picked, err := b.tracker.RandomPendingThread(ctx, inv.guildID, inv.userID, args)
	if err != nil {
		b.logger.Error("Failed to pick a random pending thread", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error picking a thread", "Could not pick a thread for you.")
		return
	}

	if picked == nil {
		b.replySuccess(ctx, inv.channelID, "Nothing to do",
			"You are all caught up! No tracked threads are waiting on you.")
		return
	}

	b.replySuccess(ctx, inv.channelID, "Your next thread",
		fmt.Sprintf("Reply to **%s** in %s", picked.LastReply.Name,
			platform.ChannelLink(picked.Thread.GuildID, picked.Thread.ChannelID)))
}

func (b *Bot) handleTimestamps(ctx context.Context, inv invocation, args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		b.replyError(ctx, inv.channelID, "Missing arguments",
			fmt.Sprintf("Use `%stimestamps on` or `%stimestamps off`.", commandPrefix, commandPrefix))
		return
	}

	if _, err := b.store.SetUserSetting(ctx, inv.userID, models.SettingTimestamps, args[0]); err != nil {
		b.logger.Error("Failed to store timestamp setting", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error saving setting", "Could not save your timestamp preference.")
		return
	}

	b.replySuccess(ctx, inv.channelID, "Setting saved",
		fmt.Sprintf("Timestamps in thread lists are now **%s**.", args[0]))
}

func (b *Bot) handleNotify(ctx context.Context, inv invocation, args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		b.replyError(ctx, inv.channelID, "Missing arguments",
			fmt.Sprintf("Use `%snotify on` or `%snotify off` to control reply notification DMs.", commandPrefix, commandPrefix))
		return
	}

	var err error
	if args[0] == "on" {
		_, err = b.store.AddSubscriber(ctx, inv.userID)
	} else {
		_, err = b.store.RemoveSubscriber(ctx, inv.userID)
	}
	if err != nil {
		b.logger.Error("Failed to update notification subscription", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error saving setting", "Could not update your notification subscription.")
		return
	}

	b.replySuccess(ctx, inv.channelID, "Setting saved",
		fmt.Sprintf("Reply notifications are now **%s**.", args[0]))
}
