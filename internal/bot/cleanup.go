package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/models"
	"github.com/xaenox/thread-tracker/internal/platform"
)

const (
	confirmEmoji  = "🗑️"
	declineEmoji  = "🚫"
	cleanupWindow = 3 * time.Minute
)

// confirmWaiter is a pending reaction prompt. Only reactions from the user
// who triggered the prompt are forwarded.
type confirmWaiter struct {
	userID string
	ch     chan string
}

func (b *Bot) registerConfirm(key platform.ChannelMessage, userID string) chan string {
	waiter := &confirmWaiter{userID: userID, ch: make(chan string, 1)}
	b.confirmMu.Lock()
	b.confirms[key] = waiter
	b.confirmMu.Unlock()
	return waiter.ch
}

func (b *Bot) unregisterConfirm(key platform.ChannelMessage) {
	b.confirmMu.Lock()
	delete(b.confirms, key)
	b.confirmMu.Unlock()
}

func (b *Bot) onMessageReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	key := platform.ChannelMessage{ChannelID: r.ChannelID, MessageID: r.MessageID}

	b.confirmMu.Lock()
	waiter, ok := b.confirms[key]
	b.confirmMu.Unlock()

	if !ok || waiter.userID != r.UserID {
		return
	}

	select {
	case waiter.ch <- r.Emoji.Name:
	default:
	}
}

// handleCleanup finds tracked threads whose channels can no longer be
// fetched and offers to untrack them. The prompt expires after three
// minutes, which counts as declining.
func (b *Bot) handleCleanup(ctx context.Context, inv invocation) {
	threads, err := b.store.ListThreads(ctx, inv.guildID, inv.userID, nil)
	if err != nil {
		b.logger.Error("Failed to list threads for cleanup", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error running cleanup", "Could not load your tracked threads.")
		return
	}

	var stale []models.TrackedThread
	for _, thread := range threads {
		if _, err := b.client.FetchChannel(ctx, thread.ChannelID); err != nil {
			stale = append(stale, thread)
		}
	}

	if len(stale) == 0 {
		b.replySuccess(ctx, inv.channelID, "Nothing to clean up",
			"All of your tracked threads are still reachable.")
		return
	}

	var list strings.Builder
	fmt.Fprintf(&list, "The following %d thread(s) could not be fetched and may have been deleted:\n\n", len(stale))
	for _, thread := range stale {
		fmt.Fprintf(&list, "- <#%s>\n", thread.ChannelID)
	}
	fmt.Fprintf(&list, "\nReact with %s to untrack them, or %s to keep them.", confirmEmoji, declineEmoji)

	sent := b.replySuccess(ctx, inv.channelID, "Thread cleanup", list.String())
	if len(sent) == 0 {
		return
	}
	prompt := sent[len(sent)-1]

	key := platform.ChannelMessage{ChannelID: prompt.ChannelID, MessageID: prompt.ID}
	answers := b.registerConfirm(key, inv.userID)
	defer b.unregisterConfirm(key)

	for _, emoji := range []string{confirmEmoji, declineEmoji} {
		if err := b.client.AddReaction(ctx, prompt.ChannelID, prompt.ID, emoji); err != nil {
			b.logger.Warn("Failed to add prompt reaction", zap.Error(err))
		}
	}

	timer := time.NewTimer(cleanupWindow)
	defer timer.Stop()

	select {
	case emoji := <-answers:
		if emoji == confirmEmoji {
			b.finishCleanup(ctx, inv, stale, prompt)
			return
		}
		b.editPrompt(ctx, prompt, "Thread cleanup", "Cleanup cancelled, your tracked threads are unchanged.")
	case <-timer.C:
		b.editPrompt(ctx, prompt, "Thread cleanup", "Cleanup prompt timed out, your tracked threads are unchanged.")
	case <-ctx.Done():
	}
}

func (b *Bot) finishCleanup(ctx context.Context, inv invocation, stale []models.TrackedThread, prompt *platform.Message) {
	var removed int64
	for _, thread := range stale {
		count, err := b.store.RemoveThread(ctx, inv.guildID, inv.userID, thread.ChannelID)
		if err != nil {
			b.logger.Error("Failed to untrack stale thread",
				zap.String("channel_id", thread.ChannelID),
				zap.Error(err))
			continue
		}
		removed += count
		b.unmarkTracked(ctx, inv.guildID, thread.ChannelID)
	}

	b.editPrompt(ctx, prompt, "Thread cleanup complete",
		fmt.Sprintf("Untracked %d unreachable thread(s).", removed))
}

func (b *Bot) editPrompt(ctx context.Context, prompt *platform.Message, title, description string) {
	err := b.client.EditEmbed(ctx, prompt.ChannelID, prompt.ID, platform.Embed{
		Title:       title,
		Description: description,
		Color:       colorPurple,
	})
	if err != nil {
		b.logger.Warn("Failed to edit cleanup prompt", zap.Error(err))
	}
}
