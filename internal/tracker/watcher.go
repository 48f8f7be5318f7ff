package tracker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xaenox/thread-tracker/internal/models"
	"github.com/xaenox/thread-tracker/internal/platform"
)

const (
	watcherEmbedTitle = "Watching threads"
	watcherEmbedColor = 0x9B59B6
)

// RefreshWatchers re-renders every stored watcher message. A failure listing
// the watchers aborts the sweep; a failure updating any single watcher is
// logged and does not affect the others. At most MaxConcurrentUpdates
// watchers are updated at once.
func (t *Tracker) RefreshWatchers(ctx context.Context) error {
	watchers, err := t.store.ListWatchers(ctx)
	if err != nil {
		return fmt.Errorf("error listing watchers: %w", err)
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(t.opts.MaxConcurrentUpdates)

	for _, watcher := range watchers {
		w := watcher
		group.Go(func() error {
			if err := t.refreshWatcher(ctx, w); err != nil {
				t.logger.Warn("Failed to update watcher message",
					zap.Int("watcher_id", w.ID),
					zap.String("channel_id", w.ChannelID),
					zap.String("message_id", w.MessageID),
					zap.Error(err))
			}
			return nil
		})
	}

	return group.Wait()
}

func (t *Tracker) refreshWatcher(ctx context.Context, watcher models.ThreadWatcher) error {
	if _, err := t.client.FetchMessage(ctx, watcher.ChannelID, watcher.MessageID); err != nil {
		return t.handleMissingWatcherMessage(ctx, watcher, err)
	}

	content, err := t.renderWatcherList(ctx, watcher)
	if err != nil {
		return err
	}

	embed := platform.Embed{
		Title:       watcherEmbedTitle,
		Description: content,
		Color:       watcherEmbedColor,
		Footer:      fmt.Sprintf("Last updated: %s UTC", time.Now().UTC().Format("2006-01-02 15:04:05")),
	}

	if err := t.client.EditEmbed(ctx, watcher.ChannelID, watcher.MessageID, embed); err != nil {
		return fmt.Errorf("error editing watcher message: %w", err)
	}

	return nil
}

// handleMissingWatcherMessage drops the watcher record when its bound message
// no longer exists. Self-healing is disabled in debug setups so a shared
// database isn't mutated while testing against stale messages.
func (t *Tracker) handleMissingWatcherMessage(ctx context.Context, watcher models.ThreadWatcher, cause error) error {
	if !t.opts.SelfHealWatchers {
		t.logger.Debug("Watcher message not found, leaving record intact",
			zap.Int("watcher_id", watcher.ID),
			zap.Error(cause))
		return nil
	}

	t.logger.Info("Watcher message not found, deleting watcher",
		zap.Int("watcher_id", watcher.ID),
		zap.String("channel_id", watcher.ChannelID),
		zap.String("message_id", watcher.MessageID),
		zap.Error(cause))

	if _, err := t.store.RemoveWatcher(ctx, watcher.ID); err != nil {
		return fmt.Errorf("error removing orphaned watcher: %w", err)
	}

	return nil
}

func (t *Tracker) renderWatcherList(ctx context.Context, watcher models.ThreadWatcher) (string, error) {
	categories := watcher.CategoryFilter()

	threads, err := t.ThreadsInCategories(ctx, watcher.GuildID, watcher.UserID, categories)
	if err != nil {
		return "", err
	}

	todos, err := t.TodosInCategories(ctx, watcher.GuildID, watcher.UserID, categories)
	if err != nil {
		return "", err
	}

	muses, err := t.store.ListMuses(ctx, watcher.GuildID, watcher.UserID)
	if err != nil {
		return "", err
	}

	opts := ListOptions{}
	if value, ok, err := t.store.GetUserSetting(ctx, watcher.UserID, models.SettingTimestamps); err == nil && ok {
		opts.ShowTimestamps = value == "on"
	}

	return t.FormattedList(ctx, watcher.GuildID, watcher.UserID, threads, todos, muses, opts)
}
