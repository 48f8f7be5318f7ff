package bot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// runPeriodicTasks starts the background loops and blocks until the context
// is done. Each task catches and logs its own failures so a bad tick never
// terminates the loop.
func (b *Bot) runPeriodicTasks(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return b.periodic(ctx, "heartbeat", b.cfg.HeartbeatInterval, func(ctx context.Context) error {
			return b.heartbeat()
		})
	})

	group.Go(func() error {
		return b.periodic(ctx, "watcher_refresh", b.cfg.WatcherInterval, b.tracker.RefreshWatchers)
	})

	group.Go(func() error {
		return b.periodic(ctx, "scheduled_messages", b.cfg.ScheduleInterval, b.SendScheduledMessages)
	})

	group.Go(func() error {
		return b.periodic(ctx, "cache_purge", b.cfg.CachePurgeInterval, func(context.Context) error {
			b.tracker.Cache().PurgeExpired()
			return nil
		})
	})

	return group.Wait()
}

// periodic runs task at the given interval until the context is done. Ticks
// never overlap; a slow sweep simply delays the next one.
func (b *Bot) periodic(ctx context.Context, name string, interval time.Duration, task func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := task(ctx); err != nil {
				b.logger.Error("Periodic task failed",
					zap.String("task", name),
					zap.Error(err))
			}
		}
	}
}

// heartbeat refreshes the bot's presence, doubling as a gateway keep-alive.
func (b *Bot) heartbeat() error {
	err := b.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: string(discordgo.StatusOnline),
		Activities: []*discordgo.Activity{{
			Name: "over your threads (tt!help)",
			Type: discordgo.ActivityTypeWatching,
		}},
	})
	if err != nil {
		return err
	}

	b.logger.Debug("Heartbeat presence update completed")
	return nil
}
