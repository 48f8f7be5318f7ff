package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

func (b *Bot) handleStats(ctx context.Context, inv invocation) {
	stats, err := b.store.Statistics(ctx)
	if err != nil {
		b.logger.Error("Failed to gather statistics", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error gathering statistics", "Could not gather usage statistics.")
		return
	}

	var out strings.Builder
	fmt.Fprintf(&out, "**Users:** %d\n", stats.Users)
	fmt.Fprintf(&out, "**Servers:** %d\n", stats.Servers)
	fmt.Fprintf(&out, "**Unique threads tracked:** %d\n", stats.ThreadsDistinct)
	fmt.Fprintf(&out, "**Total threads tracked:** %d\n", stats.ThreadsTotal)
	fmt.Fprintf(&out, "**Muses:** %d\n", stats.Muses)
	fmt.Fprintf(&out, "**To do entries:** %d\n", stats.Todos)
	fmt.Fprintf(&out, "**Watchers:** %d\n", stats.Watchers)

	b.replySuccess(ctx, inv.channelID, "Usage statistics", out.String())
}
