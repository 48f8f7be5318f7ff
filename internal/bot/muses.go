package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/models"
)

func (b *Bot) handleMuseAdd(ctx context.Context, inv invocation, args []string) {
	name := strings.Join(args, " ")
	if name == "" {
		b.replyError(ctx, inv.channelID, "Missing arguments",
			fmt.Sprintf("Please provide the muse name to register, for example: `%saddmuse Seren`.", commandPrefix))
		return
	}

	added, err := b.store.AddMuse(ctx, models.Muse{GuildID: inv.guildID, UserID: inv.userID, Name: name})
	if err != nil {
		b.logger.Error("Failed to add muse", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error registering muse", "Could not register the muse name.")
		return
	}

	if !added {
		b.replySuccess(ctx, inv.channelID, "Already registered",
			fmt.Sprintf("`%s` is already registered as one of your muses.", name))
		return
	}

	b.replySuccess(ctx, inv.channelID, "Muse registered",
		fmt.Sprintf("Replies from `%s` now count as yours.", name))
}

func (b *Bot) handleMuseRemove(ctx context.Context, inv invocation, args []string) {
	name := strings.Join(args, " ")
	if name == "" {
		b.replyError(ctx, inv.channelID, "Missing arguments",
			fmt.Sprintf("Please provide the muse name to remove, for example: `%sremovemuse Seren`.", commandPrefix))
		return
	}

	removed, err := b.store.RemoveMuse(ctx, inv.guildID, inv.userID, name)
	if err != nil {
		b.logger.Error("Failed to remove muse", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error removing muse", "Could not remove the muse name.")
		return
	}

	if removed == 0 {
		b.replyError(ctx, inv.channelID, "Not found",
			fmt.Sprintf("`%s` is not registered as one of your muses.", name))
		return
	}

	b.replySuccess(ctx, inv.channelID, "Muse removed",
		fmt.Sprintf("`%s` is no longer registered.", name))
}

func (b *Bot) handleMuses(ctx context.Context, inv invocation) {
	muses, err := b.store.ListMuses(ctx, inv.guildID, inv.userID)
	if err != nil {
		b.logger.Error("Failed to list muses", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error listing muses", "Could not load your registered muses.")
		return
	}

	if len(muses) == 0 {
		b.replySuccess(ctx, inv.channelID, "Registered muses", "You have no registered muses.")
		return
	}

	var list strings.Builder
	for _, muse := range muses {
		fmt.Fprintf(&list, "- %s\n", muse)
	}

	b.replySuccess(ctx, inv.channelID, "Registered muses", list.String())
}
