package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/models"
)

// Todo categories are prefixed with "!" to distinguish them from the entry
// text, for example `tt!todo !Bob write a starter`.
func splitTodoCategory(args []string) (category string, rest []string) {
	if len(args) > 0 && strings.HasPrefix(args[0], "!") {
		return strings.TrimPrefix(args[0], "!"), args[1:]
	}
	return "", args
}

func (b *Bot) handleTodoAdd(ctx context.Context, inv invocation, args []string) {
	category, rest := splitTodoCategory(args)
	content := strings.Join(rest, " ")

	if content == "" {
		b.replyError(ctx, inv.channelID, "Missing arguments",
			fmt.Sprintf("Please provide the to do entry text, optionally preceded by a `!category`, for example: `%stodo !Bob write a starter`.", commandPrefix))
		return
	}

	added, err := b.store.AddTodo(ctx, models.Todo{
		GuildID:  inv.guildID,
		UserID:   inv.userID,
		Content:  content,
		Category: category,
	})
	if err != nil {
		b.logger.Error("Failed to add todo", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error adding to do entry", "Could not save your to do entry.")
		return
	}

	if !added {
		b.replySuccess(ctx, inv.channelID, "Already on your list",
			fmt.Sprintf("`%s` is already on your to do list.", content))
		return
	}

	title := "To do entry added"
	if category != "" {
		title = fmt.Sprintf("To do entry added to `%s`", category)
	}
	b.replySuccess(ctx, inv.channelID, title, fmt.Sprintf("- %s", content))
}

func (b *Bot) handleTodoDone(ctx context.Context, inv invocation, args []string) {
	if len(args) == 0 {
		b.replyError(ctx, inv.channelID, "Missing arguments",
			fmt.Sprintf("Please provide the entry text, a `!category`, or `!all`, for example: `%sdone write a starter`.", commandPrefix))
		return
	}

	// `tt!done !all` clears everything; `tt!done !category` clears a category.
	if strings.HasPrefix(args[0], "!") && len(args) == 1 {
		var category *string
		name := strings.TrimPrefix(args[0], "!")
		if !strings.EqualFold(name, "all") {
			category = &name
		}

		removed, err := b.store.RemoveAllTodos(ctx, inv.guildID, inv.userID, category)
		if err != nil {
			b.logger.Error("Failed to remove todos", zap.Error(err))
			b.replyError(ctx, inv.channelID, "Error removing to do entries", "Could not remove the requested entries.")
			return
		}

		b.replySuccess(ctx, inv.channelID, "To do entries removed",
			fmt.Sprintf("Removed %d to do entr(y/ies).", removed))
		return
	}

	content := strings.Join(args, " ")
	removed, err := b.store.RemoveTodo(ctx, inv.guildID, inv.userID, content)
	if err != nil {
		b.logger.Error("Failed to remove todo", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error removing to do entry", "Could not remove the requested entry.")
		return
	}

	if removed == 0 {
		b.replyError(ctx, inv.channelID, "Not found",
			fmt.Sprintf("`%s` is not on your to do list.", content))
		return
	}

	b.replySuccess(ctx, inv.channelID, "To do entry completed", fmt.Sprintf("- ~~%s~~", content))
}

func (b *Bot) handleTodos(ctx context.Context, inv invocation) {
	todos, err := b.store.ListTodos(ctx, inv.guildID, inv.userID, nil)
	if err != nil {
		b.logger.Error("Failed to list todos", zap.Error(err))
		b.replyError(ctx, inv.channelID, "Error listing to do entries", "Could not load your to do list.")
		return
	}

	if len(todos) == 0 {
		b.replySuccess(ctx, inv.channelID, "To do list", "There is nothing on your to do list.")
		return
	}

	var list strings.Builder
	for _, todo := range todos {
		if todo.Category != "" {
			fmt.Fprintf(&list, "- `%s` %s\n", todo.Category, todo.Content)
		} else {
			fmt.Fprintf(&list, "- %s\n", todo.Content)
		}
	}

	b.replySuccess(ctx, inv.channelID, "To do list", list.String())
}
