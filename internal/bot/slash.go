package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// slashCommands mirrors the prefix command surface. Each command takes a
// single free-form arguments option parsed by the same grammar as the
// prefix form.
var slashCommands = []struct {
	name        string
	description string
	needsArgs   bool
}{
	{"track", "Track new threads, optionally preceded by a category", true},
	{"untrack", "Stop tracking threads, categories, or everything", true},
	{"category", "Change the category of already-tracked threads", true},
	{"threads", "List tracked threads and to do entries", true},
	{"pending", "List threads awaiting your reply", true},
	{"random", "Pick a random thread awaiting your reply", true},
	{"watch", "Post a thread list that keeps itself up to date", true},
	{"unwatch", "Delete a watched message and stop watching", true},
	{"watchers", "List your active watchers", false},
	{"todo", "Add a to do entry", true},
	{"done", "Complete a to do entry", true},
	{"todos", "List your to do entries", false},
	{"addmuse", "Register a muse name", true},
	{"removemuse", "Remove a registered muse name", true},
	{"muses", "List your registered muses", false},
	{"timestamps", "Toggle reply timestamps in thread lists", true},
	{"notify", "Toggle reply notification DMs", true},
	{"schedule", "Manage scheduled messages", true},
	{"timezone", "Set your timezone for scheduled messages", true},
	{"stats", "Show usage statistics", false},
	{"cleanup", "Untrack threads that no longer exist", false},
	{"help", "Show help", true},
}

func (b *Bot) registerSlashCommands() error {
	appID := b.botUserID()
	if appID == "" {
		return fmt.Errorf("session user unavailable, cannot register commands")
	}

	commands := make([]*discordgo.ApplicationCommand, 0, len(slashCommands))
	for _, sc := range slashCommands {
		cmd := &discordgo.ApplicationCommand{
			Name:        "tt_" + sc.name,
			Description: sc.description,
		}
		if sc.needsArgs {
			cmd.Options = []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "arguments",
				Description: "Command arguments, same syntax as the tt! prefix form",
			}}
		}
		commands = append(commands, cmd)
	}

	if _, err := b.session.ApplicationCommandBulkOverwrite(appID, "", commands); err != nil {
		return fmt.Errorf("error registering application commands: %w", err)
	}

	b.logger.Info("Registered slash commands", zap.Int("count", len(commands)))
	return nil
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	name := strings.TrimPrefix(data.Name, "tt_")

	var args []string
	for _, opt := range data.Options {
		if opt.Name == "arguments" && opt.Type == discordgo.ApplicationCommandOptionString {
			args = strings.Fields(opt.StringValue())
		}
	}

	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	} else if i.User != nil {
		userID = i.User.ID
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "On it!",
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Warn("Failed to acknowledge interaction",
			zap.String("command", data.Name),
			zap.Error(err))
	}

	if i.GuildID == "" {
		return
	}

	kind, ok := commandNames[name]
	if !ok {
		kind = cmdUnknown
	}

	b.dispatch(context.Background(), command{kind: kind, name: name, args: args}, invocation{
		guildID:   i.GuildID,
		channelID: i.ChannelID,
		userID:    userID,
	})
}
