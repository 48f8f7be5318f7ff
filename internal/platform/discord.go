package platform

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordClient adapts a discordgo session to the Client contract.
type DiscordClient struct {
	session *discordgo.Session
}

var _ Client = (*DiscordClient)(nil)

func NewDiscordClient(session *discordgo.Session) *DiscordClient {
	return &DiscordClient{session: session}
}

func (c *DiscordClient) FetchChannel(ctx context.Context, channelID string) (*Channel, error) {
	ch, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}

	return &Channel{
		ID:            ch.ID,
		GuildID:       ch.GuildID,
		Name:          ch.Name,
		LastMessageID: ch.LastMessageID,
	}, nil
}

func (c *DiscordClient) FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error) {
	msg, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %s in channel %s: %w", messageID, channelID, err)
	}

	return convertMessage(msg), nil
}

func (c *DiscordClient) FetchRecentMessages(ctx context.Context, channelID string, limit int) ([]*Message, error) {
	msgs, err := c.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages in channel %s: %w", channelID, err)
	}

	converted := make([]*Message, 0, len(msgs))
	for _, m := range msgs {
		converted = append(converted, convertMessage(m))
	}

	return converted, nil
}

func (c *DiscordClient) SendEmbed(ctx context.Context, channelID string, embed Embed) (*Message, error) {
	msg, err := c.session.ChannelMessageSendEmbed(channelID, convertEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}

	return convertMessage(msg), nil
}

func (c *DiscordClient) EditEmbed(ctx context.Context, channelID, messageID string, embed Embed) error {
	_, err := c.session.ChannelMessageEditEmbed(channelID, messageID, convertEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit message %s in channel %s: %w", messageID, channelID, err)
	}

	return nil
}

func (c *DiscordClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message %s in channel %s: %w", messageID, channelID, err)
	}

	return nil
}

func (c *DiscordClient) SendDirectMessage(ctx context.Context, userID, content string) error {
	dm, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel for user %s: %w", userID, err)
	}

	if _, err := c.session.ChannelMessageSend(dm.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send DM to user %s: %w", userID, err)
	}

	return nil
}

func (c *DiscordClient) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := c.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add reaction to message %s: %w", messageID, err)
	}

	return nil
}

// GuildNickname returns the user's nickname in the given guild, or an empty
// string when no nickname is set.
func (c *DiscordClient) GuildNickname(ctx context.Context, guildID, userID string) (string, error) {
	member, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to fetch member %s in guild %s: %w", userID, guildID, err)
	}

	return member.Nick, nil
}

func (c *DiscordClient) ListActiveThreads(ctx context.Context, guildID string) ([]ThreadInfo, error) {
	list, err := c.session.GuildThreadsActive(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list active threads in guild %s: %w", guildID, err)
	}

	threads := make([]ThreadInfo, 0, len(list.Threads))
	for _, t := range list.Threads {
		threads = append(threads, ThreadInfo{ID: t.ID, Name: t.Name, LastMessageID: t.LastMessageID})
	}

	return threads, nil
}

func convertMessage(m *discordgo.Message) *Message {
	var author User
	if m.Author != nil {
		author = User{ID: m.Author.ID, Name: m.Author.Username, Bot: m.Author.Bot}
	}

	return &Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
		Author:    author,
		Timestamp: m.Timestamp,
	}
}

func convertEmbed(e Embed) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}

	return embed
}
