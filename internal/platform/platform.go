// Package platform defines the capability contract the bot needs from the
// chat platform, plus the Discord implementation of it. The core tracking
// logic only ever sees these types, which keeps it testable against fakes.
package platform

import (
	"context"
	"time"
)

// User identifies a message author.
type User struct {
	ID   string
	Name string
	Bot  bool
}

// Channel is the subset of channel metadata the tracker cares about.
type Channel struct {
	ID            string
	GuildID       string
	Name          string
	LastMessageID string
}

// IsGuild reports whether the channel belongs to a server. Direct message
// channels have no guild.
func (c *Channel) IsGuild() bool {
	return c.GuildID != ""
}

// Message is a single chat message.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	Content   string
	Author    User
	Timestamp time.Time
}

// ThreadInfo describes an active thread in a guild.
type ThreadInfo struct {
	ID            string
	Name          string
	LastMessageID string
}

// ChannelMessage addresses a message within a channel; used as the message
// cache key.
type ChannelMessage struct {
	ChannelID string
	MessageID string
}

// Embed is a platform-agnostic rich message body.
type Embed struct {
	Title       string
	Description string
	Color       int
	Footer      string
}

// Client is the chat platform capability contract. All calls are fallible
// and may block on the network; implementations must honour the context.
type Client interface {
	FetchChannel(ctx context.Context, channelID string) (*Channel, error)
	FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error)
	FetchRecentMessages(ctx context.Context, channelID string, limit int) ([]*Message, error)
	SendEmbed(ctx context.Context, channelID string, embed Embed) (*Message, error)
	EditEmbed(ctx context.Context, channelID, messageID string, embed Embed) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendDirectMessage(ctx context.Context, userID, content string) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	GuildNickname(ctx context.Context, guildID, userID string) (string, error)
	ListActiveThreads(ctx context.Context, guildID string) ([]ThreadInfo, error)
}

// MessageLink renders the canonical URL for a message.
func MessageLink(guildID, channelID, messageID string) string {
	return "https://discord.com/channels/" + guildID + "/" + channelID + "/" + messageID
}

// ChannelLink renders the canonical URL for a channel or thread.
func ChannelLink(guildID, channelID string) string {
	return "https://discord.com/channels/" + guildID + "/" + channelID
}
