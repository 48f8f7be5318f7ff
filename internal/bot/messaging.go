package bot

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/platform"
)

// Embed colors, matching Discord's palette.
const (
	colorPurple  = 0x9B59B6
	colorRed     = 0xED4245
	colorBlurple = 0x5865F2
	colorPink    = 0xEB459E
)

// maxEmbedChars is Discord's embed description limit.
const maxEmbedChars = 4096

// splitIntoChunks splits content into pieces of at most limit characters,
// breaking on line boundaries. A single line longer than the limit becomes
// its own (hard-cut) chunk.
func splitIntoChunks(content string, limit int) []string {
	if len([]rune(content)) <= limit {
		return []string{content}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, line := range strings.SplitAfter(content, "\n") {
		lineLen := len([]rune(line))

		if lineLen > limit {
			if currentLen > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
				currentLen = 0
			}
			runes := []rune(line)
			for len(runes) > limit {
				chunks = append(chunks, string(runes[:limit]))
				runes = runes[limit:]
			}
			current.WriteString(string(runes))
			currentLen = len(runes)
			continue
		}

		if currentLen+lineLen > limit {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}

		current.WriteString(line)
		currentLen += lineLen
	}

	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// reply sends one or more embeds carrying the given content, chunked to fit
// the embed description limit. Returns the sent messages.
func (b *Bot) reply(ctx context.Context, channelID, title, description string, color int) []*platform.Message {
	var sent []*platform.Message
	for _, chunk := range splitIntoChunks(description, maxEmbedChars) {
		message, err := b.client.SendEmbed(ctx, channelID, platform.Embed{
			Title:       title,
			Description: chunk,
			Color:       color,
		})
		if err != nil {
			b.logger.Error("Failed to send reply embed",
				zap.String("channel_id", channelID),
				zap.String("title", title),
				zap.Error(err))
			return sent
		}
		sent = append(sent, message)
	}

	return sent
}

func (b *Bot) replySuccess(ctx context.Context, channelID, title, description string) []*platform.Message {
	return b.reply(ctx, channelID, title, description, colorPurple)
}

func (b *Bot) replyError(ctx context.Context, channelID, title, description string) {
	b.reply(ctx, channelID, title, description, colorRed)
}
