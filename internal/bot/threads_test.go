package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChannelRef(t *testing.T) {
	tests := []struct {
		ref       string
		channelID string
		ok        bool
	}{
		{"https://discord.com/channels/111/222", "222", true},
		{"https://discord.com/channels/111/222/", "222", true},
		{"<#333>", "333", true},
		{"444", "444", true},
		{"https://discord.com/channels/111/222/333", "", false},
		{"rp", "", false},
		{"<@555>", "", false},
	}

	for _, tt := range tests {
		channelID, ok := parseChannelRef(tt.ref)
		assert.Equal(t, tt.ok, ok, tt.ref)
		assert.Equal(t, tt.channelID, channelID, tt.ref)
	}
}

func TestParseMessageRef(t *testing.T) {
	channelID, messageID, ok := parseMessageRef("https://discord.com/channels/111/222/333")
	assert.True(t, ok)
	assert.Equal(t, "222", channelID)
	assert.Equal(t, "333", messageID)

	_, _, ok = parseMessageRef("https://discord.com/channels/111/222")
	assert.False(t, ok)

	_, _, ok = parseMessageRef("not a link")
	assert.False(t, ok)
}

func TestHelpTopic(t *testing.T) {
	title, _ := helpTopic("muses")
	assert.Equal(t, helpMusesTitle, title)

	title, _ = helpTopic("THREADS")
	assert.Equal(t, helpThreadsTitle, title)

	title, _ = helpTopic("")
	assert.Equal(t, helpMainTitle, title)

	title, _ = helpTopic("nonsense")
	assert.Equal(t, helpMainTitle, title)
}
