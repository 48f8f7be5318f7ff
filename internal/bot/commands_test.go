package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		content string
		kind    commandKind
		args    []string
	}{
		{"tt!track rp https://discord.com/channels/1/2", cmdTrack, []string{"rp", "https://discord.com/channels/1/2"}},
		{"tt!add <#123>", cmdTrack, []string{"<#123>"}},
		{"tt!untrack all", cmdUntrack, []string{"all"}},
		{"tt!threads sort:newest", cmdThreads, []string{"sort:newest"}},
		{"tt!TODO !Bob write a starter", cmdTodoAdd, []string{"!Bob", "write", "a", "starter"}},
		{"tt!frobnicate", cmdUnknown, nil},
		{"tt!", cmdUnknown, nil},
	}

	for _, tt := range tests {
		cmd, ok := parseCommand(tt.content)
		require.True(t, ok, tt.content)
		assert.Equal(t, tt.kind, cmd.kind, tt.content)
		if tt.args != nil {
			assert.Equal(t, tt.args, cmd.args, tt.content)
		}
	}
}

func TestParseCommandHelpShortcut(t *testing.T) {
	cmd, ok := parseCommand("tt?muses")
	require.True(t, ok)
	assert.Equal(t, cmdHelp, cmd.kind)
	assert.Equal(t, []string{"muses"}, cmd.args)
}

func TestParseCommandIgnoresOrdinaryMessages(t *testing.T) {
	for _, content := range []string{"hello there", "ttrack stuff", "", "tt !help"} {
		_, ok := parseCommand(content)
		assert.False(t, ok, content)
	}
}
