package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIntoChunksShortContent(t *testing.T) {
	chunks := splitIntoChunks("hello\nworld\n", 100)
	assert.Equal(t, []string{"hello\nworld\n"}, chunks)
}

func TestSplitIntoChunksBreaksOnLines(t *testing.T) {
	content := strings.Repeat("aaaa\n", 10)

	chunks := splitIntoChunks(content, 12)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 12)
		assert.True(t, strings.HasSuffix(chunk, "\n"), "chunks end on line boundaries")
	}
	assert.Equal(t, content, strings.Join(chunks, ""))
}

func TestSplitIntoChunksHardCutsOverlongLine(t *testing.T) {
	content := strings.Repeat("x", 25)

	chunks := splitIntoChunks(content, 10)

	require.Len(t, chunks, 3)
	assert.Equal(t, content, strings.Join(chunks, ""))
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 10)
	}
}
