package retrieval

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_SingleChunkWhenShort(t *testing.T) {
	chunks, err := Chunk("uno dos tres", 10, 2)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "uno dos tres", chunks[0])
}

func TestChunk_OverlapSharedBetweenWindows(t *testing.T) {
	words := make([]string, 10)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}

	chunks, err := Chunk(strings.Join(words, " "), 4, 2)
	require.NoError(t, err)

	// Step is 2, so windows start at 0, 2, 4, 6, 8.
	require.Len(t, chunks, 5)
	assert.Equal(t, "w0 w1 w2 w3", chunks[0])
	assert.Equal(t, "w2 w3 w4 w5", chunks[1])
	assert.Equal(t, "w8 w9", chunks[4])
}

func TestChunk_EmptyText(t *testing.T) {
	chunks, err := Chunk("   \n\t  ", 100, 10)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunk_OverlapMustBeSmallerThanSize(t *testing.T) {
	_, err := Chunk("uno dos", 10, 10)
	assert.Error(t, err)

	_, err = Chunk("uno dos", 10, 20)
	assert.Error(t, err)
}

func TestChunk_NormalizesWhitespace(t *testing.T) {
	chunks, err := Chunk("uno\n\ndos\t tres", 10, 0)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "uno dos tres", chunks[0])
}
