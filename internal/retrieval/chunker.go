// Package retrieval selects the document fragments most relevant to a fixed
// set of analytical categories. It is a rule-based retrieval substitute: no
// embeddings, no vector index, a single deterministic pass over the text.
package retrieval

import (
	"fmt"
	"strings"
)

// Chunk splits text into word windows of chunkSize words, advancing by
// chunkSize-overlap words each step so adjacent chunks share overlap words.
func Chunk(text string, chunkSize, overlap int) ([]string, error) {
	step := chunkSize - overlap
	if step <= 0 {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", overlap, chunkSize)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	chunks := make([]string, 0, (len(words)+step-1)/step)
	for i := 0; i < len(words); i += step {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}

	return chunks, nil
}
