package retrieval

import (
	"fmt"
	"strings"
)

const (
	contextHeader = "=== CONTEXTO EXTRAÍDO DEL TDR ===\n"
	contextFooter = "\n\n=== FIN DEL CONTEXTO ==="
)

// BuildContext renders the retained fragments into a single textual payload
// for the model: a leading banner, one section header per non-empty category
// and a numbered fragment marker per chunk. Output is deterministic for a
// given FragmentSet.
func BuildContext(fragments FragmentSet) string {
	var parts []string
	parts = append(parts, contextHeader)

	for _, category := range Categories() {
		chunks := fragments[category]
		if len(chunks) == 0 {
			continue
		}
		label := strings.ToUpper(strings.ReplaceAll(string(category), "_", " "))
		parts = append(parts, "\n## "+label+":")
		for i, chunk := range chunks {
			parts = append(parts, fmt.Sprintf("\n[Fragmento %d]", i+1), chunk)
		}
	}

	parts = append(parts, contextFooter)
	return strings.Join(parts, "\n")
}
