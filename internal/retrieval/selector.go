package retrieval

import "regexp"

// Category is one of the fixed analytical sections of a TDR.
type Category string

const (
	CategoryRequisitos  Category = "requisitos"
	CategoryPenalidades Category = "penalidades"
	CategoryFormaPago   Category = "forma_pago"
	CategoryPlazos      Category = "plazos"
	CategoryPresupuesto Category = "presupuesto"
)

// Categories returns the fixed enumeration order. Selection tests categories
// in this order, so a chunk matching several categories is retained only
// under the first one that hits.
func Categories() []Category {
	return []Category{
		CategoryRequisitos,
		CategoryPenalidades,
		CategoryFormaPago,
		CategoryPlazos,
		CategoryPresupuesto,
	}
}

// sectionPatterns holds the ordered matching patterns per category. Patterns
// target the section headings and phrasing used in SEACE procurement
// documents.
var sectionPatterns = map[Category][]*regexp.Regexp{
	CategoryRequisitos: {
		regexp.MustCompile(`(?i)requisitos?\s+(?:del\s+)?(?:postor|proveedor|contratista)`),
		regexp.MustCompile(`(?i)condiciones?\s+(?:técnicas?|del\s+servicio)`),
		regexp.MustCompile(`(?i)especificaciones?\s+técnicas?`),
		regexp.MustCompile(`(?i)perfil\s+(?:del\s+)?(?:postor|proveedor)`),
		regexp.MustCompile(`(?i)experiencia\s+(?:requerida|mínima)`),
		regexp.MustCompile(`(?i)certificaciones?`),
		regexp.MustCompile(`(?i)calificaciones?`),
	},
	CategoryPenalidades: {
		regexp.MustCompile(`(?i)penalidad(?:es)?`),
		regexp.MustCompile(`(?i)multas?`),
		regexp.MustCompile(`(?i)sanciones?`),
		regexp.MustCompile(`(?i)incumplimiento`),
		regexp.MustCompile(`(?i)garantías?`),
		regexp.MustCompile(`(?i)responsabilidad\s+contractual`),
	},
	CategoryFormaPago: {
		regexp.MustCompile(`(?i)forma\s+de\s+pago`),
		regexp.MustCompile(`(?i)modalidad\s+de\s+pago`),
		regexp.MustCompile(`(?i)cronograma\s+de\s+pago`),
		regexp.MustCompile(`(?i)desembolsos?`),
		regexp.MustCompile(`(?i)facturación`),
		regexp.MustCompile(`(?i)pagos?\s+parciales?`),
	},
	CategoryPlazos: {
		regexp.MustCompile(`(?i)plazos?\s+(?:de\s+)?(?:ejecución|entrega|cumplimiento)`),
		regexp.MustCompile(`(?i)cronograma\s+(?:de\s+)?(?:ejecución|actividades)`),
		regexp.MustCompile(`(?i)duración\s+del\s+(?:contrato|servicio)`),
		regexp.MustCompile(`(?i)vigencia\s+(?:del\s+)?contrato`),
		regexp.MustCompile(`(?i)fecha\s+de\s+(?:inicio|término)`),
	},
	CategoryPresupuesto: {
		regexp.MustCompile(`(?i)(?:presupuesto|monto|valor)\s+(?:referencial|estimado|total)`),
		regexp.MustCompile(`(?i)s/\.?\s*\d+(?:,\d{3})*(?:\.\d{2})?`),
		regexp.MustCompile(`(?i)valor\s+(?:referencial|estimado)`),
		regexp.MustCompile(`(?i)costo\s+(?:total|estimado)`),
	},
}

// FragmentSet maps each category to its retained chunks, in discovery order.
type FragmentSet map[Category][]string

// Total returns the number of retained chunks across all categories.
func (fs FragmentSet) Total() int {
	n := 0
	for _, chunks := range fs {
		n += len(chunks)
	}
	return n
}

// fallbackChunkCount bounds the chunks distributed between the two default
// categories when no pattern matched anywhere in the document.
const fallbackChunkCount = 10

// Select retains up to topK chunks per category. For each chunk, patterns
// are tested in order and the first category that matches keeps the chunk;
// remaining categories are not tested for it. If no chunk matched any
// category, the first chunks of the document are split between requisitos
// and plazos so the model always receives some content.
func Select(chunks []string, topK int) FragmentSet {
	fragments := make(FragmentSet, len(sectionPatterns))
	for _, category := range Categories() {
		fragments[category] = nil
	}

	for _, chunk := range chunks {
		for _, category := range Categories() {
			if !matchesCategory(chunk, category) {
				continue
			}
			// The first category that hits consumes the chunk, even when
			// its list is already full.
			if len(fragments[category]) < topK {
				fragments[category] = append(fragments[category], chunk)
			}
			break
		}
	}

	if fragments.Total() == 0 {
		n := fallbackChunkCount
		if len(chunks) < n {
			n = len(chunks)
		}
		half := n / 2
		fragments[CategoryRequisitos] = chunks[:half]
		fragments[CategoryPlazos] = chunks[half : half*2]
	}

	return fragments
}

func matchesCategory(chunk string, category Category) bool {
	for _, pattern := range sectionPatterns[category] {
		if pattern.MatchString(chunk) {
			return true
		}
	}
	return false
}
