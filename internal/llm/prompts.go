package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// systemPrompt is the fixed instruction shared by every provider. The model
// must answer with a bare JSON object matching the analysis schema.
const systemPrompt = `Eres un analista experto en licitaciones públicas del SEACE (Perú) con más de 10 años de experiencia.

Tu misión es analizar Términos de Referencia (TDR) de contratos menores y proporcionar un análisis técnico estructurado que ayude a un proveedor a decidir si debe postular o no.

**INSTRUCCIONES CRÍTICAS:**

1. **Ignora el relleno legal**: No pierdas tiempo en cláusulas genéricas o texto legal estándar.

2. **Céntrate en lo accionable**: Identifica requisitos técnicos específicos, certificaciones, experiencia requerida, tecnologías, y cualquier barrera de entrada.

3. **Extrae reglas de negocio**: Obligaciones del proveedor, entregables, KPIs, condiciones especiales.

4. **Identifica riesgos**: Penalidades severas, garantías excesivas, plazos irreales, cláusulas punitivas.

5. **Evalúa viabilidad**: Asigna un score de compatibilidad (1-10) basado en:
   - Claridad de los requisitos (10 = muy claro, 1 = ambiguo)
   - Viabilidad técnica (10 = fácil de cumplir, 1 = imposible)
   - Riesgo contractual (10 = bajo riesgo, 1 = alto riesgo)

6. **Formato de salida**: DEBES responder ÚNICAMENTE con un objeto JSON válido con esta estructura exacta:

{
  "resumen_ejecutivo": "Resumen técnico en 2-3 párrafos sobre qué busca la entidad y qué se necesita para ganar",
  "requisitos_tecnicos": ["Lista de requisitos técnicos específicos. PUEDE SER ARRAY VACÍO [] si no hay información clara"],
  "reglas_de_negocio": ["Lista de obligaciones, entregables, condiciones contractuales. PUEDE SER ARRAY VACÍO [] si no hay información clara"],
  "politicas_y_penalidades": ["Lista de penalidades, multas, garantías, o lista vacía si no hay"],
  "presupuesto_referencial": "Monto en soles o null si no se especifica",
  "score_compatibilidad": 7
}

**IMPORTANTE:**
- NO agregues texto adicional fuera del JSON. NO uses markdown. Solo devuelve el JSON puro.
- Si el TDR no tiene información clara sobre requisitos técnicos o reglas de negocio, devuelve arrays vacíos [] en esos campos.`

// buildAnalysisPrompt wraps the assembled document context for the text
// analysis path.
func buildAnalysisPrompt(docContext string) string {
	return fmt.Sprintf(`Analiza el siguiente TDR del SEACE y devuelve el análisis estructurado en formato JSON:

%s

Recuerda: Devuelve SOLO el objeto JSON sin texto adicional.`, docContext)
}

// documentPrompt instructs a native-document model analyzing the raw PDF.
const documentPrompt = `Analiza este TDR del SEACE (Perú) y devuelve ÚNICAMENTE un JSON con las siguientes claves:
{
    "resumen_ejecutivo": "100-200 palabras sobre objetivos y alcance",
    "requisitos_tecnicos": ["certificaciones, experiencia o equipamiento requerido"],
    "reglas_de_negocio": ["plazos, lugar de entrega, modalidad de pago, garantías"],
    "politicas_y_penalidades": ["multas, sanciones, porcentajes"],
    "presupuesto_referencial": "S/ X,XXX.XX" o null
}

Reglas:
- Si algún bloque no aparece en el PDF, devuelve [] o null.
- Máximo 10 items por lista.
- No incluyas texto fuera del JSON ni bloques de código.`

// buildCompatibilityPrompt embeds the subscriber profile, optional contract
// metadata, optional keywords and the serialized prior analysis into one
// comparison prompt.
func buildCompatibilityPrompt(input CompatibilityInput) (string, error) {
	analysisJSON, err := json.MarshalIndent(input.Analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize prior analysis: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(`Eres un asesor de licitaciones. Evalúa qué tan compatible es el siguiente proveedor con el TDR ya analizado.

PERFIL DEL PROVEEDOR:
`)
	sb.WriteString(input.CompanyCopy)

	if len(input.ContractContext) > 0 {
		contextJSON, err := json.MarshalIndent(input.ContractContext, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to serialize contract context: %w", err)
		}
		sb.WriteString("\n\nCONTEXTO DEL CONTRATO:\n")
		sb.Write(contextJSON)
	}

	if len(input.Keywords) > 0 {
		sb.WriteString("\n\nKEYWORDS SUSCRITAS: ")
		sb.WriteString(strings.Join(input.Keywords, ", "))
	}

	sb.WriteString("\n\nANÁLISIS DEL TDR:\n")
	sb.Write(analysisJSON)

	sb.WriteString(`

Devuelve ÚNICAMENTE un JSON con esta estructura:
{
  "score": 7.5,
  "nivel": "apto" | "revisar" | "descartar",
  "explicacion": "Motivo resumido del score asignado",
  "factores_clave": ["elementos del TDR que favorecen la compatibilidad"],
  "riesgos": ["alertas o restricciones detectadas"]
}

Criterio para nivel: score >= 8 es "apto", entre 5 y 8 es "revisar", menor a 5 es "descartar".
No agregues texto fuera del JSON.`)

	return sb.String(), nil
}
