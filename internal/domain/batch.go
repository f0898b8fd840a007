package domain

// Batch outcome statuses.
const (
	BatchStatusSuccess = "success"
	BatchStatusError   = "error"
)

// BatchItem is one document submitted for batch analysis.
type BatchItem struct {
	Filename string
	Data     []byte
}

// BatchOutcome is the per-item result of a batch run. Exactly one of
// Analysis or Error is populated; outcome order matches input order.
type BatchOutcome struct {
	Filename string          `json:"filename"`
	Status   string          `json:"status"`
	Analysis *AnalysisResult `json:"analysis,omitempty"`
	Error    string          `json:"error,omitempty"`
}
