package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/licitia/tdranalyzer/internal/config"
	"github.com/licitia/tdranalyzer/internal/domain"
)

type fakeBatchRunner struct {
	outcomes []domain.BatchOutcome
	err      error
	gotItems []domain.BatchItem
}

func (f *fakeBatchRunner) Run(ctx context.Context, items []domain.BatchItem, provider string) ([]domain.BatchOutcome, error) {
	f.gotItems = items
	return f.outcomes, f.err
}

func batchConfig() *config.Config {
	return &config.Config{
		MaxFileSizeMB:         10,
		MaxBatchFiles:         20,
		MaxConcurrentRequests: 3,
		EnableBatchProcessing: true,
		DefaultProvider:       config.ProviderGemini,
	}
}

func multipartFiles(t *testing.T, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range filenames {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("%PDF-1.7"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestAnalyzeBatch_Success(t *testing.T) {
	runner := &fakeBatchRunner{outcomes: []domain.BatchOutcome{
		{Filename: "a.pdf", Status: domain.BatchStatusSuccess, Analysis: &domain.AnalysisResult{}},
		{Filename: "b.pdf", Status: domain.BatchStatusError, Error: "modelo no disponible"},
	}}
	h := NewBatchHandler(runner, batchConfig(), zap.NewNop())

	body, contentType := multipartFiles(t, "a.pdf", "b.pdf")
	req := httptest.NewRequest(http.MethodPost, "/batch/analyze-tdrs", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.AnalyzeBatch(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, runner.gotItems, 2)
	assert.Equal(t, "a.pdf", runner.gotItems[0].Filename)

	var resp struct {
		Success bool          `json:"success"`
		Data    BatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Successful)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Results, 2)
	assert.Equal(t, "modelo no disponible", resp.Data.Results[1].Error)
}

func TestAnalyzeBatch_Disabled(t *testing.T) {
	runner := &fakeBatchRunner{err: domain.ErrBatchDisabled}
	h := NewBatchHandler(runner, batchConfig(), zap.NewNop())

	body, contentType := multipartFiles(t, "a.pdf")
	req := httptest.NewRequest(http.MethodPost, "/batch/analyze-tdrs", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.AnalyzeBatch(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAnalyzeBatch_PreconditionFailure(t *testing.T) {
	runner := &fakeBatchRunner{err: domain.NewDomainError(domain.ErrCodeValidation, "batch of 25 files exceeds the maximum of 20")}
	h := NewBatchHandler(runner, batchConfig(), zap.NewNop())

	body, contentType := multipartFiles(t, "a.pdf")
	req := httptest.NewRequest(http.MethodPost, "/batch/analyze-tdrs", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.AnalyzeBatch(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeBatch_InvalidProvider(t *testing.T) {
	h := NewBatchHandler(&fakeBatchRunner{}, batchConfig(), zap.NewNop())

	body, contentType := multipartFiles(t, "a.pdf")
	req := httptest.NewRequest(http.MethodPost, "/batch/analyze-tdrs?llm_provider=mistral", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.AnalyzeBatch(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeBatch_NotMultipart(t *testing.T) {
	h := NewBatchHandler(&fakeBatchRunner{}, batchConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/batch/analyze-tdrs", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.AnalyzeBatch(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchStats(t *testing.T) {
	h := NewBatchHandler(&fakeBatchRunner{}, batchConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/batch/stats", nil)
	w := httptest.NewRecorder()

	h.BatchStats(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, true, stats["enabled"])
	assert.Equal(t, float64(3), stats["max_concurrent_requests"])
	assert.Equal(t, "gemini", stats["llm_provider"])
	assert.Contains(t, stats, "limits")
}
