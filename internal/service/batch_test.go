package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/licitia/tdranalyzer/internal/domain"
)

type fakeBatchAnalyzer struct {
	mu      sync.Mutex
	analyze func(filename string) (*domain.AnalysisResult, error)

	active    int32
	maxActive int32
}

func (f *fakeBatchAnalyzer) AnalyzeDocument(ctx context.Context, data []byte, filename, provider string) (*domain.AnalysisResult, error) {
	current := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)

	f.mu.Lock()
	if current > f.maxActive {
		f.maxActive = current
	}
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	if f.analyze != nil {
		return f.analyze(filename)
	}
	return &domain.AnalysisResult{ResumenEjecutivo: "ok"}, nil
}

func pdfItems(n int) []domain.BatchItem {
	items := make([]domain.BatchItem, n)
	for i := range items {
		items[i] = domain.BatchItem{
			Filename: fmt.Sprintf("tdr-%d.pdf", i),
			Data:     []byte("%PDF"),
		}
	}
	return items
}

func TestBatchRun_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableBatchProcessing = false
	svc := NewBatchService(&fakeBatchAnalyzer{}, cfg, zap.NewNop())

	_, err := svc.Run(context.Background(), pdfItems(2), "")
	assert.ErrorIs(t, err, domain.ErrBatchDisabled)
}

func TestBatchRun_EmptyBatch(t *testing.T) {
	svc := NewBatchService(&fakeBatchAnalyzer{}, testConfig(), zap.NewNop())

	_, err := svc.Run(context.Background(), nil, "")
	assert.Error(t, err)
}

func TestBatchRun_TooManyFiles(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBatchFiles = 3
	svc := NewBatchService(&fakeBatchAnalyzer{}, cfg, zap.NewNop())

	_, err := svc.Run(context.Background(), pdfItems(4), "")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
}

func TestBatchRun_RejectsNonPDFNames(t *testing.T) {
	items := pdfItems(2)
	items[1].Filename = "notas.docx"
	svc := NewBatchService(&fakeBatchAnalyzer{}, testConfig(), zap.NewNop())

	_, err := svc.Run(context.Background(), items, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notas.docx")
}

func TestBatchRun_OutcomesKeepUploadOrder(t *testing.T) {
	analyzer := &fakeBatchAnalyzer{
		analyze: func(filename string) (*domain.AnalysisResult, error) {
			return &domain.AnalysisResult{ResumenEjecutivo: filename}, nil
		},
	}
	svc := NewBatchService(analyzer, testConfig(), zap.NewNop())

	items := pdfItems(6)
	outcomes, err := svc.Run(context.Background(), items, "")
	require.NoError(t, err)
	require.Len(t, outcomes, 6)

	for i, outcome := range outcomes {
		assert.Equal(t, items[i].Filename, outcome.Filename)
		assert.Equal(t, domain.BatchStatusSuccess, outcome.Status)
		require.NotNil(t, outcome.Analysis)
		assert.Equal(t, items[i].Filename, outcome.Analysis.ResumenEjecutivo)
	}
}

func TestBatchRun_OneFailureDoesNotSinkTheRest(t *testing.T) {
	analyzer := &fakeBatchAnalyzer{
		analyze: func(filename string) (*domain.AnalysisResult, error) {
			if filename == "tdr-2.pdf" {
				return nil, errors.New("modelo no disponible")
			}
			return &domain.AnalysisResult{ResumenEjecutivo: "ok"}, nil
		},
	}
	svc := NewBatchService(analyzer, testConfig(), zap.NewNop())

	outcomes, err := svc.Run(context.Background(), pdfItems(5), "")
	require.NoError(t, err)

	for i, outcome := range outcomes {
		if i == 2 {
			assert.Equal(t, domain.BatchStatusError, outcome.Status)
			assert.Contains(t, outcome.Error, "modelo no disponible")
			assert.Nil(t, outcome.Analysis)
			continue
		}
		assert.Equal(t, domain.BatchStatusSuccess, outcome.Status)
	}
}

func TestBatchRun_PanicBecomesErrorOutcome(t *testing.T) {
	analyzer := &fakeBatchAnalyzer{
		analyze: func(filename string) (*domain.AnalysisResult, error) {
			if filename == "tdr-1.pdf" {
				panic("boom")
			}
			return &domain.AnalysisResult{}, nil
		},
	}
	svc := NewBatchService(analyzer, testConfig(), zap.NewNop())

	outcomes, err := svc.Run(context.Background(), pdfItems(3), "")
	require.NoError(t, err)

	assert.Equal(t, domain.BatchStatusError, outcomes[1].Status)
	assert.Contains(t, outcomes[1].Error, "boom")
	assert.Equal(t, domain.BatchStatusSuccess, outcomes[0].Status)
	assert.Equal(t, domain.BatchStatusSuccess, outcomes[2].Status)
}

func TestBatchRun_OversizedItemFailsOnlyItsSlot(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFileSizeMB = 1

	items := pdfItems(3)
	items[1].Data = make([]byte, 2*1024*1024)

	svc := NewBatchService(&fakeBatchAnalyzer{}, cfg, zap.NewNop())
	outcomes, err := svc.Run(context.Background(), items, "")
	require.NoError(t, err)

	assert.Equal(t, domain.BatchStatusError, outcomes[1].Status)
	assert.Contains(t, outcomes[1].Error, "1MB")
	assert.Equal(t, domain.BatchStatusSuccess, outcomes[0].Status)
	assert.Equal(t, domain.BatchStatusSuccess, outcomes[2].Status)
}

func TestBatchRun_RespectsConcurrencyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConcurrentRequests = 2

	analyzer := &fakeBatchAnalyzer{}
	svc := NewBatchService(analyzer, cfg, zap.NewNop())

	_, err := svc.Run(context.Background(), pdfItems(8), "")
	require.NoError(t, err)

	assert.LessOrEqual(t, analyzer.maxActive, int32(2))
}

func TestBatchRun_MixedBatchUnderLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConcurrentRequests = 3
	cfg.MaxFileSizeMB = 1

	items := pdfItems(5)
	items[3].Data = make([]byte, 2*1024*1024)

	analyzer := &fakeBatchAnalyzer{}
	svc := NewBatchService(analyzer, cfg, zap.NewNop())

	outcomes, err := svc.Run(context.Background(), items, "")
	require.NoError(t, err)
	require.Len(t, outcomes, 5)

	assert.LessOrEqual(t, analyzer.maxActive, int32(3))
	for i, outcome := range outcomes {
		if i == 3 {
			assert.Equal(t, domain.BatchStatusError, outcome.Status)
			continue
		}
		assert.Equal(t, domain.BatchStatusSuccess, outcome.Status, "item %d", i)
	}
}

func TestBatchRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewBatchService(&fakeBatchAnalyzer{}, testConfig(), zap.NewNop())
	outcomes, err := svc.Run(ctx, pdfItems(2), "")
	require.NoError(t, err)

	// Acquire fails on a canceled context, so every slot reports an error.
	for _, outcome := range outcomes {
		assert.Equal(t, domain.BatchStatusError, outcome.Status)
	}
}
