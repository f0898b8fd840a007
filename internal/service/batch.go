package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/licitia/tdranalyzer/internal/config"
	"github.com/licitia/tdranalyzer/internal/domain"
)

// DocumentAnalyzer is the single-document pipeline the batch fans out over.
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, data []byte, filename, provider string) (*domain.AnalysisResult, error)
}

// BatchService analyzes a set of documents with bounded concurrency. One
// failing document never sinks the rest: per-item failures, including
// panics, become error outcomes in the item's slot.
type BatchService struct {
	analyzer DocumentAnalyzer
	cfg      *config.Config
	logger   *zap.Logger
}

func NewBatchService(analyzer DocumentAnalyzer, cfg *config.Config, logger *zap.Logger) *BatchService {
	return &BatchService{
		analyzer: analyzer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run checks the whole-batch preconditions, then processes every item under
// the concurrency limit. Outcomes come back in item order.
func (s *BatchService) Run(ctx context.Context, items []domain.BatchItem, provider string) ([]domain.BatchOutcome, error) {
	if !s.cfg.EnableBatchProcessing {
		return nil, domain.ErrBatchDisabled
	}
	if len(items) == 0 {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "batch contains no files")
	}
	if len(items) > s.cfg.MaxBatchFiles {
		return nil, domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("batch of %d files exceeds the maximum of %d", len(items), s.cfg.MaxBatchFiles))
	}
	for _, item := range items {
		if !strings.HasSuffix(strings.ToLower(item.Filename), ".pdf") {
			return nil, domain.NewDomainError(domain.ErrCodeContent,
				fmt.Sprintf("%s is not a PDF file", item.Filename))
		}
	}

	s.logger.Info("starting batch",
		zap.Int("files", len(items)),
		zap.Int("max_concurrent", s.cfg.MaxConcurrentRequests))

	sem := semaphore.NewWeighted(int64(s.cfg.MaxConcurrentRequests))
	outcomes := make([]domain.BatchOutcome, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item domain.BatchItem) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				outcomes[i] = errorOutcome(item.Filename, err)
				return
			}
			defer sem.Release(1)
			outcomes[i] = s.processItem(ctx, item, provider)
		}(i, item)
	}
	wg.Wait()

	return outcomes, nil
}

// processItem analyzes one document. The size check happens here rather than
// up front so an oversized file only fails its own slot.
func (s *BatchService) processItem(ctx context.Context, item domain.BatchItem, provider string) (outcome domain.BatchOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while analyzing batch item",
				zap.String("filename", item.Filename),
				zap.Any("panic", r))
			outcome = errorOutcome(item.Filename, fmt.Errorf("internal error: %v", r))
		}
	}()

	if int64(len(item.Data)) > s.cfg.MaxFileSizeBytes() {
		return errorOutcome(item.Filename,
			fmt.Errorf("file exceeds the %dMB limit", s.cfg.MaxFileSizeMB))
	}

	result, err := s.analyzer.AnalyzeDocument(ctx, item.Data, item.Filename, provider)
	if err != nil {
		s.logger.Warn("batch item failed",
			zap.String("filename", item.Filename),
			zap.Error(err))
		return errorOutcome(item.Filename, err)
	}

	return domain.BatchOutcome{
		Filename: item.Filename,
		Status:   domain.BatchStatusSuccess,
		Analysis: result,
	}
}

func errorOutcome(filename string, err error) domain.BatchOutcome {
	return domain.BatchOutcome{
		Filename: filename,
		Status:   domain.BatchStatusError,
		Error:    err.Error(),
	}
}
