package pdfextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/licitia/tdranalyzer/internal/domain"
)

func TestExtractText_RejectsCorruptData(t *testing.T) {
	extractor := New()

	_, err := extractor.ExtractText([]byte("esto no es un pdf"))
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeContent, domainErr.Code)
}

func TestExtractText_RejectsEmptyData(t *testing.T) {
	extractor := New()

	_, err := extractor.ExtractText(nil)
	assert.Error(t, err)
}
