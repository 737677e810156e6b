package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// Ensure EmbedService implements the interface.
var _ driving.EmbedService = (*EmbedService)(nil)

// EmbedService computes vectors for paragraphs that do not have one.
type EmbedService struct {
	paragraphStore   driven.ParagraphStore
	embeddingService driven.EmbeddingService
}

// NewEmbedService creates a new embedding service.
func NewEmbedService(
	paragraphStore driven.ParagraphStore,
	embeddingService driven.EmbeddingService,
) *EmbedService {
	return &EmbedService{
		paragraphStore:   paragraphStore,
		embeddingService: embeddingService,
	}
}

// EmbedPending embeds every paragraph without a stored vector.
// A paragraph that fails to embed is counted and skipped; the pass
// continues with the rest.
func (s *EmbedService) EmbedPending(ctx context.Context) (*domain.EmbedReport, error) {
	logger.Section("Embedding Pass")

	pending, err := s.paragraphStore.WithoutEmbedding(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pending paragraphs: %w", err)
	}

	report := &domain.EmbedReport{Pending: len(pending)}
	logger.Info("Paragraphs to embed: %d", len(pending))
	if len(pending) == 0 {
		return report, nil
	}

	model := s.embeddingService.ModelName()
	start := time.Now()

	for i := range pending {
		p := &pending[i]

		vector, err := s.embeddingService.Embed(ctx, p.Text)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Embedding paragraph %s failed: %v", p.ID, err)
			report.Failed++
			continue
		}

		if err := s.paragraphStore.SetEmbedding(ctx, p.ID, vector, model); err != nil {
			logger.Warn("Storing embedding for %s failed: %v", p.ID, err)
			report.Failed++
			continue
		}

		report.Embedded++
		logger.Debug("Embedded paragraph %s (%d/%d)", p.ID, i+1, len(pending))
	}

	report.Elapsed = time.Since(start)
	logger.Info("Embedded %d, failed %d in %s", report.Embedded, report.Failed, report.Elapsed)

	return report, nil
}
