package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// cosineDistance returns 1 - cos(a, b). Lower means closer.
// Vectors must be non-empty and of equal length.
func cosineDistance(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("empty vector: %w", domain.ErrInvalidInput)
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch (%d vs %d): %w",
			len(a), len(b), domain.ErrInvalidInput)
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero vector: %w", domain.ErrInvalidInput)
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), nil
}

// rankParagraphs compares the query vector against every hit, keeps the
// ones within the distance threshold and returns the topK closest in
// ascending distance order. Hits whose stored vector cannot be compared
// are skipped with a warning rather than failing the whole ranking.
func rankParagraphs(query []float32, hits []domain.QueryHit, threshold float64, topK int) []domain.RankedParagraph {
	var ranked []domain.RankedParagraph //nolint:prealloc // threshold filters an unknown share

	for i := range hits {
		hit := &hits[i]
		distance, err := cosineDistance(query, hit.Embedding)
		if err != nil {
			logger.Warn("Skipping paragraph %s: %v", hit.ID, err)
			continue
		}
		if distance > threshold {
			continue
		}
		ranked = append(ranked, domain.RankedParagraph{
			DocumentName: hit.DocumentName,
			Distance:     distance,
			Paragraph:    hit.Paragraph,
		})
	}

	// Stable sort keeps the store's deterministic order for ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}

	return ranked
}
