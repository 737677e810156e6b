package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docquery-cli/internal/langdetect"
	"github.com/custodia-labs/docquery-cli/internal/logger"
	"github.com/custodia-labs/docquery-cli/internal/segmenter"
)

// Ensure SegmentService implements the interface.
var _ driving.SegmentService = (*SegmentService)(nil)

// SegmentService splits extracted documents into stored paragraphs.
type SegmentService struct {
	documentStore  driven.DocumentStore
	paragraphStore driven.ParagraphStore
	segmenter      *segmenter.Segmenter
	detector       *langdetect.Detector
	processedDir   string
}

// NewSegmentService creates a new segmentation service. processedDir is
// where ingestion wrote the extracted artifacts.
func NewSegmentService(
	documentStore driven.DocumentStore,
	paragraphStore driven.ParagraphStore,
	seg *segmenter.Segmenter,
	processedDir string,
) *SegmentService {
	return &SegmentService{
		documentStore:  documentStore,
		paragraphStore: paragraphStore,
		segmenter:      seg,
		detector:       langdetect.New(),
		processedDir:   processedDir,
	}
}

// SegmentDocument re-segments one document with the given strategy.
// Paragraphs previously produced by that strategy are replaced; other
// strategies' paragraphs are untouched.
func (s *SegmentService) SegmentDocument(
	ctx context.Context, documentID string, strategy domain.Strategy,
) (*domain.SegmentReport, error) {
	logger.Section("Segmentation")

	if _, err := domain.ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}

	doc, err := s.documentStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	start := time.Now()

	text, err := s.loadArtifact(doc)
	if err != nil {
		return nil, err
	}

	segments, err := s.segmenter.Segment(text, strategy)
	if err != nil {
		return nil, fmt.Errorf("segmenting %s: %w", doc.OriginalName, err)
	}
	logger.Info("Document %s: %d paragraphs with strategy %s",
		doc.OriginalName, len(segments), strategy)

	// Replace the previous run for this (document, strategy).
	if err := s.paragraphStore.DeleteParagraphs(ctx, doc.ID, strategy); err != nil {
		return nil, fmt.Errorf("clearing previous paragraphs: %w", err)
	}

	paragraphs := make([]domain.Paragraph, 0, len(segments))
	for i, text := range segments {
		paragraphs = append(paragraphs, domain.Paragraph{
			ID:               uuid.NewString(),
			DocumentID:       doc.ID,
			Ordinal:          i + 1,
			Text:             text,
			Length:           utf8.RuneCountInString(text),
			Language:         s.detector.Detect(text),
			Titles:           s.segmenter.Titles().ExtractTitles(text),
			Strategy:         strategy,
			ExtractionMethod: doc.ExtractionMethod,
			ExtractionType:   doc.GeneratedType,
		})
	}

	if len(paragraphs) > 0 {
		if err := s.paragraphStore.SaveParagraphs(ctx, paragraphs); err != nil {
			return nil, fmt.Errorf("saving paragraphs: %w", err)
		}
	}

	return buildSegmentReport(doc, strategy, paragraphs, time.Since(start)), nil
}

// SegmentAll segments every ingested document with the given strategy.
// Per-document failures are logged and skipped so one broken artifact
// does not stop the batch.
func (s *SegmentService) SegmentAll(ctx context.Context, strategy domain.Strategy) ([]domain.SegmentReport, error) {
	docs, err := s.documentStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	var reports []domain.SegmentReport //nolint:prealloc // failures are skipped
	for _, doc := range docs {
		report, err := s.SegmentDocument(ctx, doc.ID, strategy)
		if err != nil {
			logger.Warn("Skipping %s: %v", doc.OriginalName, err)
			continue
		}
		reports = append(reports, *report)
	}

	return reports, nil
}

// loadArtifact reads the extracted text for a document. HTML artifacts
// are reduced to their block text first.
func (s *SegmentService) loadArtifact(doc *domain.Document) (string, error) {
	if doc.GeneratedFile == "" {
		return "", fmt.Errorf("document %s has no extracted artifact: %w",
			doc.OriginalName, domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(filepath.Join(s.processedDir, doc.GeneratedFile))
	if err != nil {
		return "", fmt.Errorf("reading artifact: %w", err)
	}

	text := string(data)
	if doc.GeneratedType == ".html" {
		text = segmenter.StripHTML(text)
	}
	return text, nil
}

// buildSegmentReport computes the length statistics for a run.
func buildSegmentReport(
	doc *domain.Document,
	strategy domain.Strategy,
	paragraphs []domain.Paragraph,
	elapsed time.Duration,
) *domain.SegmentReport {
	report := &domain.SegmentReport{
		DocumentID:   doc.ID,
		DocumentName: doc.OriginalName,
		Strategy:     strategy,
		Paragraphs:   len(paragraphs),
		Elapsed:      elapsed,
	}

	if len(paragraphs) == 0 {
		return report
	}

	total := 0
	report.MinLength = paragraphs[0].Length
	for _, p := range paragraphs {
		total += p.Length
		if p.Length < report.MinLength {
			report.MinLength = p.Length
		}
		if p.Length > report.MaxLength {
			report.MaxLength = p.Length
		}
	}
	report.MeanLength = float64(total) / float64(len(paragraphs))

	return report
}
