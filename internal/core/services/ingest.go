package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService registers source documents and extracts their text.
type IngestService struct {
	documentStore     driven.DocumentStore
	extractionService driven.ExtractionService
	processedDir      string
}

// NewIngestService creates a new ingest service. Extracted artifacts
// are written to processedDir.
func NewIngestService(
	documentStore driven.DocumentStore,
	extractionService driven.ExtractionService,
	processedDir string,
) *IngestService {
	return &IngestService{
		documentStore:     documentStore,
		extractionService: extractionService,
		processedDir:      processedDir,
	}
}

// Ingest extracts the file at path and records the document. A file
// already ingested with the same extraction method is rejected unless
// overwrite is set, in which case the previous document and all its
// paragraphs are replaced.
func (s *IngestService) Ingest(ctx context.Context, path string, overwrite bool) (*domain.Document, error) {
	logger.Section("Ingestion")

	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))
	method := s.extractionService.Method()
	logger.Debug("File: %s, method: %s", name, method)

	key := domain.DocumentKey{
		OriginalName:     name,
		OriginalType:     ext,
		ExtractionMethod: method,
	}

	existing, err := s.documentStore.FindDocument(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking for existing document: %w", err)
	}
	if existing != nil {
		if !overwrite {
			return nil, fmt.Errorf("%s already ingested with method %s: %w",
				name, method, domain.ErrDuplicateDocument)
		}
		logger.Info("Replacing document %s and its paragraphs", name)
		if err := s.documentStore.DeleteDocument(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("removing previous document: %w", err)
		}
	}

	start := time.Now()

	extraction, err := s.extractionService.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	generatedType := ".txt"
	if extraction.ContentType == "html" {
		generatedType = ".html"
	}
	generatedFile := fmt.Sprintf("%s_%s%s",
		strings.TrimSuffix(name, filepath.Ext(name)), method, generatedType)

	if err := s.writeArtifact(generatedFile, extraction.Content); err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:               uuid.NewString(),
		OriginalName:     name,
		OriginalType:     ext,
		ExtractionMethod: method,
		GeneratedFile:    generatedFile,
		GeneratedType:    generatedType,
		ExtractionTime:   time.Since(start),
		ExtractedAt:      time.Now().UTC(),
	}

	if err := s.documentStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("recording document: %w", err)
	}

	logger.Info("Ingested %s in %s (artifact %s)", name, doc.ExtractionTime, generatedFile)
	return doc, nil
}

// writeArtifact stores the extracted content in the processed directory.
func (s *IngestService) writeArtifact(name, content string) error {
	if err := os.MkdirAll(s.processedDir, 0700); err != nil {
		return fmt.Errorf("creating processed directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.processedDir, name), []byte(content), 0600); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}
