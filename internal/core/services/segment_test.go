package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/segmenter"
)

func newSegmentFixture(t *testing.T, artifact, content string) (*SegmentService, *mockDocumentStore, *mockParagraphStore, *domain.Document) {
	t.Helper()

	processedDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, artifact), []byte(content), 0600))

	docs := newMockDocumentStore()
	doc := &domain.Document{
		ID:               "doc-1",
		OriginalName:     "politica.pdf",
		OriginalType:     ".pdf",
		ExtractionMethod: "tika",
		GeneratedFile:    artifact,
		GeneratedType:    filepath.Ext(artifact),
		ExtractedAt:      time.Now().UTC(),
	}
	require.NoError(t, docs.SaveDocument(context.Background(), doc))

	paragraphs := newMockParagraphStore()
	svc := NewSegmentService(docs, paragraphs, segmenter.New(), processedDir)
	return svc, docs, paragraphs, doc
}

func TestSegmentDocument_Breaks(t *testing.T) {
	content := "El sistema de gestión preserva la confidencialidad de la información.\n\n" +
		"El alcance cubre todos los procesos de negocio de la organización."
	svc, _, paragraphs, doc := newSegmentFixture(t, "politica_tika.txt", content)

	report, err := svc.SegmentDocument(context.Background(), doc.ID, domain.StrategyBreaks)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Paragraphs)
	assert.Equal(t, doc.ID, report.DocumentID)
	assert.Equal(t, "politica.pdf", report.DocumentName)
	assert.Positive(t, report.MinLength)
	assert.GreaterOrEqual(t, report.MaxLength, report.MinLength)
	assert.Positive(t, report.MeanLength)

	require.Len(t, paragraphs.saved, 2)
	first := paragraphs.saved[0]
	assert.Equal(t, 1, first.Ordinal)
	assert.Equal(t, doc.ID, first.DocumentID)
	assert.Equal(t, domain.StrategyBreaks, first.Strategy)
	assert.Equal(t, "tika", first.ExtractionMethod)
	assert.Equal(t, ".txt", first.ExtractionType)
	assert.Equal(t, "es", first.Language)
	assert.Equal(t, len([]rune(first.Text)), first.Length)
	assert.False(t, first.HasEmbedding())

	// Previous run for the same strategy is cleared first.
	assert.Contains(t, paragraphs.deletedFor, doc.ID+"/breaks")
}

func TestSegmentDocument_TitleCarriesDetectedTitles(t *testing.T) {
	content := "1 Introducción\nEste documento describe el sistema de gestión.\n\n" +
		"2 Alcance\nEste apartado aplica a toda la organización."
	svc, _, paragraphs, doc := newSegmentFixture(t, "politica_tika.txt", content)

	report, err := svc.SegmentDocument(context.Background(), doc.ID, domain.StrategyTitle)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Paragraphs)
	require.Len(t, paragraphs.saved, 2)
	assert.Equal(t, []string{"1 Introducción"}, paragraphs.saved[0].Titles)
	assert.Equal(t, []string{"2 Alcance"}, paragraphs.saved[1].Titles)
}

func TestSegmentDocument_HTMLArtifact(t *testing.T) {
	content := "<html><body><h1>1 Introducción</h1>" +
		"<p>El sistema de gestión preserva la confidencialidad de la información.</p>" +
		"<p>El alcance cubre todos los procesos de negocio de la organización.</p></body></html>"
	svc, _, paragraphs, doc := newSegmentFixture(t, "politica_tika-html.html", content)

	_, err := svc.SegmentDocument(context.Background(), doc.ID, domain.StrategyBreaks)
	require.NoError(t, err)

	require.NotEmpty(t, paragraphs.saved)
	for _, p := range paragraphs.saved {
		assert.NotContains(t, p.Text, "<p>")
	}
}

func TestSegmentDocument_UnknownStrategy(t *testing.T) {
	svc, _, _, doc := newSegmentFixture(t, "politica_tika.txt", "contenido")

	_, err := svc.SegmentDocument(context.Background(), doc.ID, domain.Strategy("frases"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedStrategy)
}

func TestSegmentDocument_MissingDocument(t *testing.T) {
	svc, _, _, _ := newSegmentFixture(t, "politica_tika.txt", "contenido")

	_, err := svc.SegmentDocument(context.Background(), "missing", domain.StrategyBreaks)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSegmentDocument_MissingArtifact(t *testing.T) {
	svc, docs, _, _ := newSegmentFixture(t, "politica_tika.txt", "contenido")

	other := &domain.Document{
		ID:               "doc-2",
		OriginalName:     "otro.pdf",
		OriginalType:     ".pdf",
		ExtractionMethod: "tika",
		GeneratedFile:    "otro_tika.txt",
		GeneratedType:    ".txt",
		ExtractedAt:      time.Now().UTC(),
	}
	require.NoError(t, docs.SaveDocument(context.Background(), other))

	_, err := svc.SegmentDocument(context.Background(), other.ID, domain.StrategyBreaks)
	assert.Error(t, err)
}

func TestSegmentAll_SkipsFailures(t *testing.T) {
	svc, docs, _, doc := newSegmentFixture(t, "politica_tika.txt",
		"El sistema de gestión preserva la confidencialidad de la información.")

	// Second document has no artifact on disk.
	broken := &domain.Document{
		ID:               "doc-2",
		OriginalName:     "roto.pdf",
		OriginalType:     ".pdf",
		ExtractionMethod: "tika",
		GeneratedFile:    "roto_tika.txt",
		GeneratedType:    ".txt",
		ExtractedAt:      time.Now().UTC(),
	}
	require.NoError(t, docs.SaveDocument(context.Background(), broken))

	reports, err := svc.SegmentAll(context.Background(), domain.StrategyBreaks)
	require.NoError(t, err)

	require.Len(t, reports, 1)
	assert.Equal(t, doc.ID, reports[0].DocumentID)
}
