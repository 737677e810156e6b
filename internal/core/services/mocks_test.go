package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockDocumentStore implements driven.DocumentStore for testing.
type mockDocumentStore struct {
	docs      map[string]*domain.Document
	deleted   []string
	saveErr   error
	deleteErr error
}

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{docs: make(map[string]*domain.Document)}
}

func (m *mockDocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, d := range m.docs {
		if d.Key() == doc.Key() {
			return domain.ErrDuplicateDocument
		}
	}
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockDocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockDocumentStore) FindDocument(_ context.Context, key domain.DocumentKey) (*domain.Document, error) {
	for _, d := range m.docs {
		if d.Key() == key {
			return d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentStore) DeleteDocument(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.docs, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockDocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	for _, d := range m.docs {
		docs = append(docs, *d)
	}
	return docs, nil
}

// mockParagraphStore implements driven.ParagraphStore for testing.
type mockParagraphStore struct {
	saved      []domain.Paragraph
	pending    []domain.Paragraph
	hits       []domain.QueryHit
	embeddings map[string][]float32
	lastFilter domain.ParagraphFilter
	deletedFor []string
	queryErr   error
	setErr     error
}

func newMockParagraphStore() *mockParagraphStore {
	return &mockParagraphStore{embeddings: make(map[string][]float32)}
}

func (m *mockParagraphStore) SaveParagraphs(_ context.Context, paragraphs []domain.Paragraph) error {
	m.saved = append(m.saved, paragraphs...)
	return nil
}

func (m *mockParagraphStore) DeleteParagraphs(_ context.Context, documentID string, strategy domain.Strategy) error {
	m.deletedFor = append(m.deletedFor, documentID+"/"+string(strategy))
	return nil
}

func (m *mockParagraphStore) WithoutEmbedding(_ context.Context) ([]domain.Paragraph, error) {
	return m.pending, nil
}

func (m *mockParagraphStore) SetEmbedding(_ context.Context, id string, vector []float32, _ string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.embeddings[id] = vector
	return nil
}

func (m *mockParagraphStore) Query(_ context.Context, filter domain.ParagraphFilter) ([]domain.QueryHit, error) {
	m.lastFilter = filter
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.hits, nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	vector   []float32
	vectors  map[string][]float32
	embedErr error
	calls    int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.vectors != nil {
		if v, ok := m.vectors[text]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return m.vector, nil
}

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply      string
	chatErr    error
	lastPrompt string
	calls      int
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.calls++
	if len(messages) > 0 {
		m.lastPrompt = messages[len(messages)-1].Content
	}
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockQueryLogStore implements driven.QueryLogStore for testing.
type mockQueryLogStore struct {
	logs      []*domain.QueryLog
	fragments [][]domain.FragmentUsed
	saveErr   error
}

func (m *mockQueryLogStore) SaveQueryLog(_ context.Context, log *domain.QueryLog, fragments []domain.FragmentUsed) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.logs = append(m.logs, log)
	m.fragments = append(m.fragments, fragments)
	return nil
}

// mockExtractionService implements driven.ExtractionService for testing.
type mockExtractionService struct {
	content    string
	format     string
	method     string
	extractErr error
}

func (m *mockExtractionService) Extract(_ context.Context, _ string) (*driven.Extraction, error) {
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	format := m.format
	if format == "" {
		format = "text"
	}
	return &driven.Extraction{Content: m.content, ContentType: format}, nil
}

func (m *mockExtractionService) Method() string {
	if m.method == "" {
		return "tika"
	}
	return m.method
}

func (m *mockExtractionService) Ping(_ context.Context) error { return nil }
