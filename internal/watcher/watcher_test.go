package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

type fakeIngest struct {
	mu       sync.Mutex
	ingested []string
	seen     map[string]bool
	err      error
}

func newFakeIngest() *fakeIngest {
	return &fakeIngest{seen: map[string]bool{}}
}

func (f *fakeIngest) Ingest(_ context.Context, path string, _ bool) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	name := filepath.Base(path)
	if f.seen[name] {
		return nil, domain.ErrDuplicateDocument
	}
	f.seen[name] = true
	f.ingested = append(f.ingested, name)
	return &domain.Document{ID: "doc-" + name, OriginalName: name}, nil
}

func (f *fakeIngest) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ingested...)
}

type fakeSegment struct {
	mu         sync.Mutex
	documents  []string
	strategies []domain.Strategy
	err        error
}

func (f *fakeSegment) SegmentDocument(_ context.Context, documentID string, strategy domain.Strategy) (*domain.SegmentReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.documents = append(f.documents, documentID)
	f.strategies = append(f.strategies, strategy)
	return &domain.SegmentReport{DocumentID: documentID, Strategy: strategy}, nil
}

func (f *fakeSegment) SegmentAll(context.Context, domain.Strategy) ([]domain.SegmentReport, error) {
	return nil, nil
}

func (f *fakeSegment) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.documents)
}

type fakeEmbed struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeEmbed) EmbedPending(context.Context) (*domain.EmbedReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return &domain.EmbedReport{}, nil
}

func (f *fakeEmbed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("contenido"), 0600))
}

func TestRun_ProcessesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf")
	writeFile(t, dir, "b.pdf")
	writeFile(t, dir, ".hidden")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0700))

	ingest := newFakeIngest()
	segment := &fakeSegment{}
	embed := &fakeEmbed{}

	ctx, cancel := context.WithCancel(context.Background())
	w := New(ingest, segment, embed, dir, domain.StrategyBreaks, WithSettleDelay(time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool { return segment.count() == 2 },
		5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.ElementsMatch(t, []string{"a.pdf", "b.pdf"}, ingest.names())
	assert.Equal(t, []domain.Strategy{domain.StrategyBreaks, domain.StrategyBreaks}, segment.strategies)
	assert.Equal(t, 2, embed.count())
}

func TestRun_PicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()

	ingest := newFakeIngest()
	segment := &fakeSegment{}
	embed := &fakeEmbed{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := New(ingest, segment, embed, dir, domain.StrategyTitle, WithSettleDelay(time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watch registration a moment before creating the file.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, dir, "nuevo.pdf")

	assert.Eventually(t, func() bool { return segment.count() >= 1 },
		5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Contains(t, ingest.names(), "nuevo.pdf")
	assert.Contains(t, segment.documents, "doc-nuevo.pdf")
}

func TestRun_DuplicateIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf")

	ingest := newFakeIngest()
	ingest.seen["a.pdf"] = true
	segment := &fakeSegment{}
	embed := &fakeEmbed{}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	w := New(ingest, segment, embed, dir, domain.StrategyBreaks, WithSettleDelay(time.Millisecond))

	require.NoError(t, w.Run(ctx))
	assert.Empty(t, ingest.names())
	assert.Zero(t, segment.count())
	assert.Zero(t, embed.count())
}

func TestRun_IngestFailureDoesNotStopLoop(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "roto.pdf")

	ingest := newFakeIngest()
	ingest.err = errors.New("extraction service unavailable")
	segment := &fakeSegment{}
	embed := &fakeEmbed{}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	w := New(ingest, segment, embed, dir, domain.StrategyBreaks, WithSettleDelay(time.Millisecond))

	require.NoError(t, w.Run(ctx))
	assert.Zero(t, segment.count())
}

func TestRun_MissingDirectory(t *testing.T) {
	ingest := newFakeIngest()
	w := New(ingest, &fakeSegment{}, &fakeEmbed{}, filepath.Join(t.TempDir(), "missing"), domain.StrategyBreaks)

	err := w.Run(context.Background())
	assert.Error(t, err)
}
