package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

type fakeIngestService struct {
	lastPath      string
	lastOverwrite bool
	doc           *domain.Document
	err           error
}

func (f *fakeIngestService) Ingest(_ context.Context, path string, overwrite bool) (*domain.Document, error) {
	f.lastPath = path
	f.lastOverwrite = overwrite
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type fakeSegmentService struct {
	lastDocumentID string
	lastStrategy   domain.Strategy
	report         *domain.SegmentReport
	reports        []domain.SegmentReport
	err            error
}

func (f *fakeSegmentService) SegmentDocument(_ context.Context, documentID string, strategy domain.Strategy) (*domain.SegmentReport, error) {
	f.lastDocumentID = documentID
	f.lastStrategy = strategy
	return f.report, f.err
}

func (f *fakeSegmentService) SegmentAll(_ context.Context, strategy domain.Strategy) ([]domain.SegmentReport, error) {
	f.lastStrategy = strategy
	return f.reports, f.err
}

type fakeEmbedService struct {
	report *domain.EmbedReport
	err    error
}

func (f *fakeEmbedService) EmbedPending(context.Context) (*domain.EmbedReport, error) {
	return f.report, f.err
}

type fakeAskService struct {
	lastQuestion string
	lastOpts     domain.AskOptions
	answer       *domain.Answer
	err          error
}

func (f *fakeAskService) Ask(_ context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	f.lastQuestion = question
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

var errFakeService = errors.New("fake service failure")

// setupTestServices swaps the wired services for fakes and marks the
// package as wired so commands skip real wiring. The returned cleanup
// restores the previous state and resets command flags.
func setupTestServices() (
	*fakeIngestService, *fakeSegmentService, *fakeEmbedService, *fakeAskService, func(),
) {
	oldIngest := ingestService
	oldIngestHTML := ingestHTMLService
	oldSegment := segmentService
	oldEmbed := embedService
	oldAsk := askService
	oldConfig := appConfig
	oldWired := servicesWired

	ingest := &fakeIngestService{doc: &domain.Document{
		ID:               "doc-1",
		OriginalName:     "politica.pdf",
		ExtractionMethod: "tika",
		GeneratedFile:    "politica_tika.txt",
	}}
	segment := &fakeSegmentService{report: &domain.SegmentReport{
		DocumentID:   "doc-1",
		DocumentName: "politica.pdf",
		Strategy:     domain.StrategyBreaks,
		Paragraphs:   3,
		MinLength:    80,
		MaxLength:    240,
		MeanLength:   150,
	}}
	embed := &fakeEmbedService{report: &domain.EmbedReport{Pending: 3, Embedded: 3}}
	ask := &fakeAskService{answer: &domain.Answer{
		Text:       "El sistema preserva la confidencialidad.\n\nRef. utilizadas:\npolitica.pdf (distancia: 0.1000)",
		Candidates: 3,
	}}

	ingestService = ingest
	ingestHTMLService = ingest
	segmentService = segment
	embedService = embed
	askService = ask
	appConfig = domain.DefaultConfig()
	servicesWired = true

	cleanup := func() {
		ingestService = oldIngest
		ingestHTMLService = oldIngestHTML
		segmentService = oldSegment
		embedService = oldEmbed
		askService = oldAsk
		appConfig = oldConfig
		servicesWired = oldWired

		ingestOverwrite = false
		ingestHTML = false
		segmentStrategy = string(domain.StrategyBreaks)
		askThreshold = 0
		askTopK = 0
		askLanguage = ""
		askStrategy = ""
		askDocument = ""
		askJSON = false
		watchStrategy = string(domain.StrategyBreaks)

		rootCmd.SetArgs(nil)
	}
	return ingest, segment, embed, ask, cleanup
}
