package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// Fallback prompt fragments when no PromptStore is configured.
const (
	defaultAskContextPrompt     = "A continuación, se presentan extractos de documentos relevantes:"
	defaultAskInstructionPrompt = "Por favor, genera una respuesta concisa basada en la información proporcionada."
)

// AskService answers questions by ranking stored paragraphs against the
// embedded question and drafting an answer over the closest ones.
type AskService struct {
	paragraphStore   driven.ParagraphStore
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	queryLogStore    driven.QueryLogStore
	promptStore      driven.PromptStore

	cfg domain.RetrievalConfig
}

// NewAskService creates a new ask service.
// The queryLogStore parameter is optional (can be nil); answering still
// works without an audit trail.
func NewAskService(
	paragraphStore driven.ParagraphStore,
	embeddingService driven.EmbeddingService,
	llmService driven.LLMService,
	queryLogStore driven.QueryLogStore,
	cfg domain.RetrievalConfig,
) *AskService {
	if cfg.RelevanceThreshold == 0 {
		cfg.RelevanceThreshold = domain.DefaultRelevanceThreshold
	}
	if cfg.TopK == 0 {
		cfg.TopK = domain.DefaultTopK
	}
	if cfg.Language == "" {
		cfg.Language = domain.DefaultLanguage
	}

	return &AskService{
		paragraphStore:   paragraphStore,
		embeddingService: embeddingService,
		llmService:       llmService,
		queryLogStore:    queryLogStore,
		cfg:              cfg,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *AskService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ask answers a question from the stored paragraphs.
func (s *AskService) Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	logger.Section("Question Answering")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = s.cfg.RelevanceThreshold
	}
	topK := opts.TopK
	if topK == 0 {
		topK = s.cfg.TopK
	}

	filter := opts.Filter
	if filter.Language == "" {
		filter.Language = s.cfg.Language
	}
	// Vectors from different models are not comparable.
	filter.EmbeddingModel = s.embeddingService.ModelName()

	logger.Debug("Question: %q", question)
	logger.Debug("Threshold: %.2f, TopK: %d, Language: %s", threshold, topK, filter.Language)

	rankStart := time.Now()

	queryVector, err := s.embeddingService.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	hits, err := s.paragraphStore.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("querying paragraphs: %w", err)
	}
	logger.Info("Comparing against %d candidate paragraphs", len(hits))

	ranked := rankParagraphs(queryVector, hits, threshold, topK)
	rankTime := time.Since(rankStart)
	logger.Info("%d paragraphs within threshold %.2f", len(ranked), threshold)

	answer := &domain.Answer{
		Fragments:  ranked,
		Candidates: len(hits),
		RankTime:   rankTime,
	}

	if len(ranked) == 0 {
		answer.Text = domain.NoAnswer
		answer.NoContext = true
	} else {
		answerStart := time.Now()
		text, err := s.draftAnswer(ctx, question, ranked)
		if err != nil {
			return nil, fmt.Errorf("drafting answer: %w", err)
		}
		answer.Text = text
		answer.AnswerTime = time.Since(answerStart)
	}

	s.persistQueryLog(ctx, question, threshold, topK, filter, answer)

	return answer, nil
}

// draftAnswer builds the grounded prompt, sends it to the language
// model and appends the deduplicated reference list.
func (s *AskService) draftAnswer(ctx context.Context, question string, ranked []domain.RankedParagraph) (string, error) {
	var prompt strings.Builder
	prompt.WriteString(s.loadPrompt(driven.PromptAskContext, defaultAskContextPrompt))
	prompt.WriteString("\n\n")

	seen := make(map[string]struct{})
	var references []string

	for _, r := range ranked {
		fmt.Fprintf(&prompt, "- [%s] %s\n\n", r.Paragraph.ID, r.Paragraph.Text)

		ref := fmt.Sprintf("%s (distancia: %.4f)\nPárrafo [%s]: %s",
			r.DocumentName, r.Distance, r.Paragraph.ID, r.Paragraph.Text)
		if _, ok := seen[ref]; !ok {
			seen[ref] = struct{}{}
			references = append(references, ref)
		}
	}
	sort.Strings(references)

	fmt.Fprintf(&prompt, "\nPregunta: %s\n", question)
	prompt.WriteString(s.loadPrompt(driven.PromptAskInstruction, defaultAskInstructionPrompt))

	reply, err := s.llmService.Chat(ctx, []driven.ChatMessage{
		{Role: "user", Content: prompt.String()},
	}, driven.ChatOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	return reply + "\n\nRef. utilizadas:\n" + strings.Join(references, "\n\n"), nil
}

// persistQueryLog records the question and its grounding fragments.
// Failures are logged and never fail the answer itself.
func (s *AskService) persistQueryLog(
	ctx context.Context,
	question string,
	threshold float64,
	topK int,
	filter domain.ParagraphFilter,
	answer *domain.Answer,
) {
	if s.queryLogStore == nil {
		return
	}

	log := &domain.QueryLog{
		ID:             uuid.NewString(),
		Question:       question,
		EmbeddingModel: s.embeddingService.ModelName(),
		AnswerModel:    s.llmService.ModelName(),
		Answer:         answer.Text,
		Threshold:      threshold,
		TopK:           topK,
		Candidates:     answer.Candidates,
		RankTime:       answer.RankTime,
		AnswerTime:     answer.AnswerTime,
		Filter:         filter,
		AskedAt:        time.Now().UTC(),
	}

	fragments := make([]domain.FragmentUsed, 0, len(answer.Fragments))
	for _, r := range answer.Fragments {
		fragments = append(fragments, domain.FragmentUsed{
			QueryID:    log.ID,
			DocumentID: r.Paragraph.DocumentID,
			Ordinal:    r.Paragraph.Ordinal,
			Distance:   r.Distance,
		})
	}

	if err := s.queryLogStore.SaveQueryLog(ctx, log, fragments); err != nil {
		logger.Warn("Failed to record query log: %v", err)
	}
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *AskService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
