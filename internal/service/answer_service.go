package service

import (
	"context"
	"fmt"
	"strings"

	"doctutor/internal/domain"
	"doctutor/internal/index"
	"doctutor/internal/logger"

	"go.uber.org/zap"
)

const (
	// DefaultTopK is how many passages ground an answer.
	DefaultTopK = 3

	// ServiceUnavailableAnswer is returned in place of a generated answer
	// when the text-generation service fails; the Q&A call itself does not
	// fail.
	ServiceUnavailableAnswer = "The answer service is currently unavailable. Please try again later."

	groundedSystemMessage = "You are an expert tutor answering questions about a document. " +
		"Ground your answer in the provided context passages. If the context does not " +
		"contain the answer, say so rather than inventing information."

	generalSystemMessage = "You are an expert tutor answering questions from students. " +
		"Provide accurate, educational and helpful responses. If you are unsure about " +
		"any information, clearly indicate this rather than providing incorrect information."
)

// Answer is a generated answer with the passages that grounded it. Sources is
// empty in general-knowledge mode.
type Answer struct {
	Text       string          `json:"answer"`
	Sources    []domain.Source `json:"sources"`
	DocumentID string          `json:"document_id,omitempty"`
}

// AnswerService composes retrieved passages, optional chat history and a
// question into a grounded answer. When no document id is supplied the
// question is answered from general knowledge; that is a distinct mode, not a
// fallback from failure.
type AnswerService struct {
	indexes   *index.Manager
	generator domain.TextGenerator
}

func NewAnswerService(indexes *index.Manager, generator domain.TextGenerator) *AnswerService {
	return &AnswerService{indexes: indexes, generator: generator}
}

// Ask answers the question. With a document id, the top-k most similar
// passages are retrieved and embedded in the prompt as grounding context;
// NotFound surfaces when the document has no index. Generation failures
// degrade to a clearly marked unavailable answer instead of an error.
func (s *AnswerService) Ask(ctx context.Context, question string, documentID string, history []domain.ChatMessage) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.NewValidationError("question cannot be empty")
	}

	if documentID == "" {
		return s.generalAnswer(ctx, question, history)
	}

	sources, err := s.indexes.Search(ctx, documentID, question, DefaultTopK)
	if err != nil {
		return nil, err
	}

	prompt := buildGroundedPrompt(question, sources)
	text, err := s.generator.Generate(ctx, groundedSystemMessage, prompt, history)
	if err != nil {
		logger.Get().Error("Answer generation failed, degrading",
			zap.String("document_id", documentID), zap.Error(err))
		text = ServiceUnavailableAnswer
	}

	return &Answer{Text: text, Sources: sources, DocumentID: documentID}, nil
}

func (s *AnswerService) generalAnswer(ctx context.Context, question string, history []domain.ChatMessage) (*Answer, error) {
	text, err := s.generator.Generate(ctx, generalSystemMessage, question, history)
	if err != nil {
		logger.Get().Error("General answer generation failed, degrading", zap.Error(err))
		text = ServiceUnavailableAnswer
	}
	return &Answer{Text: text, Sources: []domain.Source{}}, nil
}

func buildGroundedPrompt(question string, sources []domain.Source) string {
	var sb strings.Builder
	sb.WriteString("Context passages from the document:\n\n")
	for i, source := range sources {
		fmt.Fprintf(&sb, "[%d] %s\n\n", i+1, source.Text)
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}
