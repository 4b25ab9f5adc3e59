package service

import (
	"context"
	"fmt"
	"strings"

	"doctutor/internal/domain"
)

const explanationSystemMessage = "You are an expert tutor. Provide clear, concise and accurate " +
	"explanations of concepts, with references to relevant source material where applicable. " +
	"Ensure explanations are educational and helpful for students."

// ExplanationService generates standalone concept explanations via the
// text-generation service, without document grounding.
type ExplanationService struct {
	generator domain.TextGenerator
}

func NewExplanationService(generator domain.TextGenerator) *ExplanationService {
	return &ExplanationService{generator: generator}
}

// Explain returns a tutor-style explanation of the concept.
func (s *ExplanationService) Explain(ctx context.Context, concept string) (string, error) {
	if strings.TrimSpace(concept) == "" {
		return "", domain.NewValidationError("concept cannot be empty")
	}
	prompt := fmt.Sprintf("Explain the following concept: %s", concept)
	return s.generator.Generate(ctx, explanationSystemMessage, prompt, nil)
}
