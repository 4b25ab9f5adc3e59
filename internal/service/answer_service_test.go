package service

import (
	"context"
	"strings"
	"testing"

	"doctutor/internal/domain"
	"doctutor/internal/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// wordCountEmbedder maps text onto a fixed vocabulary so similarity behaves
// predictably without a real embedding backend.
type wordCountEmbedder struct{}

var embedderVocabulary = []string{"sky", "blue", "triangle", "sides", "ocean", "deep"}

func (wordCountEmbedder) Generate(_ context.Context, text string) ([]float32, error) {
	lowered := strings.ToLower(text)
	vec := make([]float32, len(embedderVocabulary))
	for i, word := range embedderVocabulary {
		vec[i] = float32(strings.Count(lowered, word))
	}
	return vec, nil
}

func newAnswerServiceForTest(t *testing.T) (*AnswerService, *index.Manager, *MockTextGenerator) {
	t.Helper()
	manager, err := index.NewManager(t.TempDir(), wordCountEmbedder{}, index.NewChunker(1, 0))
	require.NoError(t, err)
	generator := new(MockTextGenerator)
	return NewAnswerService(manager, generator), manager, generator
}

func TestAskGroundedAnswerCarriesSources(t *testing.T) {
	svc, manager, generator := newAnswerServiceForTest(t)
	ctx := context.Background()

	require.NoError(t, manager.Build(ctx, "doc1", "The sky is blue. A triangle has three sides. The ocean is deep."))

	generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("The sky is blue.", nil)

	answer, err := svc.Ask(ctx, "Why is the sky blue?", "doc1", nil)
	require.NoError(t, err)
	assert.Equal(t, "The sky is blue.", answer.Text)
	assert.Equal(t, "doc1", answer.DocumentID)
	require.NotEmpty(t, answer.Sources)
	assert.Contains(t, answer.Sources[0].Text, "sky")

	// The retrieved passages end up in the prompt the model sees.
	prompt := generator.Calls[0].Arguments.String(2)
	assert.Contains(t, prompt, "[1]")
	assert.Contains(t, prompt, "Question: Why is the sky blue?")
}

func TestAskDegradesWhenGenerationFails(t *testing.T) {
	svc, manager, generator := newAnswerServiceForTest(t)
	ctx := context.Background()

	require.NoError(t, manager.Build(ctx, "doc1", "The sky is blue."))

	generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", domain.NewExternalServiceError("llm", assert.AnError))

	answer, err := svc.Ask(ctx, "Why is the sky blue?", "doc1", nil)
	require.NoError(t, err)
	assert.Equal(t, ServiceUnavailableAnswer, answer.Text)
	assert.NotEmpty(t, answer.Sources)
}

func TestAskGeneralModeHasNoSources(t *testing.T) {
	svc, _, generator := newAnswerServiceForTest(t)

	generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("General knowledge answer.", nil)

	answer, err := svc.Ask(context.Background(), "What is photosynthesis?", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "General knowledge answer.", answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Empty(t, answer.DocumentID)

	// The general system message is used, not the grounded one.
	system := generator.Calls[0].Arguments.String(1)
	assert.NotContains(t, system, "context passages")
}

func TestAskMissingIndexIsNotFound(t *testing.T) {
	svc, _, generator := newAnswerServiceForTest(t)

	_, err := svc.Ask(context.Background(), "Anything?", "missing-doc", nil)
	assert.True(t, domain.IsCode(err, domain.ErrNotFound))
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAskEmptyQuestionFailsValidation(t *testing.T) {
	svc, _, _ := newAnswerServiceForTest(t)

	for _, question := range []string{"", "   ", "\n\t"} {
		_, err := svc.Ask(context.Background(), question, "", nil)
		assert.True(t, domain.IsCode(err, domain.ErrValidation))
	}
}

func TestAskForwardsChatHistory(t *testing.T) {
	svc, _, generator := newAnswerServiceForTest(t)

	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "Hi"},
		{Role: domain.RoleAssistant, Content: "Hello, how can I help?"},
	}
	generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, history).
		Return("Follow-up answer.", nil)

	answer, err := svc.Ask(context.Background(), "And then?", "", history)
	require.NoError(t, err)
	assert.Equal(t, "Follow-up answer.", answer.Text)
	generator.AssertExpectations(t)
}
