// Package textgen adapts LangchainGo chat models to the domain.TextGenerator
// port. Every call carries a bounded timeout; a timeout or provider failure
// surfaces as ExternalServiceError rather than hanging the caller.
package textgen

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"doctutor/internal/domain"
	"doctutor/internal/logger"

	"github.com/tmc/langchaingo/llms"
	ollamaLLM "github.com/tmc/langchaingo/llms/ollama"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// LangchainGenerator implements domain.TextGenerator on top of a LangchainGo
// chat model.
type LangchainGenerator struct {
	model    llms.Model
	provider string
	timeout  time.Duration
}

// NewOpenAIGenerator creates a generator backed by the OpenAI chat API.
func NewOpenAIGenerator(apiKey, modelName string, timeout time.Duration) (*LangchainGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client: %w", err)
	}
	return &LangchainGenerator{model: llm, provider: "openai", timeout: timeout}, nil
}

// NewOllamaGenerator creates a generator backed by an Ollama server.
func NewOllamaGenerator(serverURL, modelName string, timeout time.Duration) (*LangchainGenerator, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	httpClient := &http.Client{Timeout: timeout}
	llm, err := ollamaLLM.New(
		ollamaLLM.WithServerURL(serverURL),
		ollamaLLM.WithModel(modelName),
		ollamaLLM.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client: %w", err)
	}
	return &LangchainGenerator{model: llm, provider: "ollama", timeout: timeout}, nil
}

// Generate builds the chat messages from the optional system message, the
// prior turns (oldest first) and the prompt, then invokes the model.
func (g *LangchainGenerator) Generate(ctx context.Context, systemMessage, prompt string, history []domain.ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	messages := make([]llms.MessageContent, 0, len(history)+2)
	if systemMessage != "" {
		messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, systemMessage))
	}
	for _, turn := range history {
		switch turn.Role {
		case domain.RoleUser:
			messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, turn.Content))
		case domain.RoleAssistant:
			messages = append(messages, llms.TextParts(schema.ChatMessageTypeAI, turn.Content))
		default:
			logger.Get().Warn("Dropping chat history turn with unknown role",
				zap.String("role", string(turn.Role)))
		}
	}
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, prompt))

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", domain.NewExternalServiceError(g.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewExternalServiceError(g.provider, fmt.Errorf("model returned no choices"))
	}

	logger.Get().Debug("Text generation completed",
		zap.String("provider", g.provider),
		zap.Duration("duration", time.Since(start)))
	return resp.Choices[0].Content, nil
}

var _ domain.TextGenerator = (*LangchainGenerator)(nil)
