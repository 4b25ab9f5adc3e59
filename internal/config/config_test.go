package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Source: "ollama",
			Ollama: OllamaConfig{ServerURL: "http://localhost:11434", Model: "nomic-embed-text"},
		},
		LLM: LLMConfig{
			Source:  "ollama",
			Timeout: 60 * time.Second,
			Ollama:  OllamaConfig{ServerURL: "http://localhost:11434", Model: "llama3"},
		},
	}
}

func TestValidateAcceptsCompleteOllamaSetup(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateAcceptsOpenAISetup(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Source = "openai"
	cfg.Embedding.OpenAI.APIKey = "sk-test"
	cfg.LLM.Source = "openai"
	cfg.LLM.OpenAI.APIKey = "sk-test"
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Source = "huggingface"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.LLM.Source = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsIncompleteProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Ollama.Model = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.LLM.Source = "openai"
	cfg.LLM.OpenAI.APIKey = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Timeout = 0
	assert.Error(t, cfg.Validate())
}
