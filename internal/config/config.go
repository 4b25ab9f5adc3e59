package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Embedding EmbeddingConfig
	LLM       LLMConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	CacheTTLs CacheTTLConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StorageConfig struct {
	UploadDir string
	OutputDir string
}

type OllamaConfig struct {
	ServerURL string
	Model     string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

// EmbeddingConfig selects exactly one embedding provider. Source must name
// the provider explicitly; there is no fallback cascade between providers.
type EmbeddingConfig struct {
	Source string
	Ollama OllamaConfig
	OpenAI OpenAIConfig
}

// LLMConfig selects the text-generation provider and the bounded timeout
// applied to every generation call.
type LLMConfig struct {
	Source  string
	Timeout time.Duration
	Ollama  OllamaConfig
	OpenAI  OpenAIConfig
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
	Env   string
}

type CacheTTLConfig struct {
	Embedding time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("storage.upload_dir", "data/uploads")
	viper.SetDefault("storage.output_dir", "data/outputs")
	viper.SetDefault("llm.timeout", 60)
	viper.SetDefault("cache_ttls.embedding", "168h")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Storage: StorageConfig{
			UploadDir: viper.GetString("storage.upload_dir"),
			OutputDir: viper.GetString("storage.output_dir"),
		},
		Embedding: EmbeddingConfig{
			Source: viper.GetString("embedding.source"),
			Ollama: OllamaConfig{
				ServerURL: viper.GetString("embedding.ollama.server_url"),
				Model:     viper.GetString("embedding.ollama.model"),
			},
			OpenAI: OpenAIConfig{
				APIKey: viper.GetString("embedding.openai.api_key"),
				Model:  viper.GetString("embedding.openai.model"),
			},
		},
		LLM: LLMConfig{
			Source:  viper.GetString("llm.source"),
			Timeout: viper.GetDuration("llm.timeout") * time.Second,
			Ollama: OllamaConfig{
				ServerURL: viper.GetString("llm.ollama.server_url"),
				Model:     viper.GetString("llm.ollama.model"),
			},
			OpenAI: OpenAIConfig{
				APIKey: viper.GetString("llm.openai.api_key"),
				Model:  viper.GetString("llm.openai.model"),
			},
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		CacheTTLs: CacheTTLConfig{
			Embedding: viper.GetDuration("cache_ttls.embedding"),
		},
	}

	// Environment variable overrides
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.Embedding.OpenAI.APIKey = key
		config.LLM.OpenAI.APIKey = key
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		config.Redis.Address = addr
	}
	if url := os.Getenv("OLLAMA_SERVER_URL"); url != "" {
		config.Embedding.Ollama.ServerURL = url
		config.LLM.Ollama.ServerURL = url
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate fails fast on an incomplete provider selection so a broken
// configuration is diagnosed at startup rather than on first use.
func (c *Config) Validate() error {
	switch c.Embedding.Source {
	case "ollama":
		if c.Embedding.Ollama.ServerURL == "" || c.Embedding.Ollama.Model == "" {
			return fmt.Errorf("embedding source is ollama but embedding.ollama.server_url or embedding.ollama.model is empty")
		}
	case "openai":
		if c.Embedding.OpenAI.APIKey == "" {
			return fmt.Errorf("embedding source is openai but embedding.openai.api_key is empty")
		}
	default:
		return fmt.Errorf("unsupported embedding source: %q (must be ollama or openai)", c.Embedding.Source)
	}

	switch c.LLM.Source {
	case "ollama":
		if c.LLM.Ollama.ServerURL == "" || c.LLM.Ollama.Model == "" {
			return fmt.Errorf("llm source is ollama but llm.ollama.server_url or llm.ollama.model is empty")
		}
	case "openai":
		if c.LLM.OpenAI.APIKey == "" {
			return fmt.Errorf("llm source is openai but llm.openai.api_key is empty")
		}
	default:
		return fmt.Errorf("unsupported llm source: %q (must be ollama or openai)", c.LLM.Source)
	}

	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}

	return nil
}
