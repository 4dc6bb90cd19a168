package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       App       `mapstructure:"app"`
	LLM       LLM       `mapstructure:"llm"`
	Embedding Embedding `mapstructure:"embedding"`
	Classify  Classify  `mapstructure:"classify"`
	Review    Review    `mapstructure:"review"`
	Server    Server    `mapstructure:"server"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// LLM holds provider configuration for the classification tiers.
// Provider is one of "local" (Ollama-compatible server) or "remote"
// (OpenAI-compatible API).
type LLM struct {
	Provider     string `mapstructure:"provider"`
	LocalBaseURL string `mapstructure:"local_base_url"`
	LocalModel   string `mapstructure:"local_model"`
	RemoteAPIKey string `mapstructure:"remote_api_key"`
	RemoteModel  string `mapstructure:"remote_model"`
	BatchEnabled bool   `mapstructure:"batch_enabled"`
	BatchSize    int    `mapstructure:"batch_size"`
}

// Embedding holds embedding backend configuration. BaseURL falls back to
// llm.local_base_url when empty.
type Embedding struct {
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Classify holds the classification thresholds. All values are fixed for the
// process lifetime once loaded.
type Classify struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	HITLThreshold       float64 `mapstructure:"hitl_threshold"`
	RAGTopK             int     `mapstructure:"rag_top_k"`
	Currency            string  `mapstructure:"currency"`
}

// Review holds human-in-the-loop review configuration
type Review struct {
	FeedbackLog string `mapstructure:"feedback_log"`
}

// Server holds HTTP server configuration
type Server struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// ReadTimeoutDuration returns the parsed read timeout.
func (s Server) ReadTimeoutDuration() time.Duration { return parseDurationOr(s.ReadTimeout, 30*time.Second) }

// WriteTimeoutDuration returns the parsed write timeout.
func (s Server) WriteTimeoutDuration() time.Duration {
	return parseDurationOr(s.WriteTimeout, 150*time.Second)
}

// ShutdownTimeoutDuration returns the parsed graceful shutdown timeout.
func (s Server) ShutdownTimeoutDuration() time.Duration {
	return parseDurationOr(s.ShutdownTimeout, 10*time.Second)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

var globalConfig *Config

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	// Configure viper
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".vegly")
		viper.SetConfigType("yaml")
	}

	// Set defaults
	setDefaults()

	// Bind environment variables
	bindEnvironmentVariables()

	// Enable automatic environment variable reading
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal into struct
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Apply post-processing
	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	// LLM defaults
	viper.SetDefault("llm.provider", "local")
	viper.SetDefault("llm.local_base_url", "http://localhost:11434")
	viper.SetDefault("llm.local_model", "llama3.2")
	viper.SetDefault("llm.remote_model", "gpt-4o-mini")
	viper.SetDefault("llm.batch_enabled", true)
	viper.SetDefault("llm.batch_size", 8)

	// Embedding defaults
	viper.SetDefault("embedding.model", "nomic-embed-text")
	viper.SetDefault("embedding.base_url", "")

	// Classification defaults
	viper.SetDefault("classify.confidence_threshold", 0.6)
	viper.SetDefault("classify.hitl_threshold", 0.4)
	viper.SetDefault("classify.rag_top_k", 5)
	viper.SetDefault("classify.currency", "USD")

	// Review defaults
	viper.SetDefault("review.feedback_log", "data/feedback_log.jsonl")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "150s")
	viper.SetDefault("server.shutdown_timeout", "10s")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("llm.provider", []string{
		"VEGLY_LLM_PROVIDER",
		"LLM_PROVIDER",
	})

	bindEnvKeys("llm.local_base_url", []string{
		"VEGLY_LOCAL_BASE_URL",
		"OLLAMA_HOST",
		"OLLAMA_BASE_URL",
	})

	bindEnvKeys("llm.local_model", []string{
		"VEGLY_LOCAL_MODEL",
		"OLLAMA_MODEL",
	})

	// Remote API key - support multiple formats
	bindEnvKeys("llm.remote_api_key", []string{
		"VEGLY_REMOTE_API_KEY",
		"OPENAI_API_KEY",
	})

	bindEnvKeys("llm.remote_model", []string{
		"VEGLY_REMOTE_MODEL",
	})

	bindEnvKeys("llm.batch_enabled", []string{
		"VEGLY_LLM_BATCH_ENABLED",
	})

	bindEnvKeys("llm.batch_size", []string{
		"VEGLY_LLM_BATCH_SIZE",
	})

	bindEnvKeys("embedding.model", []string{
		"VEGLY_EMBEDDING_MODEL",
	})

	bindEnvKeys("classify.confidence_threshold", []string{
		"VEGLY_CONFIDENCE_THRESHOLD",
	})

	bindEnvKeys("classify.hitl_threshold", []string{
		"VEGLY_HITL_THRESHOLD",
	})

	bindEnvKeys("classify.rag_top_k", []string{
		"VEGLY_RAG_TOP_K",
	})

	bindEnvKeys("classify.currency", []string{
		"VEGLY_CURRENCY",
	})

	bindEnvKeys("review.feedback_log", []string{
		"VEGLY_FEEDBACK_LOG",
	})

	bindEnvKeys("server.host", []string{
		"VEGLY_HOST",
	})

	bindEnvKeys("server.port", []string{
		"VEGLY_PORT",
		"PORT",
	})

	// General settings
	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"VEGLY_DEBUG",
	})

	bindEnvKeys("app.log_level", []string{
		"VEGLY_LOG_LEVEL",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig applies post-processing to configuration values
func postProcessConfig(config *Config) error {
	// The embedder talks to the same server as the local LLM unless
	// configured separately.
	if config.Embedding.BaseURL == "" {
		config.Embedding.BaseURL = config.LLM.LocalBaseURL
	}

	// Validate durations
	durations := map[string]string{
		"server.read_timeout":     config.Server.ReadTimeout,
		"server.write_timeout":    config.Server.WriteTimeout,
		"server.shutdown_timeout": config.Server.ShutdownTimeout,
	}

	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}

	return nil
}

// validateConfig ensures required configuration is present
func validateConfig(config *Config) error {
	var errors []string

	switch config.LLM.Provider {
	case "local", "remote":
	default:
		errors = append(errors, fmt.Sprintf("Unknown LLM provider: %s. Supported: local, remote", config.LLM.Provider))
	}

	if config.LLM.Provider == "remote" && config.LLM.RemoteAPIKey == "" {
		errors = append(errors, "Remote LLM provider requires an API key. Set VEGLY_REMOTE_API_KEY or OPENAI_API_KEY")
	}

	if config.Classify.ConfidenceThreshold < 0 || config.Classify.ConfidenceThreshold > 1 {
		errors = append(errors, fmt.Sprintf("classify.confidence_threshold must be in [0,1], got %v", config.Classify.ConfidenceThreshold))
	}

	if config.Classify.HITLThreshold < 0 || config.Classify.HITLThreshold > 1 {
		errors = append(errors, fmt.Sprintf("classify.hitl_threshold must be in [0,1], got %v", config.Classify.HITLThreshold))
	}

	if config.Classify.RAGTopK < 1 {
		errors = append(errors, fmt.Sprintf("classify.rag_top_k must be at least 1, got %d", config.Classify.RAGTopK))
	}

	if config.LLM.BatchSize < 1 {
		errors = append(errors, fmt.Sprintf("llm.batch_size must be at least 1, got %d", config.LLM.BatchSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Convenience getters for commonly used configuration values
func GetLLM() LLM             { return Get().LLM }
func GetEmbedding() Embedding { return Get().Embedding }
func GetClassify() Classify   { return Get().Classify }
func GetReview() Review       { return Get().Review }
func GetServer() Server       { return Get().Server }

// Specific convenience getters for frequently accessed values
func GetCurrency() string { return Get().Classify.Currency }
func IsDebugMode() bool   { return Get().App.Debug }

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
