// Package config loads the faqtory YAML configuration file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/faqtory/ai"
	"github.com/poiesic/faqtory/retry"
)

// FileName is the config file looked up in the working directory.
const FileName = "faqtory.yaml"

// Environment variables consulted for the API key, in order.
const (
	EnvAPIKey       = "FAQTORY_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// AIConfig configures the OpenAI-compatible services.
type AIConfig struct {
	EmbeddingHost     string  `yaml:"embedding_host"`
	ChatHost          string  `yaml:"chat_host"`
	EmbeddingModel    string  `yaml:"embedding_model"`
	ChatModel         string  `yaml:"chat_model"`
	APIKey            string  `yaml:"api_key,omitempty"`
	QuestionCount     int     `yaml:"question_count"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	MaxAttempts       int     `yaml:"max_attempts"`
	MinDelaySecs      int     `yaml:"min_delay_secs"`
	MaxDelaySecs      int     `yaml:"max_delay_secs"`
}

// StorageConfig locates the badger database and the chunk vector store.
type StorageConfig struct {
	Path       string `yaml:"path"`
	VectorPath string `yaml:"vector_path"`
	Collection string `yaml:"collection"`
	Compress   bool   `yaml:"compress"`
}

// IngestionConfig tunes the ingestion pipeline.
type IngestionConfig struct {
	MinNewLines         int     `yaml:"min_new_lines"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	ChunkTokenSize      int     `yaml:"chunk_token_size"`
	ChunkOverlap        int     `yaml:"chunk_overlap"`
	Workers             int     `yaml:"workers"`
}

// RetrievalConfig tunes queries.
type RetrievalConfig struct {
	TopK         int     `yaml:"top_k"`
	KeywordBoost float32 `yaml:"keyword_boost"`
}

// RedisConfig points the topic catalog at a Redis hash.
// When Addr is empty topics are kept in the badger database.
type RedisConfig struct {
	Addr        string `yaml:"addr"`
	Password    string `yaml:"password,omitempty"`
	DB          int    `yaml:"db"`
	Key         string `yaml:"key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Timeout returns the dial timeout.
func (c RedisConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// AppConfig is the root configuration.
type AppConfig struct {
	AI        AIConfig        `yaml:"ai"`
	Storage   StorageConfig   `yaml:"storage"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Redis     RedisConfig     `yaml:"redis"`
}

// Load reads a config from path. A missing file yields the defaults.
// Unset fields are filled with defaults and the API key is taken from the
// environment when the file doesn't carry one.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./faqtory.yaml first, then ~/.config/faqtory/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	if _, err := os.Stat(FileName); err == nil {
		cfg, err := Load(FileName)
		return cfg, FileName, err
	}

	userPath, err := UserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}

	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// LoadDotEnv loads environment variables from the given .env files,
// or ./.env when none are given. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// UserConfigPath returns ~/.config/faqtory/config.yaml.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "faqtory", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	aiDefaults := ai.DefaultConfig()
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = aiDefaults.EmbeddingHost
	}
	if cfg.AI.ChatHost == "" {
		cfg.AI.ChatHost = aiDefaults.ChatHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = aiDefaults.EmbeddingModel
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = aiDefaults.ChatModel
	}
	if cfg.AI.QuestionCount == 0 {
		cfg.AI.QuestionCount = aiDefaults.QuestionCount
	}
	if cfg.AI.RequestsPerSecond == 0 {
		cfg.AI.RequestsPerSecond = aiDefaults.RequestsPerSecond
		cfg.AI.Burst = aiDefaults.Burst
	}
	if cfg.AI.MaxAttempts == 0 {
		cfg.AI.MaxAttempts = aiDefaults.Retry.MaxAttempts
	}
	if cfg.AI.MinDelaySecs == 0 {
		cfg.AI.MinDelaySecs = int(aiDefaults.Retry.MinDelay / time.Second)
	}
	if cfg.AI.MaxDelaySecs == 0 {
		cfg.AI.MaxDelaySecs = int(aiDefaults.Retry.MaxDelay / time.Second)
	}

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "faqtory.db"
	}
	if cfg.Storage.VectorPath == "" {
		cfg.Storage.VectorPath = "faqtory.vectors"
	}
	if cfg.Storage.Collection == "" {
		cfg.Storage.Collection = "chunks"
	}

	if cfg.Ingestion.MinNewLines == 0 {
		cfg.Ingestion.MinNewLines = 100
	}
	if cfg.Ingestion.SimilarityThreshold == 0 {
		cfg.Ingestion.SimilarityThreshold = 0.9
	}
	if cfg.Ingestion.ChunkTokenSize == 0 {
		cfg.Ingestion.ChunkTokenSize = 200
	}
	if cfg.Ingestion.Workers == 0 {
		cfg.Ingestion.Workers = 4
	}

	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 6
	}

	if cfg.Redis.Key == "" {
		cfg.Redis.Key = "faqtory:topics"
	}
	if cfg.Redis.TimeoutSecs == 0 {
		cfg.Redis.TimeoutSecs = 5
	}
}

func applyEnv(cfg *AppConfig) {
	if cfg.AI.APIKey != "" {
		return
	}
	for _, name := range []string{EnvAPIKey, EnvOpenAIAPIKey} {
		if v := os.Getenv(name); v != "" {
			cfg.AI.APIKey = v
			return
		}
	}
}

// AIServiceConfig converts the ai section into an ai.Config.
func (c *AppConfig) AIServiceConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithChatHost(c.AI.ChatHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithChatModel(c.AI.ChatModel),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithQuestionCount(c.AI.QuestionCount),
		ai.WithRateLimit(c.AI.RequestsPerSecond, c.AI.Burst),
		ai.WithRetryPolicy(retry.Policy{
			MaxAttempts: c.AI.MaxAttempts,
			MinDelay:    time.Duration(c.AI.MinDelaySecs) * time.Second,
			MaxDelay:    time.Duration(c.AI.MaxDelaySecs) * time.Second,
		}),
	)
}
