// Package config は環境変数と .env ファイルからアプリケーション設定を読み込む
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ストアのバックエンド
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Database設定
	Database DatabaseConfig

	// OpenAI設定（生成 + Embeddings）
	OpenAI OpenAIConfig

	// パイプライン設定
	Pipeline PipelineConfig

	// 会社名の別名と会社ID
	Company CompanyConfig

	// ストア設定
	Store StoreConfig

	// HTTP設定
	HTTPAddr string

	// ログ設定
	Log LogConfig
}

// DatabaseConfig はデータベース接続設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// OpenAIConfig はOpenAI API設定
type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
	EmbeddingMaxTokens int
	LLMModel           string
	Temperature        float64
}

// PipelineConfig はタグ付けパイプラインの調整値
type PipelineConfig struct {
	SimilarityThreshold float64
	EmbeddingChunkRunes int
	NewsTFIDFTopK       int
	NewsTopK            int
	PositionConcurrency int
}

// CompanyConfig は既定テーブルに上書きマージする対応表
type CompanyConfig struct {
	Aliases       map[string]string
	FoldedAliases map[string]string
	NewsIDs       map[string]int64
}

// StoreConfig はストアのバックエンド設定
type StoreConfig struct {
	Backend       string // "postgres" or "memory"
	MemoryDataDir string
}

// LogConfig はログ設定
type LogConfig struct {
	Level  slog.Level
	Format string
	Dir    string
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	aliases, err := parsePairs("COMPANY_ALIASES")
	if err != nil {
		return nil, err
	}
	folded, err := parsePairs("COMPANY_ALIASES_FOLDED")
	if err != nil {
		return nil, err
	}
	newsIDs, err := parseIDPairs("COMPANY_NEWS_IDS")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "talent"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "talent"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", 1536),
			EmbeddingMaxTokens: getEnvAsInt("OPENAI_EMBEDDING_MAX_TOKENS", 8191),
			LLMModel:           getEnv("OPENAI_LLM_MODEL", "gpt-4o-mini"),
			Temperature:        getEnvAsFloat("OPENAI_TEMPERATURE", 0.2),
		},
		Pipeline: PipelineConfig{
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.85),
			EmbeddingChunkRunes: getEnvAsInt("EMBEDDING_CHUNK_RUNES", 2000),
			NewsTFIDFTopK:       getEnvAsInt("NEWS_TFIDF_TOP_K", 10),
			NewsTopK:            getEnvAsInt("NEWS_TOP_K", 3),
			PositionConcurrency: getEnvAsInt("POSITION_CONCURRENCY", 4),
		},
		Company: CompanyConfig{
			Aliases:       aliases,
			FoldedAliases: folded,
			NewsIDs:       newsIDs,
		},
		Store: StoreConfig{
			Backend:       getEnv("STORE_BACKEND", BackendPostgres),
			MemoryDataDir: getEnv("MEMORY_DATA_DIR", ""),
		},
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
		Log: LogConfig{
			Level:  getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
			Format: getEnv("LOG_FORMAT", "json"),
			Dir:    getEnv("LOG_DIR", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値の整合性を検証します
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q: must be %q or %q", c.Store.Backend, BackendPostgres, BackendMemory)
	}
	if t := c.Pipeline.SimilarityThreshold; t < 0 || t > 1 {
		return fmt.Errorf("invalid SIMILARITY_THRESHOLD %v: must be within [0, 1]", t)
	}
	if c.OpenAI.EmbeddingDimension <= 0 {
		return fmt.Errorf("invalid OPENAI_EMBEDDING_DIMENSION %d", c.OpenAI.EmbeddingDimension)
	}
	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat は環境変数を浮動小数点数として取得します
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(valueStr)); err != nil {
		return defaultValue
	}
	return level
}

// parsePairs は "k=v;k=v" 形式の環境変数を読み込みます
func parsePairs(key string) (map[string]string, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil, nil
	}

	out := make(map[string]string)
	for _, pair := range strings.Split(valueStr, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("invalid %s entry %q: expected key=value", key, pair)
		}
		out[k] = v
	}
	return out, nil
}

func parseIDPairs(key string) (map[string]int64, error) {
	pairs, err := parsePairs(key)
	if err != nil || pairs == nil {
		return nil, err
	}

	out := make(map[string]int64, len(pairs))
	for k, v := range pairs {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s id for %q: %w", key, k, err)
		}
		out[k] = id
	}
	return out, nil
}
