package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env                string
	Port               string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	OllamaURL          string
	LLMModel           string
	EmbeddingModel     string
	EmbeddingDimension int
	SerpAPIKey         string
	SearchRatePerMin   int
	FetchTimeout       time.Duration
	EnrichConcurrency  int
	RetrieveLimit      int
	AnswerCacheSize    int
	AnswerCacheTTL     time.Duration
}

func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", "8085"),
		DBHost:             getEnv("DB_HOST", "news-db"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "news_user"),
		DBPassword:         getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "news_password"),
		DBName:             getEnv("DB_NAME", "news_db"),
		OllamaURL:          getEnv("OLLAMA_URL", "http://localhost:11434"),
		LLMModel:           getEnv("LLM_MODEL", "gpt-oss:20b"),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		EmbeddingDimension: getEnvInt("EMBEDDING_DIMENSION", 768),
		SerpAPIKey:         getSecret("SERPAPI_KEY", "SERPAPI_KEY_FILE", ""),
		SearchRatePerMin:   getEnvInt("SEARCH_RATE_PER_MIN", 20),
		FetchTimeout:       getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		EnrichConcurrency:  getEnvInt("ENRICH_CONCURRENCY", 3),
		RetrieveLimit:      getEnvInt("RETRIEVE_LIMIT", 3),
		AnswerCacheSize:    getEnvInt("ANSWER_CACHE_SIZE", 128),
		AnswerCacheTTL:     getEnvDuration("ANSWER_CACHE_TTL", 10*time.Minute),
	}
}

// DatabaseDSN builds the primary connection string including the password.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// DatabaseDSNWithoutPassword builds the fallback connection string for
// trust- or peer-authenticated deployments.
func (c *Config) DatabaseDSNWithoutPassword() string {
	return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
