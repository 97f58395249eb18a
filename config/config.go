package config

import (
	"os"
	"strconv"
	"time"
)

const (
	BACKEND_HUGOT  = "hugot"
	BACKEND_REMOTE = "remote"
	BACKEND_OPENAI = "openai"
	BACKEND_VADER  = "vader"
)

const DEFAULT_REPLY = "Thank you for sharing. I'm here for you."

type AnalyzerConfig struct {
	Addr    string
	Backend string

	HugotModel    string
	HugotModelDir string

	InferenceURL   string
	InferenceToken string

	OpenAIKey   string
	OpenAIModel string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool
	CacheTTL       time.Duration

	KafkaBroker string
	KafkaTopic  string

	HealthCheckInterval time.Duration
}

type CompanionConfig struct {
	Addr      string
	ChunkSize int
	Reply     string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func GetAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Addr:    getEnv("ANALYZER_ADDR", "0.0.0.0:8000"),
		Backend: getEnv("CLASSIFIER_BACKEND", BACKEND_HUGOT),

		HugotModel:    getEnv("HUGOT_MODEL", "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"),
		HugotModelDir: getEnv("HUGOT_MODEL_DIR", "./models"),

		InferenceURL:   getEnv("HF_INFERENCE_URL", "https://api-inference.huggingface.co/models/distilbert/distilbert-base-uncased-finetuned-sst-2-english"),
		InferenceToken: os.Getenv("HF_API_TOKEN"),

		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		ValkeyAddress:  os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:      os.Getenv("VALKEY_TLS") == "true",
		CacheTTL:       getEnvDuration("CACHE_TTL", 24*time.Hour),

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  getEnv("KAFKA_TOPIC_SENTIMENT_RESULTS", "sentiment-results"),

		HealthCheckInterval: getEnvDuration("HEALTHCHECK_INTERVAL", 15*time.Second),
	}
}

func GetCompanionConfig() CompanionConfig {
	return CompanionConfig{
		Addr:      getEnv("COMPANION_ADDR", "0.0.0.0:4040"),
		ChunkSize: getEnvInt("COMPANION_CHUNK_SIZE", 1024),
		Reply:     getEnv("COMPANION_REPLY", DEFAULT_REPLY),
	}
}
