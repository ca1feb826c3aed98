package config

import (
	"os"
	"time"
)

type Config struct {
	Port            string
	DatabaseURL     string
	RedisURL        string
	KafkaBrokers    string
	JaegerEndpoint  string
	NominatimURL    string
	AnthropicAPIKey string
	FraudEvaluator  string
	DecisionTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		JaegerEndpoint:  os.Getenv("JAEGER_ENDPOINT"),
		NominatimURL:    os.Getenv("NOMINATIM_URL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		FraudEvaluator:  getEnv("FRAUD_EVALUATOR", "rule"),
		DecisionTimeout: getDurationEnv("DECISION_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
