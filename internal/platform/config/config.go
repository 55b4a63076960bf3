package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	cleanstrings "curator/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
	Redis         RedisConfig
	Kafka         KafkaConfig
}

// RedisConfig configures the optional Redis verdict sink.
type RedisConfig struct {
	URL          string
	Channel      string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional Kafka verdict sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CURATOR_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	kafkaTopic := os.Getenv("KAFKA_VERDICT_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = "moderation.verdicts"
	}

	redisChannel := os.Getenv("REDIS_VERDICT_CHANNEL")
	if redisChannel == "" {
		redisChannel = "moderation:verdicts"
	}

	return Server{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: jwtSigningKey,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			Channel:      redisChannel,
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokerList(os.Getenv("KAFKA_BROKERS")),
			Topic:   kafkaTopic,
		},
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// brokerList parses a comma-separated broker list. Broker host names are
// case-insensitive, so entries are lowercased before deduplication.
func brokerList(s string) []string {
	if s == "" {
		return nil
	}
	return cleanstrings.DedupeAndTrimLower(strings.Split(s, ","))
}
