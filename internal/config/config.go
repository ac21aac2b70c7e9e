package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTableNotifications string

	S3DeadLetterBucket string
	SNSAlertTopicARN   string // empty disables operator alerts

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// PipelineMode selects how the realtime publish relates to the durable
	// write: "blocking" sequences them, "async" fires the publish in the
	// background and returns after the write.
	PipelineMode string

	NotificationTTL time.Duration
	PublishTimeout  time.Duration

	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryJitter      time.Duration

	RealtimeTokenSecret string
	RealtimeTokenTTL    time.Duration

	PlatformJWTSecret string

	MetricsPort    string
	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTableNotifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "tenant_notifications"),

		S3DeadLetterBucket: getEnv("S3_DEAD_LETTER_BUCKET", "notification-dead-letters"),
		SNSAlertTopicARN:   getEnv("SNS_ALERT_TOPIC_ARN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "tenant-events"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "notification-service"),

		PipelineMode: getEnv("PIPELINE_MODE", "blocking"),

		NotificationTTL: time.Duration(getEnvInt("NOTIFICATION_TTL_DAYS", 30)) * 24 * time.Hour,
		PublishTimeout:  time.Duration(getEnvInt("PUBLISH_TIMEOUT_SECONDS", 5)) * time.Second,

		RetryMaxAttempts: getEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelay:   time.Duration(getEnvInt("RETRY_BASE_DELAY_MS", 500)) * time.Millisecond,
		RetryJitter:      time.Duration(getEnvInt("RETRY_JITTER_MS", 200)) * time.Millisecond,

		RealtimeTokenSecret: getEnv("REALTIME_TOKEN_SECRET", "dev-realtime-secret"),
		RealtimeTokenTTL:    time.Duration(getEnvInt("REALTIME_TOKEN_TTL_MINUTES", 60)) * time.Minute,

		PlatformJWTSecret: getEnv("PLATFORM_JWT_SECRET", "dev-platform-secret"),

		MetricsPort:    getEnv("METRICS_PORT", "2112"),
		AllowedOrigins: splitAndTrim(getEnv("ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
