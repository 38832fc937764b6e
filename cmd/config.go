package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers        []string
	KafkaLifecycleTopic string
	KafkaConsumerGroup  string

	AutoApprovalSchedule    string
	AssignmentRetrySchedule string
	OutboxRelaySchedule     string
	OutboxBatchSize         int
	AutoApprovalBatchSize   int
	AssignmentRetryLimit    int

	OtpLength        int
	BusinessTimezone *time.Location

	DedupDir string
	DedupTTL time.Duration

	OtelServiceName   string
	OtelEndpoint      string
	OpenAPIValidation bool
}

// DatabaseDSN is the key/value form gorm's postgres driver accepts.
func (c Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// DatabaseURL is the URL form golang-migrate expects.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSslMode)
}

// LoadConfig reads envFile when it exists and then the process environment.
// Environment variables win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	loc, err := time.LoadLocation(v.GetString("BUSINESS_TIMEZONE"))
	if err != nil {
		return Config{}, fmt.Errorf("BUSINESS_TIMEZONE: %w", err)
	}

	cfg := Config{
		HTTPPort:   v.GetString("HTTP_PORT"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSslMode:  v.GetString("DB_SSLMODE"),

		KafkaBrokers:        splitList(v.GetString("KAFKA_BROKERS")),
		KafkaLifecycleTopic: v.GetString("KAFKA_LIFECYCLE_TOPIC"),
		KafkaConsumerGroup:  v.GetString("KAFKA_CONSUMER_GROUP"),

		AutoApprovalSchedule:    v.GetString("AUTO_APPROVAL_SCHEDULE"),
		AssignmentRetrySchedule: v.GetString("ASSIGNMENT_RETRY_SCHEDULE"),
		OutboxRelaySchedule:     v.GetString("OUTBOX_RELAY_SCHEDULE"),
		OutboxBatchSize:         v.GetInt("OUTBOX_BATCH_SIZE"),
		AutoApprovalBatchSize:   v.GetInt("AUTO_APPROVAL_BATCH_SIZE"),
		AssignmentRetryLimit:    v.GetInt("ASSIGNMENT_RETRY_LIMIT"),

		OtpLength:        v.GetInt("OTP_LENGTH"),
		BusinessTimezone: loc,

		DedupDir: v.GetString("DEDUP_DIR"),
		DedupTTL: v.GetDuration("DEDUP_TTL"),

		OtelServiceName:   v.GetString("OTEL_SERVICE_NAME"),
		OtelEndpoint:      v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OpenAPIValidation: v.GetBool("OPENAPI_VALIDATION"),
	}
	if len(cfg.KafkaBrokers) == 0 {
		return Config{}, errors.New("KAFKA_BROKERS is required")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_LIFECYCLE_TOPIC", "fulfillment.lifecycle")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "fulfillment-notifier")
	v.SetDefault("AUTO_APPROVAL_SCHEDULE", "*/30 * * * * *")
	v.SetDefault("ASSIGNMENT_RETRY_SCHEDULE", "0 * * * * *")
	v.SetDefault("OUTBOX_RELAY_SCHEDULE", "*/2 * * * * *")
	v.SetDefault("OUTBOX_BATCH_SIZE", 100)
	v.SetDefault("AUTO_APPROVAL_BATCH_SIZE", 200)
	v.SetDefault("ASSIGNMENT_RETRY_LIMIT", 50)
	v.SetDefault("OTP_LENGTH", 4)
	v.SetDefault("BUSINESS_TIMEZONE", "UTC")
	v.SetDefault("DEDUP_TTL", "72h")
	v.SetDefault("OTEL_SERVICE_NAME", "fulfillment")
	v.SetDefault("OPENAPI_VALIDATION", true)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
