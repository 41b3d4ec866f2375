package config

import (
	"os"
	"strconv"
	"strings"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=global_exchange_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"

type Config struct {
	AppPort       string
	DatabaseDSN   string
	MigrationsDir string
	UploadDir     string

	KafkaBrokers         []string
	TopicTransferCreated string
	TopicTransferPaid    string
	OutboxMaxRetries     int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PushWebhookURL      string
	WhatchimpWebhookURL string
	WhatchimpEnabled    bool

	AdminUsername string
	AdminPassword string
}

func Load() (Config, error) {
	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	brokers := []string{}
	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if trimmed := strings.TrimSpace(b); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}

	return Config{
		AppPort:              envOrDefault("PORT", "5000"),
		DatabaseDSN:          normalizeConnectionString(conn),
		MigrationsDir:        envOrDefault("MIGRATIONS_DIR", "migrations"),
		UploadDir:            envOrDefault("UPLOAD_DIR", "uploads"),
		KafkaBrokers:         brokers,
		TopicTransferCreated: envOrDefault("KAFKA_TOPIC_TRANSFER_CREATED", "transfer.created"),
		TopicTransferPaid:    envOrDefault("KAFKA_TOPIC_TRANSFER_PAID", "transfer.paid"),
		OutboxMaxRetries:     envIntOrDefault("OUTBOX_MAX_RETRIES", 5),
		RedisAddr:            strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              envIntOrDefault("REDIS_DB", 0),
		PushWebhookURL:       strings.TrimSpace(os.Getenv("PUSH_WEBHOOK_URL")),
		WhatchimpWebhookURL:  strings.TrimSpace(os.Getenv("WHATCHIMP_WEBHOOK_URL")),
		WhatchimpEnabled:     envBool("WHATCHIMP_ENABLED"),
		AdminUsername:        envOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envIntOrDefault(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envBool(key string) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	return raw == "true" || raw == "1"
}

func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
