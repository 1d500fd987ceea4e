package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/database"
	aws_pkg "github.com/Saqqqi/Food-Delivery-System-sub000/pkg/aws"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the service.
type Config struct {
	Port string

	MongoURL    string
	MongoDBName string

	RedisURL string

	Postgres database.PostgresConfig

	JWTSecret string

	// ServiceKeys maps key ID -> secret for the internal delivery surface.
	ServiceKeys map[string]string

	KafkaBrokers []string
	KafkaTopic   string

	OrderSNSTopicARN string
	OutboxInterval   time.Duration
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override behind AWS_USE_SECRETS=true.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURL:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB", "food_delivery"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		Postgres: database.PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		JWTSecret:        os.Getenv("JWT_SECRET"),
		ServiceKeys:      parseServiceKeys(os.Getenv("DELIVERY_SERVICE_KEYS")),
		KafkaBrokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:       getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		OrderSNSTopicARN: os.Getenv("ORDER_SNS_TOPIC_ARN"),
		OutboxInterval:   5 * time.Second,
	}

	if v := os.Getenv("OUTBOX_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.OutboxInterval = d
		}
	}

	// Override credentials from Secrets Manager when running on AWS.
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg)

			if raw, err := sm.GetSecret(context.Background(), "food-delivery/APP_SECRETS"); err == nil && raw != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(raw), &m); err == nil {
					if v, ok := m["JWT_SECRET"]; ok && v != "" {
						cfg.JWTSecret = v
					}
					if v, ok := m["MONGO_URL"]; ok && v != "" {
						cfg.MongoURL = v
					}
					if v, ok := m["POSTGRES_PASSWORD"]; ok && v != "" {
						cfg.Postgres.Password = v
					}
					if v, ok := m["DELIVERY_SERVICE_KEYS"]; ok && v != "" {
						cfg.ServiceKeys = parseServiceKeys(v)
					}
				}
			}
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	if len(cfg.ServiceKeys) == 0 {
		return nil, fmt.Errorf("DELIVERY_SERVICE_KEYS not set")
	}
	return cfg, nil
}

// parseServiceKeys parses "keyID1.secret1,keyID2.secret2".
func parseServiceKeys(raw string) map[string]string {
	keys := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		keyID, secret, found := strings.Cut(strings.TrimSpace(pair), ".")
		if found && keyID != "" && secret != "" {
			keys[keyID] = secret
		}
	}
	return keys
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
