package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	RedisAddr   string

	KafkaBrokers         []string
	ProductTopic         string
	OfferingTopic        string
	ProductConsumerGroup string

	AllowProductReassignment bool
	OutboxPollInterval       time.Duration
	OutboxBatchSize          int
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "offering-service"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}

	productTopic := os.Getenv("PRODUCT_TOPIC")
	if productTopic == "" {
		productTopic = "product"
	}
	offeringTopic := os.Getenv("OFFERING_TOPIC")
	if offeringTopic == "" {
		offeringTopic = "offering"
	}
	consumerGroup := os.Getenv("PRODUCT_CONSUMER_GROUP")
	if consumerGroup == "" {
		consumerGroup = "offering-service-product-cg"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		KafkaBrokers:         brokers,
		ProductTopic:         productTopic,
		OfferingTopic:        offeringTopic,
		ProductConsumerGroup: consumerGroup,

		AllowProductReassignment: envBool("ALLOW_PRODUCT_REASSIGNMENT", true),
		OutboxPollInterval:       envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:          envInt("OUTBOX_BATCH_SIZE", 100),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
