package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port               string
	DatabaseURL        string
	RateLimitPerMinute int
	RateLimitBurst     int

	NotifyPollInterval time.Duration
	NotifyBatchSize    int
	SMSProvider        string
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromNumber   string

	TrackerPollInterval time.Duration
	TrackerBatchSize    int

	OTELEndpoint string
	OTELInsecure bool
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		Port:               port,
		DatabaseURL:        os.Getenv("DB_DSN"),
		RateLimitPerMinute: readInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:     readInt("RATE_LIMIT_BURST", 30),

		NotifyPollInterval: readDurationSeconds("NOTIFY_POLL_INTERVAL_SECONDS", 5),
		NotifyBatchSize:    readInt("NOTIFY_BATCH_SIZE", 50),
		SMSProvider:        os.Getenv("SMS_PROVIDER"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:   os.Getenv("TWILIO_PHONE_NUMBER"),

		TrackerPollInterval: readDurationSeconds("TRACKER_POLL_INTERVAL_SECONDS", 1),
		TrackerBatchSize:    readInt("TRACKER_BATCH_SIZE", 100),

		OTELEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTELInsecure: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
	}
}

func readDurationSeconds(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
