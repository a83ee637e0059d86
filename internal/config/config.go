package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "8080"
	defaultDatabase        = "opencartdb"
	defaultMpesaBaseURL    = "https://sandbox.safaricom.co.ke"
	defaultProviderTimeout = 30 * time.Second
)

type Config struct {
	Port      string
	AppEnv    string
	MongoURI  string
	MongoDB   string
	JWTSecret string

	MpesaBaseURL            string
	MpesaConsumerKey        string
	MpesaConsumerSecret     string
	MpesaShortCode          string
	MpesaPasskey            string
	MpesaInitiatorName      string
	MpesaSecurityCredential string
	CallbackURL             string
	ResultURL               string
	QueueTimeoutURL         string

	StripeSecretKey     string
	StripeWebhookSecret string

	RedisAddr     string
	RedisPassword string
	KafkaBrokers  []string

	ProviderTimeout time.Duration
}

// Load reads a .env file when one exists, then the process environment.
// The boolean reports whether a .env file was found.
func Load() (*Config, bool, error) {
	loadedDotEnv := godotenv.Load() == nil

	cfg := &Config{
		Port:      getEnv("PORT", defaultPort),
		AppEnv:    getEnv("APP_ENV", "development"),
		MongoURI:  os.Getenv("MONGOURI"),
		MongoDB:   getEnv("MONGO_DB", defaultDatabase),
		JWTSecret: os.Getenv("JWT_SECRET"),

		MpesaBaseURL:            getEnv("MPESA_BASE_URL", defaultMpesaBaseURL),
		MpesaConsumerKey:        os.Getenv("MPESA_CONSUMER_KEY"),
		MpesaConsumerSecret:     os.Getenv("MPESA_CONSUMER_SECRET"),
		MpesaShortCode:          os.Getenv("MPESA_BUSINESS_SHORTCODE"),
		MpesaPasskey:            os.Getenv("MPESA_PASSKEY"),
		MpesaInitiatorName:      os.Getenv("MPESA_INITIATOR_NAME"),
		MpesaSecurityCredential: os.Getenv("MPESA_SECURITY_CREDENTIAL"),
		CallbackURL:             os.Getenv("CALLBACK_URL"),
		ResultURL:               os.Getenv("MPESA_RESULT_URL"),
		QueueTimeoutURL:         os.Getenv("MPESA_QUEUE_TIMEOUT_URL"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),

		ProviderTimeout: defaultProviderTimeout,
	}

	if raw := os.Getenv("PROVIDER_TIMEOUT"); raw != "" {
		d, err := parseDuration(raw)
		if err != nil {
			return nil, loadedDotEnv, fmt.Errorf("PROVIDER_TIMEOUT: %w", err)
		}
		cfg.ProviderTimeout = d
	}

	if cfg.MongoURI == "" {
		return nil, loadedDotEnv, errors.New("MONGOURI environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, loadedDotEnv, errors.New("JWT_SECRET environment variable not set")
	}
	return cfg, loadedDotEnv, nil
}

// Production reports whether APP_ENV selects production logging.
func (c *Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
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

// parseDuration accepts Go durations ("45s") or a bare number of seconds.
func parseDuration(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("must be positive, got %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", raw)
	}
	return d, nil
}
