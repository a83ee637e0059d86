package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "APP_ENV", "MONGOURI", "MONGO_DB", "JWT_SECRET",
	"MPESA_BASE_URL", "MPESA_CONSUMER_KEY", "MPESA_CONSUMER_SECRET", "MPESA_BUSINESS_SHORTCODE",
	"MPESA_PASSKEY", "MPESA_INITIATOR_NAME", "MPESA_SECURITY_CREDENTIAL", "CALLBACK_URL",
	"MPESA_RESULT_URL", "MPESA_QUEUE_TIMEOUT_URL", "STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET",
	"REDIS_ADDR", "REDIS_PASSWORD", "KAFKA_BROKERS", "PROVIDER_TIMEOUT",
}

func clearEnv(t *testing.T) {
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGOURI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "opencartdb", cfg.MongoDB)
	assert.Equal(t, "https://sandbox.safaricom.co.ke", cfg.MpesaBaseURL)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.Production())
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGOURI", "mongodb://db:27017")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("PORT", "9090")
	t.Setenv("MPESA_BUSINESS_SHORTCODE", "174379")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("PROVIDER_TIMEOUT", "45")

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "174379", cfg.MpesaShortCode)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 45*time.Second, cfg.ProviderTimeout)
	assert.True(t, cfg.Production())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing mongo uri", env: map[string]string{"JWT_SECRET": "x"}, want: "MONGOURI"},
		{name: "missing jwt secret", env: map[string]string{"MONGOURI": "mongodb://db"}, want: "JWT_SECRET"},
		{name: "bad timeout", env: map[string]string{"MONGOURI": "mongodb://db", "JWT_SECRET": "x", "PROVIDER_TIMEOUT": "soon"}, want: "PROVIDER_TIMEOUT"},
		{name: "negative timeout", env: map[string]string{"MONGOURI": "mongodb://db", "JWT_SECRET": "x", "PROVIDER_TIMEOUT": "-5"}, want: "PROVIDER_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, _, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("1m30s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = parseDuration("0s")
	assert.Error(t, err)
}
