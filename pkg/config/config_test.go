package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFillsDefaults(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "news", c.Kafka.NewsTopic)
	assert.Equal(t, "risk-alerts", c.Kafka.AlertsTopic)
	assert.Equal(t, 0.02, c.Analytics.RiskFreeRate)
	assert.Equal(t, 5*time.Minute, c.Analytics.PredictionCacheTTL)
	assert.Equal(t, 0.30, c.Analytics.Thresholds.Volatility)
	assert.Equal(t, 2.0, c.Analytics.Thresholds.Beta)
	assert.Equal(t, uint32(5), c.Breaker.ConsecutiveFailures)
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
environment: prod
server:
  port: 9090
analytics:
  seed: 42
  thresholds:
    volatility: 0.45
alerts:
  enabled: true
  interval: 1m
  symbols: [AAPL, MSFT]
`))
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, int64(42), c.Analytics.Seed)
	assert.Equal(t, 0.45, c.Analytics.Thresholds.Volatility)
	assert.Equal(t, 0.05, c.Analytics.Thresholds.VaR95)
	assert.Equal(t, []string{"AAPL", "MSFT"}, c.Alerts.Symbols)
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("logging:\n  level: verbose\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("alerts:\n  enabled: true\n"))
	assert.ErrorContains(t, err, "alerts.symbols")
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)

	env := map[string]string{
		"KAFKA_BROKERS": "k1:9092, k2:9092",
		"REDIS_ADDR":    "cache:6379",
		"ALERT_SYMBOLS": "AAPL,,TSLA",
	}
	c.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, "cache:6379", c.Redis.Addr)
	assert.Equal(t, []string{"AAPL", "TSLA"}, c.Alerts.Symbols)
	assert.Equal(t, "development", c.Environment)
}
