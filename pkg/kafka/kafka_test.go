package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyHandler struct {
	failures int
	calls    int
	panicOn  int
}

func (h *flakyHandler) Topic() string { return "news" }

func (h *flakyHandler) Handle(context.Context, []byte) error {
	h.calls++
	if h.calls == h.panicOn {
		panic("boom")
	}
	if h.calls <= h.failures {
		return errors.New("transient")
	}
	return nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestHandleWithRetryRecovers(t *testing.T) {
	h := &flakyHandler{failures: 2}
	attempts, err := handleWithRetry(context.Background(), h, nil, retryPolicy{max: 3}, noSleep)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestHandleWithRetryExhausts(t *testing.T) {
	h := &flakyHandler{failures: 10}
	attempts, err := handleWithRetry(context.Background(), h, nil, retryPolicy{max: 2}, noSleep)
	assert.EqualError(t, err, "transient")
	assert.Equal(t, 3, attempts)
}

func TestHandleWithRetryRecoversPanic(t *testing.T) {
	h := &flakyHandler{panicOn: 1}
	attempts, err := handleWithRetry(context.Background(), h, nil, retryPolicy{max: 1}, noSleep)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestHandleWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := &flakyHandler{failures: 10}
	_, err := handleWithRetry(ctx, h, nil, retryPolicy{max: 5, min: time.Second, cap: time.Second}, sleepCtx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, h.calls)
}

func TestBackoffWithJitterBounds(t *testing.T) {
	for attempt := 1; attempt <= 40; attempt++ {
		d := backoffWithJitter(100*time.Millisecond, time.Second, attempt)
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, time.Second)
	}
	d := backoffWithJitter(100*time.Millisecond, time.Second, 1)
	assert.GreaterOrEqual(t, d, 50*time.Millisecond)
	assert.LessOrEqual(t, d, 100*time.Millisecond)
}

func TestEncode(t *testing.T) {
	b, err := encode(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b))

	b, err = encode("raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	_, err = encode(func() {})
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]kafka.Compression{
		"zstd": kafka.Zstd, "gzip": kafka.Gzip, " Snappy ": kafka.Snappy, "lz4": kafka.Lz4,
		"none": 0, "": 0,
	} {
		got, err := parseCompression(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := parseCompression("brotli")
	assert.EqualError(t, err, `unknown compression "brotli"`)
}

func TestProducerConfigValidation(t *testing.T) {
	brokers := WithBrokers([]string{"localhost:9092"})
	tests := []struct {
		name    string
		opts    []ProducerOption
		wantErr string
	}{
		{name: "defaults", opts: []ProducerOption{brokers}},
		{name: "no brokers", wantErr: "brokers are required"},
		{name: "bad acks", opts: []ProducerOption{brokers, WithRequiredAcks(2)}, wantErr: "required acks"},
		{name: "bad codec", opts: []ProducerOption{brokers, WithCompression("brotli")}, wantErr: "unknown compression"},
		{name: "zero batch", opts: []ProducerOption{brokers, WithBatchSize(0)}, wantErr: "batch size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultProducerConfig()
			for _, o := range tt.opts {
				o(cfg)
			}
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConsumerConfigValidation(t *testing.T) {
	brokers := WithConsumerBrokers([]string{"localhost:9092"})
	tests := []struct {
		name    string
		opts    []ConsumerOption
		wantErr string
	}{
		{name: "defaults", opts: []ConsumerOption{brokers, WithConsumerGroupID("")}},
		{name: "no brokers", wantErr: "brokers are required"},
		{name: "inverted backoff", opts: []ConsumerOption{brokers, WithConsumerRetry(3, time.Second, time.Millisecond)}, wantErr: "backoff min"},
		{name: "negative retries", opts: []ConsumerOption{brokers, WithConsumerRetry(-1, 0, 0)}, wantErr: "retry max"},
		{name: "inverted fetch", opts: []ConsumerOption{brokers, WithConsumerFetch(2048, 1024)}, wantErr: "fetch min bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConsumerConfig()
			for _, o := range tt.opts {
				o(cfg)
			}
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, "finsight", cfg.GroupID)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConstructorsRequireBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
	_, err = NewConsumer()
	assert.Error(t, err)
}
