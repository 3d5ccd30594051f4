package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/services/sentiment"
)

func newIngest() (*NewsIngestHandler, *fakeNews, *countingMetrics) {
	store := &fakeNews{}
	m := newCountingMetrics()
	h := NewNewsIngestHandler("news", store, sentiment.New(), m, nil)
	h.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return h, store, m
}

func TestIngestFullMessage(t *testing.T) {
	h, store, m := newIngest()
	assert.Equal(t, "news", h.Topic())

	msg := `{"id":"n-1","title":"ACME wins contract","summary":"shares up","source":"Reuters",
		"published_at":"2024-03-01T10:30:00Z","sentiment":0.4,"symbols":["acme","spy"]}`
	require.NoError(t, h.Handle(context.Background(), []byte(msg)))

	require.Len(t, store.items, 1)
	it := store.items[0]
	assert.Equal(t, "n-1", it.ID)
	assert.Equal(t, "Reuters", it.Source)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC).UnixMilli(), it.PublishedAt)
	require.NotNil(t, it.Sentiment)
	assert.Equal(t, 0.4, *it.Sentiment)
	assert.Equal(t, []string{"ACME", "SPY"}, it.RelevantSymbols)
	assert.Equal(t, 1, m.ingested)
}

func TestIngestLenientFields(t *testing.T) {
	h, store, _ := newIngest()

	msg := `{"title":"ACME files for bankruptcy","published_at":1709287200,"relevant_symbols":"acme, ,tsla","sentiment":7}`
	require.NoError(t, h.Handle(context.Background(), []byte(msg)))
	it := store.items[0]
	_, err := uuid.Parse(it.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1709287200000), it.PublishedAt)
	assert.Equal(t, []string{"ACME", "TSLA"}, it.RelevantSymbols)
	require.NotNil(t, it.Sentiment)
	assert.Equal(t, 1.0, *it.Sentiment)

	// unscored and undated
	require.NoError(t, h.Handle(context.Background(), []byte(`{"summary":"ACME faces bankruptcy lawsuit"}`)))
	it = store.items[1]
	require.NotNil(t, it.Sentiment)
	assert.Less(t, *it.Sentiment, 0.0)
	assert.Equal(t, h.now().UnixMilli(), it.PublishedAt)
	assert.Empty(t, it.RelevantSymbols)

	require.NoError(t, h.Handle(context.Background(), []byte(`{"title":"x","published_at":1709287200123}`)))
	assert.Equal(t, int64(1709287200123), store.items[2].PublishedAt)
}

func TestIngestRejectsMalformed(t *testing.T) {
	h, store, m := newIngest()

	for _, msg := range []string{`{"source":"reuters"}`, `not json`, `{"title":"  "}`} {
		err := h.Handle(context.Background(), []byte(msg))
		assert.ErrorIs(t, err, errMalformedNews, msg)
	}
	assert.Empty(t, store.items)
	assert.Equal(t, 3, m.errors["news_parse"])
	assert.Zero(t, m.ingested)
}

func TestIngestStoreFailure(t *testing.T) {
	h, store, m := newIngest()
	boom := errors.New("insert failed")
	store.err = boom

	err := h.Handle(context.Background(), []byte(`{"id":"a","title":"t"}`))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.errors["news_store"])
	assert.Zero(t, m.ingested)
}
