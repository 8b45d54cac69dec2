package publish_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/logger"
	"codeberg.org/arlest/sensorpub/internal/publish"
	"codeberg.org/arlest/sensorpub/internal/record"
)

var errSinkDown = fmt.Errorf("sink down")

func makeBatch(t *testing.T) *record.Batch {
	t.Helper()

	batch := record.NewBatch(0)
	require.NoError(t, batch.AppendInt("sensors.light.level", 420, 1000))
	require.NoError(t, batch.AppendFloat("sensors.pressure.kpa", 101.3, 1500))

	return batch
}

type fakeSink struct {
	err   error
	calls int
}

func (f *fakeSink) Publish(_ context.Context, _ *record.Batch) error {
	f.calls++
	return f.err
}

type fakeJournal struct {
	err         error
	batch       *record.Batch
	publishedAt uint64
	records     int
}

func (f *fakeJournal) Record(_ context.Context, batch *record.Batch, publishedAt uint64) error {
	f.records++
	f.batch = batch
	f.publishedAt = publishedAt

	return f.err
}

func (f *fakeJournal) Close() error { return nil }

func TestNewHTTPSinkValidation(t *testing.T) {
	mock := clock.NewMock()

	_, err := publish.NewHTTPSink(publish.HTTPConfig{Endpoint: ""}, mock)
	require.Error(t, err)
	assert.Equal(t, publish.ErrInvalidEndpoint, errors.CodeOf(err))

	_, err = publish.NewHTTPSink(publish.HTTPConfig{Endpoint: "not a url"}, mock)
	require.Error(t, err)
	assert.Equal(t, publish.ErrInvalidEndpoint, errors.CodeOf(err))

	_, err = publish.NewHTTPSink(publish.HTTPConfig{Endpoint: "http://collector.local/ingest"}, mock)
	assert.NoError(t, err)
}

func TestHTTPSinkPublish(t *testing.T) {
	var (
		gotContentType string
		gotBody        []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotBody = body
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	mock := clock.NewMock()
	mock.Add(time.Hour)

	sink, err := publish.NewHTTPSink(publish.HTTPConfig{Endpoint: server.URL}, mock)
	require.NoError(t, err)

	batch := makeBatch(t)
	require.NoError(t, sink.Publish(context.Background(), batch))

	assert.Equal(t, "application/json", gotContentType)

	var payload struct {
		ID          string `json:"id"`
		PublishedAt uint64 `json:"published_at"`
		Entries     []struct {
			Path      string `json:"path"`
			Value     any    `json:"value"`
			Timestamp uint64 `json:"timestamp"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &payload))

	assert.Equal(t, batch.ID().String(), payload.ID)
	assert.Equal(t, uint64(mock.Now().UnixMilli()), payload.PublishedAt)
	require.Len(t, payload.Entries, 2)

	assert.Equal(t, "sensors.light.level", payload.Entries[0].Path)
	assert.Equal(t, float64(420), payload.Entries[0].Value, "Expected JSON number for int reading")
	assert.Equal(t, uint64(1000), payload.Entries[0].Timestamp)

	assert.Equal(t, "sensors.pressure.kpa", payload.Entries[1].Path)
	assert.InDelta(t, 101.3, payload.Entries[1].Value, 1e-9)
	assert.Equal(t, uint64(1500), payload.Entries[1].Timestamp)
}

func TestHTTPSinkEndpointStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	sink, err := publish.NewHTTPSink(publish.HTTPConfig{Endpoint: server.URL}, clock.NewMock())
	require.NoError(t, err)

	err = sink.Publish(context.Background(), makeBatch(t))
	require.Error(t, err)
	assert.Equal(t, publish.ErrEndpointStatus, errors.CodeOf(err))
}

func TestHTTPSinkRequestFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	sink, err := publish.NewHTTPSink(publish.HTTPConfig{Endpoint: endpoint}, clock.NewMock())
	require.NoError(t, err)

	err = sink.Publish(context.Background(), makeBatch(t))
	require.Error(t, err)
	assert.Equal(t, publish.ErrRequestFailed, errors.CodeOf(err))
}

func TestLogSinkNeverFails(t *testing.T) {
	sink := publish.NewLogSink(logger.Default())
	assert.NoError(t, sink.Publish(context.Background(), makeBatch(t)))
}

func TestJournalSinkStampsDeliveryTime(t *testing.T) {
	mock := clock.NewMock()
	mock.Add(time.Hour)

	j := &fakeJournal{}
	sink := publish.NewJournalSink(j, mock)

	batch := makeBatch(t)
	require.NoError(t, sink.Publish(context.Background(), batch))

	assert.Equal(t, 1, j.records)
	assert.Same(t, batch, j.batch)
	assert.Equal(t, uint64(mock.Now().UnixMilli()), j.publishedAt)
}

func TestJournalSinkWrapsFailure(t *testing.T) {
	j := &fakeJournal{err: errSinkDown}
	sink := publish.NewJournalSink(j, clock.NewMock())

	err := sink.Publish(context.Background(), makeBatch(t))
	require.Error(t, err)
	assert.Equal(t, publish.ErrJournalFailed, errors.CodeOf(err))
	assert.True(t, errors.Is(err, errSinkDown), "Expected cause preserved")
}

func TestMultiFanOut(t *testing.T) {
	first := &fakeSink{}
	second := &fakeSink{}

	multi := publish.NewMulti(first, second)
	require.NoError(t, multi.Publish(context.Background(), makeBatch(t)))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestMultiStopsAtFirstFailure(t *testing.T) {
	first := &fakeSink{}
	second := &fakeSink{err: errSinkDown}
	third := &fakeSink{}

	multi := publish.NewMulti(first, second, third)
	err := multi.Publish(context.Background(), makeBatch(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errSinkDown))

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls, "Expected fan-out to stop at the failed sink")
}
