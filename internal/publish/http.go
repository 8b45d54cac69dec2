package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/benbjohnson/clock"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/record"
)

// DefaultTimeout bounds a publish request when no timeout is configured
const DefaultTimeout = 10 * time.Second

type HTTPConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// HTTPSink POSTs each batch as JSON to a collector endpoint. Any non-2xx
// response counts as a failed publish.
type HTTPSink struct {
	endpoint string
	client   *http.Client
	clk      clock.Clock
}

type httpEntry struct {
	Path      string `json:"path"`
	Value     any    `json:"value"`
	Timestamp uint64 `json:"timestamp"`
}

type httpPayload struct {
	ID          string      `json:"id"`
	PublishedAt uint64      `json:"published_at"`
	Entries     []httpEntry `json:"entries"`
}

func NewHTTPSink(cfg HTTPConfig, clk clock.Clock) (*HTTPSink, error) {
	errFactory := errors.New()

	parsed, err := url.ParseRequestURI(cfg.Endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errFactory.WithData(ErrInvalidEndpoint, struct {
			Endpoint string
		}{cfg.Endpoint})
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPSink{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
		clk:      clk,
	}, nil
}

func (s *HTTPSink) Publish(ctx context.Context, batch *record.Batch) error {
	errFactory := errors.New()

	entries := batch.Entries()
	payload := httpPayload{
		ID:          batch.ID().String(),
		PublishedAt: uint64(s.clk.Now().UnixMilli()),
		Entries:     make([]httpEntry, 0, len(entries)),
	}
	for _, e := range entries {
		payload.Entries = append(payload.Entries, httpEntry{
			Path:      e.Path,
			Value:     e.Value(),
			Timestamp: e.Timestamp,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errFactory.Wrap(ErrEncodeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return errFactory.Wrap(ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errFactory.Wrap(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errFactory.WithData(ErrEndpointStatus, struct {
			Status   int
			Endpoint string
		}{resp.StatusCode, s.endpoint})
	}

	return nil
}
