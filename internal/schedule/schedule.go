package schedule

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/logger"
	"codeberg.org/arlest/sensorpub/internal/metrics"
	"codeberg.org/arlest/sensorpub/internal/record"
	"codeberg.org/arlest/sensorpub/internal/sensor"
)

// item pairs an adapter with its bookkeeping. Timestamps are monotonic
// milliseconds; zero means never.
type item struct {
	adapter          sensor.Adapter
	lastTimeRead     uint64
	lastTimeRecorded uint64
}

// Scheduler owns a fixed set of source adapters and drives the sampling
// pipeline once per tick: read every source, record the readings that pass
// their change thresholds, and flush the accumulated batch to the sink
// under the minimum/maximum publish interval rules. Adapter and timing
// state is written only by the tick goroutine; Status serves snapshots to
// concurrent readers.
type Scheduler struct {
	cfg  Config
	clk  clock.Clock
	sink Sink

	items []*item
	batch *record.Batch

	lastTimePublished uint64
	deferredPublish   bool

	minMs   uint64
	maxMs   uint64
	staleMs uint64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	status atomic.Pointer[Status]
}

// New builds a stopped scheduler over the given adapters. Iteration order
// follows the order of the adapters slice and is stable across ticks.
func New(cfg Config, clk clock.Clock, sink Sink, adapters []sensor.Adapter) (*Scheduler, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}
	if sink == nil {
		return nil, errFactory.New(ErrNoSink)
	}
	if len(adapters) == 0 {
		return nil, errFactory.New(ErrNoItems)
	}

	items := make([]*item, 0, len(adapters))
	for _, adapter := range adapters {
		items = append(items, &item{adapter: adapter})
	}

	s := &Scheduler{
		cfg:     cfg,
		clk:     clk,
		sink:    sink,
		items:   items,
		batch:   record.NewBatch(cfg.BatchCapacity),
		minMs:   uint64(cfg.MinPublishInterval.Milliseconds()),
		maxMs:   uint64(cfg.MaxPublishInterval.Milliseconds()),
		staleMs: uint64(cfg.TimeToStale.Milliseconds()),
	}
	s.status.Store(s.snapshot(0))

	return s, nil
}

// Start begins periodic sampling. Starting a scheduler that is already
// running is a benign no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(runCtx, s.done)
}

// Stop halts sampling and waits for any tick in flight to finish. Stopping
// a scheduler that is not running is a benign no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done
}

// Running reports whether the sampling goroutine is active
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// Status returns the snapshot taken at the end of the most recent tick
func (s *Scheduler) Status() Status {
	st := *s.status.Load()
	st.Running = s.Running()

	return st
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		s.mu.Lock()
		s.running = false
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.mu.Unlock()
	}()

	ticker := s.clk.Ticker(s.cfg.Interval)
	defer ticker.Stop()

	logger.Info().Dur("interval", s.cfg.Interval).Msg("Sampling started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Sampling stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	publish := false

	for _, it := range s.items {
		if err := it.adapter.Read(); err != nil {
			logger.Warn().Err(err).Str("sensor", it.adapter.Name()).Msg("Failed to read sensor")
			metrics.IncReadFailure(it.adapter.Name())
		} else {
			it.lastTimeRead = now

			if it.lastTimeRecorded == 0 || it.adapter.Exceeded() {
				reason := metrics.ReasonThreshold
				if it.lastTimeRecorded == 0 {
					reason = metrics.ReasonInitial
				}

				if err := it.adapter.Record(s.batch, now); err != nil {
					logger.Warn().Err(err).Str("sensor", it.adapter.Name()).Msg("Failed to record reading")
				} else {
					it.adapter.Accept()
					it.lastTimeRecorded = now
					publish = true
					metrics.IncRecord(it.adapter.Name(), reason)
				}
			}
		}

		// A source with fresh unpublished data forces a flush once its last
		// record is older than the maximum publish interval, even if it
		// never tripped its threshold.
		if now-it.lastTimeRecorded > s.maxMs && it.lastTimeRead > s.lastTimePublished {
			publish = true
		}
	}

	if publish || s.deferredPublish {
		if now-s.lastTimePublished < s.minMs {
			if !s.deferredPublish {
				logger.Debug().Msg("Publish deferred by minimum interval")
				metrics.IncPublishDeferred()
			}
			s.deferredPublish = true
		} else {
			s.flush(ctx, now)
		}
	}

	metrics.SetBatchEntries(s.batch.Len())
	s.status.Store(s.snapshot(now))
}

func (s *Scheduler) flush(ctx context.Context, now uint64) {
	// Sweep for sources whose recorded value has gone stale while a newer
	// read exists, so the publish carries their latest reading stamped with
	// its original read time rather than the flush time.
	for _, it := range s.items {
		if now-it.lastTimeRecorded > s.staleMs && it.lastTimeRead > it.lastTimeRecorded {
			if err := it.adapter.Record(s.batch, it.lastTimeRead); err != nil {
				logger.Warn().Err(err).Str("sensor", it.adapter.Name()).Msg("Failed to record reading")
				continue
			}
			it.adapter.Accept()
			it.lastTimeRecorded = it.lastTimeRead
			metrics.IncRecord(it.adapter.Name(), metrics.ReasonStale)
		}
	}

	entries := s.batch.Len()
	start := s.clk.Now()

	if err := s.sink.Publish(ctx, s.batch); err != nil {
		logger.Error().Err(err).Int("entries", entries).Msg("Failed to publish record")
		metrics.IncPublishFailure()

		return
	}

	logger.Debug().Int("entries", entries).Msg("Published record")
	metrics.RecordPublish(s.clk.Since(start))

	s.lastTimePublished = now
	s.deferredPublish = false
	s.batch.Reset()
}

func (s *Scheduler) snapshot(now uint64) *Status {
	st := &Status{
		Timestamp:       now,
		LastPublished:   s.lastTimePublished,
		DeferredPublish: s.deferredPublish,
		BatchEntries:    s.batch.Len(),
		Items:           make([]ItemStatus, 0, len(s.items)),
	}
	for _, it := range s.items {
		st.Items = append(st.Items, ItemStatus{
			Name:         it.adapter.Name(),
			LastRead:     it.lastTimeRead,
			LastRecorded: it.lastTimeRecorded,
		})
	}

	return st
}

func (s *Scheduler) now() uint64 {
	return uint64(s.clk.Now().UnixMilli())
}
