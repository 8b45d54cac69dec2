package schedule

import (
	"time"

	"codeberg.org/arlest/sensorpub/internal/errors"
)

const (
	DefaultInterval           = time.Second
	DefaultMinPublishInterval = 10 * time.Second
	DefaultMaxPublishInterval = 120 * time.Second
	DefaultTimeToStale        = 60 * time.Second
)

// Config carries the sampling cadence and the publish timing windows
type Config struct {
	Interval           time.Duration
	MinPublishInterval time.Duration
	MaxPublishInterval time.Duration
	TimeToStale        time.Duration
	BatchCapacity      int
}

func DefaultConfig() Config {
	return Config{
		Interval:           DefaultInterval,
		MinPublishInterval: DefaultMinPublishInterval,
		MaxPublishInterval: DefaultMaxPublishInterval,
		TimeToStale:        DefaultTimeToStale,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(ErrInvalidInterval, c.Interval.String())
	}
	if c.MinPublishInterval <= 0 || c.MaxPublishInterval <= 0 || c.TimeToStale <= 0 {
		return errFactory.New(ErrInvalidWindow)
	}
	if c.MinPublishInterval > c.MaxPublishInterval {
		return errFactory.WithData(ErrInvalidWindow, struct {
			Min string
			Max string
		}{
			Min: c.MinPublishInterval.String(),
			Max: c.MaxPublishInterval.String(),
		})
	}
	if c.BatchCapacity < 0 {
		return errFactory.WithData(ErrInvalidCapacity, c.BatchCapacity)
	}

	return nil
}
