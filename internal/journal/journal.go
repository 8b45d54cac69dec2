package journal

import (
	"context"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/logger"
	"codeberg.org/arlest/sensorpub/internal/record"
)

type service struct {
	repo *repository
	cfg  Config
}

// No-op implementation
type noopJournal struct{}

func NewService(cfg Config, log logger.Logger) (Journal, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	// If journaling is disabled, return a no-op journal
	if !cfg.Enabled {
		log.Debug().Msg("Publish journal disabled, using no-op journal")
		return &noopJournal{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create journal repository")
		return nil, err
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, batch *record.Batch, publishedAt uint64) error {
	errFactory := errors.New()

	if batch == nil {
		return errFactory.New(ErrInvalidBatch)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrTransactionFailed, ctx.Err())
	default:
		return s.repo.Record(ctx, batch, publishedAt)
	}
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrServiceShutdown, err)
	}
	return nil
}

func (*noopJournal) Record(_ context.Context, _ *record.Batch, _ uint64) error {
	return nil
}

func (*noopJournal) Close() error {
	return nil
}
