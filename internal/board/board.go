package board

import "codeberg.org/arlest/sensorpub/internal/errors"

// New builds the board selected by cfg.Source
func New(cfg Config) (Board, error) {
	errFactory := errors.New()

	switch cfg.Source {
	case "sim":
		return NewSim(cfg.Seed), nil
	case "host":
		return NewHost(cfg.Seed), nil
	default:
		return nil, errFactory.WithData(ErrUnknownSource, struct {
			Source string
		}{
			Source: cfg.Source,
		})
	}
}
