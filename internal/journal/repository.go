package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/logger"
	"codeberg.org/arlest/sensorpub/internal/record"
)

type repository struct {
	db  *sql.DB
	log logger.Logger
	mu  sync.Mutex
}

// NewRepository opens (or creates) the journal database and brings its
// schema up to the current version.
func NewRepository(cfg Config, log logger.Logger) (*repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	// Open database with specific pragmas for better performance and safety
	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	// Validate if schema is current, with backup if needed
	if err := ValidateAndUpdateSchema(db, cfg.DBPath, log); err != nil {
		db.Close()
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("Journal repository initialized")

	return &repository{
		db:  db,
		log: log,
	}, nil
}

// Record stores a published batch. Re-recording a batch id replaces its
// earlier rows, so a payload retried across failed publishes lands once.
func (r *repository) Record(ctx context.Context, batch *record.Batch, publishedAt uint64) error {
	errFactory := errors.New()

	if batch == nil {
		return errFactory.New(ErrInvalidBatch)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				if !errors.Is(err, sql.ErrTxDone) {
					r.log.Debug().Err(err).Msg("Failed to rollback transaction")
				}
			}
		}
	}()

	id := batch.ID().String()

	if _, err := tx.ExecContext(ctx, upsertPublishSQL, id, publishedAt, batch.Len()); err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	if _, err := tx.ExecContext(ctx, deleteReadingsSQL, id); err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertReadingSQL)
	if err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}
	defer stmt.Close()

	for _, e := range batch.Entries() {
		var intValue, floatValue any
		if e.Kind == record.KindInt {
			intValue = e.IntValue
		} else {
			floatValue = e.FloatValue
		}

		if _, err := stmt.ExecContext(ctx, id, e.Path, int(e.Kind), intValue, floatValue, e.Timestamp); err != nil {
			return errFactory.WithData(ErrTransactionFailed, struct {
				Path  string
				Error string
			}{
				Path:  e.Path,
				Error: err.Error(),
			})
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}
	committed = true

	r.log.Debug().
		Str("id", id).
		Int("entries", batch.Len()).
		Msg("Journaled publish")

	return nil
}

// Close checkpoints the WAL and closes the database
func (r *repository) Close() error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		r.log.Debug().Err(err).Msg("Failed to checkpoint WAL")
	}

	if err := r.db.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}
	r.db = nil

	return nil
}
