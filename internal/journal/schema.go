package journal

import (
	"database/sql"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS publishes (
	       id           TEXT PRIMARY KEY,
	       published_at INTEGER NOT NULL CHECK (typeof(published_at) = 'integer'),
	       entries      INTEGER NOT NULL CHECK (typeof(entries) = 'integer')
	   );
	   CREATE TABLE IF NOT EXISTS readings (
	       publish_id  TEXT NOT NULL REFERENCES publishes(id) ON DELETE CASCADE,
	       path        TEXT NOT NULL,
	       kind        INTEGER NOT NULL CHECK (kind IN (0, 1)),
	       int_value   INTEGER,
	       float_value REAL,
	       timestamp   INTEGER NOT NULL CHECK (typeof(timestamp) = 'integer')
	   );
	   CREATE INDEX IF NOT EXISTS idx_readings_publish ON readings(publish_id);
	   CREATE INDEX IF NOT EXISTS idx_readings_path_time ON readings(path, timestamp);`

	upsertPublishSQL = `
    INSERT INTO publishes (id, published_at, entries)
    VALUES (?, ?, ?)
    ON CONFLICT(id) DO UPDATE SET
        published_at = excluded.published_at,
        entries = excluded.entries`

	deleteReadingsSQL = `DELETE FROM readings WHERE publish_id = ?`

	insertReadingSQL = `
    INSERT INTO readings (publish_id, path, kind, int_value, float_value, timestamp)
    VALUES (?, ?, ?, ?, ?, ?)`
)

// InitSchema creates a new database schema with the current version
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	log.Debug().Msg("Creating journal database...")

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				if !errors.Is(err, sql.ErrTxDone) {
					log.Debug().Err(err).Msg("Failed to rollback transaction")
				}
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			SQL   string
		}{
			Error: err.Error(),
			SQL:   createTablesSQL,
		})
	}

	if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			Phase string
		}{
			Error: err.Error(),
			Phase: "record_version",
		})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	log.Info().
		Int("version", SchemaVersion).
		Msg("Journal schema initialized")

	return nil
}

// GetSchemaVersion returns the current schema version
func GetSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	exists, err := TableExists(db, "schema_versions")
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.WithData(ErrSchemaValidationFailed, struct {
			Phase string
			Error string
		}{
			Phase: "get_version",
			Error: err.Error(),
		})
	}

	return version, nil
}

// TableExists checks if a table exists
func TableExists(db *sql.DB, tableName string) (bool, error) {
	errFactory := errors.New()
	var exists bool
	err := db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM sqlite_master
            WHERE type='table' AND name=?
        )
    `, tableName).Scan(&exists)
	if err != nil {
		return false, errFactory.WithData(ErrSchemaValidationFailed, struct {
			Phase string
			Table string
			Error string
		}{
			Phase: "check_table_exists",
			Table: tableName,
			Error: err.Error(),
		})
	}
	return exists, nil
}
