package journal

import "codeberg.org/arlest/sensorpub/internal/errors"

// Journal-specific error codes
const (
	ErrInvalidConfig          = errors.ErrorCode("journal_invalid_config")
	ErrInvalidDBPath          = errors.ErrorCode("journal_invalid_db_path")
	ErrInvalidBatch           = errors.ErrorCode("journal_invalid_batch")
	ErrStorageInit            = errors.ErrorCode("journal_storage_init_failed")
	ErrStorageClose           = errors.ErrorCode("journal_storage_close_failed")
	ErrTransactionFailed      = errors.ErrorCode("journal_transaction_failed")
	ErrSchemaInitFailed       = errors.ErrorCode("journal_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("journal_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("journal_schema_migration_failed")
	ErrServiceShutdown        = errors.ErrorCode("journal_service_shutdown_failed")
)
