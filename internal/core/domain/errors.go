package domain

import "go.trai.ch/zerr"

var (
	// ErrNotFound is returned by a store when no entry exists for a key.
	// It is a control-flow signal and never surfaces to the user.
	ErrNotFound = zerr.New("entry not found")

	// ErrInvalidKey is returned when a string is not a well-formed cache key.
	ErrInvalidKey = zerr.New("invalid cache key")

	// ErrMalformedRecord is returned when a positional record cannot be decoded
	// or arrives out of sequence.
	ErrMalformedRecord = zerr.New("malformed positional record")

	// ErrMalformedPair is returned when an import line is not a source/translation pair.
	ErrMalformedPair = zerr.New("malformed translation pair, expected 'source<TAB>translation'")

	// ErrInputReadFailed is returned when the input stream cannot be read.
	ErrInputReadFailed = zerr.New("failed to read input")

	// ErrOutputWriteFailed is returned when the output stream cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write output")

	// ErrMissingSentinel is reported when the translator output stream ended
	// without the control line.
	ErrMissingSentinel = zerr.New("translator output did not end with the control line")

	// ErrCountMismatch is reported when the translator produced a different
	// number of outputs than texts it was given.
	ErrCountMismatch = zerr.New("unexpected number of translations")

	// ErrIntegrityCheckFailed is returned in strict mode when the join reported warnings.
	ErrIntegrityCheckFailed = zerr.New("integrity check failed")

	// ErrStoreOpenFailed is returned when the translation store cannot be opened.
	ErrStoreOpenFailed = zerr.New("failed to open translation store")

	// ErrStoreReadFailed is returned when a store lookup fails for a reason other than a miss.
	ErrStoreReadFailed = zerr.New("failed to read from translation store")

	// ErrStoreWriteFailed is returned when a translation cannot be persisted.
	ErrStoreWriteFailed = zerr.New("failed to write to translation store")

	// ErrStorePurgeFailed is returned when a namespace cannot be removed.
	ErrStorePurgeFailed = zerr.New("failed to purge translation store")

	// ErrSpoolCreateFailed is returned when the record spool file cannot be created.
	ErrSpoolCreateFailed = zerr.New("failed to create record spool")

	// ErrSpoolWriteFailed is returned when a record cannot be appended to the spool.
	ErrSpoolWriteFailed = zerr.New("failed to write record spool")

	// ErrSpoolReadFailed is returned when the record spool cannot be read back.
	ErrSpoolReadFailed = zerr.New("failed to read record spool")

	// ErrSpoolClosed is returned when appending to a spool that was already closed.
	ErrSpoolClosed = zerr.New("record spool is closed")

	// ErrMissingTranslatorCommand is returned when no translator command is configured.
	ErrMissingTranslatorCommand = zerr.New("no translator command configured")

	// ErrTranslatorFailed is returned when the translator process fails.
	ErrTranslatorFailed = zerr.New("translator failed")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
	ErrConfigNotFound = zerr.New("config file not found")

	// ErrEnvFileReadFailed is returned when the translator env file cannot be loaded.
	ErrEnvFileReadFailed = zerr.New("failed to read translator env file")

	// ErrMissingNamespace is returned when no cache namespace is configured.
	ErrMissingNamespace = zerr.New("no cache namespace configured")

	// ErrUnknownBackend is returned for an unsupported store backend.
	ErrUnknownBackend = zerr.New("unknown store backend, expected 'file' or 'redis'")

	// ErrUnknownSpool is returned for an unsupported spool kind.
	ErrUnknownSpool = zerr.New("unknown spool, expected 'memory' or 'file'")

	// ErrInvalidBuffer is returned when the pipeline buffer size is not positive.
	ErrInvalidBuffer = zerr.New("pipeline buffer must be positive")

	// ErrMissingRecordsPath is returned when split or join is run without a records file.
	ErrMissingRecordsPath = zerr.New("no records file given")
)
