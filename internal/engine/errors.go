package engine

import "errors"

var (
	// ErrSourceMissing indicates a rule's source does not exist.
	ErrSourceMissing = errors.New("source not found")

	// ErrConflictUnresolved indicates a destination is occupied by a file the batch never moves away.
	ErrConflictUnresolved = errors.New("unresolved naming conflict")

	// ErrIO indicates a filesystem operation failed.
	ErrIO = errors.New("filesystem error")

	// ErrStagingIncomplete indicates the batch stopped with files still under temporary names.
	ErrStagingIncomplete = errors.New("staged rename incomplete")

	// ErrNoSelector indicates no paths were given and no selector is configured.
	ErrNoSelector = errors.New("no file selector configured")
)
