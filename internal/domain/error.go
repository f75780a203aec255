package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrLockNotAcquired    = errors.New("could not acquire lock")

	// Ledger errors
	ErrCreditTypeNotFound  = errors.New("credit type not found")
	ErrCreditNotFound      = errors.New("credit not found")
	ErrCreditExpired       = errors.New("credit has expired")
	ErrInsufficientBalance = errors.New("insufficient credit balance")
	ErrConcurrentConflict  = errors.New("concurrent ledger update, retry the operation")
)
