package txmanager

import "errors"

var (
	ErrAlreadyActive       = errors.New("another transaction is already active in this session")
	ErrNoActiveTransaction = errors.New("no active transaction in this session")
	ErrUnknownResource     = errors.New("unknown resource id")
	ErrTransactionAborted  = errors.New("active transaction aborted")
	ErrOperationFailed     = errors.New("resource operation failed")
	ErrInterrupted         = errors.New("interrupted while waiting for resource")
)
