package txmanager

import (
	"context"
	"fmt"

	"golang_2pl/component"
)

// Session is the explicit stand-in for an execution context. It carries at
// most one active transaction at a time.
type Session struct {
	id      uint64
	manager *Manager
}

func (s *Session) ID() uint64 {
	return s.id
}

func (s *Session) Begin(ctx context.Context) error {
	return s.manager.begin(ctx, s.id)
}

// Operate locks rid for the active transaction, waiting if another
// transaction holds it, and then executes operation on the resource.
//
// A failed Execute keeps the lock and leaves no trace in the history; the
// caller is expected to roll back. Cancelling ctx while waiting returns an
// error matching ErrInterrupted, unless the transaction was picked as a
// deadlock victim, in which case ErrTransactionAborted is returned.
func (s *Session) Operate(ctx context.Context, rid component.ResourceID, operation component.Operation) error {
	tx, resource, err := s.manager.acquire(ctx, s.id, rid)
	if err != nil {
		return err
	}

	if err = operation.Execute(ctx, resource); err != nil {
		return fmt.Errorf("%w: resource %s: %w", ErrOperationFailed, rid, err)
	}

	s.manager.appendHistory(tx, rid, operation)
	return nil
}

func (s *Session) Commit(ctx context.Context) error {
	return s.manager.commit(ctx, s.id)
}

// Rollback undoes every executed operation in reverse order and releases the
// locks. It is a no-op when nothing is active.
func (s *Session) Rollback(ctx context.Context) {
	s.manager.rollback(ctx, s.id)
}

func (s *Session) IsActive() bool {
	return s.manager.isActive(s.id)
}

// IsAborted returns ErrNoActiveTransaction when nothing is active.
func (s *Session) IsAborted() (bool, error) {
	return s.manager.isAborted(s.id)
}
