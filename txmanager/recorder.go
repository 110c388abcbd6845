package txmanager

import "context"

// TXRecorder is told about every transaction that finished through Commit or
// Rollback. It runs outside the manager's critical section; a returned error
// is logged and dropped.
type TXRecorder interface {
	Record(ctx context.Context, record *TXRecord) error
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, *TXRecord) error {
	return nil
}

// RecorderFunc adapts a function to TXRecorder.
type RecorderFunc func(ctx context.Context, record *TXRecord) error

func (f RecorderFunc) Record(ctx context.Context, record *TXRecord) error {
	return f(ctx, record)
}
