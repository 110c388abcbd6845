package txmanager

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"golang_2pl/component"
	"golang_2pl/log"
)

// Manager hands out exclusive locks on a fixed set of resources to
// transactions, one transaction per Session. Locks are held until commit or
// rollback. A lock request that would close a wait cycle aborts the youngest
// transaction on that cycle.
type Manager struct {
	opts     *Options
	registry *registry

	//事务登记表、锁表、等待图都由 mux 保护
	mux      sync.Mutex
	active   map[uint64]*transaction
	locks    lockTable
	waits    waitGraph
	counters counters

	nextSession atomic.Uint64
}

type counters struct {
	started    uint64
	committed  uint64
	rolledBack uint64
	deadlocks  uint64
}

// Stats is a point-in-time view of the manager.
type Stats struct {
	Resources int
	Active    int
	Waiting   int
	Locked    int

	Started    uint64
	Committed  uint64
	RolledBack uint64
	Deadlocks  uint64
}

func NewManager(resources []component.Resource, opts ...Option) (*Manager, error) {
	reg, err := newRegistry(resources)
	if err != nil {
		return nil, err
	}

	m := Manager{
		opts:     &Options{},
		registry: reg,
		active:   make(map[uint64]*transaction),
		locks:    make(lockTable),
		waits:    make(waitGraph),
	}
	for _, opt := range opts {
		opt(m.opts)
	}
	repair(m.opts)
	return &m, nil
}

// NewSession returns a handle that plays the role of one execution context.
// A Session must not be used from several goroutines at once.
func (m *Manager) NewSession() *Session {
	return &Session{
		id:      m.nextSession.Add(1),
		manager: m,
	}
}

func (m *Manager) Stats() Stats {
	m.mux.Lock()
	defer m.mux.Unlock()
	return Stats{
		Resources:  m.registry.len(),
		Active:     len(m.active),
		Waiting:    m.waits.size(),
		Locked:     len(m.locks),
		Started:    m.counters.started,
		Committed:  m.counters.committed,
		RolledBack: m.counters.rolledBack,
		Deadlocks:  m.counters.deadlocks,
	}
}

func (m *Manager) begin(ctx context.Context, session uint64) error {
	m.mux.Lock()
	defer m.mux.Unlock()

	if _, ok := m.active[session]; ok {
		return ErrAlreadyActive
	}

	tx := newTransaction(uuid.NewString(), session, m.opts.Clock.Now())
	m.active[session] = tx
	m.counters.started++
	log.DebugContextf(ctx, "tx begin, tx id: %s, session: %d, started at: %d", tx.txID, session, tx.startedAt)
	return nil
}

//加锁，必要时阻塞；返回资源本身
func (m *Manager) acquire(ctx context.Context, session uint64, rid component.ResourceID) (*transaction, component.Resource, error) {
	m.mux.Lock()
	tx, ok := m.active[session]
	if !ok {
		m.mux.Unlock()
		return nil, nil, ErrNoActiveTransaction
	}
	if tx.aborted {
		m.mux.Unlock()
		return nil, nil, ErrTransactionAborted
	}
	resource, ok := m.registry.get(rid)
	if !ok {
		m.mux.Unlock()
		return nil, nil, ErrUnknownResource
	}

	switch m.locks.owner(rid) {
	case tx:
		m.mux.Unlock()
		return tx, resource, nil
	case nil:
		m.locks.grant(rid, tx)
		m.mux.Unlock()
		return tx, resource, nil
	}

	//资源被其他事务持有：登记等待边并在同一临界区内检测死锁
	m.waits.add(tx, rid)
	if victim := detectDeadlock(m.locks, tx, rid); victim != nil {
		m.abort(ctx, victim)
	}
	m.mux.Unlock()

	if err := m.await(ctx, tx, rid); err != nil {
		return nil, nil, err
	}
	return tx, resource, nil
}

func (m *Manager) await(ctx context.Context, tx *transaction, rid component.ResourceID) error {
	select {
	case <-tx.wake:
	case <-ctx.Done():
	}

	m.mux.Lock()
	defer m.mux.Unlock()

	if tx.aborted {
		m.waits.remove(tx)
		return ErrTransactionAborted
	}
	if m.locks.owner(rid) == tx {
		//交接与取消同时发生时，以拿到锁为准
		tx.drain()
		return nil
	}

	m.waits.remove(tx)
	log.InfoContextf(ctx, "tx interrupted while waiting, tx id: %s, resource: %s, err: %v", tx.txID, rid, ctx.Err())
	return fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
}

//调用方持有 mux
func (m *Manager) abort(ctx context.Context, victim *transaction) {
	victim.aborted = true
	//立即摘掉等待边，保证在 victim 被调度之前等待图依然无环
	m.waits.remove(victim)
	victim.signal()
	m.counters.deadlocks++
	log.WarnContextf(ctx, "deadlock detected, abort tx id: %s, session: %d, started at: %d", victim.txID, victim.session, victim.startedAt)
}

func (m *Manager) appendHistory(tx *transaction, rid component.ResourceID, operation component.Operation) {
	m.mux.Lock()
	defer m.mux.Unlock()
	tx.history = append(tx.history, historyEntry{rid: rid, operation: operation})
}

func (m *Manager) commit(ctx context.Context, session uint64) error {
	m.mux.Lock()
	tx, ok := m.active[session]
	if !ok {
		m.mux.Unlock()
		return ErrNoActiveTransaction
	}
	if tx.aborted {
		m.mux.Unlock()
		return ErrTransactionAborted
	}
	record := tx.record(TXCommitted)
	m.finish(session, tx)
	m.counters.committed++
	m.mux.Unlock()

	log.DebugContextf(ctx, "tx committed, tx id: %s, session: %d, operations: %d", tx.txID, session, record.Operations)
	m.notify(ctx, record)
	return nil
}

func (m *Manager) rollback(ctx context.Context, session uint64) {
	m.mux.Lock()
	tx, ok := m.active[session]
	if !ok {
		m.mux.Unlock()
		return
	}
	history := make([]historyEntry, len(tx.history))
	copy(history, tx.history)
	m.mux.Unlock()

	//资源仍由本事务独占，Undo 不需要在临界区内
	for i := len(history) - 1; i >= 0; i-- {
		resource, _ := m.registry.get(history[i].rid)
		history[i].operation.Undo(ctx, resource)
	}

	m.mux.Lock()
	record := tx.record(TXRolledBack)
	m.finish(session, tx)
	m.counters.rolledBack++
	m.mux.Unlock()

	log.DebugContextf(ctx, "tx rolled back, tx id: %s, session: %d, undone: %d, aborted: %t", tx.txID, session, len(history), record.Aborted)
	m.notify(ctx, record)
}

//释放 tx 持有的所有锁，每个资源最多交给一个等待者；调用方持有 mux
func (m *Manager) finish(session uint64, tx *transaction) {
	for _, rid := range tx.held {
		m.locks.release(rid)

		next := m.waits.pick(rid)
		if next == nil {
			continue
		}
		m.waits.remove(next)
		m.locks.grant(rid, next)
		next.signal()
	}
	tx.held = nil
	delete(m.active, session)
}

func (m *Manager) notify(ctx context.Context, record *TXRecord) {
	if err := m.opts.Recorder.Record(ctx, record); err != nil {
		log.ErrorContextf(ctx, "tx record failed, tx id: %s, status: %s, err: %v", record.TXID, record.Status, err)
	}
}

func (m *Manager) isActive(session uint64) bool {
	m.mux.Lock()
	defer m.mux.Unlock()
	_, ok := m.active[session]
	return ok
}

func (m *Manager) isAborted(session uint64) (bool, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	tx, ok := m.active[session]
	if !ok {
		return false, ErrNoActiveTransaction
	}
	return tx.aborted, nil
}
