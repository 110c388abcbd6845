package txmanager

import (
	"time"

	"golang_2pl/component"
)

//事务结束状态
type TXStatus string

const (
	TXCommitted  TXStatus = "committed"
	TXRolledBack TXStatus = "rolledback"
)

func (t TXStatus) String() string {
	return string(t)
}

//一条已成功执行的操作，回滚时逆序 Undo
type historyEntry struct {
	rid       component.ResourceID
	operation component.Operation
}

//事务的运行时状态
//除 wake 以外，所有字段只在 Manager.mu 内读写
type transaction struct {
	txID      string
	session   uint64
	startedAt uint64

	history []historyEntry
	//按加锁顺序
	held []component.ResourceID

	aborted   bool
	waitingOn *component.ResourceID

	//容量为 1，相当于一个二值信号量
	wake chan struct{}
}

func newTransaction(txID string, session, startedAt uint64) *transaction {
	return &transaction{
		txID:      txID,
		session:   session,
		startedAt: startedAt,
		wake:      make(chan struct{}, 1),
	}
}

//t 比 other 更年轻：开始得更晚，相同时 session 更大
func (t *transaction) youngerThan(other *transaction) bool {
	if t.startedAt != other.startedAt {
		return t.startedAt > other.startedAt
	}
	return t.session > other.session
}

func (t *transaction) waiting() bool {
	return t.waitingOn != nil
}

//不阻塞，信号量已满时说明还有一次唤醒没有被消费
func (t *transaction) signal() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *transaction) drain() {
	select {
	case <-t.wake:
	default:
	}
}

func (t *transaction) record(status TXStatus) *TXRecord {
	resources := make([]component.ResourceID, len(t.held))
	copy(resources, t.held)
	return &TXRecord{
		TXID:       t.txID,
		Session:    t.session,
		StartedAt:  t.startedAt,
		Status:     status,
		Aborted:    t.aborted,
		Operations: len(t.history),
		Resources:  resources,
		FinishedAt: time.Now(),
	}
}

// TXRecord describes a finished transaction.
type TXRecord struct {
	TXID      string   `json:"txID"`
	Session   uint64   `json:"session"`
	StartedAt uint64   `json:"startedAt"`
	Status    TXStatus `json:"status"`
	Aborted   bool     `json:"aborted"`
	//成功执行的操作数
	Operations int                    `json:"operations"`
	Resources  []component.ResourceID `json:"resources"`
	FinishedAt time.Time              `json:"finishedAt"`
}
