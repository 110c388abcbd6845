package txmanager

import "golang_2pl/component"

//resource id -> 等待该资源的事务集合
//tx 出现在 w[rid] 中当且仅当 *tx.waitingOn == rid
type waitGraph map[component.ResourceID]map[*transaction]struct{}

func (w waitGraph) add(tx *transaction, rid component.ResourceID) {
	waiters, ok := w[rid]
	if !ok {
		waiters = make(map[*transaction]struct{})
		w[rid] = waiters
	}
	waiters[tx] = struct{}{}
	tx.waitingOn = &rid
}

//tx 没有在等待时什么也不做
func (w waitGraph) remove(tx *transaction) {
	if tx.waitingOn == nil {
		return
	}
	rid := *tx.waitingOn
	tx.waitingOn = nil

	waiters := w[rid]
	delete(waiters, tx)
	if len(waiters) == 0 {
		delete(w, rid)
	}
}

//任选一个等待者，不保证先来先得
func (w waitGraph) pick(rid component.ResourceID) *transaction {
	for tx := range w[rid] {
		return tx
	}
	return nil
}

func (w waitGraph) size() int {
	var n int
	for _, waiters := range w {
		n += len(waiters)
	}
	return n
}
