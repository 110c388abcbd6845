package txmanager

import "golang_2pl/component"

//resource id -> 持有者，每个资源最多一个持有者
type lockTable map[component.ResourceID]*transaction

func (l lockTable) owner(rid component.ResourceID) *transaction {
	return l[rid]
}

//同时维护 tx.held，保证两边一致
func (l lockTable) grant(rid component.ResourceID, tx *transaction) {
	l[rid] = tx
	tx.held = append(tx.held, rid)
}

func (l lockTable) release(rid component.ResourceID) {
	delete(l, rid)
}
