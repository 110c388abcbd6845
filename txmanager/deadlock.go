package txmanager

import "golang_2pl/component"

// detectDeadlock is called right after waiter was added as a waiter on rid.
// It follows owner -> waitingOn -> owner starting at rid's owner. If the
// chain leads back to waiter there is a cycle and the youngest transaction on
// it is returned; otherwise nil.
//
// The wait graph is acyclic before the call, so the only cycle the walk can
// meet goes through waiter.
func detectDeadlock(locks lockTable, waiter *transaction, rid component.ResourceID) *transaction {
	youngest := waiter
	current := locks.owner(rid)
	for current != nil && current != waiter && current.waiting() {
		if current.youngerThan(youngest) {
			youngest = current
		}
		current = locks.owner(*current.waitingOn)
	}

	if current != waiter {
		return nil
	}
	return youngest
}
