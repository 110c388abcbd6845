package txmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golang_2pl/component"
)

func TestDetectDeadlockFreeResource(t *testing.T) {
	locks := make(lockTable)
	t1 := newTransaction("t1", 1, 1)

	assert.Nil(t, detectDeadlock(locks, t1, "a"))
}

func TestDetectDeadlockChainWithoutCycle(t *testing.T) {
	locks, waits := make(lockTable), make(waitGraph)
	t1 := newTransaction("t1", 1, 1)
	t2 := newTransaction("t2", 2, 2)
	t3 := newTransaction("t3", 3, 3)

	locks.grant("a", t2)
	locks.grant("b", t3)
	waits.add(t2, "b")
	waits.add(t1, "a")

	assert.Nil(t, detectDeadlock(locks, t1, "a"))
}

func TestDetectDeadlockTwoCycle(t *testing.T) {
	cases := []struct {
		name   string
		t1, t2 uint64
		victim string
	}{
		{name: "caller younger", t1: 1, t2: 2, victim: "t2"},
		{name: "owner younger", t1: 2, t2: 1, victim: "t1"},
		{name: "tie broken by session", t1: 5, t2: 5, victim: "t2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			locks, waits := make(lockTable), make(waitGraph)
			t1 := newTransaction("t1", 1, c.t1)
			t2 := newTransaction("t2", 2, c.t2)

			locks.grant("a", t1)
			locks.grant("b", t2)
			waits.add(t1, "b")
			waits.add(t2, "a")

			victim := detectDeadlock(locks, t2, "a")
			if assert.NotNil(t, victim) {
				assert.Equal(t, c.victim, victim.txID)
			}
		})
	}
}

func TestDetectDeadlockPicksYoungestOnLongCycle(t *testing.T) {
	locks, waits := make(lockTable), make(waitGraph)
	t1 := newTransaction("t1", 1, 10)
	t2 := newTransaction("t2", 2, 40)
	t3 := newTransaction("t3", 3, 20)
	t4 := newTransaction("t4", 4, 30)

	locks.grant("a", t1)
	locks.grant("b", t2)
	locks.grant("c", t3)
	locks.grant("d", t4)
	waits.add(t2, "c")
	waits.add(t3, "d")
	waits.add(t4, "a")
	waits.add(t1, "b")

	victim := detectDeadlock(locks, t1, "b")
	if assert.NotNil(t, victim) {
		assert.Equal(t, "t2", victim.txID)
	}
}

func TestDetectDeadlockIgnoresTransactionsOffTheCycle(t *testing.T) {
	locks, waits := make(lockTable), make(waitGraph)
	t1 := newTransaction("t1", 1, 1)
	t2 := newTransaction("t2", 2, 2)
	// t9 is the youngest but only waits into the cycle.
	t9 := newTransaction("t9", 9, 99)

	locks.grant("a", t1)
	locks.grant("b", t2)
	waits.add(t9, "a")
	waits.add(t1, "b")
	waits.add(t2, "a")

	victim := detectDeadlock(locks, t2, "a")
	if assert.NotNil(t, victim) {
		assert.Equal(t, "t2", victim.txID)
	}
}

func TestWaitGraphKeepsPointerInSync(t *testing.T) {
	waits := make(waitGraph)
	t1 := newTransaction("t1", 1, 1)
	t2 := newTransaction("t2", 2, 2)

	waits.add(t1, "a")
	waits.add(t2, "a")
	assert.Equal(t, 2, waits.size())
	assert.Equal(t, component.ResourceID("a"), *t1.waitingOn)

	waits.remove(t1)
	assert.Nil(t, t1.waitingOn)
	assert.Same(t, t2, waits.pick("a"))

	waits.remove(t2)
	waits.remove(t2)
	assert.Nil(t, waits.pick("a"))
	assert.Empty(t, waits)
}

func TestLockTableGrantUpdatesHeldSet(t *testing.T) {
	locks := make(lockTable)
	t1 := newTransaction("t1", 1, 1)

	locks.grant("a", t1)
	locks.grant("b", t1)
	assert.Same(t, t1, locks.owner("a"))
	assert.Equal(t, []component.ResourceID{"a", "b"}, t1.held)

	locks.release("a")
	assert.Nil(t, locks.owner("a"))
}

func TestSignalIsBinary(t *testing.T) {
	t1 := newTransaction("t1", 1, 1)
	t1.signal()
	t1.signal()
	assert.Len(t, t1.wake, 1)

	t1.drain()
	assert.Len(t, t1.wake, 0)
	t1.drain()
}

func TestYoungerThan(t *testing.T) {
	older := newTransaction("a", 7, 1)
	younger := newTransaction("b", 3, 2)
	assert.True(t, younger.youngerThan(older))
	assert.False(t, older.youngerThan(younger))

	sameTimeHigherSession := newTransaction("c", 8, 1)
	assert.True(t, sameTimeHigherSession.youngerThan(older))
	assert.False(t, older.youngerThan(older))
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := newRegistry([]component.Resource{stubResource("a"), stubResource("a")})
	assert.Error(t, err)

	_, err = newRegistry([]component.Resource{nil})
	assert.Error(t, err)

	reg, err := newRegistry([]component.Resource{stubResource("a"), stubResource("b")})
	assert.NoError(t, err)
	assert.Equal(t, 2, reg.len())
	_, ok := reg.get("c")
	assert.False(t, ok)
}

type stubResource string

func (s stubResource) ID() component.ResourceID {
	return component.ResourceID(s)
}

func TestLogicalClockIsMonotonic(t *testing.T) {
	var c LogicalClock
	assert.Equal(t, uint64(1), c.Now())
	assert.Equal(t, uint64(2), c.Now())
}
