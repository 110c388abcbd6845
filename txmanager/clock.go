package txmanager

import (
	"sync/atomic"
	"time"
)

// Clock yields values that are only compared with each other. A larger value
// means a later start.
type Clock interface {
	Now() uint64
}

type SystemClock struct{}

var _ Clock = SystemClock{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().UnixNano())
}

// LogicalClock hands out 1, 2, 3, ...
type LogicalClock struct {
	last atomic.Uint64
}

var _ Clock = (*LogicalClock)(nil)

func (c *LogicalClock) Now() uint64 {
	return c.last.Add(1)
}
