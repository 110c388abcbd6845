package example

import (
	"context"
	"sync/atomic"

	"golang_2pl/component"
)

//保存一个整数的资源，Add/Sub/Mul 都作用在 Cell 上
type Cell interface {
	component.Resource
	//读-改-写；fn 返回错误时资源保持不变
	Update(ctx context.Context, fn func(v int64) (int64, error)) error
}

//内存计数器
//读和写是分开的两步，并发的 Update 会丢失更新，互斥由 txmanager 的锁保证
type Counter struct {
	id    component.ResourceID
	value atomic.Int64
}

var _ Cell = (*Counter)(nil)

func NewCounter(id string, initial int64) *Counter {
	c := &Counter{id: component.ResourceID(id)}
	c.value.Store(initial)
	return c
}

func (c *Counter) ID() component.ResourceID {
	return c.id
}

func (c *Counter) Value() int64 {
	return c.value.Load()
}

func (c *Counter) Update(_ context.Context, fn func(v int64) (int64, error)) error {
	next, err := fn(c.value.Load())
	if err != nil {
		return err
	}
	c.value.Store(next)
	return nil
}
