package example

import (
	"context"
	"errors"

	"github.com/demdxx/gocast"
	"github.com/xiaoxuxiansheng/redis_lock"

	"golang_2pl/component"
	"golang_2pl/example/pkg"
)

//保存在 redis 中的计数器
//txmanager 只保证进程内互斥，跨进程的读-改-写由 redis 分布式锁保护
type RedisCounter struct {
	id     component.ResourceID
	client *redis_lock.Client
}

var _ Cell = (*RedisCounter)(nil)

func NewRedisCounter(id string, client *redis_lock.Client) *RedisCounter {
	return &RedisCounter{
		id:     component.ResourceID(id),
		client: client,
	}
}

func (r *RedisCounter) ID() component.ResourceID {
	return r.id
}

//key 不存在时为 0
func (r *RedisCounter) Value(ctx context.Context) (int64, error) {
	reply, err := r.client.Get(ctx, pkg.BuildCounterKey(r.id.String()))
	if err != nil {
		if errors.Is(err, redis_lock.ErrNil) {
			return 0, nil
		}
		return 0, err
	}
	return gocast.ToInt64(reply), nil
}

func (r *RedisCounter) Reset(ctx context.Context, v int64) error {
	_, err := r.client.Set(ctx, pkg.BuildCounterKey(r.id.String()), gocast.ToString(v))
	return err
}

func (r *RedisCounter) Update(ctx context.Context, fn func(v int64) (int64, error)) error {
	lock := redis_lock.NewRedisLock(pkg.BuildCounterLockKey(r.id.String()), r.client)
	if err := lock.Lock(ctx); err != nil {
		return err
	}
	defer func() {
		_ = lock.Unlock(ctx)
	}()

	v, err := r.Value(ctx)
	if err != nil {
		return err
	}
	next, err := fn(v)
	if err != nil {
		return err
	}
	return r.Reset(ctx, next)
}
