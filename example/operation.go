package example

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang_2pl/component"
	"golang_2pl/log"
)

var (
	ErrOverflow      = errors.New("integer overflow")
	ErrNotInvertible = errors.New("operation is not invertible")
	ErrNotACell      = errors.New("resource does not hold an integer")
)

type Add struct {
	N int64
}

type Sub struct {
	N int64
}

type Mul struct {
	N int64
}

var (
	_ component.Operation = Add{}
	_ component.Operation = Sub{}
	_ component.Operation = Mul{}
)

func (a Add) Execute(ctx context.Context, resource component.Resource) error {
	return update(ctx, resource, func(v int64) (int64, error) {
		return add(v, a.N)
	})
}

func (a Add) Undo(ctx context.Context, resource component.Resource) {
	undo(ctx, resource, a, func(v int64) (int64, error) {
		return v - a.N, nil
	})
}

func (a Add) String() string {
	return fmt.Sprintf("+%d", a.N)
}

func (s Sub) Execute(ctx context.Context, resource component.Resource) error {
	return update(ctx, resource, func(v int64) (int64, error) {
		if s.N == math.MinInt64 {
			if v >= 0 {
				return 0, ErrOverflow
			}
			return v - s.N, nil
		}
		return add(v, -s.N)
	})
}

func (s Sub) Undo(ctx context.Context, resource component.Resource) {
	undo(ctx, resource, s, func(v int64) (int64, error) {
		return v + s.N, nil
	})
}

func (s Sub) String() string {
	return fmt.Sprintf("-%d", s.N)
}

func (m Mul) Execute(ctx context.Context, resource component.Resource) error {
	return update(ctx, resource, func(v int64) (int64, error) {
		if m.N == 0 {
			return 0, ErrNotInvertible
		}
		if v == 0 {
			return 0, nil
		}
		if (v == math.MinInt64 && m.N == -1) || (m.N == math.MinInt64 && v == -1) {
			return 0, ErrOverflow
		}
		product := v * m.N
		if product/m.N != v {
			return 0, ErrOverflow
		}
		return product, nil
	})
}

func (m Mul) Undo(ctx context.Context, resource component.Resource) {
	undo(ctx, resource, m, func(v int64) (int64, error) {
		return v / m.N, nil
	})
}

func (m Mul) String() string {
	return fmt.Sprintf("*%d", m.N)
}

func add(v, n int64) (int64, error) {
	sum := v + n
	if (n > 0 && sum < v) || (n < 0 && sum > v) {
		return 0, ErrOverflow
	}
	return sum, nil
}

func update(ctx context.Context, resource component.Resource, fn func(int64) (int64, error)) error {
	cell, ok := resource.(Cell)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotACell, resource.ID())
	}
	return cell.Update(ctx, fn)
}

//Undo 约定不会失败，远端资源出错时只能记日志
func undo(ctx context.Context, resource component.Resource, op fmt.Stringer, fn func(int64) (int64, error)) {
	if err := update(ctx, resource, fn); err != nil {
		log.ErrorContextf(ctx, "undo failed, resource: %s, op: %s, err: %v", resource.ID(), op, err)
	}
}
