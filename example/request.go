package example

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/demdxx/gocast"

	"golang_2pl/component"
	"golang_2pl/txmanager"
)

//调用方的原始请求，Request 形如 {"op": "add", "value": 5}
type RequestEntity struct {
	ResourceID string                 `json:"resourceID"`
	Request    map[string]interface{} `json:"request"`
}

func NewOperation(req map[string]interface{}) (component.Operation, error) {
	if len(req) == 0 {
		return nil, errors.New("empty request")
	}
	n := gocast.ToInt64(req["value"])
	switch op := strings.ToLower(strings.TrimSpace(gocast.ToString(req["op"]))); op {
	case "add", "+":
		return Add{N: n}, nil
	case "sub", "-":
		return Sub{N: n}, nil
	case "mul", "*":
		return Mul{N: n}, nil
	default:
		return nil, fmt.Errorf("unknown op: %q", op)
	}
}

// Run executes reqs as one transaction of session s. A deadlock victim is
// rolled back and retried, at most attempts times in total. Any other failure
// rolls back and is returned.
func Run(ctx context.Context, s *txmanager.Session, attempts int, reqs ...*RequestEntity) error {
	if len(reqs) == 0 {
		return errors.New("empty task")
	}
	ops := make([]component.Operation, 0, len(reqs))
	for _, req := range reqs {
		op, err := NewOperation(req.Request)
		if err != nil {
			return fmt.Errorf("resource %s: %w", req.ResourceID, err)
		}
		ops = append(ops, op)
	}

	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = runOnce(ctx, s, reqs, ops); !errors.Is(err, txmanager.ErrTransactionAborted) {
			return err
		}
	}
	return err
}

func runOnce(ctx context.Context, s *txmanager.Session, reqs []*RequestEntity, ops []component.Operation) error {
	if err := s.Begin(ctx); err != nil {
		return err
	}
	for i, req := range reqs {
		if err := s.Operate(ctx, component.ResourceID(req.ResourceID), ops[i]); err != nil {
			s.Rollback(ctx)
			return err
		}
	}
	if err := s.Commit(ctx); err != nil {
		s.Rollback(ctx)
		return err
	}
	return nil
}
