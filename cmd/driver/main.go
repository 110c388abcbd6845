package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang_2pl/component"
	"golang_2pl/example"
	"golang_2pl/log"
	"golang_2pl/txmanager"
)

func main() {
	if err := log.Init(log.Config{Level: "debug"}); err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	ctx := context.Background()

	r1 := example.NewCounter("R1", 0)
	r2 := example.NewCounter("R2", 0)
	manager, err := txmanager.NewManager([]component.Resource{r1, r2}, txmanager.WithClock(&txmanager.LogicalClock{}))
	if err != nil {
		panic(err)
	}

	// Test 1: rollback restores the counter
	s := manager.NewSession()
	if err = s.Begin(ctx); err != nil {
		panic(err)
	}
	for _, op := range []component.Operation{example.Add{N: 5}, example.Mul{N: 2}, example.Sub{N: 3}} {
		if err = s.Operate(ctx, "R1", op); err != nil {
			panic(err)
		}
	}
	fmt.Println("after +5 *2 -3:", r1.Value())
	s.Rollback(ctx)
	fmt.Println("after rollback:", r1.Value())

	// Test 2: crossed lock order, exactly one side is aborted
	t1, t2 := manager.NewSession(), manager.NewSession()
	if err = t1.Begin(ctx); err != nil {
		panic(err)
	}
	if err = t2.Begin(ctx); err != nil {
		panic(err)
	}
	if err = t1.Operate(ctx, "R1", example.Add{N: 1}); err != nil {
		panic(err)
	}
	if err = t2.Operate(ctx, "R2", example.Add{N: 10}); err != nil {
		panic(err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	for _, step := range []struct {
		name    string
		session *txmanager.Session
		rid     component.ResourceID
	}{
		{name: "T1", session: t1, rid: "R2"},
		{name: "T2", session: t2, rid: "R1"},
	} {
		step := step
		go func() {
			defer wg.Done()
			err := step.session.Operate(ctx, step.rid, example.Add{N: 100})
			if errors.Is(err, txmanager.ErrTransactionAborted) {
				fmt.Println(step.name, "aborted")
				step.session.Rollback(ctx)
				return
			}
			if err != nil {
				panic(err)
			}
			if err = step.session.Commit(ctx); err != nil {
				panic(err)
			}
			fmt.Println(step.name, "committed")
		}()
	}
	wg.Wait()

	fmt.Println("R1:", r1.Value(), "R2:", r2.Value())
	fmt.Printf("%+v\n", manager.Stats())
}
