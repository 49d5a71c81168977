//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package parallel implements the fan-out barrier the protocol engine
// uses whenever a party must both send to and receive from the same
// peer within one logical round (reveal of a Shared value to a
// compute party, the Beaver-triple opening step of product). Running
// such a send/recv pair sequentially deadlocks, since the peer mirrors
// the same pattern and is also waiting to send before it receives.
package parallel

import (
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Task is one branch of a barrier: a name (for error attribution) and
// the action to run concurrently with the other branches.
type Task struct {
	Name string
	Fn   func() error
}

// Run executes every task concurrently and waits for all of them to
// finish. It returns nil if every task succeeded, or a *multierror.Error
// aggregating every branch's failure otherwise — the caller decides
// whether a partial failure is fatal for the surrounding protocol step
// (in this engine it always is).
func Run(tasks ...Task) error {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   *multierror.Error
	)

	wg.Add(len(tasks))
	for _, task := range tasks {
		task := task
		go func() {
			defer wg.Done()
			if err := task.Fn(); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, taskError{name: task.Name, err: err})
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if errs == nil {
		return nil
	}
	return errs.ErrorOrNil()
}

type taskError struct {
	name string
	err  error
}

func (e taskError) Error() string {
	if e.name == "" {
		return e.err.Error()
	}
	return e.name + ": " + e.err.Error()
}

func (e taskError) Unwrap() error {
	return e.err
}
