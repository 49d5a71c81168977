//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package parallel

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

func TestRunAllSucceed(t *testing.T) {
	var n int32
	err := Run(
		Task{Name: "a", Fn: func() error { atomic.AddInt32(&n, 1); return nil }},
		Task{Name: "b", Fn: func() error { atomic.AddInt32(&n, 1); return nil }},
		Task{Name: "c", Fn: func() error { atomic.AddInt32(&n, 1); return nil }},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("got %d completed tasks, want 3", n)
	}
}

func TestRunCollectsAllFailures(t *testing.T) {
	errA := errors.New("boom a")
	errB := errors.New("boom b")

	err := Run(
		Task{Name: "send", Fn: func() error { return errA }},
		Task{Name: "recv", Fn: func() error { return errB }},
		Task{Name: "noop", Fn: func() error { return nil }},
	)
	if err == nil {
		t.Fatal("expected an aggregated error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "send") || !strings.Contains(msg, errA.Error()) {
		t.Errorf("error missing send branch detail: %v", err)
	}
	if !strings.Contains(msg, "recv") || !strings.Contains(msg, errB.Error()) {
		t.Errorf("error missing recv branch detail: %v", err)
	}
}

func TestRunEmpty(t *testing.T) {
	if err := Run(); err != nil {
		t.Errorf("Run() with no tasks: got %v, want nil", err)
	}
}
