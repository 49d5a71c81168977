//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtas

import (
	"net"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/markkurossi/rtas/config"
)

// loopbackTriple wires up P0, P1, P2 on ephemeral loopback ports,
// binds and sets up all three concurrently, and returns them keyed by
// name. Callers must call the returned closer when done.
func loopbackTriple(t *testing.T, shareStd float64, cachedTriples int) (map[string]*Engine, func()) {
	t.Helper()

	addrs := map[string]string{
		"P0": freeLoopbackAddr(t),
		"P1": freeLoopbackAddr(t),
		"P2": freeLoopbackAddr(t),
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		engines = make(map[string]*Engine, 3)
		errs    []error
	)

	names := []string{"P0", "P1", "P2"}
	wg.Add(len(names))
	for _, name := range names {
		name := name
		go func() {
			defer wg.Done()

			cfg := &config.Config{Self: name, Addrs: addrs}
			cfg.Peer.InitTime = 20 * time.Millisecond
			cfg.Peer.Timeout = 3 * time.Second
			cfg.RTAS.ShareStd = shareStd
			cfg.RTAS.CachedTriples = cachedTriples

			e, err := NewEngine(cfg, zap.NewNop())
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			if err := e.SetUp(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			mu.Lock()
			engines[name] = e
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, err := range errs {
		t.Fatal(err)
	}

	closer := func() {
		for _, e := range engines {
			e.Close()
		}
	}
	return engines, closer
}

func freeLoopbackAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

// runAll invokes fn on P0, P1 and P2 concurrently (all three must run
// at once since each protocol step is a synchronous, mutually blocking
// distributed call) and returns the results keyed by party name.
func runAll(t *testing.T, engines map[string]*Engine, fn func(e *Engine) (*Value, error)) map[string]*Value {
	t.Helper()

	type outcome struct {
		name string
		val  *Value
		err  error
	}
	out := make(chan outcome, len(engines))

	var wg sync.WaitGroup
	for name, e := range engines {
		name, e := name, e
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := fn(e)
			out <- outcome{name: name, val: v, err: err}
		}()
	}
	wg.Wait()
	close(out)

	results := make(map[string]*Value, len(engines))
	for o := range out {
		if o.err != nil {
			t.Fatalf("%s: %v", o.name, o.err)
		}
		results[o.name] = o.val
	}
	return results
}
