//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package transport

import (
	"sync"
	"testing"
	"time"
)

// bindTriple binds listeners for P0, P1, P2 on ephemeral loopback
// ports and returns the Network for each, still unconnected.
func bindTriple(t *testing.T) (p0, p1, p2 *Network) {
	t.Helper()

	bindOne := func(self PartyID) (*Network, string) {
		nw, err := Bind(self, "127.0.0.1:0", AddrMap{}, time.Second)
		if err != nil {
			t.Fatal(err)
		}
		return nw, nw.listener.Addr().String()
	}

	tmp0, addr0 := bindOne("P0")
	tmp1, addr1 := bindOne("P1")
	tmp2, addr2 := bindOne("P2")

	mk := func(self PartyID) AddrMap {
		m := AddrMap{"P0": addr0, "P1": addr1, "P2": addr2}
		delete(m, self)
		return m
	}

	tmp0.peers = mk("P0")
	tmp0.selfAddr = addr0
	tmp1.peers = mk("P1")
	tmp1.selfAddr = addr1
	tmp2.peers = mk("P2")
	tmp2.selfAddr = addr2

	return tmp0, tmp1, tmp2
}

func TestNetworkFullMesh(t *testing.T) {
	p0, p1, p2 := bindTriple(t)
	defer p0.Close()
	defer p1.Close()
	defer p2.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	wg.Add(3)
	for _, nw := range []*Network{p0, p1, p2} {
		nw := nw
		go func() {
			defer wg.Done()
			if err := nw.ConnectAll(); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	if err := p0.SendTo("P1", []byte("ping")); err != nil {
		t.Fatal(err)
	}
	got, err := p1.RecvFrom("P0")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "ping" {
		t.Errorf("got %q, want %q", got, "ping")
	}

	if err := p2.SendTo("P0", []byte("triple")); err != nil {
		t.Fatal(err)
	}
	got, err = p0.RecvFrom("P2")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "triple" {
		t.Errorf("got %q, want %q", got, "triple")
	}
}
