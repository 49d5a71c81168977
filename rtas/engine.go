//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtas

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/markkurossi/rtas/config"
	"github.com/markkurossi/rtas/envelope"
	"github.com/markkurossi/rtas/tensor"
	"github.com/markkurossi/rtas/transport"
)

var requiredParties = map[transport.PartyID]bool{"P0": true, "P1": true, "P2": true}

// Engine drives the value algebra and protocol operators for one
// party. It owns the party's transport, its PRNGs, and its triple
// cache.
type Engine struct {
	self transport.PartyID
	net  *transport.Network
	cfg  *config.Config
	log  *zap.Logger

	synced *tensor.Source // set on P0/P1 only, during SetUp
	fresh  *tensor.Source

	triples map[string]*tripleCache
}

// NewEngine validates cfg and binds the local listening socket. It
// does not yet connect to peers or sync randomness — call SetUp for
// that once every party has constructed its engine.
func NewEngine(cfg *config.Config, log *zap.Logger) (*Engine, error) {
	self := transport.PartyID(cfg.Self)

	have := make(map[transport.PartyID]bool, len(cfg.Addrs))
	for name := range cfg.Addrs {
		have[transport.PartyID(name)] = true
	}
	if len(have) != len(requiredParties) {
		return nil, wrapErr(KindConfiguration, "new_engine",
			fmt.Errorf("address map must name exactly %d parties, got %d", len(requiredParties), len(have)))
	}
	for want := range requiredParties {
		if !have[want] {
			return nil, wrapErr(KindConfiguration, "new_engine",
				fmt.Errorf("address map is missing party %s", want))
		}
	}
	if !have[self] {
		return nil, wrapErr(KindConfiguration, "new_engine",
			fmt.Errorf("local party %q is not in the address map", cfg.Self))
	}

	net, err := transport.Bind(self, cfg.SelfAddr(), cfg.PeerAddrs(), cfg.Peer.Timeout)
	if err != nil {
		return nil, wrapErr(classify(err), "new_engine", err)
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		self:    self,
		net:     net,
		cfg:     cfg,
		log:     log.With(zap.String("party", string(self))),
		fresh:   tensor.NewFreshSource(),
		triples: make(map[string]*tripleCache),
	}, nil
}

// Self returns the local party identifier.
func (e *Engine) Self() transport.PartyID { return e.self }

// SetUp connects the full mesh and, on P0 and P1, establishes the
// synced PRNG (invariant I5). P2 has nothing further to initialize
// beyond the fresh generator NewEngine already created.
func (e *Engine) SetUp() error {
	time.Sleep(e.cfg.Peer.InitTime)

	if err := e.net.ConnectAll(); err != nil {
		return wrapErr(classify(err), "set_up", err)
	}
	e.log.Debug("mesh connected")

	switch e.self {
	case "P0":
		seed := tensor.RandomSeed()
		if err := e.send("P1", envelope.RandomSeed, seed); err != nil {
			return err
		}
		e.synced = tensor.NewSyncedSource(seed)
	case "P1":
		obj, err := e.recv("P0", envelope.RandomSeed)
		if err != nil {
			return err
		}
		seed, ok := obj.(uint64)
		if !ok {
			return wrapErr(KindEnvelope, "set_up", fmt.Errorf("unexpected seed payload type %T", obj))
		}
		e.synced = tensor.NewSyncedSource(seed)
	}
	e.log.Debug("set-up complete")
	return nil
}

// Close tears down the transport. The engine must not be used
// afterward.
func (e *Engine) Close() error {
	return e.net.Close()
}

func (e *Engine) send(peer transport.PartyID, header string, obj interface{}) error {
	frame, err := envelope.Encode(header, obj)
	if err != nil {
		return wrapErr(KindEnvelope, "send:"+header, err)
	}
	if err := e.net.SendTo(peer, frame); err != nil {
		return wrapErr(classify(err), "send:"+header, err)
	}
	return nil
}

func (e *Engine) recv(peer transport.PartyID, header string) (interface{}, error) {
	frame, err := e.net.RecvFrom(peer)
	if err != nil {
		return nil, wrapErr(classify(err), "recv:"+header, err)
	}
	obj, err := envelope.Decode(frame, header)
	if err != nil {
		return nil, wrapErr(KindEnvelope, "recv:"+header, err)
	}
	return obj, nil
}

func (e *Engine) sendTensor(peer transport.PartyID, header string, t *tensor.Tensor) error {
	return e.send(peer, header, t)
}

func (e *Engine) recvTensor(peer transport.PartyID, header string) (*tensor.Tensor, error) {
	obj, err := e.recv(peer, header)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*tensor.Tensor)
	if !ok {
		return nil, wrapErr(KindEnvelope, "recv:"+header, fmt.Errorf("unexpected payload type %T", obj))
	}
	return t, nil
}
