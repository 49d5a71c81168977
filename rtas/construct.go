//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtas

import (
	"github.com/markkurossi/rtas/envelope"
	"github.com/markkurossi/rtas/tensor"
	"github.com/markkurossi/rtas/transport"
)

// GetValue produces the tensor a construction primitive installs.
// Only the generating/creating party ever calls it.
type GetValue func() (*tensor.Tensor, error)

// NewPrivate implements new_private(get_value, owner, shape?). owners[0]
// is the generator: it calls get_value and forwards the result to
// every other listed owner under header new_private. Every other
// party holds an absent payload.
func (e *Engine) NewPrivate(get GetValue, shape []int, owners ...transport.PartyID) (*Value, error) {
	if len(owners) == 0 {
		return nil, protocolErrf("new_private", "owner list must not be empty")
	}
	generator := owners[0]

	if e.self == generator {
		t, err := get()
		if err != nil {
			return nil, protocolErr("new_private", err)
		}
		for _, other := range owners[1:] {
			if other == e.self {
				continue
			}
			if err := e.sendTensor(other, envelope.NewPrivate, t); err != nil {
				return nil, err
			}
		}
		return &Value{mode: Private, payload: t, owner: cloneParties(owners), shape: shape}, nil
	}

	for _, owner := range owners[1:] {
		if owner == e.self {
			t, err := e.recvTensor(generator, envelope.NewPrivate)
			if err != nil {
				return nil, err
			}
			return &Value{mode: Private, payload: t, owner: cloneParties(owners), shape: shape}, nil
		}
	}
	return &Value{mode: Private, payload: nil, owner: cloneParties(owners), shape: shape}, nil
}

// NewPublic implements new_public(get_value, creator). creator calls
// get_value and broadcasts the result to the other two parties under
// header new_public; every party ends up holding an identical
// payload.
func (e *Engine) NewPublic(get GetValue, creator transport.PartyID) (*Value, error) {
	if e.self == creator {
		t, err := get()
		if err != nil {
			return nil, protocolErr("new_public", err)
		}
		for _, other := range e.otherParties(creator) {
			if err := e.sendTensor(other, envelope.NewPublic, t); err != nil {
				return nil, err
			}
		}
		return &Value{mode: Public, payload: t, owner: []transport.PartyID{creator}}, nil
	}

	t, err := e.recvTensor(creator, envelope.NewPublic)
	if err != nil {
		return nil, err
	}
	return &Value{mode: Public, payload: t, owner: []transport.PartyID{creator}}, nil
}

// Share implements share(value): turns a Private value into a Shared
// one. Case A (generator is a compute party) uses the synced PRNG and
// needs no network round; Case B (generator is P2) draws a fresh
// random split and sends one half to each compute party.
func (e *Engine) Share(value *Value) (*Value, error) {
	if value.mode != Private {
		return nil, protocolErrf("share", "can only share a Private value, got %s", value.mode)
	}
	generator := value.owner[0]

	if e.self == generator {
		if isComputeParty(generator) {
			if value.shape == nil {
				return nil, protocolErrf("share",
					"%s cannot share a value without a declared shape", generator)
			}
			r := e.synced.Normal(0, e.cfg.RTAS.ShareStd, value.shape)
			myShare, err := tensor.Add(value.payload, r)
			if err != nil {
				return nil, protocolErr("share", err)
			}
			return &Value{mode: Shared, payload: myShare, owner: computeParties}, nil
		}

		// Case B: P2 shares its own secret.
		shareP0 := e.fresh.Normal(0, e.cfg.RTAS.ShareStd, value.shape)
		shareP1, err := tensor.Sub(value.payload, shareP0)
		if err != nil {
			return nil, protocolErr("share", err)
		}
		if err := parallelDo(
			task("send_P0", func() error { return e.sendTensor("P0", envelope.Share, shareP0) }),
			task("send_P1", func() error { return e.sendTensor("P1", envelope.Share, shareP1) }),
		); err != nil {
			return nil, err
		}
		return &Value{mode: Shared, payload: nil, owner: computeParties}, nil
	}

	if isComputeParty(generator) {
		if value.shape == nil {
			return nil, protocolErrf("share",
				"%s cannot share a value without a declared shape", generator)
		}
		if !isComputeParty(e.self) {
			return &Value{mode: Shared, payload: nil, owner: computeParties}, nil
		}
		r := e.synced.Normal(0, e.cfg.RTAS.ShareStd, value.shape)
		myShare := tensor.Scale(r, -1)
		return &Value{mode: Shared, payload: myShare, owner: computeParties}, nil
	}

	// generator == P2, we are not P2.
	if !isComputeParty(e.self) {
		return &Value{mode: Shared, payload: nil, owner: computeParties}, nil
	}
	myShare, err := e.recvTensor(generator, envelope.Share)
	if err != nil {
		return nil, err
	}
	return &Value{mode: Shared, payload: myShare, owner: computeParties}, nil
}

func (e *Engine) otherParties(exclude transport.PartyID) []transport.PartyID {
	var out []transport.PartyID
	for _, p := range []transport.PartyID{"P0", "P1", "P2"} {
		if p != exclude && p != e.self {
			out = append(out, p)
		}
	}
	return out
}
