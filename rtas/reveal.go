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

// RevealTo implements reveal_to(x, target). For Private and Shared
// values exactly target ends up with the plaintext payload and every
// other party returns nil; a Public value's payload is returned on
// every party.
func (e *Engine) RevealTo(x *Value, target transport.PartyID) (*tensor.Tensor, error) {
	switch x.mode {
	case Public:
		return x.payload, nil

	case Private:
		if x.ownsParty(target) {
			if e.self == target {
				return x.payload, nil
			}
			return nil, nil
		}
		generator := x.owner[0]
		if e.self == generator {
			if err := e.sendTensor(target, envelope.PrivateValue, x.payload); err != nil {
				return nil, err
			}
			return nil, nil
		}
		if e.self == target {
			return e.recvTensor(generator, envelope.PrivateValue)
		}
		return nil, nil

	case Shared:
		return e.revealShared(x, target)

	default:
		return nil, protocolErrf("reveal_to", "unknown mode %v", x.mode)
	}
}

func (e *Engine) revealShared(x *Value, target transport.PartyID) (*tensor.Tensor, error) {
	if isComputeParty(target) {
		other := otherComputeParty(target)

		if e.self == target {
			other2, err := e.recvTensor(other, envelope.AnotherShare)
			if err != nil {
				return nil, err
			}
			return tensor.Add(x.payload, other2)
		}
		if isComputeParty(e.self) {
			if err := e.sendTensor(target, envelope.AnotherShare, x.payload); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return nil, nil
	}

	// target == P2.
	if isComputeParty(e.self) {
		header := envelope.ShareOfP0
		if e.self == "P1" {
			header = envelope.ShareOfP1
		}
		if err := e.sendTensor(target, header, x.payload); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if e.self != target {
		return nil, nil
	}

	var shareP0, shareP1 *tensor.Tensor
	if err := parallelDo(
		task("recv_P0", func() error {
			t, err := e.recvTensor("P0", envelope.ShareOfP0)
			if err != nil {
				return err
			}
			shareP0 = t
			return nil
		}),
		task("recv_P1", func() error {
			t, err := e.recvTensor("P1", envelope.ShareOfP1)
			if err != nil {
				return err
			}
			shareP1 = t
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return tensor.Add(shareP0, shareP1)
}
