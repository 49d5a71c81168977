//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtas

import (
	"fmt"

	"github.com/markkurossi/rtas/envelope"
	"github.com/markkurossi/rtas/tensor"
)

// Product implements product(x, y, f, shape_x?, shape_y?, triple_source?).
// Cases with at least one Public or Private operand reduce to local
// computation with the same owner rules as Linear, but without the
// /2 trick: f is bilinear, so each compute party's local share of a
// Shared operand already combines correctly against the full plaintext
// of the other (non-halved) operand. Shared x Shared runs the Beaver
// triple protocol.
func (e *Engine) Product(x, y *Value, f tensor.Kernel, shapeX, shapeY []int, tripleSource string) (*Value, error) {
	switch {
	case x.mode == Public && y.mode == Public:
		v, err := f(x.payload, y.payload)
		if err != nil {
			return nil, protocolErr("product", err)
		}
		return &Value{mode: Public, payload: v, owner: unionOwners(x.owner, y.owner)}, nil

	case x.mode == Private && y.mode == Public:
		return e.ownerGatedResult(x, "product", func(v *tensor.Tensor) (*tensor.Tensor, error) { return f(v, y.payload) })

	case x.mode == Public && y.mode == Private:
		return e.ownerGatedResult(y, "product", func(v *tensor.Tensor) (*tensor.Tensor, error) { return f(x.payload, v) })

	case x.mode == Private && y.mode == Private:
		return e.privatePrivateResult(x, y, f, "product")

	case x.mode == Shared && y.mode == Private, x.mode == Private && y.mode == Shared:
		return nil, protocolErrf("product", "cannot combine a Shared value with a Private value")

	case x.mode == Shared && y.mode == Public:
		return e.sharedResult("product", func() (*tensor.Tensor, error) { return f(x.payload, y.payload) })

	case x.mode == Public && y.mode == Shared:
		return e.sharedResult("product", func() (*tensor.Tensor, error) { return f(x.payload, y.payload) })

	case x.mode == Shared && y.mode == Shared:
		return e.productShared(x, y, f, shapeX, shapeY, tripleSource)

	default:
		return nil, protocolErrf("product", "unhandled mode combination %v/%v", x.mode, y.mode)
	}
}

func (e *Engine) productShared(x, y *Value, f tensor.Kernel, shapeX, shapeY []int, tripleSource string) (*Value, error) {
	sx := x.shape
	if sx == nil {
		sx = shapeX
	}
	sy := y.shape
	if sy == nil {
		sy = shapeY
	}
	if sx == nil || sy == nil {
		return nil, protocolErrf("product", "shape must be specified via Value.Shape or shape_x/shape_y")
	}

	if e.self == "P2" {
		if err := e.ensureTripleBatch(tripleSource, sx, sy, f); err != nil {
			return nil, err
		}
		e.triples[tripleSource].counter--
		return &Value{mode: Shared, payload: nil, owner: computeParties}, nil
	}

	triple, err := e.nextTriple(tripleSource, sx, sy, f)
	if err != nil {
		return nil, err
	}

	dLocal, err := tensor.Sub(x.payload, triple.U)
	if err != nil {
		return nil, protocolErr("product", err)
	}
	eLocal, err := tensor.Sub(y.payload, triple.V)
	if err != nil {
		return nil, protocolErr("product", err)
	}

	other := otherComputeParty(e.self)
	var dOther, eOther *tensor.Tensor
	if err := parallelDo(
		task("send_de", func() error {
			return e.send(other, envelope.TripleOpening, tripleOpening{D: dLocal, E: eLocal})
		}),
		task("recv_de", func() error {
			obj, err := e.recv(other, envelope.TripleOpening)
			if err != nil {
				return err
			}
			opening, ok := obj.(tripleOpening)
			if !ok {
				return wrapErr(KindEnvelope, "product", fmt.Errorf("unexpected payload type %T", obj))
			}
			dOther, eOther = opening.D, opening.E
			return nil
		}),
	); err != nil {
		return nil, err
	}

	d, err := tensor.Add(dLocal, dOther)
	if err != nil {
		return nil, protocolErr("product", err)
	}
	ee, err := tensor.Add(eLocal, eOther)
	if err != nil {
		return nil, protocolErr("product", err)
	}

	fde, err := f(d, ee)
	if err != nil {
		return nil, protocolErr("product", err)
	}
	fUe, err := f(triple.U, ee)
	if err != nil {
		return nil, protocolErr("product", err)
	}
	fdV, err := f(d, triple.V)
	if err != nil {
		return nil, protocolErr("product", err)
	}

	var share *tensor.Tensor
	if e.self == "P0" {
		share, err = sumTensors(fde, fUe, fdV, triple.W)
	} else {
		share, err = sumTensors(fUe, fdV, triple.W)
	}
	if err != nil {
		return nil, protocolErr("product", err)
	}

	return &Value{mode: Shared, payload: share, owner: computeParties}, nil
}

func sumTensors(ts ...*tensor.Tensor) (*tensor.Tensor, error) {
	sum := ts[0]
	var err error
	for _, t := range ts[1:] {
		sum, err = tensor.Add(sum, t)
		if err != nil {
			return nil, err
		}
	}
	return sum, nil
}
