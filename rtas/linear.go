//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtas

import "github.com/markkurossi/rtas/tensor"

// Linear implements linear(x, y, f) per the mode-pair table: Public
// combines with Public or Shared locally (halving the Public operand
// against a Shared partner so that the two compute parties'
// reconstructions add up correctly); Private combines with Public or
// with a same-owner Private; Shared combines with Public or Shared.
// Mixing Shared with Private is a protocol error.
func (e *Engine) Linear(x, y *Value, f tensor.Kernel) (*Value, error) {
	switch {
	case x.mode == Public && y.mode == Public:
		v, err := f(x.payload, y.payload)
		if err != nil {
			return nil, protocolErr("linear", err)
		}
		return &Value{mode: Public, payload: v, owner: unionOwners(x.owner, y.owner)}, nil

	case x.mode == Public && y.mode == Private:
		return e.ownerGatedResult(y, "linear", func(v *tensor.Tensor) (*tensor.Tensor, error) { return f(x.payload, v) })

	case x.mode == Private && y.mode == Public:
		return e.ownerGatedResult(x, "linear", func(v *tensor.Tensor) (*tensor.Tensor, error) { return f(v, y.payload) })

	case x.mode == Private && y.mode == Private:
		return e.privatePrivateResult(x, y, f, "linear")

	case x.mode == Shared && y.mode == Private, x.mode == Private && y.mode == Shared:
		return nil, protocolErrf("linear", "cannot combine a Shared value with a Private value")

	case x.mode == Shared && y.mode == Public:
		return e.sharedResult("linear", func() (*tensor.Tensor, error) {
			return f(x.payload, tensor.Scale(y.payload, 0.5))
		})

	case x.mode == Public && y.mode == Shared:
		return e.sharedResult("linear", func() (*tensor.Tensor, error) {
			return f(tensor.Scale(x.payload, 0.5), y.payload)
		})

	case x.mode == Shared && y.mode == Shared:
		return e.sharedResult("linear", func() (*tensor.Tensor, error) {
			return f(x.payload, y.payload)
		})

	default:
		return nil, protocolErrf("linear", "unhandled mode combination %v/%v", x.mode, y.mode)
	}
}
