//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtas

import "github.com/markkurossi/rtas/tensor"

// ownerGatedResult computes a Private result on the parties that own
// priv, and returns an absent payload everywhere else. Shared by the
// Public/Private cases of both Linear and Product.
func (e *Engine) ownerGatedResult(priv *Value, op string, apply func(*tensor.Tensor) (*tensor.Tensor, error)) (*Value, error) {
	if !priv.ownsParty(e.self) {
		return &Value{mode: Private, payload: nil, owner: cloneParties(priv.owner)}, nil
	}
	v, err := apply(priv.payload)
	if err != nil {
		return nil, protocolErr(op, err)
	}
	return &Value{mode: Private, payload: v, owner: cloneParties(priv.owner)}, nil
}

// privatePrivateResult implements the Private/Private case shared by
// Linear and Product: operand owners must match exactly, and only
// those owners compute a result.
func (e *Engine) privatePrivateResult(x, y *Value, f tensor.Kernel, op string) (*Value, error) {
	if !sameOwnerSet(x.owner, y.owner) {
		return nil, protocolErrf(op, "mismatched Private owners: %v vs %v", x.owner, y.owner)
	}
	if !x.ownsParty(e.self) {
		return &Value{mode: Private, payload: nil, owner: cloneParties(x.owner)}, nil
	}
	v, err := f(x.payload, y.payload)
	if err != nil {
		return nil, protocolErr(op, err)
	}
	return &Value{mode: Private, payload: v, owner: cloneParties(x.owner)}, nil
}

// sharedResult runs compute on the two compute parties only, wrapping
// its result as a Shared value; P2 always ends up with an absent
// payload for these mixed Shared/Public results and for Shared/Shared
// local-compute cases (product's Beaver path has its own path).
func (e *Engine) sharedResult(op string, compute func() (*tensor.Tensor, error)) (*Value, error) {
	if !isComputeParty(e.self) {
		return &Value{mode: Shared, payload: nil, owner: computeParties}, nil
	}
	v, err := compute()
	if err != nil {
		return nil, protocolErr(op, err)
	}
	return &Value{mode: Shared, payload: v, owner: computeParties}, nil
}
