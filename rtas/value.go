//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtas

import (
	"github.com/markkurossi/rtas/tensor"
	"github.com/markkurossi/rtas/transport"
)

// Mode tags the three kinds of value the engine operates on.
type Mode int

// The three value modes.
const (
	Private Mode = iota
	Public
	Shared
)

func (m Mode) String() string {
	switch m {
	case Private:
		return "Private"
	case Public:
		return "Public"
	case Shared:
		return "Shared"
	default:
		return "Unknown"
	}
}

// Value is the algebra's central, immutable record. payload is nil on
// any party that is not supposed to hold data in this mode: a Private
// value's non-owners, and P2 for a Shared value. Public values carry a
// payload on every party. See also §3 of the governing design.
type Value struct {
	mode    Mode
	payload *tensor.Tensor
	owner   []transport.PartyID
	shape   []int
}

// Mode reports the value's mode.
func (v *Value) Mode() Mode { return v.mode }

// Payload returns the locally held tensor, or nil if this party does
// not hold one for this value.
func (v *Value) Payload() *tensor.Tensor { return v.payload }

// Owner returns the owning parties. For Private values position 0 is
// the generator; for Public and Shared values order carries no
// meaning.
func (v *Value) Owner() []transport.PartyID {
	return append([]transport.PartyID(nil), v.owner...)
}

// Shape returns the value's declared shape, or nil if none was given.
func (v *Value) Shape() []int {
	if v.shape == nil {
		return nil
	}
	return append([]int(nil), v.shape...)
}

func (v *Value) ownsParty(p transport.PartyID) bool {
	for _, o := range v.owner {
		if o == p {
			return true
		}
	}
	return false
}

func cloneParties(parties []transport.PartyID) []transport.PartyID {
	return append([]transport.PartyID(nil), parties...)
}

// sameOwnerSet compares two owner lists as sets, ignoring order —
// Linear and Product both require matching owners for Private/Private
// operands, and the original implementation compares with Python's
// set equality rather than list equality.
func sameOwnerSet(a, b []transport.PartyID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[transport.PartyID]bool, len(a))
	for _, x := range a {
		set[x] = true
	}
	for _, y := range b {
		if !set[y] {
			return false
		}
	}
	return true
}

// unionOwners merges two owner lists as a set, used when two Public
// values combine under Linear/Product — both contributed to the
// result, so both parties' names become the result's owner.
func unionOwners(a, b []transport.PartyID) []transport.PartyID {
	seen := make(map[transport.PartyID]bool, len(a)+len(b))
	var out []transport.PartyID
	for _, p := range append(append([]transport.PartyID(nil), a...), b...) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

var computeParties = []transport.PartyID{"P0", "P1"}

func isComputeParty(p transport.PartyID) bool {
	return p == "P0" || p == "P1"
}

// otherComputeParty returns the compute party that is not p.
func otherComputeParty(p transport.PartyID) transport.PartyID {
	if p == "P0" {
		return "P1"
	}
	return "P0"
}
