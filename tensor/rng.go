//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package tensor

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	mathrand "math/rand"

	"golang.org/x/crypto/hkdf"
)

// hkdfInfo distinguishes the synced-PRNG seed expansion from any other
// future use of HKDF in this module.
var hkdfInfo = []byte("rtas synced prng v1")

// Source is a Gaussian sampler. Two kinds exist: a synced source,
// seeded identically on P0 and P1 so their draws cancel without a
// network round, and a fresh source seeded from the operating
// system's entropy pool, used wherever the protocol explicitly asks
// for unsynced randomness (P2's share of a Private(P2) value, triple
// generation).
type Source struct {
	rnd *mathrand.Rand
}

// NewSyncedSource derives a Source deterministically from a 64-bit
// seed. Both P0 and P1 must call this with the same seed value (it is
// transmitted once, under header random_seed, during set-up) and must
// thereafter draw from it with identical shapes in identical order;
// see Engine.SetUp and the Share operation's Case A.
//
// The seed is expanded with HKDF-SHA256 before seeding the underlying
// generator, rather than feeding the raw 64 bits straight in, so that
// the generator's internal state does not trivially leak the seed back
// out through its first few outputs.
func NewSyncedSource(seed uint64) *Source {
	var seedBytes [8]byte
	binary.BigEndian.PutUint64(seedBytes[:], seed)

	kdf := hkdf.New(sha256.New, seedBytes[:], nil, hkdfInfo)
	expanded := make([]byte, 8)
	if _, err := io.ReadFull(kdf, expanded); err != nil {
		// hkdf.Read only fails if asked for more output than
		// HKDF-SHA256 can produce (255*32 bytes); 8 bytes never does.
		panic(err)
	}

	return &Source{
		rnd: mathrand.New(mathrand.NewSource(int64(binary.BigEndian.Uint64(expanded)))),
	}
}

// NewFreshSource creates a Source seeded from the operating system's
// entropy pool. Used wherever the protocol draws randomness that must
// NOT be reproducible across parties.
func NewFreshSource() *Source {
	var seedBytes [8]byte
	if _, err := rand.Read(seedBytes[:]); err != nil {
		panic(err)
	}
	return &Source{
		rnd: mathrand.New(mathrand.NewSource(int64(binary.BigEndian.Uint64(seedBytes[:])))),
	}
}

// RandomSeed draws a uniform 64-bit seed from the operating system's
// entropy pool, for P0 to broadcast to P1 during set-up.
func RandomSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return binary.BigEndian.Uint64(b[:])
}

// Normal draws a tensor of the given shape whose elements are
// i.i.d. N(mean, std^2). Callers sharing a synced source across P0 and
// P1 must invoke this with identical shape arguments in identical
// order on both parties, or their draws will not cancel.
func (s *Source) Normal(mean, std float64, shape []int) *Tensor {
	data := make([]float64, numElements(shape))
	for i := range data {
		data[i] = mean + std*s.rnd.NormFloat64()
	}
	return &Tensor{shape: append([]int(nil), shape...), data: data}
}
