//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package envelope implements the (header, object) wrapper that every
// protocol message is packed into before it goes on the wire. The
// header is a runtime ordering check, not a security property: it
// catches a party calling recv with the wrong expectation before a
// stale or reordered message is silently accepted as something else.
package envelope

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Header tags used by the protocol engine. Implementations must use
// these literal strings for compatibility with the reference protocol.
const (
	RandomSeed    = "random_seed"
	NewPrivate    = "new_private"
	NewPublic     = "new_public"
	Share         = "share"
	AnotherShare  = "another_share"
	ShareOfP0     = "share_of_P0"
	ShareOfP1     = "share_of_P1"
	PrivateValue  = "private_value"
	Triples       = "triples"
	TripleOpening = "X-U and Y-V"
)

// ErrHeaderMismatch is returned by Decode when the header found on the
// wire does not match the header the caller expected.
type ErrHeaderMismatch struct {
	Want string
	Got  string
}

func (e *ErrHeaderMismatch) Error() string {
	return fmt.Sprintf("envelope: expected header %q, got %q", e.Want, e.Got)
}

// ErrCorrupt is returned by Decode when the frame does not deserialize
// into a well-formed envelope at all.
type ErrCorrupt struct {
	Err error
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("envelope: corrupt frame: %v", e.Err)
}

func (e *ErrCorrupt) Unwrap() error {
	return e.Err
}

// envelope is the (header, object) wire record. The object field must
// hold only gob-registered concrete types; see Register.
type envelope struct {
	Header string
	Object interface{}
}

// Register makes a concrete type eligible to travel inside an
// envelope's Object field. It must be called once per type, before any
// Encode/Decode involving that type, on every party — gob requires the
// encoder and decoder to agree on registered names.
func Register(value interface{}) {
	gob.Register(value)
}

// Encode packs header and obj into one opaque frame payload.
func Encode(header string, obj interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(envelope{Header: header, Object: obj}); err != nil {
		return nil, fmt.Errorf("envelope: encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode unpacks a frame payload and asserts that its header matches
// want. On success it returns the decoded object.
func Decode(frame []byte, want string) (interface{}, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(frame)).Decode(&env); err != nil {
		return nil, &ErrCorrupt{Err: err}
	}
	if env.Header != want {
		return nil, &ErrHeaderMismatch{Want: want, Got: env.Header}
	}
	return env.Object, nil
}
