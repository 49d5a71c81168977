//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package envelope

import "testing"

func init() {
	Register(uint64(0))
	Register("")
}

func TestRoundTrip(t *testing.T) {
	frame, err := Encode(RandomSeed, uint64(1234))
	if err != nil {
		t.Fatal(err)
	}
	obj, err := Decode(frame, RandomSeed)
	if err != nil {
		t.Fatal(err)
	}
	if obj.(uint64) != 1234 {
		t.Errorf("got %v, want 1234", obj)
	}
}

func TestHeaderMismatch(t *testing.T) {
	frame, err := Encode(NewPrivate, "hello")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Decode(frame, NewPublic)
	if err == nil {
		t.Fatal("expected header mismatch error")
	}
	var mismatch *ErrHeaderMismatch
	if !asErrHeaderMismatch(err, &mismatch) {
		t.Fatalf("got %T: %v, want *ErrHeaderMismatch", err, err)
	}
}

func asErrHeaderMismatch(err error, target **ErrHeaderMismatch) bool {
	if m, ok := err.(*ErrHeaderMismatch); ok {
		*target = m
		return true
	}
	return false
}

func TestCorruptFrame(t *testing.T) {
	_, err := Decode([]byte("not a gob stream"), RandomSeed)
	if err == nil {
		t.Fatal("expected corrupt frame error")
	}
	if _, ok := err.(*ErrCorrupt); !ok {
		t.Fatalf("got %T, want *ErrCorrupt", err)
	}
}
