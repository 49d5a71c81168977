//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package tensor

import "testing"

func TestAddSub(t *testing.T) {
	a, err := New([]int{3}, []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	b, err := New([]int{3}, []float64{4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}

	sum, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := New([]int{3}, []float64{5, 7, 9})
	if !Equal(sum, want, 1e-12) {
		t.Errorf("Add: got %v, want %v", sum.Data(), want.Data())
	}

	diff, err := Sub(b, a)
	if err != nil {
		t.Fatal(err)
	}
	want, _ = New([]int{3}, []float64{3, 3, 3})
	if !Equal(diff, want, 1e-12) {
		t.Errorf("Sub: got %v, want %v", diff.Data(), want.Data())
	}
}

func TestShapeMismatch(t *testing.T) {
	a := Zeros([]int{2})
	b := Zeros([]int{3})
	if _, err := Add(a, b); err != ErrShapeMismatch {
		t.Errorf("Add: got %v, want ErrShapeMismatch", err)
	}
}

func TestScale(t *testing.T) {
	a, _ := New([]int{2}, []float64{2, 4})
	got := Scale(a, 0.5)
	want, _ := New([]int{2}, []float64{1, 2})
	if !Equal(got, want, 1e-12) {
		t.Errorf("Scale: got %v, want %v", got.Data(), want.Data())
	}
}

func TestMulKernel(t *testing.T) {
	a, _ := New([]int{3}, []float64{1, 2, 3})
	b, _ := New([]int{3}, []float64{10, 20, 30})
	got, err := Mul(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := New([]int{3}, []float64{10, 40, 90})
	if !Equal(got, want, 1e-9) {
		t.Errorf("Mul: got %v, want %v", got.Data(), want.Data())
	}
}

func TestMatMulKernel(t *testing.T) {
	a, _ := New([]int{2, 2}, []float64{1, 2, 3, 4})
	b, _ := New([]int{2, 2}, []float64{5, 6, 7, 8})
	got, err := MatMul(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := New([]int{2, 2}, []float64{19, 22, 43, 50})
	if !Equal(got, want, 1e-9) {
		t.Errorf("MatMul: got %v, want %v", got.Data(), want.Data())
	}
}

func TestSyncedSourceReproducible(t *testing.T) {
	a := NewSyncedSource(42).Normal(0, 5, []int{4})
	b := NewSyncedSource(42).Normal(0, 5, []int{4})
	if !Equal(a, b, 0) {
		t.Errorf("NewSyncedSource(42) drew different values: %v != %v", a.Data(), b.Data())
	}

	c := NewSyncedSource(43).Normal(0, 5, []int{4})
	if Equal(a, c, 0) {
		t.Errorf("NewSyncedSource with different seeds produced identical output")
	}
}

func TestGobRoundTrip(t *testing.T) {
	orig, _ := New([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	data, err := orig.GobEncode()
	if err != nil {
		t.Fatal(err)
	}
	var got Tensor
	if err := got.GobDecode(data); err != nil {
		t.Fatal(err)
	}
	if !Equal(orig, &got, 1e-12) {
		t.Errorf("round trip mismatch: got %v, want %v", got.Data(), orig.Data())
	}
}
