//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package tensor implements the concrete tensor backend that the
// protocol engine is written against: an opaque n-dimensional
// floating-point array with shape introspection, elementwise
// add/sub/scale, and user-supplied binary kernels. It is the "external
// collaborator" named by the runtime's protocol specification — any
// backend satisfying the same shape discipline would do, but a
// runnable repository needs one, and this one is built on
// gonum.org/v1/gonum/floats rather than hand-rolled loops.
package tensor

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch is returned when two tensors participating in a
// binary operation do not have identical shapes.
var ErrShapeMismatch = errors.New("tensor: shape mismatch")

// Tensor is an opaque n-dimensional floating point array. The backing
// store is a flat, row-major []float64 slice; Shape records the
// dimensions.
type Tensor struct {
	shape []int
	data  []float64
}

// New creates a tensor of the given shape from flat row-major data. It
// copies data so the caller's slice can be reused.
func New(shape []int, data []float64) (*Tensor, error) {
	n := numElements(shape)
	if n != len(data) {
		return nil, fmt.Errorf("tensor: shape %v wants %d elements, got %d",
			shape, n, len(data))
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	return &Tensor{shape: append([]int(nil), shape...), data: cp}, nil
}

// Zeros creates a zero-filled tensor of the given shape.
func Zeros(shape []int) *Tensor {
	return &Tensor{
		shape: append([]int(nil), shape...),
		data:  make([]float64, numElements(shape)),
	}
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Shape returns the tensor's dimensions. The returned slice must not be
// mutated by the caller.
func (t *Tensor) Shape() []int {
	return t.shape
}

// Data returns the tensor's flat row-major backing slice. The returned
// slice must not be mutated by the caller; use Clone for a mutable
// copy.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Len returns the number of scalar elements in the tensor.
func (t *Tensor) Len() int {
	return len(t.data)
}

// Clone returns a deep copy of t.
func (t *Tensor) Clone() *Tensor {
	cp := make([]float64, len(t.data))
	copy(cp, t.data)
	return &Tensor{shape: append([]int(nil), t.shape...), data: cp}
}

// SameShape reports whether a and b have identical dimensions.
func SameShape(a, b *Tensor) bool {
	if len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	return true
}

// Add returns the elementwise sum a+b.
func Add(a, b *Tensor) (*Tensor, error) {
	if !SameShape(a, b) {
		return nil, ErrShapeMismatch
	}
	out := make([]float64, len(a.data))
	floats.AddTo(out, a.data, b.data)
	return &Tensor{shape: append([]int(nil), a.shape...), data: out}, nil
}

// Sub returns the elementwise difference a-b.
func Sub(a, b *Tensor) (*Tensor, error) {
	if !SameShape(a, b) {
		return nil, ErrShapeMismatch
	}
	out := make([]float64, len(a.data))
	floats.SubTo(out, a.data, b.data)
	return &Tensor{shape: append([]int(nil), a.shape...), data: out}, nil
}

// Scale returns a tensor with every element of a multiplied by c.
func Scale(a *Tensor, c float64) *Tensor {
	out := make([]float64, len(a.data))
	floats.ScaleTo(out, c, a.data)
	return &Tensor{shape: append([]int(nil), a.shape...), data: out}
}

// Kernel is a user-supplied binary tensor function, e.g. elementwise
// multiplication or matrix multiplication. The linear and product
// protocol operators apply kernels to reveal-in-progress shares; the
// kernel's (non-)linearity is what selects which operator may safely
// use it (see the rtas package).
type Kernel func(a, b *Tensor) (*Tensor, error)

// Mul is the elementwise-multiplication kernel.
func Mul(a, b *Tensor) (*Tensor, error) {
	if !SameShape(a, b) {
		return nil, ErrShapeMismatch
	}
	out := make([]float64, len(a.data))
	copy(out, a.data)
	floats.Mul(out, b.data)
	return &Tensor{shape: append([]int(nil), a.shape...), data: out}, nil
}

// MatMul is the matrix-multiplication kernel; both operands must be
// rank-2 and have compatible inner dimensions.
func MatMul(a, b *Tensor) (*Tensor, error) {
	if len(a.shape) != 2 || len(b.shape) != 2 {
		return nil, fmt.Errorf("tensor: MatMul requires rank-2 tensors, got %v and %v",
			a.shape, b.shape)
	}
	if a.shape[1] != b.shape[0] {
		return nil, fmt.Errorf("tensor: MatMul inner dimension mismatch %v x %v",
			a.shape, b.shape)
	}
	am := mat.NewDense(a.shape[0], a.shape[1], a.data)
	bm := mat.NewDense(b.shape[0], b.shape[1], b.data)
	var cm mat.Dense
	cm.Mul(am, bm)

	out := make([]float64, a.shape[0]*b.shape[1])
	for i := 0; i < a.shape[0]; i++ {
		for j := 0; j < b.shape[1]; j++ {
			out[i*b.shape[1]+j] = cm.At(i, j)
		}
	}
	return &Tensor{shape: []int{a.shape[0], b.shape[1]}, data: out}, nil
}

// Equal reports whether a and b have the same shape and are elementwise
// equal within tol.
func Equal(a, b *Tensor, tol float64) bool {
	if !SameShape(a, b) {
		return false
	}
	for i := range a.data {
		d := a.data[i] - b.data[i]
		if d < -tol || d > tol {
			return false
		}
	}
	return true
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v)", t.shape)
}

// GobEncode and GobDecode give Tensor a stable wire representation
// independent of the unexported field layout, so it round-trips
// through the envelope codec across process boundaries.
func (t *Tensor) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	g := gobTensor{Shape: t.shape, Data: t.data}
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores a tensor encoded by GobEncode.
func (t *Tensor) GobDecode(b []byte) error {
	var g gobTensor
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&g); err != nil {
		return err
	}
	t.shape = g.Shape
	t.data = g.Data
	return nil
}

type gobTensor struct {
	Shape []int
	Data  []float64
}
