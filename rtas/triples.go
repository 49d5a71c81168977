//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtas

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/markkurossi/rtas/envelope"
	"github.com/markkurossi/rtas/tensor"
	"github.com/markkurossi/rtas/transport"
)

// Triple is one party's half of a Beaver triple (u, v, w) with
// w = f(u0+u1, v0+v1) for the bilinear kernel the triple was
// generated for.
type Triple struct {
	U, V, W *tensor.Tensor
}

// tripleOpening is the (d, e) = (x-u, y-v) pair compute parties
// exchange while consuming a triple.
type tripleOpening struct {
	D, E *tensor.Tensor
}

// tripleCache tracks one triple_source tag. Compute parties hold a
// stack of triples (last generated, first consumed, matching the
// reference implementation's list.pop()); P2 holds only a counter.
// shapeX/shapeY/kernelID pin the tag to one shape/kernel combination
// so a reused tag can't silently draw mismatched triples.
type tripleCache struct {
	shapeX, shapeY []int
	kernelID       string

	stack   []Triple
	counter int
}

func kernelID(f tensor.Kernel) string {
	return fmt.Sprintf("%p", f)
}

func shapesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// nextTriple pops one triple for tag off the compute party's cache,
// fetching a fresh batch from P2 first if the cache is empty.
func (e *Engine) nextTriple(tag string, shapeX, shapeY []int, f tensor.Kernel) (Triple, error) {
	id := kernelID(f)
	c, ok := e.triples[tag]
	if !ok {
		c = &tripleCache{shapeX: shapeX, shapeY: shapeY, kernelID: id}
		e.triples[tag] = c
	} else if !shapesEqual(c.shapeX, shapeX) || !shapesEqual(c.shapeY, shapeY) || c.kernelID != id {
		return Triple{}, protocolErrf("product", "triple_source %q reused with a different shape or kernel", tag)
	}

	if len(c.stack) == 0 {
		batch, err := e.recvTripleBatch("P2")
		if err != nil {
			return Triple{}, err
		}
		c.stack = append(c.stack, batch...)
		e.log.Debug("received triple batch", zap.String("tag", tag), zap.Int("count", len(batch)))
	}

	last := len(c.stack) - 1
	t := c.stack[last]
	c.stack = c.stack[:last]
	return t, nil
}

func (e *Engine) recvTripleBatch(peer transport.PartyID) ([]Triple, error) {
	obj, err := e.recv(peer, envelope.Triples)
	if err != nil {
		return nil, err
	}
	batch, ok := obj.([]Triple)
	if !ok {
		return nil, wrapErr(KindEnvelope, "product", fmt.Errorf("unexpected payload type %T", obj))
	}
	return batch, nil
}

// ensureTripleBatch runs on P2: if the tag's counter is exhausted (or
// new), it generates cached_triples fresh triples and ships one batch
// to each compute party under header triples.
func (e *Engine) ensureTripleBatch(tag string, shapeX, shapeY []int, f tensor.Kernel) error {
	c, ok := e.triples[tag]
	if !ok {
		c = &tripleCache{shapeX: shapeX, shapeY: shapeY, kernelID: kernelID(f)}
		e.triples[tag] = c
	} else if !shapesEqual(c.shapeX, shapeX) || !shapesEqual(c.shapeY, shapeY) || c.kernelID != kernelID(f) {
		return protocolErrf("product", "triple_source %q reused with a different shape or kernel", tag)
	}

	if c.counter > 0 {
		return nil
	}

	n := e.cfg.RTAS.CachedTriples
	batchP0 := make([]Triple, n)
	batchP1 := make([]Triple, n)
	for i := 0; i < n; i++ {
		t0, t1, err := e.generateTriple(shapeX, shapeY, f)
		if err != nil {
			return err
		}
		batchP0[i] = t0
		batchP1[i] = t1
	}

	if err := parallelDo(
		task("send_triples_P0", func() error { return e.send("P0", envelope.Triples, batchP0) }),
		task("send_triples_P1", func() error { return e.send("P1", envelope.Triples, batchP1) }),
	); err != nil {
		return err
	}

	c.counter = n
	e.log.Debug("sent triple batch", zap.String("tag", tag), zap.Int("count", n))
	return nil
}

// generateTriple draws one Beaver triple for the bilinear kernel f:
// u0,u1 ~ N(0,σ,shapeX), v0,v1 ~ N(0,σ,shapeY) from P2's fresh
// generator, W = f(u0+u1, v0+v1), w0 ~ N(0,σ²,shape(W)), w1 = W-w0.
func (e *Engine) generateTriple(shapeX, shapeY []int, f tensor.Kernel) (Triple, Triple, error) {
	std := e.cfg.RTAS.ShareStd

	u0 := e.fresh.Normal(0, std, shapeX)
	v0 := e.fresh.Normal(0, std, shapeY)
	u1 := e.fresh.Normal(0, std, shapeX)
	v1 := e.fresh.Normal(0, std, shapeY)

	uSum, err := tensor.Add(u0, u1)
	if err != nil {
		return Triple{}, Triple{}, protocolErr("product", err)
	}
	vSum, err := tensor.Add(v0, v1)
	if err != nil {
		return Triple{}, Triple{}, protocolErr("product", err)
	}
	w, err := f(uSum, vSum)
	if err != nil {
		return Triple{}, Triple{}, protocolErr("product", err)
	}

	w0 := e.fresh.Normal(0, std*std, w.Shape())
	w1, err := tensor.Sub(w, w0)
	if err != nil {
		return Triple{}, Triple{}, protocolErr("product", err)
	}

	return Triple{U: u0, V: v0, W: w0}, Triple{U: u1, V: v1, W: w1}, nil
}
