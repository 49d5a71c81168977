//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtas

import (
	"github.com/markkurossi/rtas/envelope"
	"github.com/markkurossi/rtas/tensor"
)

func init() {
	envelope.Register(uint64(0))
	envelope.Register(&tensor.Tensor{})
	envelope.Register([]Triple{})
	envelope.Register(tripleOpening{})
}
